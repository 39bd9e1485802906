package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrElementNotFound is returned when a lookup or wait expires before the
// element shows up.
var ErrElementNotFound = errors.New("element not found")

// ErrTimeout is returned when an element was found but did not become usable
// (enabled, uncovered, writable) within the session timeout.
var ErrTimeout = errors.New("timed out")

// Options configures the browser session
type Options struct {
	Width      int
	Height     int
	Headless   bool
	Timeout    time.Duration // Bound for element lookups and page loads
	BrowserBin string        // Chrome/Chromium binary, looked up when empty
	ControlURL string        // DevTools URL of an already running browser
}

// Session wraps the Rod browser and the single page every scenario drives
type Session struct {
	ctx      context.Context
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
	timeout  time.Duration
	width    int
	height   int
}

// Launch starts (or connects to) a browser and opens the page scenarios share.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	s := &Session{ctx: ctx, timeout: opts.Timeout}

	controlURL := opts.ControlURL
	if controlURL == "" {
		path := opts.BrowserBin
		if path == "" {
			path, _ = launcher.LookPath()
		}
		l := launcher.New().Context(ctx).Headless(opts.Headless)
		if path != "" {
			l = l.Bin(path)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		s.launcher = l
		controlURL = u
	}

	s.browser = rod.New().ControlURL(controlURL).Context(ctx)
	if err := s.browser.Connect(); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	s.page = page

	if err := s.Resize(opts.Width, opts.Height); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close cleans up browser resources
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
}

// Timeout returns the implicit bound used by Find and page loads.
func (s *Session) Timeout() time.Duration {
	return s.timeout
}

// Alive reports whether the browser still answers over the DevTools protocol.
func (s *Session) Alive() bool {
	if s.browser == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	_, err := s.browser.Context(ctx).Version()
	return err == nil
}

// bounded returns the page bound to a context that expires after d.
func (s *Session) bounded(d time.Duration) (*rod.Page, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(s.ctx, d)
	return s.page.Context(ctx), cancel
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(url string) error {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page %s did not load: %w", url, err)
	}
	return nil
}

// Back goes one entry back in history.
func (s *Session) Back() error {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	if err := p.NavigateBack(); err != nil {
		return fmt.Errorf("failed to navigate back: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page did not load after navigating back: %w", err)
	}
	return nil
}

// Refresh reloads the current page.
func (s *Session) Refresh() error {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	if err := p.Reload(); err != nil {
		return fmt.Errorf("failed to reload page: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page did not load after refresh: %w", err)
	}
	return nil
}

// Resize sets the viewport, which drives CSS media queries.
func (s *Session) Resize(width, height int) error {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to set viewport %dx%d: %w", width, height, err)
	}
	s.width, s.height = width, height
	return nil
}

// Viewport returns the current viewport size.
func (s *Session) Viewport() (int, int) {
	return s.width, s.height
}

// Find locates an element, waiting up to the session timeout for it.
func (s *Session) Find(by By, selector string) (*Element, error) {
	return s.WaitFor(by, selector, s.timeout)
}

// WaitFor waits up to timeout for an element to be present in the DOM.
func (s *Session) WaitFor(by By, selector string, timeout time.Duration) (*Element, error) {
	loc, err := by.locate(selector)
	if err != nil {
		return nil, err
	}

	p, cancel := s.bounded(timeout)
	defer cancel()

	var el *rod.Element
	if loc.textRegex != "" {
		el, err = p.ElementR(loc.css, loc.textRegex)
	} else {
		el, err = p.Element(loc.css)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s=%q after %s", ErrElementNotFound, by, selector, timeout)
		}
		return nil, fmt.Errorf("failed to find %s=%q: %w", by, selector, err)
	}

	// detach from the lookup deadline; each action on the handle sets its own
	return &Element{el: el.Context(s.ctx), session: s, by: by, selector: selector}, nil
}

// Has reports whether an element is present right now, without waiting.
func (s *Session) Has(by By, selector string) (bool, error) {
	loc, err := by.locate(selector)
	if err != nil {
		return false, err
	}

	p, cancel := s.bounded(s.timeout)
	defer cancel()

	var has bool
	if loc.textRegex != "" {
		has, _, err = p.HasR(loc.css, loc.textRegex)
	} else {
		has, _, err = p.Has(loc.css)
	}
	if err != nil {
		return false, fmt.Errorf("failed to query %s=%q: %w", by, selector, err)
	}
	return has, nil
}

// ClickAndWait clicks el and waits for the navigation it triggers to load.
func (s *Session) ClickAndWait(el *Element) error {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	wait := p.WaitNavigation(proto.PageLifecycleEventNameLoad)
	if err := el.Click(); err != nil {
		return err
	}
	wait()
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page did not load after clicking %s=%q: %w", el.by, el.selector, err)
	}
	return nil
}

// Source returns the current page's HTML.
func (s *Session) Source() (string, error) {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	html, err := p.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page source: %w", err)
	}
	return html, nil
}

// URL returns the address of the current page.
func (s *Session) URL() (string, error) {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	info, err := p.Info()
	if err != nil {
		return "", fmt.Errorf("failed to read page info: %w", err)
	}
	return info.URL, nil
}

// Screenshot captures the viewport.
func (s *Session) Screenshot() (image.Image, error) {
	p, cancel := s.bounded(s.timeout)
	defer cancel()

	quality := 90
	data, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatPng,
		Quality: &quality,
	})
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Download runs trigger and waits up to timeout for the browser to finish the
// download it starts. The file is saved in dir; its path and the name the
// server suggested are returned.
func (s *Session) Download(dir string, timeout time.Duration, trigger func() error) (path, suggested string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create download dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	wait := s.browser.Context(ctx).WaitDownload(dir)
	if err := trigger(); err != nil {
		return "", "", err
	}

	info := wait()
	if info == nil || ctx.Err() != nil {
		return "", "", fmt.Errorf("download did not complete within %s", timeout)
	}
	return filepath.Join(dir, info.GUID), info.SuggestedFilename, nil
}

func isNotFound(err error) bool {
	var notFound *rod.ElementNotFoundError
	return errors.Is(err, context.DeadlineExceeded) || errors.As(err, &notFound)
}
