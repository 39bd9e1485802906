package scenario

import (
	"fmt"
	"image"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/v0xg/internetcheck/internal/browser"
)

// Session is the browser surface scenarios drive. *browser.Session implements it.
type Session interface {
	Navigate(url string) error
	Back() error
	Refresh() error
	Resize(width, height int) error
	Viewport() (int, int)
	Find(by browser.By, selector string) (*browser.Element, error)
	WaitFor(by browser.By, selector string, timeout time.Duration) (*browser.Element, error)
	Has(by browser.By, selector string) (bool, error)
	ClickAndWait(el *browser.Element) error
	Source() (string, error)
	URL() (string, error)
	Screenshot() (image.Image, error)
	Download(dir string, timeout time.Duration, trigger func() error) (path, suggested string, err error)
	Alive() bool
}

// Recorder receives a frame after every visible step of a scenario.
type Recorder interface {
	Begin(name string)
	Frame(img image.Image, cursor image.Point, click bool)
	End(name string) error
}

// Scenario is one independent check against the site
type Scenario struct {
	Name        string
	Description string
	Run         func(t *T) error
}

// T is handed to a running scenario. Its helpers log each step and feed the
// recorder; they stop at the first error, which the scenario returns.
type T struct {
	session  Session
	baseURL  string
	timeout  time.Duration
	log      zerolog.Logger
	recorder Recorder
	cursor   image.Point
	cleanups []func() error
}

// Session returns the shared browser session.
func (t *T) Session() Session {
	return t.session
}

// Timeout is the bound for explicit waits.
func (t *T) Timeout() time.Duration {
	return t.timeout
}

// URL resolves path against the base URL.
func (t *T) URL(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	return strings.TrimRight(t.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Step logs a step description.
func (t *T) Step(format string, args ...any) {
	t.log.Debug().Str("step", fmt.Sprintf(format, args...)).Msg("step")
}

// Cleanup registers fn to run after the scenario, in reverse order.
func (t *T) Cleanup(fn func() error) {
	t.cleanups = append(t.cleanups, fn)
}

// Visit navigates to path relative to the base URL.
func (t *T) Visit(path string) error {
	target := t.URL(path)
	t.Step("navigate to %s", target)
	if err := t.session.Navigate(target); err != nil {
		return err
	}
	t.capture(false)
	return nil
}

// Find locates an element within the session timeout.
func (t *T) Find(by browser.By, selector string) (*browser.Element, error) {
	t.Step("find %s=%q", by, selector)
	return t.session.Find(by, selector)
}

// Type locates an element and sends text to it. Only the length of the text
// is logged since it is often a password.
func (t *T) Type(by browser.By, selector, text string) error {
	t.Step("type %d characters into %s=%q", utf8.RuneCountInString(text), by, selector)
	el, err := t.Find(by, selector)
	if err != nil {
		return err
	}
	t.moveTo(el)
	if err := el.Input(text); err != nil {
		return err
	}
	t.capture(false)
	return nil
}

// Click locates an element and clicks it.
func (t *T) Click(by browser.By, selector string) error {
	el, err := t.Find(by, selector)
	if err != nil {
		return err
	}
	t.Step("click %s", el)
	t.moveTo(el)
	if err := el.Click(); err != nil {
		return err
	}
	t.capture(true)
	return nil
}

// Submit clicks an element that navigates (a submit button or a link) and
// waits for the next page to load.
func (t *T) Submit(by browser.By, selector string) error {
	el, err := t.Find(by, selector)
	if err != nil {
		return err
	}
	t.Step("click %s and wait for navigation", el)
	t.moveTo(el)
	if err := t.session.ClickAndWait(el); err != nil {
		return err
	}
	t.capture(true)
	return nil
}

// Text returns the text of an element found within the session timeout.
func (t *T) Text(by browser.By, selector string) (string, error) {
	el, err := t.Find(by, selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// WaitText waits up to the explicit timeout for an element and returns its text.
func (t *T) WaitText(by browser.By, selector string) (string, error) {
	t.Step("wait up to %s for %s=%q", t.timeout, by, selector)
	el, err := t.session.WaitFor(by, selector, t.timeout)
	if err != nil {
		return "", err
	}
	return el.Text()
}

// Back navigates one step back in history.
func (t *T) Back() error {
	t.Step("navigate back")
	if err := t.session.Back(); err != nil {
		return err
	}
	t.capture(false)
	return nil
}

// Refresh reloads the current page.
func (t *T) Refresh() error {
	t.Step("refresh")
	if err := t.session.Refresh(); err != nil {
		return err
	}
	t.capture(false)
	return nil
}

// Resize changes the viewport and restores the previous size when the
// scenario ends.
func (t *T) Resize(width, height int) error {
	prevW, prevH := t.session.Viewport()
	t.Step("resize viewport to %dx%d", width, height)
	if err := t.session.Resize(width, height); err != nil {
		return err
	}
	t.Cleanup(func() error { return t.session.Resize(prevW, prevH) })
	return nil
}

// Source returns the current page HTML.
func (t *T) Source() (string, error) {
	t.Step("read page source")
	return t.session.Source()
}

// Pause blocks for a fixed duration.
func (t *T) Pause(d time.Duration) {
	t.Step("pause %s", d)
	time.Sleep(d)
}

func (t *T) moveTo(el *browser.Element) {
	if t.recorder == nil {
		return
	}
	if p, err := el.Center(); err == nil {
		t.cursor = p
	}
}

func (t *T) capture(click bool) {
	if t.recorder == nil {
		return
	}
	img, err := t.session.Screenshot()
	if err != nil {
		t.log.Debug().Err(err).Msg("skipping frame")
		return
	}
	t.recorder.Frame(img, t.cursor, click)
}

func (t *T) runCleanups() error {
	var first error
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		if err := t.cleanups[i](); err != nil && first == nil {
			first = err
		}
	}
	t.cleanups = nil
	return first
}
