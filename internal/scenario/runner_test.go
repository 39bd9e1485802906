package scenario

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"regexp"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/internetcheck/internal/browser"
)

// fakeSession records navigation and can simulate a dead browser.
type fakeSession struct {
	visited     []string
	alive       bool
	navigateErr error
	width       int
	height      int
	resizes     [][2]int
	present     map[string]bool
	url         string
}

func newFakeSession() *fakeSession {
	return &fakeSession{alive: true, width: 1280, height: 800}
}

func (f *fakeSession) Navigate(url string) error {
	f.visited = append(f.visited, url)
	return f.navigateErr
}

func (f *fakeSession) Back() error { return nil }

func (f *fakeSession) Refresh() error { return nil }

func (f *fakeSession) Resize(w, h int) error {
	f.width, f.height = w, h
	f.resizes = append(f.resizes, [2]int{w, h})
	return nil
}

func (f *fakeSession) Viewport() (int, int) { return f.width, f.height }

func (f *fakeSession) Find(by browser.By, selector string) (*browser.Element, error) {
	return nil, fmt.Errorf("%w: %s=%q", browser.ErrElementNotFound, by, selector)
}

func (f *fakeSession) WaitFor(by browser.By, selector string, _ time.Duration) (*browser.Element, error) {
	return f.Find(by, selector)
}

func (f *fakeSession) Has(by browser.By, selector string) (bool, error) {
	return f.present[string(by)+"="+selector], nil
}

func (f *fakeSession) ClickAndWait(*browser.Element) error { return nil }

func (f *fakeSession) Source() (string, error) { return "<html></html>", nil }

func (f *fakeSession) URL() (string, error) { return f.url, nil }

func (f *fakeSession) Screenshot() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (f *fakeSession) Alive() bool { return f.alive }

func (f *fakeSession) Download(string, time.Duration, func() error) (string, string, error) {
	return "", "", errors.New("not supported")
}

type fakeRecorder struct {
	begun  []string
	ended  []string
	frames int
}

func (r *fakeRecorder) Begin(name string) { r.begun = append(r.begun, name) }

func (r *fakeRecorder) Frame(image.Image, image.Point, bool) { r.frames++ }

func (r *fakeRecorder) End(name string) error {
	r.ended = append(r.ended, name)
	return nil
}

func newRunner(s Session) *Runner {
	return &Runner{
		Session: s,
		BaseURL: "http://site.test",
		Timeout: time.Second,
		Log:     zerolog.Nop(),
	}
}

func pass(name string) Scenario {
	return Scenario{Name: name, Run: func(*T) error { return nil }}
}

func TestRunnerRunsInOrderAndResetsToBase(t *testing.T) {
	sess := newFakeSession()
	var order []string
	track := func(name string) Scenario {
		return Scenario{Name: name, Run: func(t *T) error {
			order = append(order, name)
			return t.Visit("/" + name)
		}}
	}

	report := newRunner(sess).Run(context.Background(), []Scenario{track("a"), track("b")})

	require.True(t, report.OK())
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, []string{
		"http://site.test", "http://site.test/a",
		"http://site.test", "http://site.test/b",
	}, sess.visited)
	assert.Equal(t, 2, report.Count(StatusPassed))
}

func TestRunnerFailureDoesNotStopRun(t *testing.T) {
	sess := newFakeSession()
	missing := Scenario{Name: "missing", Run: func(t *T) error {
		_, err := t.WaitText(browser.ByClassName, "flash.success")
		return err
	}}

	report := newRunner(sess).Run(context.Background(), []Scenario{missing, pass("after")})

	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.ErrorIs(t, report.Results[0].Err, browser.ErrElementNotFound)
	assert.Equal(t, StatusPassed, report.Results[1].Status)
	assert.Nil(t, report.Fatal)
	assert.False(t, report.OK())
}

func TestRunnerAssertionFailure(t *testing.T) {
	sc := Scenario{Name: "assert", Run: func(*T) error {
		return Contains("Your username is invalid!", "You logged into a secure area!", "login")
	}}

	report := newRunner(newFakeSession()).Run(context.Background(), []Scenario{sc})

	var ae *AssertionError
	require.ErrorAs(t, report.Results[0].Err, &ae)
	assert.Equal(t, "Your username is invalid!", ae.Actual)
}

func TestRunnerAbortsOnEnvironmentError(t *testing.T) {
	sess := newFakeSession()
	crash := Scenario{Name: "crash", Run: func(*T) error {
		sess.alive = false
		return errors.New("websocket: close 1006")
	}}

	report := newRunner(sess).Run(context.Background(), []Scenario{crash, pass("next"), pass("last")})

	var envErr *EnvironmentError
	require.ErrorAs(t, report.Fatal, &envErr)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
	assert.Equal(t, StatusSkipped, report.Results[2].Status)
	assert.False(t, report.OK())
}

func TestRunnerSetupFailureWithDeadBrowserIsFatal(t *testing.T) {
	sess := newFakeSession()
	sess.navigateErr = errors.New("connection refused")
	sess.alive = false

	report := newRunner(sess).Run(context.Background(), []Scenario{pass("a"), pass("b")})

	require.NotNil(t, report.Fatal)
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
}

func TestRunnerUnreachableBaseIsFatalWithLiveBrowser(t *testing.T) {
	sess := newFakeSession()
	sess.navigateErr = errors.New("net::ERR_NAME_NOT_RESOLVED")

	report := newRunner(sess).Run(context.Background(), []Scenario{pass("a"), pass("b")})

	var envErr *EnvironmentError
	require.ErrorAs(t, report.Fatal, &envErr)
	assert.Contains(t, envErr.Error(), "ERR_NAME_NOT_RESOLVED")
	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
}

func TestRunnerInterruptIsNotAnEnvironmentError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := newFakeSession()
	interrupted := Scenario{Name: "interrupted", Run: func(*T) error {
		cancel()
		// the browser is bound to the same context and goes down with it
		sess.alive = false
		return ctx.Err()
	}}

	report := newRunner(sess).Run(ctx, []Scenario{interrupted, pass("next")})

	assert.Nil(t, report.Fatal)
	require.Len(t, report.Results, 2)
	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)
	assert.Contains(t, report.Results[0].Err.Error(), "interrupted")
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
	assert.Equal(t, 0, report.Count(StatusFailed))
}

func TestTypeDoesNotLogTypedText(t *testing.T) {
	var buf bytes.Buffer
	r := newRunner(newFakeSession())
	r.Log = zerolog.New(&buf).Level(zerolog.DebugLevel)

	login := Scenario{Name: "login", Run: func(t *T) error {
		return t.Type(browser.ByID, "password", "SuperSecretPassword!")
	}}
	r.Run(context.Background(), []Scenario{login})

	assert.NotContains(t, buf.String(), "SuperSecretPassword!")
	assert.Contains(t, buf.String(), "type 20 characters into id=")
}

func TestRunnerRecoversPanics(t *testing.T) {
	boom := Scenario{Name: "boom", Run: func(*T) error { panic("nil element") }}

	report := newRunner(newFakeSession()).Run(context.Background(), []Scenario{boom, pass("after")})

	assert.Equal(t, StatusFailed, report.Results[0].Status)
	assert.Contains(t, report.Results[0].Err.Error(), "nil element")
	assert.Equal(t, StatusPassed, report.Results[1].Status)
}

func TestRunnerFilter(t *testing.T) {
	r := newRunner(newFakeSession())
	r.Filter = regexp.MustCompile("login")

	report := r.Run(context.Background(), []Scenario{pass("valid_login"), pass("logout"), pass("invalid_login")})

	assert.Equal(t, StatusPassed, report.Results[0].Status)
	assert.Equal(t, StatusSkipped, report.Results[1].Status)
	assert.Equal(t, StatusPassed, report.Results[2].Status)
	assert.True(t, report.OK())
}

func TestRunnerCancelledContextSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newRunner(newFakeSession()).Run(ctx, []Scenario{pass("a")})

	assert.Equal(t, StatusSkipped, report.Results[0].Status)
	assert.ErrorIs(t, report.Results[0].Err, context.Canceled)
}

func TestRunnerRestoresViewportAfterResize(t *testing.T) {
	sess := newFakeSession()
	responsive := Scenario{Name: "responsive", Run: func(t *T) error {
		return t.Resize(375, 812)
	}}

	report := newRunner(sess).Run(context.Background(), []Scenario{responsive})

	require.True(t, report.OK())
	assert.Equal(t, [][2]int{{375, 812}, {1280, 800}}, sess.resizes)
	w, h := sess.Viewport()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 800, h)
}

func TestRunnerFeedsRecorder(t *testing.T) {
	rec := &fakeRecorder{}
	r := newRunner(newFakeSession())
	r.Recorder = rec

	visit := Scenario{Name: "visit", Run: func(t *T) error { return t.Visit("/login") }}
	r.Run(context.Background(), []Scenario{visit})

	assert.Equal(t, []string{"visit"}, rec.begun)
	assert.Equal(t, []string{"visit"}, rec.ended)
	assert.Equal(t, 2, rec.frames)
}

func TestRunnerLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	r := newRunner(newFakeSession())
	r.Log = zerolog.New(&buf)

	r.Run(context.Background(), []Scenario{pass("valid_login")})

	out := buf.String()
	assert.Contains(t, out, `"scenario":"valid_login"`)
	assert.Contains(t, out, `"message":"passed"`)
	assert.Contains(t, out, `"passed":1`)
}

func TestTURL(t *testing.T) {
	tt := &T{baseURL: "https://the-internet.herokuapp.com/"}

	assert.Equal(t, "https://the-internet.herokuapp.com/login", tt.URL("/login"))
	assert.Equal(t, "https://the-internet.herokuapp.com/login", tt.URL("login"))
	assert.Equal(t, "http://other.test/x", tt.URL("http://other.test/x"))
}
