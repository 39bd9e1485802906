// Package suite holds the ordered scenarios for the-internet demo site.
package suite

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/v0xg/internetcheck/internal/browser"
	"github.com/v0xg/internetcheck/internal/scenario"
)

const (
	ValidUsername = "tomsmith"
	ValidPassword = "SuperSecretPassword!"

	LoginSuccessText  = "You logged into a secure area!"
	LogoutSuccessText = "You logged out of the secure area!"
	InvalidUserText   = "Your username is invalid!"
	SecureAreaMarker  = "Secure Area"
	NotFoundText      = "Not Found"
)

// Options tunes the scenarios that touch the local machine or measure time.
type Options struct {
	LoadBudget  time.Duration
	UploadFile  string // generated in a temp dir when empty
	DownloadDir string // temp dir when empty
}

// Scenarios returns the suite in execution order.
func Scenarios(opts Options) []scenario.Scenario {
	if opts.LoadBudget == 0 {
		opts.LoadBudget = 3 * time.Second
	}

	return []scenario.Scenario{
		{Name: "valid_login", Description: "valid credentials reach the secure area", Run: validLogin},
		{Name: "invalid_login", Description: "unknown credentials are rejected", Run: rejectedLogin("user", "pass")},
		{Name: "empty_login_fields", Description: "submitting an empty form is rejected", Run: emptyLogin},
		{Name: "navigation_links", Description: "example links open their pages and back returns home", Run: navigationLinks},
		{Name: "form_submission_valid", Description: "the login form accepts valid input", Run: validLogin},
		{Name: "form_submission_invalid", Description: "the login form rejects a missing password for an unknown user", Run: rejectedLogin("user", "")},
		{Name: "static_content_presence", Description: "header and footer are rendered", Run: staticContent},
		{Name: "special_characters_in_input", Description: "special characters are rejected as credentials", Run: rejectedLogin("!%^%^&&*()", "!@^%^&*()")},
		{Name: "responsive_design", Description: "a phone-sized viewport shows the menu toggle", Run: responsiveDesign},
		{Name: "logout", Description: "logging out returns to the login page", Run: logout},
		{Name: "session_persistence_on_refresh", Description: "the secure area survives a refresh", Run: sessionPersistence},
		{Name: "dynamic_content_api_response", Description: "dynamic content renders text", Run: dynamicContent},
		{Name: "page_load_time", Description: "the login page loads within budget", Run: pageLoadTime(opts.LoadBudget)},
		{Name: "404_error_page", Description: "unknown routes render a not found page", Run: notFoundPage},
		{Name: "file_upload", Description: "an uploaded file is listed back", Run: fileUpload(opts.UploadFile)},
		{Name: "file_download", Description: "a download link delivers a non-empty file", Run: fileDownload(opts.DownloadDir)},
		{Name: "captcha_validation", Description: "the captcha form does not let automation through", Run: captchaValidation},
		{Name: "sql_injection", Description: "injection-style input does not bypass login", Run: rejectedLogin("' OR '1'='1", "passwd")},
	}
}

func login(t *scenario.T, username, password string) error {
	if err := t.Visit("/login"); err != nil {
		return err
	}
	if err := t.Type(browser.ByID, "username", username); err != nil {
		return err
	}
	if err := t.Type(browser.ByID, "password", password); err != nil {
		return err
	}
	return t.Submit(browser.ByCSS, "button[type='submit']")
}

func validLogin(t *scenario.T) error {
	if err := login(t, ValidUsername, ValidPassword); err != nil {
		return err
	}
	text, err := t.WaitText(browser.ByClassName, "flash.success")
	if err != nil {
		return err
	}
	return scenario.Contains(text, LoginSuccessText, "success flash")
}

func rejectedLogin(username, password string) func(*scenario.T) error {
	return func(t *scenario.T) error {
		if err := login(t, username, password); err != nil {
			return err
		}
		return expectInvalidUser(t)
	}
}

func emptyLogin(t *scenario.T) error {
	if err := t.Visit("/login"); err != nil {
		return err
	}
	if err := t.Submit(browser.ByCSS, "button[type='submit']"); err != nil {
		return err
	}
	return expectInvalidUser(t)
}

func expectInvalidUser(t *scenario.T) error {
	text, err := t.WaitText(browser.ByClassName, "flash.error")
	if err != nil {
		return err
	}
	return scenario.Contains(text, InvalidUserText, "error flash")
}

func navigationLinks(t *scenario.T) error {
	pages := []struct {
		link    string
		heading string
	}{
		{"Checkboxes", "Checkboxes"},
		{"Broken Images", "Broken Images"},
		{"Dropdown", "Dropdown List"},
	}

	for i, p := range pages {
		if err := t.Submit(browser.ByLinkText, p.link); err != nil {
			return err
		}
		heading, err := t.Text(browser.ByTagName, "h3")
		if err != nil {
			return err
		}
		if err := scenario.Contains(heading, p.heading, p.link+" heading"); err != nil {
			return err
		}
		if i < len(pages)-1 {
			if err := t.Back(); err != nil {
				return err
			}
		}
	}
	return nil
}

func staticContent(t *scenario.T) error {
	if _, err := t.Find(browser.ByTagName, "header"); err != nil {
		return fmt.Errorf("header is missing: %w", err)
	}
	if _, err := t.Find(browser.ByTagName, "footer"); err != nil {
		return fmt.Errorf("footer is missing: %w", err)
	}
	return nil
}

func responsiveDesign(t *scenario.T) error {
	// iPhone 13
	if err := t.Resize(375, 812); err != nil {
		return err
	}
	if err := t.Visit("/"); err != nil {
		return err
	}
	toggle, err := t.Find(browser.ByClassName, "menu-toggle")
	if err != nil {
		return err
	}
	visible, err := toggle.Visible()
	if err != nil {
		return err
	}
	return scenario.True(visible, "Responsive menu is not displayed.")
}

func logout(t *scenario.T) error {
	if err := login(t, ValidUsername, ValidPassword); err != nil {
		return err
	}
	if err := t.Submit(browser.ByCSS, "a[href='/logout']"); err != nil {
		return err
	}
	text, err := t.WaitText(browser.ByClassName, "flash.success")
	if err != nil {
		return err
	}
	if err := scenario.Contains(text, LogoutSuccessText, "logout flash"); err != nil {
		return err
	}
	heading, err := t.Text(browser.ByTagName, "h2")
	if err != nil {
		return err
	}
	return scenario.Contains(heading, "Login Page", "page heading after logout")
}

func sessionPersistence(t *scenario.T) error {
	if err := login(t, ValidUsername, ValidPassword); err != nil {
		return err
	}
	if _, err := t.WaitText(browser.ByClassName, "flash.success"); err != nil {
		return err
	}
	if err := t.Refresh(); err != nil {
		return err
	}
	src, err := t.Source()
	if err != nil {
		return err
	}
	return scenario.Contains(src, SecureAreaMarker, "Session did not persist")
}

func dynamicContent(t *scenario.T) error {
	if err := t.Visit("/dynamic_content"); err != nil {
		return err
	}
	content, err := t.WaitText(browser.ByClassName, "example")
	if err != nil {
		return err
	}
	return scenario.NotEmpty(content, "Dynamic content did not load properly.")
}

func pageLoadTime(budget time.Duration) func(*scenario.T) error {
	return func(t *scenario.T) error {
		target := t.URL("/login")
		t.Step("time navigation to %s", target)

		// navigate directly so frame capture stays out of the measurement
		start := time.Now()
		if err := t.Session().Navigate(target); err != nil {
			return err
		}
		return scenario.Within(time.Since(start), budget, "Page load time is too long")
	}
}

func notFoundPage(t *scenario.T) error {
	if err := t.Visit("/nonexistent_page"); err != nil {
		return err
	}
	heading, err := t.Text(browser.ByTagName, "h1")
	if err != nil {
		return err
	}
	return scenario.Contains(heading, NotFoundText, "404 error page not displayed properly.")
}

func fileUpload(fixture string) func(*scenario.T) error {
	return func(t *scenario.T) error {
		path := fixture
		if path == "" {
			f, err := os.CreateTemp("", "internetcheck-upload-*.txt")
			if err != nil {
				return fmt.Errorf("failed to create upload fixture: %w", err)
			}
			_, werr := f.WriteString("internetcheck upload fixture\n")
			if cerr := f.Close(); werr == nil {
				werr = cerr
			}
			path = f.Name()
			t.Cleanup(func() error { return os.Remove(path) })
			if werr != nil {
				return fmt.Errorf("failed to write upload fixture: %w", werr)
			}
		}

		if err := t.Visit("/upload"); err != nil {
			return err
		}
		input, err := t.Find(browser.ByID, "file-upload")
		if err != nil {
			return err
		}
		t.Step("attach %s", path)
		if err := input.SetFiles(path); err != nil {
			return err
		}
		if err := t.Submit(browser.ByID, "file-submit"); err != nil {
			return err
		}
		uploaded, err := t.WaitText(browser.ByID, "uploaded-files")
		if err != nil {
			return err
		}
		return scenario.Contains(uploaded, filepath.Base(path), "File upload failed.")
	}
}

func fileDownload(dir string) func(*scenario.T) error {
	return func(t *scenario.T) error {
		target := dir
		if target == "" {
			tmp, err := os.MkdirTemp("", "internetcheck-download-*")
			if err != nil {
				return fmt.Errorf("failed to create download dir: %w", err)
			}
			target = tmp
			t.Cleanup(func() error { return os.RemoveAll(tmp) })
		}

		if err := t.Visit("/download"); err != nil {
			return err
		}
		link, err := t.Find(browser.ByCSS, "a[href*='download']")
		if err != nil {
			return err
		}
		expected, err := link.Text()
		if err != nil {
			return err
		}

		t.Step("download %s into %s", link, target)
		path, suggested, err := t.Session().Download(target, t.Timeout(), link.Click)
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("downloaded file missing: %w", err)
		}
		if err := scenario.True(info.Size() > 0, "downloaded file is empty"); err != nil {
			return err
		}
		if expected != "" && suggested != expected {
			return &scenario.AssertionError{Message: "downloaded file name", Expected: fmt.Sprintf("%q", expected), Actual: suggested}
		}
		return nil
	}
}

func captchaValidation(t *scenario.T) error {
	if err := t.Visit("/captcha"); err != nil {
		return err
	}
	if err := t.Type(browser.ByID, "username", "usr"); err != nil {
		return err
	}
	if err := t.Type(browser.ByID, "password", "pass"); err != nil {
		return err
	}
	if err := t.Submit(browser.ByID, "submit-btn"); err != nil {
		return err
	}
	src, err := t.Source()
	if err != nil {
		return err
	}
	return scenario.NotContains(src, LoginSuccessText, "captcha let an automated submission through")
}
