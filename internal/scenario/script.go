package scenario

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/v0xg/internetcheck/internal/browser"
)

// Step is a single scripted browser action
type Step struct {
	Action   string `json:"action"`             // navigate, type, click, submit, wait, wait_text, assert_text, assert_source, assert_visible, assert_absent, assert_url, refresh, back, resize, pause
	By       string `json:"by,omitempty"`       // id, css, class, link_text, tag
	Selector string `json:"selector,omitempty"` // Locator value for the strategy
	Text     string `json:"text,omitempty"`     // Text to type
	Contains string `json:"contains,omitempty"` // Expected substring for assertions
	Path     string `json:"path,omitempty"`     // Path or URL for navigate
	Width    int    `json:"width,omitempty"`    // Viewport width for resize
	Height   int    `json:"height,omitempty"`   // Viewport height for resize
	Duration int    `json:"wait,omitempty"`     // Pause length in ms
}

// Script is a scenario described as data
type Script struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}

// LoadScript reads and validates a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScript decodes and validates a script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step before anything runs.
func (s *Script) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("script has no name")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("script %s has no steps", s.Name)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("script %s step %d (%s): %w", s.Name, i+1, st.Action, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	needsLocator := func() error {
		if st.Selector == "" {
			return fmt.Errorf("selector required")
		}
		_, err := browser.ParseBy(st.By)
		return err
	}

	switch st.Action {
	case "navigate":
		if st.Path == "" {
			return fmt.Errorf("path required")
		}
	case "type":
		if err := needsLocator(); err != nil {
			return err
		}
	case "click", "submit", "wait", "assert_visible", "assert_absent":
		return needsLocator()
	case "wait_text", "assert_text":
		if err := needsLocator(); err != nil {
			return err
		}
		if st.Contains == "" {
			return fmt.Errorf("contains required")
		}
	case "assert_source", "assert_url":
		if st.Contains == "" {
			return fmt.Errorf("contains required")
		}
	case "resize":
		if st.Width <= 0 || st.Height <= 0 {
			return fmt.Errorf("positive width and height required")
		}
	case "pause":
		if st.Duration <= 0 {
			return fmt.Errorf("positive wait required")
		}
	case "refresh", "back":
	default:
		return fmt.Errorf("unknown action")
	}
	return nil
}

// Scenario compiles the script into a runnable scenario.
func (s *Script) Scenario() Scenario {
	steps := append([]Step(nil), s.Steps...)
	return Scenario{
		Name:        s.Name,
		Description: s.Description,
		Run: func(t *T) error {
			for i, st := range steps {
				if err := st.run(t); err != nil {
					return fmt.Errorf("step %d (%s): %w", i+1, st.Action, err)
				}
			}
			return nil
		},
	}
}

func (st Step) run(t *T) error {
	by, _ := browser.ParseBy(st.By)
	msg := fmt.Sprintf("%s %s=%q", st.Action, by, st.Selector)

	switch st.Action {
	case "navigate":
		return t.Visit(st.Path)
	case "type":
		return t.Type(by, st.Selector, st.Text)
	case "click":
		return t.Click(by, st.Selector)
	case "submit":
		return t.Submit(by, st.Selector)
	case "wait":
		_, err := t.WaitText(by, st.Selector)
		return err
	case "wait_text":
		text, err := t.WaitText(by, st.Selector)
		if err != nil {
			return err
		}
		return Contains(text, st.Contains, msg)
	case "assert_text":
		text, err := t.Text(by, st.Selector)
		if err != nil {
			return err
		}
		return Contains(text, st.Contains, msg)
	case "assert_visible":
		el, err := t.Find(by, st.Selector)
		if err != nil {
			return err
		}
		visible, err := el.Visible()
		if err != nil {
			return err
		}
		return True(visible, msg)
	case "assert_source":
		src, err := t.Source()
		if err != nil {
			return err
		}
		return Contains(src, st.Contains, "page source")
	case "assert_absent":
		has, err := t.Session().Has(by, st.Selector)
		if err != nil {
			return err
		}
		return True(!has, msg+" is absent")
	case "assert_url":
		u, err := t.Session().URL()
		if err != nil {
			return err
		}
		return Contains(u, st.Contains, "page URL")
	case "refresh":
		return t.Refresh()
	case "back":
		return t.Back()
	case "resize":
		return t.Resize(st.Width, st.Height)
	case "pause":
		t.Pause(time.Duration(st.Duration) * time.Millisecond)
		return nil
	default:
		return fmt.Errorf("unknown action")
	}
}
