package scenario

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Contains fails unless actual contains expected.
func Contains(actual, expected, msg string) error {
	if strings.Contains(actual, expected) {
		return nil
	}
	return &AssertionError{Message: msg, Expected: fmt.Sprintf("text containing %q", expected), Actual: clip(actual)}
}

// NotContains fails when actual contains unexpected.
func NotContains(actual, unexpected, msg string) error {
	if !strings.Contains(actual, unexpected) {
		return nil
	}
	return &AssertionError{Message: msg, Expected: fmt.Sprintf("text without %q", unexpected), Actual: clip(actual)}
}

// NotEmpty fails when actual is blank.
func NotEmpty(actual, msg string) error {
	if strings.TrimSpace(actual) != "" {
		return nil
	}
	return &AssertionError{Message: msg, Expected: "non-empty text", Actual: actual}
}

// True fails when cond is false.
func True(cond bool, msg string) error {
	if cond {
		return nil
	}
	return &AssertionError{Message: msg, Expected: "true", Actual: "false"}
}

// Within fails unless elapsed is strictly below limit.
func Within(elapsed, limit time.Duration, msg string) error {
	if elapsed < limit {
		return nil
	}
	return &AssertionError{Message: msg, Expected: "less than " + limit.String(), Actual: elapsed.String()}
}

// clip keeps page sources readable in failure messages.
func clip(s string) string {
	const max = 300
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "... [truncated]"
}
