package scenario

import "fmt"

// AssertionError is an observed outcome that does not match the expected one
type AssertionError struct {
	Message  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %q", e.Message, e.Expected, e.Actual)
}

// EnvironmentError means the browser is unusable; the run cannot continue
type EnvironmentError struct {
	Err error
}

func (e *EnvironmentError) Error() string {
	return "environment error: " + e.Err.Error()
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}
