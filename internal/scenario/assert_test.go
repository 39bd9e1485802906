package scenario

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContains(t *testing.T) {
	require.NoError(t, Contains("You logged into a secure area!\n×", "You logged into a secure area!", "login"))

	err := Contains("Your username is invalid!", "You logged into a secure area!", "login")
	require.Error(t, err)

	var ae *AssertionError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "login", ae.Message)
	assert.Equal(t, `text containing "You logged into a secure area!"`, ae.Expected)
	assert.Equal(t, "Your username is invalid!", ae.Actual)
	assert.Equal(t, `login: expected text containing "You logged into a secure area!", got "Your username is invalid!"`, err.Error())
}

func TestNotContains(t *testing.T) {
	require.NoError(t, NotContains("<h2>Login Page</h2>", "Secure Area", "captcha"))
	require.Error(t, NotContains("<h2>Secure Area</h2>", "Secure Area", "captcha"))
}

func TestNotEmptyAndTrue(t *testing.T) {
	require.NoError(t, NotEmpty("content", "dynamic"))
	require.Error(t, NotEmpty(" \n\t", "dynamic"))

	require.NoError(t, True(true, "menu"))
	err := True(false, "Responsive menu is not displayed.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Responsive menu is not displayed.")
}

func TestWithin(t *testing.T) {
	require.NoError(t, Within(1200*time.Millisecond, 3*time.Second, "load"))

	err := Within(3*time.Second, 3*time.Second, "Page load time is too long")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "less than 3s")
	assert.Contains(t, err.Error(), `"3s"`)
}

func TestClipLongSource(t *testing.T) {
	source := "<html>" + strings.Repeat("<p>filler</p>\n", 100) + "</html>"
	err := Contains(source, "Secure Area", "session")

	var ae *AssertionError
	require.True(t, errors.As(err, &ae))
	assert.True(t, strings.HasSuffix(ae.Actual, "... [truncated]"))
	assert.NotContains(t, ae.Actual, "\n")
}

func TestClipKeepsMultiByteCharactersWhole(t *testing.T) {
	// "é" is two bytes and straddles the cut
	source := strings.Repeat("a", 299) + strings.Repeat("é", 10)
	got := clip(source)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 299)+"... [truncated]", got)
}

func TestEnvironmentErrorUnwraps(t *testing.T) {
	cause := errors.New("websocket closed")
	err := &EnvironmentError{Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "environment error: websocket closed", err.Error())
}
