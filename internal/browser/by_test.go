package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBy(t *testing.T) {
	cases := map[string]By{
		"id":           ByID,
		"CSS":          ByCSS,
		"css_selector": ByCSS,
		"class":        ByClassName,
		"class_name":   ByClassName,
		"link_text":    ByLinkText,
		" tag ":        ByTagName,
	}
	for in, want := range cases {
		got, err := ParseBy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBy("xpath")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xpath")
}

func TestLocate(t *testing.T) {
	cases := []struct {
		by        By
		selector  string
		css       string
		textRegex string
	}{
		{ByID, "username", `[id="username"]`, ""},
		{ByID, `we"ird`, `[id="we\"ird"]`, ""},
		{ByCSS, "button[type='submit']", "button[type='submit']", ""},
		{ByClassName, "flash.success", ".flash.success", ""},
		{ByClassName, "flash error", ".flash.error", ""},
		{ByClassName, "menu-toggle", ".menu-toggle", ""},
		{ByTagName, "h1", "h1", ""},
		{ByLinkText, "Broken Images", "a", `^\s*Broken Images\s*$`},
		{ByLinkText, "A/B (Testing)", "a", `^\s*A/B \(Testing\)\s*$`},
	}
	for _, tc := range cases {
		loc, err := tc.by.locate(tc.selector)
		require.NoError(t, err, "%s %s", tc.by, tc.selector)
		assert.Equal(t, tc.css, loc.css, "%s %s", tc.by, tc.selector)
		assert.Equal(t, tc.textRegex, loc.textRegex, "%s %s", tc.by, tc.selector)
	}
}

func TestLocateRejectsEmptyAndUnknown(t *testing.T) {
	_, err := ByCSS.locate("  ")
	require.Error(t, err)

	_, err = By("xpath").locate("//a")
	require.Error(t, err)
}
