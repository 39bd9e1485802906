package scenario

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/v0xg/internetcheck/internal/browser"
)

const loginScript = `{
  "name": "login_ok",
  "description": "valid credentials reach the secure area",
  "steps": [
    {"action": "navigate", "path": "/login"},
    {"action": "type", "by": "id", "selector": "username", "text": "tomsmith"},
    {"action": "type", "by": "id", "selector": "password", "text": "SuperSecretPassword!"},
    {"action": "submit", "by": "css", "selector": "button[type='submit']"},
    {"action": "wait_text", "by": "class", "selector": "flash.success", "contains": "You logged into a secure area!"}
  ]
}`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(loginScript))
	require.NoError(t, err)

	assert.Equal(t, "login_ok", s.Name)
	require.Len(t, s.Steps, 5)
	assert.Equal(t, "navigate", s.Steps[0].Action)
	assert.Equal(t, "/login", s.Steps[0].Path)
	assert.Equal(t, "SuperSecretPassword!", s.Steps[2].Text)
	assert.Equal(t, "flash.success", s.Steps[4].Selector)
}

func TestScriptValidation(t *testing.T) {
	cases := []struct {
		name   string
		json   string
		errMsg string
	}{
		{"no name", `{"steps":[{"action":"refresh"}]}`, "no name"},
		{"no steps", `{"name":"x","steps":[]}`, "no steps"},
		{"unknown action", `{"name":"x","steps":[{"action":"hover","by":"id","selector":"a"}]}`, "unknown action"},
		{"bad strategy", `{"name":"x","steps":[{"action":"click","by":"xpath","selector":"//a"}]}`, "unknown locator strategy"},
		{"missing selector", `{"name":"x","steps":[{"action":"click","by":"id"}]}`, "selector required"},
		{"missing contains", `{"name":"x","steps":[{"action":"wait_text","by":"id","selector":"flash"}]}`, "contains required"},
		{"missing path", `{"name":"x","steps":[{"action":"navigate"}]}`, "path required"},
		{"bad resize", `{"name":"x","steps":[{"action":"resize","width":375}]}`, "width and height"},
		{"bad pause", `{"name":"x","steps":[{"action":"pause"}]}`, "positive wait"},
		{"absent without selector", `{"name":"x","steps":[{"action":"assert_absent","by":"id"}]}`, "selector required"},
		{"url without contains", `{"name":"x","steps":[{"action":"assert_url"}]}`, "contains required"},
		{"not json", `[{"action":"click"}]`, "failed to parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tc.json))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestScriptValidationReportsStep(t *testing.T) {
	_, err := ParseScript([]byte(`{"name":"x","steps":[{"action":"refresh"},{"action":"click","by":"id"}]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2 (click)")
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "login.json")
	require.NoError(t, os.WriteFile(path, []byte(loginScript), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, "login_ok", s.Name)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestScriptScenarioRuns(t *testing.T) {
	s, err := ParseScript([]byte(`{"name":"refresh_then_resize","steps":[
		{"action":"navigate","path":"/secure"},
		{"action":"refresh"},
		{"action":"assert_source","contains":"html"},
		{"action":"resize","width":375,"height":812}
	]}`))
	require.NoError(t, err)

	sess := newFakeSession()
	report := newRunner(sess).Run(context.Background(), []Scenario{s.Scenario()})

	require.True(t, report.OK(), "%v", report.Results[0].Err)
	assert.Contains(t, sess.visited, "http://site.test/secure")
	assert.Equal(t, [][2]int{{375, 812}, {1280, 800}}, sess.resizes)
}

func TestScriptScenarioStopsAtFirstFailure(t *testing.T) {
	s, err := ParseScript([]byte(`{"name":"missing_flash","steps":[
		{"action":"wait_text","by":"class","selector":"flash.error","contains":"invalid"},
		{"action":"navigate","path":"/never"}
	]}`))
	require.NoError(t, err)

	sess := newFakeSession()
	report := newRunner(sess).Run(context.Background(), []Scenario{s.Scenario()})

	require.Equal(t, StatusFailed, report.Results[0].Status)
	assert.ErrorIs(t, report.Results[0].Err, browser.ErrElementNotFound)
	assert.Contains(t, report.Results[0].Err.Error(), "step 1 (wait_text)")
	assert.NotContains(t, sess.visited, "http://site.test/never")
}

func TestScriptURLAndAbsenceAssertions(t *testing.T) {
	s, err := ParseScript([]byte(`{"name":"logged_out","steps":[
		{"action":"assert_url","contains":"/login"},
		{"action":"assert_absent","by":"css","selector":"a[href='/logout']"}
	]}`))
	require.NoError(t, err)

	sess := newFakeSession()
	sess.url = "http://site.test/login"
	report := newRunner(sess).Run(context.Background(), []Scenario{s.Scenario()})
	require.True(t, report.OK(), "%v", report.Results[0].Err)

	sess = newFakeSession()
	sess.url = "http://site.test/login"
	sess.present = map[string]bool{"css=a[href='/logout']": true}
	report = newRunner(sess).Run(context.Background(), []Scenario{s.Scenario()})

	var ae *AssertionError
	require.ErrorAs(t, report.Results[0].Err, &ae)
	assert.Contains(t, report.Results[0].Err.Error(), "step 2 (assert_absent)")

	sess = newFakeSession()
	sess.url = "http://site.test/secure"
	report = newRunner(sess).Run(context.Background(), []Scenario{s.Scenario()})
	require.ErrorAs(t, report.Results[0].Err, &ae)
	assert.Equal(t, "http://site.test/secure", ae.Actual)
}
