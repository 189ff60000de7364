package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madlabman/solhint-plugin-lido-csm/rules"
	_ "github.com/madlabman/solhint-plugin-lido-csm/rules/naming"
)

const ruleID = "vars-with-underscore"

func resolve(t *testing.T, src string) ([]EnabledRule, []string) {
	t.Helper()
	c, err := Parse([]byte(src))
	require.NoError(t, err)
	return c.Resolve()
}

func TestParseJSON(t *testing.T) {
	c, err := Parse([]byte(`{
  "extends": "solhint:recommended",
  "plugins": ["lido-csm"],
  "rules": {
    "lido-csm/vars-with-underscore": ["error", {"strict": true}],
    "max-line-length": ["warn", 120],
    "no-console": "off"
  }
}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"solhint:recommended"}, c.Extends)
	assert.Equal(t, []string{"lido-csm"}, c.Plugins)

	s := c.Rules["lido-csm/vars-with-underscore"]
	assert.Equal(t, rules.Error, s.Severity)
	require.Len(t, s.Options, 1)
	assert.Equal(t, map[string]any{"strict": true}, s.Options[0])

	assert.Equal(t, rules.Warn, c.Rules["max-line-length"].Severity)
	assert.Equal(t, []any{120}, c.Rules["max-line-length"].Options)
	assert.Equal(t, rules.Off, c.Rules["no-console"].Severity)
}

func TestParseYAML(t *testing.T) {
	c, err := Parse([]byte(`
extends:
  - solhint:all
rules:
  lido-csm/vars-with-underscore: 1
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"solhint:all"}, c.Extends)
	assert.Equal(t, rules.Warn, c.Rules["lido-csm/vars-with-underscore"].Severity)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"syntax", `{"rules": `, "parsing config"},
		{"bad severity", `{"rules": {"lido-csm/vars-with-underscore": "loud"}}`, `rule "lido-csm/vars-with-underscore": invalid severity loud`},
		{"empty array", `{"rules": {"x": []}}`, `rule "x": empty rule setting`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResolveDefaults(t *testing.T) {
	enabled, warnings := Default().Resolve()
	assert.Empty(t, warnings)
	require.Len(t, enabled, 1)
	assert.Equal(t, ruleID, enabled[0].Rule.ID)
	assert.Equal(t, rules.Warn, enabled[0].Severity)
}

func TestResolveExtends(t *testing.T) {
	for _, ext := range []string{"solhint:recommended", "lido-csm:recommended", "plugin:lido-csm/recommended", "solhint:all", "solhint:default"} {
		enabled, _ := resolve(t, `{"extends": "`+ext+`"}`)
		require.Len(t, enabled, 1, ext)
		assert.Equal(t, rules.Warn, enabled[0].Severity, ext)
	}

	enabled, _ := resolve(t, `{"extends": "some-other:config"}`)
	assert.Empty(t, enabled)
}

func TestResolveRuleOverrides(t *testing.T) {
	enabled, _ := resolve(t, `{"rules": {"lido-csm/vars-with-underscore": "error"}}`)
	require.Len(t, enabled, 1)
	assert.Equal(t, rules.Error, enabled[0].Severity)

	enabled, _ = resolve(t, `{"rules": {"vars-with-underscore": 2}}`)
	require.Len(t, enabled, 1)
	assert.Equal(t, rules.Error, enabled[0].Severity)

	enabled, _ = resolve(t, `{"extends": "solhint:all", "rules": {"lido-csm/vars-with-underscore": "off"}}`)
	assert.Empty(t, enabled)
}

func TestResolveUnknownRules(t *testing.T) {
	_, warnings := resolve(t, `{"rules": {
		"lido-csm/vars-with-underscor": "warn",
		"lido-csm/completely-different": "warn",
		"no-empty-blocks": "warn"
	}}`)
	assert.Equal(t, []string{
		`unknown rule "lido-csm/completely-different"`,
		`unknown rule "lido-csm/vars-with-underscor" (did you mean "lido-csm/vars-with-underscore"?)`,
	}, warnings)
}

func TestResolveBareAndQualifiedID(t *testing.T) {
	enabled, warnings := resolve(t, `{"rules": {
		"lido-csm/vars-with-underscore": "error",
		"vars-with-underscore": "off"
	}}`)
	require.Len(t, enabled, 1)
	assert.Equal(t, rules.Error, enabled[0].Severity)
	assert.Equal(t, []string{
		`rule "vars-with-underscore" is configured as both "vars-with-underscore" and "lido-csm/vars-with-underscore"; using "lido-csm/vars-with-underscore"`,
	}, warnings)

	enabled, warnings = resolve(t, `{"extends": "solhint:all", "rules": {
		"lido-csm/vars-with-underscore": "off",
		"vars-with-underscore": "error"
	}}`)
	assert.Empty(t, enabled)
	assert.Len(t, warnings, 1)
}

func TestSuggest(t *testing.T) {
	candidates := []string{"vars-with-underscore", "func-name"}
	assert.Equal(t, "vars-with-underscore", Suggest("vars-with-underscores", candidates))
	assert.Equal(t, "vars-with-underscore", Suggest("Vars-With-Underscore", candidates))
	assert.Equal(t, "func-name", Suggest("fnc-name", candidates))
	assert.Empty(t, Suggest("reentrancy", candidates))
	assert.Empty(t, Suggest("x", nil))
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	_, ok := Find(dir)
	assert.False(t, ok)

	c, err := LoadOrDefault("", dir)
	require.NoError(t, err)
	assert.Empty(t, c.Path)

	yml := filepath.Join(dir, ".solhint.yml")
	require.NoError(t, os.WriteFile(yml, []byte("extends: solhint:all\n"), 0o644))
	json := filepath.Join(dir, ".solhint.json")
	require.NoError(t, os.WriteFile(json, []byte(`{"extends": "solhint:recommended"}`), 0o644))

	found, ok := Find(dir)
	require.True(t, ok)
	assert.Equal(t, json, found)

	c, err = LoadOrDefault("", dir)
	require.NoError(t, err)
	assert.Equal(t, json, c.Path)
	assert.Equal(t, []string{"solhint:recommended"}, c.Extends)

	c, err = LoadOrDefault(yml, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"solhint:all"}, c.Extends)

	_, err = Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
