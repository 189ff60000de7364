// Package config loads solhint configuration files and resolves which
// rules run at which severity.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

// FileNames are searched in order when no configuration path is given.
var FileNames = []string{".solhint.json", ".solhint.yaml", ".solhint.yml", ".solhintrc"}

// Rule sets accepted in extends.
const (
	SolhintRecommended = "solhint:recommended"
	SolhintAll         = "solhint:all"
	SolhintDefault     = "solhint:default"
	PluginRecommended  = rules.Prefix + ":recommended"
)

// RuleSetting is one entry of the rules section. Options holds whatever
// follows the severity in the array form.
type RuleSetting struct {
	Severity rules.Severity
	Options  []any
}

// Config is a parsed configuration file.
type Config struct {
	Path    string
	Extends []string
	Plugins []string
	Rules   map[string]RuleSetting
}

// EnabledRule is a rule selected to run.
type EnabledRule struct {
	Rule     *rules.Rule
	Severity rules.Severity
	Options  []any
}

// Default is the configuration used when no file exists: every default
// rule at its default severity.
func Default() *Config {
	return &Config{Rules: map[string]RuleSetting{}}
}

// Find returns the first configuration file present in dir.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// Load reads and parses the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// LoadOrDefault loads path when given, otherwise the first configuration
// file found in dir, otherwise Default().
func LoadOrDefault(path, dir string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	if found, ok := Find(dir); ok {
		return Load(found)
	}
	return Default(), nil
}

type rawConfig struct {
	Extends any            `yaml:"extends"`
	Plugins any            `yaml:"plugins"`
	Rules   map[string]any `yaml:"rules"`
}

// Parse decodes JSON or YAML configuration. JSON is read as YAML.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	c := Default()
	var err error
	if raw.Extends != nil {
		if c.Extends, err = cast.ToStringSliceE(raw.Extends); err != nil {
			return nil, fmt.Errorf("extends: %w", err)
		}
	}
	if raw.Plugins != nil {
		if c.Plugins, err = cast.ToStringSliceE(raw.Plugins); err != nil {
			return nil, fmt.Errorf("plugins: %w", err)
		}
	}
	for id, v := range raw.Rules {
		setting, err := parseRuleSetting(v)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		c.Rules[id] = setting
	}
	return c, nil
}

func parseRuleSetting(v any) (RuleSetting, error) {
	if items, err := cast.ToSliceE(v); err == nil {
		if len(items) == 0 {
			return RuleSetting{}, errors.New("empty rule setting")
		}
		sev, err := rules.ParseSeverity(items[0])
		if err != nil {
			return RuleSetting{}, err
		}
		return RuleSetting{Severity: sev, Options: items[1:]}, nil
	}
	sev, err := rules.ParseSeverity(v)
	if err != nil {
		return RuleSetting{}, err
	}
	return RuleSetting{Severity: sev}, nil
}

// Resolve returns the rules to run, ordered by ID, and warnings about
// rule IDs addressed to this plugin that do not exist. When a rule is set
// under both its bare and its qualified ID, the qualified entry wins.
func (c *Config) Resolve() ([]EnabledRule, []string) {
	enabled := map[string]EnabledRule{}
	for _, r := range rules.All() {
		if c.baseline(r) {
			enabled[r.ID] = EnabledRule{Rule: r, Severity: r.DefaultSeverity}
		}
	}

	var warnings []string
	ids := make([]string, 0, len(c.Rules))
	for id := range c.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		setting := c.Rules[id]
		r, ok := rules.Get(id)
		if !ok {
			if rules.IsPluginID(id) {
				warnings = append(warnings, UnknownRule(id))
			}
			continue
		}
		if q := r.QualifiedID(); id != q {
			if _, dup := c.Rules[q]; dup {
				warnings = append(warnings, fmt.Sprintf("rule %q is configured as both %q and %q; using %q", r.ID, id, q, q))
				continue
			}
		}
		if setting.Severity == rules.Off {
			delete(enabled, r.ID)
			continue
		}
		enabled[r.ID] = EnabledRule{Rule: r, Severity: setting.Severity, Options: setting.Options}
	}

	out := make([]EnabledRule, 0, len(enabled))
	for _, e := range enabled {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rule.ID < out[j].Rule.ID })
	return out, warnings
}

// baseline reports whether r is on before the rules section is applied.
func (c *Config) baseline(r *rules.Rule) bool {
	if len(c.Extends) == 0 {
		return r.IsDefault
	}
	for _, e := range c.Extends {
		switch e {
		case SolhintAll:
			return true
		case SolhintRecommended, PluginRecommended, "plugin:" + rules.Prefix + "/recommended":
			if r.Recommended {
				return true
			}
		case SolhintDefault:
			if r.IsDefault {
				return true
			}
		}
	}
	return false
}

// UnknownRule describes an unregistered rule ID, suggesting the closest
// registered one.
func UnknownRule(id string) string {
	msg := fmt.Sprintf("unknown rule %q", id)
	if s := Suggest(rules.TrimPrefix(id), rules.Names()); s != "" {
		msg += fmt.Sprintf(" (did you mean %q?)", rules.Prefix+"/"+s)
	}
	return msg
}

// Suggest returns the candidate closest to name by edit distance, or ""
// when none is close enough to be a plausible typo.
func Suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.DistanceForStrings([]rune(strings.ToLower(name)), []rune(c), levenshtein.DefaultOptions)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(name)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
