// Package rules holds the rule registry. Rule packages register themselves
// from init(); the binary links them in with blank imports.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/madlabman/solhint-plugin-lido-csm/ast"
)

// Prefix is the plugin name rule IDs may be qualified with, as in
// lido-csm/vars-with-underscore.
const Prefix = "lido-csm"

// Severity of a reported problem.
type Severity int

const (
	Off Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Warn:
		return "warning"
	case Error:
		return "error"
	}
	return "off"
}

// ParseSeverity accepts the forms solhint configuration uses: "off",
// "warn", "warning", "error" or 0, 1, 2.
func ParseSeverity(v any) (Severity, error) {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "off":
			return Off, nil
		case "warn", "warning":
			return Warn, nil
		case "error":
			return Error, nil
		}
	}
	n, err := cast.ToIntE(v)
	if err != nil || n < int(Off) || n > int(Error) {
		return Off, fmt.Errorf("invalid severity %v", v)
	}
	return Severity(n), nil
}

// Meta describes a rule for configuration and documentation.
type Meta struct {
	ID              string
	Type            string
	Description     string
	Category        string
	DefaultSeverity Severity
	Recommended     bool
	IsDefault       bool
	// Doc is a longer, multi-line explanation rendered by the rules command.
	Doc string
}

// Reporter receives the problems a rule finds.
type Reporter interface {
	Report(node ast.Node, message string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(node ast.Node, message string)

func (f ReporterFunc) Report(node ast.Node, message string) { f(node, message) }

// Rule is a registered rule. New returns a fresh visitor for one tree walk;
// visitors are never shared between files.
type Rule struct {
	Meta
	New func(r Reporter) ast.Visitor
}

// QualifiedID returns the rule ID with the plugin prefix.
func (r *Rule) QualifiedID() string { return Prefix + "/" + r.ID }

var registry = make(map[string]*Rule)

// Register adds a rule to the global registry.
func Register(r *Rule) {
	if r.ID == "" || r.New == nil {
		panic("rules: Register with incomplete rule")
	}
	if _, dup := registry[r.ID]; dup {
		panic("rules: Register called twice for " + r.ID)
	}
	registry[r.ID] = r
}

// Get returns a registered rule by ID, with or without the plugin prefix.
func Get(id string) (*Rule, bool) {
	r, ok := registry[TrimPrefix(id)]
	return r, ok
}

// IsRule returns true if id names a registered rule.
func IsRule(id string) bool {
	_, ok := Get(id)
	return ok
}

// Names returns sorted IDs of all registered rules.
func Names() []string {
	names := make([]string, 0, len(registry))
	for id := range registry {
		names = append(names, id)
	}
	sort.Strings(names)
	return names
}

// All returns every registered rule ordered by ID.
func All() []*Rule {
	names := Names()
	all := make([]*Rule, len(names))
	for i, id := range names {
		all[i] = registry[id]
	}
	return all
}

// TrimPrefix strips the plugin prefix from a rule ID.
func TrimPrefix(id string) string {
	return strings.TrimPrefix(id, Prefix+"/")
}

// IsPluginID reports whether id is addressed to this plugin, i.e. carries
// the plugin prefix.
func IsPluginID(id string) bool {
	return strings.HasPrefix(id, Prefix+"/")
}
