// Package doc renders rule documentation for the terminal.
//
// A RuleDoc is built from the registry metadata. The long Doc text is kept
// as written, with paragraphs separated by blank lines.
package doc

import (
	"strings"

	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

// RuleDoc holds the documentation of one rule.
type RuleDoc struct {
	ID          string // qualified, e.g. "lido-csm/vars-with-underscore"
	Description string
	Category    string
	Type        string
	Severity    rules.Severity
	Recommended bool
	Default     bool
	Paragraphs  []string
}

// Extract builds the documentation of r.
func Extract(r *rules.Rule) *RuleDoc {
	return &RuleDoc{
		ID:          r.QualifiedID(),
		Description: r.Description,
		Category:    r.Category,
		Type:        r.Type,
		Severity:    r.DefaultSeverity,
		Recommended: r.Recommended,
		Default:     r.IsDefault,
		Paragraphs:  paragraphs(r.Doc),
	}
}

// Lookup finds a registered rule by ID, prefixed or not.
func Lookup(id string) (*RuleDoc, bool) {
	r, ok := rules.Get(id)
	if !ok {
		return nil, false
	}
	return Extract(r), true
}

// paragraphs splits text on blank lines and joins each paragraph's lines
// with single spaces.
func paragraphs(text string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, " "))
			cur = nil
		}
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return out
}
