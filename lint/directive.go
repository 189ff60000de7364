package lint

import (
	"slices"
	"strings"

	"github.com/madlabman/solhint-plugin-lido-csm/rules"
	"github.com/madlabman/solhint-plugin-lido-csm/scanner"
)

// DirectiveKind is one of the solhint inline comment directives.
type DirectiveKind int

const (
	Disable DirectiveKind = iota
	Enable
	DisableLine
	DisableNextLine
)

// Longest keyword first so solhint-disable-line is not read as
// solhint-disable.
var directiveKeywords = []struct {
	keyword string
	kind    DirectiveKind
}{
	{"solhint-disable-next-line", DisableNextLine},
	{"solhint-disable-line", DisableLine},
	{"solhint-disable", Disable},
	{"solhint-enable", Enable},
}

// Directive is a parsed inline directive. Rules is nil when the directive
// applies to every rule; IDs are stored without the plugin prefix.
type Directive struct {
	Kind   DirectiveKind
	Line   int
	Column int
	// EndLine is the last line of the comment, which disable-next-line
	// counts from.
	EndLine int
	Rules   []string
}

// ParseDirectives extracts the directives from a file's comments, in
// source order.
func ParseDirectives(comments []scanner.Comment) []Directive {
	var ds []Directive
	for _, c := range comments {
		kind, ruleIDs, ok := parseDirective(c.Body())
		if !ok {
			continue
		}
		ds = append(ds, Directive{
			Kind:    kind,
			Line:    c.Pos.Line,
			Column:  c.Pos.Column,
			EndLine: c.EndLine,
			Rules:   ruleIDs,
		})
	}
	return ds
}

func parseDirective(body string) (DirectiveKind, []string, bool) {
	text := strings.TrimSpace(body)
	for _, d := range directiveKeywords {
		if !strings.HasPrefix(text, d.keyword) {
			continue
		}
		rest := text[len(d.keyword):]
		if rest != "" && rest[0] != ' ' && rest[0] != '\t' && rest[0] != '\n' {
			// solhint-disabled or similar
			return 0, nil, false
		}
		return d.kind, parseRuleList(rest), true
	}
	return 0, nil, false
}

// parseRuleList splits "a, b c" into rule IDs. Text after " - " is a
// free-form explanation.
func parseRuleList(s string) []string {
	if idx := strings.Index(s, " - "); idx >= 0 {
		s = s[:idx]
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil
	}
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, rules.TrimPrefix(f))
	}
	return ids
}

// Suppressions answers whether a diagnostic is silenced by directives.
type Suppressions struct {
	directives []Directive
}

// NewSuppressions builds the suppression state for one file.
func NewSuppressions(ds []Directive) *Suppressions {
	return &Suppressions{directives: ds}
}

// Suppressed reports whether ruleID is disabled at line:col.
func (s *Suppressions) Suppressed(ruleID string, line, col int) bool {
	ruleID = rules.TrimPrefix(ruleID)
	all := false
	disabled := map[string]bool{}
	except := map[string]bool{}

	for _, d := range s.directives {
		switch d.Kind {
		case DisableLine:
			if d.Line == line && d.covers(ruleID) {
				return true
			}
			continue
		case DisableNextLine:
			if d.EndLine+1 == line && d.covers(ruleID) {
				return true
			}
			continue
		}

		// Block directives take effect after the comment.
		if d.Line > line || (d.Line == line && d.Column > col) {
			continue
		}
		switch {
		case d.Kind == Disable && d.Rules == nil:
			all = true
			clear(except)
		case d.Kind == Disable:
			for _, id := range d.Rules {
				disabled[id] = true
				delete(except, id)
			}
		case d.Kind == Enable && d.Rules == nil:
			all = false
			clear(disabled)
			clear(except)
		case d.Kind == Enable:
			for _, id := range d.Rules {
				delete(disabled, id)
				if all {
					except[id] = true
				}
			}
		}
	}
	return disabled[ruleID] || (all && !except[ruleID])
}

func (d Directive) covers(ruleID string) bool {
	return d.Rules == nil || slices.Contains(d.Rules, ruleID)
}
