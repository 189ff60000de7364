package doc

import (
	"fmt"
	"strings"

	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

const wrapWidth = 76

// FormatRule formats a rule's documentation for terminal display.
func FormatRule(d *RuleDoc) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("rule %s", d.ID))
	sb.WriteString("\n")
	if d.Description != "" {
		sb.WriteString("    ")
		sb.WriteString(d.Description)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	field := func(name, value string) {
		if value == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("  %-13s%s\n", name+":", value))
	}
	field("category", d.Category)
	field("type", d.Type)
	field("severity", d.Severity.String())
	field("recommended", yesNo(d.Recommended))
	field("default", yesNo(d.Default))

	for _, p := range d.Paragraphs {
		sb.WriteString("\n")
		for _, line := range wrap(p, wrapWidth) {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatRuleList lists rules one per line with their descriptions.
func FormatRuleList(rs []*rules.Rule) string {
	var sb strings.Builder

	sb.WriteString("Rules:\n")
	width := 0
	for _, r := range rs {
		width = max(width, len(r.QualifiedID()))
	}
	for _, r := range rs {
		line := fmt.Sprintf("  %-*s", width, r.QualifiedID())
		if r.Recommended {
			line += " *"
		} else {
			line += "  "
		}
		if r.Description != "" {
			line += " " + r.Description
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteString("\n")
	}
	sb.WriteString("\n* recommended\n")

	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// wrap breaks text into lines of at most width bytes on word boundaries.
// Words longer than width get a line of their own.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	for _, w := range strings.Fields(text) {
		if cur.Len() > 0 && cur.Len()+1+len(w) > width {
			lines = append(lines, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
