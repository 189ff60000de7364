package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize/english"

	"github.com/madlabman/solhint-plugin-lido-csm/lint"
	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

const (
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
	colorUnder  = "\033[4m"
	colorReset  = "\033[0m"
)

// Stylish is the default human-readable format: a header per file, one
// aligned row per problem and a summary line.
type Stylish struct {
	Color bool
}

func (s *Stylish) paint(code, text string) string {
	if !s.Color || text == "" {
		return text
	}
	return code + text + colorReset
}

type row struct {
	pos, severity, message, rule string
	sev                          rules.Severity
}

func (s *Stylish) Format(w io.Writer, results []*lint.Result) error {
	var sb strings.Builder
	for _, r := range results {
		if r == nil || len(r.Diagnostics) == 0 {
			continue
		}
		rows := make([]row, 0, len(r.Diagnostics))
		var wPos, wSev, wMsg int
		for _, d := range r.Diagnostics {
			rw := row{
				pos:      fmt.Sprintf("%d:%d", d.Line, d.Column),
				severity: strings.ToLower(severityLabel(d.Severity)),
				message:  d.Message,
				rule:     d.RuleID,
				sev:      d.Severity,
			}
			wPos = max(wPos, len(rw.pos))
			wSev = max(wSev, len(rw.severity))
			wMsg = max(wMsg, len(rw.message))
			rows = append(rows, rw)
		}

		sb.WriteString("\n")
		sb.WriteString(s.paint(colorUnder, r.File))
		sb.WriteString("\n")
		for _, rw := range rows {
			sevColor := colorYellow
			if rw.sev == rules.Error {
				sevColor = colorRed
			}
			// Pad before painting so escape codes do not skew the columns.
			sb.WriteString("  ")
			sb.WriteString(s.paint(colorDim, pad(rw.pos, wPos, true)))
			sb.WriteString("  ")
			sb.WriteString(s.paint(sevColor, pad(rw.severity, wSev, false)))
			sb.WriteString("  ")
			if rw.rule == "" {
				sb.WriteString(rw.message)
			} else {
				sb.WriteString(pad(rw.message, wMsg, false))
				sb.WriteString("  ")
				sb.WriteString(s.paint(colorDim, rw.rule))
			}
			sb.WriteString("\n")
		}
	}

	t := Count(results)
	if t.Problems() > 0 {
		color := colorYellow
		if t.Errors > 0 {
			color = colorRed
		}
		summary := fmt.Sprintf("✖ %s (%s, %s)",
			problems(t.Problems()),
			english.Plural(t.Errors, "error", ""),
			english.Plural(t.Warnings, "warning", ""))
		sb.WriteString("\n")
		sb.WriteString(s.paint(colorBold+color, summary))
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// pad widens text to width, on the left when right is set.
func pad(text string, width int, right bool) string {
	if len(text) >= width {
		return text
	}
	fill := strings.Repeat(" ", width-len(text))
	if right {
		return fill + text
	}
	return text + fill
}
