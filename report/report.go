// Package report renders lint results in the output formats solhint
// supports.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize/english"
	"golang.org/x/term"

	"github.com/madlabman/solhint-plugin-lido-csm/lint"
	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

// Formatter writes results to w.
type Formatter interface {
	Format(w io.Writer, results []*lint.Result) error
}

// Options tune formatters that support them.
type Options struct {
	Color bool
}

var formatters = map[string]func(Options) Formatter{
	"stylish": func(o Options) Formatter { return &Stylish{Color: o.Color} },
	"unix":    func(Options) Formatter { return Unix{} },
	"compact": func(Options) Formatter { return Compact{} },
	"json":    func(Options) Formatter { return JSON{} },
}

// Get returns the formatter registered under name.
func Get(name string, opts Options) (Formatter, error) {
	f, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown formatter %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return f(opts), nil
}

// Names returns the sorted formatter names.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorEnabled reports whether ANSI colour should be written to f: it must
// be a terminal, and neither noColor nor NO_COLOR may be set.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Totals counts problems across results.
type Totals struct {
	Errors   int
	Warnings int
}

// Problems is the total number of reported problems.
func (t Totals) Problems() int { return t.Errors + t.Warnings }

// Count sums the diagnostics of all results.
func Count(results []*lint.Result) Totals {
	var t Totals
	for _, r := range results {
		if r == nil {
			continue
		}
		t.Errors += r.ErrorCount()
		t.Warnings += r.WarningCount()
	}
	return t
}

func severityLabel(s rules.Severity) string {
	if s == rules.Error {
		return "Error"
	}
	return "Warning"
}

func problems(n int) string { return english.Plural(n, "problem", "") }

// Unix prints one line per problem: file:line:col: message [Severity/rule].
type Unix struct{}

func (Unix) Format(w io.Writer, results []*lint.Result) error {
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, d := range r.Diagnostics {
			tag := severityLabel(d.Severity)
			if d.RuleID != "" {
				tag += "/" + d.RuleID
			}
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s [%s]\n", d.File, d.Line, d.Column, d.Message, tag); err != nil {
				return err
			}
		}
	}
	if n := Count(results).Problems(); n > 0 {
		_, err := fmt.Fprintf(w, "\n%s\n", problems(n))
		return err
	}
	return nil
}

// Compact prints one line per problem in the eslint compact layout.
type Compact struct{}

func (Compact) Format(w io.Writer, results []*lint.Result) error {
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, d := range r.Diagnostics {
			line := fmt.Sprintf("%s: line %d, col %d, %s - %s", d.File, d.Line, d.Column, severityLabel(d.Severity), d.Message)
			if d.RuleID != "" {
				line += " (" + d.RuleID + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	if n := Count(results).Problems(); n > 0 {
		_, err := fmt.Fprintf(w, "\n%s\n", problems(n))
		return err
	}
	return nil
}

// JSON prints the eslint-compatible JSON report.
type JSON struct{}

type jsonMessage struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	RuleID   string `json:"ruleId"`
	Fatal    bool   `json:"fatal,omitempty"`
}

type jsonResult struct {
	FilePath     string        `json:"filePath"`
	Messages     []jsonMessage `json:"messages"`
	ErrorCount   int           `json:"errorCount"`
	WarningCount int           `json:"warningCount"`
}

func (JSON) Format(w io.Writer, results []*lint.Result) error {
	out := make([]jsonResult, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		jr := jsonResult{
			FilePath:     r.File,
			Messages:     make([]jsonMessage, 0, len(r.Diagnostics)),
			ErrorCount:   r.ErrorCount(),
			WarningCount: r.WarningCount(),
		}
		for _, d := range r.Diagnostics {
			jr.Messages = append(jr.Messages, jsonMessage{
				Line:     d.Line,
				Column:   d.Column,
				Severity: int(d.Severity),
				Message:  d.Message,
				RuleID:   d.RuleID,
				Fatal:    d.Fatal,
			})
		}
		out = append(out, jr)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
