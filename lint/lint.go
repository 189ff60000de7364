// Package lint runs the enabled rules over Solidity files and collects
// their diagnostics.
package lint

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"slices"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	mscanner "modernc.org/scanner"

	"github.com/madlabman/solhint-plugin-lido-csm/ast"
	"github.com/madlabman/solhint-plugin-lido-csm/config"
	"github.com/madlabman/solhint-plugin-lido-csm/parser"
	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

// Diagnostic is one reported problem. Fatal marks files that could not be
// read or parsed; those carry no rule ID.
type Diagnostic struct {
	File     string
	Line     int
	Column   int
	RuleID   string
	Severity rules.Severity
	Message  string
	Fatal    bool
}

// Result holds the diagnostics of one file, ordered by position.
type Result struct {
	File        string
	Diagnostics []Diagnostic
}

// ErrorCount returns the number of error-severity diagnostics, fatal ones
// included.
func (r *Result) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == rules.Error {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity diagnostics.
func (r *Result) WarningCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == rules.Warn {
			n++
		}
	}
	return n
}

// Linter checks files against a resolved rule set.
type Linter struct {
	Rules []config.EnabledRule
}

// New resolves cfg into a Linter. The returned warnings name
// misconfigured rules.
func New(cfg *config.Config) (*Linter, []string) {
	enabled, warnings := cfg.Resolve()
	return &Linter{Rules: enabled}, warnings
}

// LintFile reads and lints one file.
func (l *Linter) LintFile(path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("reading %s: %w", path, err)
		return fatalResult(path, token.Position{}, err.Error()), err
	}
	return l.LintSource(path, src)
}

// LintSource lints src as the file name. A syntax error produces a fatal
// diagnostic in the result and is also returned.
func (l *Linter) LintSource(name string, src []byte) (*Result, error) {
	unit, comments, err := parser.ParseSource(src, name)
	if err != nil {
		pos, msg := splitError(err)
		return fatalResult(name, pos, msg), err
	}

	res := &Result{File: name}
	suppressions := NewSuppressions(ParseDirectives(comments))

	checks := make(ast.CheckChain, 0, len(l.Rules))
	for _, e := range l.Rules {
		report := rules.ReporterFunc(func(n ast.Node, msg string) {
			pos := n.Position()
			if suppressions.Suppressed(e.Rule.ID, pos.Line, pos.Column) {
				return
			}
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				File:     name,
				Line:     pos.Line,
				Column:   pos.Column,
				RuleID:   e.Rule.QualifiedID(),
				Severity: e.Severity,
				Message:  msg,
			})
		})
		checks = append(checks, ast.WalkCheck{N: e.Rule.ID, V: e.Rule.New(report)})
	}
	if err := checks.Run(unit); err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}

	slices.SortStableFunc(res.Diagnostics, func(a, b Diagnostic) int {
		if a.Line != b.Line {
			return a.Line - b.Line
		}
		return a.Column - b.Column
	})
	return res, nil
}

// LintFiles lints paths with at most jobs files in flight. Results keep
// the order of paths. Per-file failures do not stop the run; they are
// collected into the returned error while the file's result carries a
// fatal diagnostic.
func (l *Linter) LintFiles(ctx context.Context, paths []string, jobs int) ([]*Result, error) {
	if jobs < 1 {
		jobs = 1
	}
	results := make([]*Result, len(paths))

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := l.LintFile(path)
			results[i] = res
			if err != nil {
				mu.Lock()
				errs = multierror.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errs.ErrorOrNil()
}

func fatalResult(name string, pos token.Position, msg string) *Result {
	return &Result{File: name, Diagnostics: []Diagnostic{{
		File:     name,
		Line:     pos.Line,
		Column:   pos.Column,
		Severity: rules.Error,
		Message:  msg,
		Fatal:    true,
	}}}
}

// splitError separates a positioned scanner error into its position and
// bare message.
func splitError(err error) (token.Position, string) {
	var el mscanner.ErrList
	if errors.As(err, &el) && len(el) > 0 {
		return el[0].Pos, el[0].Err.Error()
	}
	return token.Position{}, err.Error()
}
