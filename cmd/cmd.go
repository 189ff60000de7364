package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v3"

	"github.com/madlabman/solhint-plugin-lido-csm/cmd/dev"
	"github.com/madlabman/solhint-plugin-lido-csm/config"
	"github.com/madlabman/solhint-plugin-lido-csm/doc"
	"github.com/madlabman/solhint-plugin-lido-csm/lint"
	"github.com/madlabman/solhint-plugin-lido-csm/parser"
	"github.com/madlabman/solhint-plugin-lido-csm/report"
	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

// Execute runs the csmlint CLI with the given version string.
// Rule packages must be linked in via blank imports before calling this
// function so they register via init().
func Execute(version string) {
	err := New(version, os.Stdout, os.Stderr).Run(context.Background(), os.Args)
	if err == nil {
		return
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		if msg := err.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(ec.ExitCode())
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

// New builds the command tree writing to stdout and stderr. Errors are
// returned from Run instead of exiting the process.
func New(version string, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:                   "csmlint",
		Usage:                  "Lint Solidity sources with the lido-csm solhint rules",
		Version:                version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		ExitErrHandler:         func(context.Context, *cli.Command, error) {},
		// Allow `csmlint contracts/` as shorthand for `csmlint lint contracts/`
		Flags: lintFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				return lintAction(ctx, cmd)
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "lint",
				Usage:     "Lint .sol files, directories or globs",
				ArgsUsage: "<file.sol | directory | glob>...",
				Flags:     lintFlags(),
				Action:    lintAction,
			},
			{
				Name:      "ast",
				Usage:     "Dump the parsed syntax tree of a .sol file",
				ArgsUsage: "<file.sol>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "depth",
						Aliases: []string{"d"},
						Usage:   "Maximum nesting depth to print (0 = unlimited)",
					},
				},
				Action: astAction,
			},
			{
				Name:      "rules",
				Usage:     "List rules or show the documentation of one",
				ArgsUsage: "[rule-id]",
				Action:    rulesAction,
			},
			dev.Command(),
		},
	}
}

func lintFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file (default: first of " + strings.Join(config.FileNames, ", ") + " found)",
		},
		&cli.StringFlag{
			Name:    "formatter",
			Aliases: []string{"f"},
			Usage:   "Output format: stylish, unix, compact or json",
			Value:   "stylish",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Report errors only",
		},
		&cli.IntFlag{
			Name:    "max-warnings",
			Aliases: []string{"w"},
			Usage:   "Exit with status 1 when warnings exceed this number (-1 = no limit)",
			Value:   -1,
		},
		&cli.IntFlag{
			Name:    "jobs",
			Aliases: []string{"j"},
			Usage:   "Files linted in parallel",
			Value:   runtime.NumCPU(),
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable ANSI color output",
		},
	}
}

func lintAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csmlint lint [flags] <file.sol | directory | glob>...")
	}
	stdout, stderr := cmd.Root().Writer, cmd.Root().ErrWriter

	formatter, err := report.Get(cmd.String("formatter"), report.Options{
		Color: colorEnabled(stdout, cmd.Bool("no-color")),
	})
	if err != nil {
		return err
	}

	files, err := CollectFiles(cmd.Args().Slice())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .sol files found")
	}

	cfg, err := config.LoadOrDefault(cmd.String("config"), ".")
	if err != nil {
		return err
	}
	linter, warnings := lint.New(cfg)
	for _, w := range warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	results, err := linter.LintFiles(ctx, files, cmd.Int("jobs"))
	// Per-file failures already show up as fatal diagnostics.
	var merr *multierror.Error
	if err != nil && !errors.As(err, &merr) {
		return err
	}

	totals := report.Count(results)
	if cmd.Bool("quiet") {
		results = errorsOnly(results)
	}
	if err := formatter.Format(stdout, results); err != nil {
		return err
	}

	if totals.Errors > 0 {
		return cli.Exit("", 1)
	}
	if limit := cmd.Int("max-warnings"); limit >= 0 && totals.Warnings > limit {
		return cli.Exit(fmt.Sprintf("csmlint found too many warnings (maximum: %d).", limit), 1)
	}
	return nil
}

func errorsOnly(results []*lint.Result) []*lint.Result {
	out := make([]*lint.Result, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		kept := &lint.Result{File: r.File}
		for _, d := range r.Diagnostics {
			if d.Severity == rules.Error {
				kept.Diagnostics = append(kept.Diagnostics, d)
			}
		}
		out = append(out, kept)
	}
	return out
}

func colorEnabled(w io.Writer, noColor bool) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return report.ColorEnabled(f, noColor)
}

func astAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csmlint ast <file.sol>")
	}
	unit, _, err := parser.ParseFile(cmd.Args().First())
	if err != nil {
		return err
	}
	cfg := spew.ConfigState{
		Indent:                  "  ",
		MaxDepth:                cmd.Int("depth"),
		DisablePointerAddresses: true,
		DisableCapacities:       true,
	}
	cfg.Fdump(cmd.Root().Writer, unit)
	return nil
}

func rulesAction(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if cmd.NArg() < 1 {
		_, err := io.WriteString(w, doc.FormatRuleList(rules.All()))
		return err
	}
	id := cmd.Args().First()
	d, ok := doc.Lookup(id)
	if !ok {
		return errors.New(config.UnknownRule(id))
	}
	_, err := io.WriteString(w, doc.FormatRule(d))
	return err
}
