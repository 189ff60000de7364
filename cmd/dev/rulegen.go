// Package dev implements developer tooling subcommands for csmlint.
package dev

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/urfave/cli/v3"
	"golang.org/x/tools/imports"
)

const modulePath = "github.com/madlabman/solhint-plugin-lido-csm"

// Command returns the "dev" CLI command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Developer tools for csmlint",
		Commands: []*cli.Command{
			rulegenCommand(),
		},
	}
}

func rulegenCommand() *cli.Command {
	return &cli.Command{
		Name:      "rulegen",
		Usage:     "Scaffold a new rule with a fixture",
		ArgsUsage: "<rule-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "type",
				Usage: "Rule type; also the package under rules/",
				Value: "naming",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "One-line rule description",
			},
			&cli.StringFlag{
				Name:  "category",
				Usage: "Documentation category",
				Value: "Style Guide Rules",
			},
		},
		Action: rulegenAction,
	}
}

var (
	validRuleID  = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	validPkgName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
)

// RuleInfo describes the rule to scaffold.
type RuleInfo struct {
	ID          string
	Pkg         string
	Description string
	Category    string
}

type rulegenData struct {
	RuleInfo
	Type   string
	Module string
}

func rulegenAction(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: csmlint dev rulegen <rule-id> [--type naming] [--description text]")
	}
	info := RuleInfo{
		ID:          cmd.Args().First(),
		Pkg:         cmd.String("type"),
		Description: cmd.String("description"),
		Category:    cmd.String("category"),
	}
	out := cmd.Root().Writer

	created, err := Generate(".", info)
	if err != nil {
		return err
	}
	for _, path := range created {
		fmt.Fprintf(out, "Created %s\n", path)
	}

	if err := addBlankImport(filepath.Join(".", "main.go"), info.Pkg); err != nil {
		fmt.Fprintf(cmd.Root().ErrWriter, "Warning: could not update main.go: %v\n", err)
		fmt.Fprintf(out, "Add manually: _ %q\n", modulePath+"/rules/"+info.Pkg)
	} else {
		fmt.Fprintln(out, "Added import to main.go")
	}

	fmt.Fprintf(out, "\nImplement the checks in %s and list the expected diagnostics in the fixture\n", created[0])
	return nil
}

// Generate writes the rule source and its txtar fixture under root and
// returns the created paths. Existing files are never overwritten.
func Generate(root string, info RuleInfo) ([]string, error) {
	if !validRuleID.MatchString(info.ID) {
		return nil, fmt.Errorf("invalid rule id %q: must be lowercase words separated by dashes", info.ID)
	}
	if !validPkgName.MatchString(info.Pkg) {
		return nil, fmt.Errorf("invalid rule type %q: must be lowercase alphanumeric with underscores", info.Pkg)
	}
	if info.Description == "" {
		info.Description = "TODO: describe " + info.ID + "."
	}

	dir := filepath.Join(root, "rules", info.Pkg)
	base := strings.ReplaceAll(info.ID, "-", "_")
	data := rulegenData{RuleInfo: info, Type: toPascalCase(info.ID), Module: modulePath}

	files := []struct {
		path   string
		tmpl   string
		format bool
	}{
		{filepath.Join(dir, base+".go"), ruleTmpl, true},
		{filepath.Join(dir, "testdata", base+".txtar"), fixtureTmpl, false},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err == nil {
			return nil, fmt.Errorf("%s already exists", f.path)
		}
	}

	var created []string
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return created, fmt.Errorf("creating directory: %w", err)
		}
		src, err := render(f.tmpl, data)
		if err != nil {
			return created, err
		}
		if f.format {
			src, err = imports.Process(f.path, src, &imports.Options{FormatOnly: true, Comments: true, TabIndent: true, TabWidth: 8})
			if err != nil {
				return created, fmt.Errorf("formatting %s: %w", f.path, err)
			}
		}
		if err := os.WriteFile(f.path, src, 0o644); err != nil {
			return created, fmt.Errorf("writing %s: %w", f.path, err)
		}
		created = append(created, f.path)
	}
	return created, nil
}

func toPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' })
	for i, p := range parts {
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func render(tmplStr string, data rulegenData) ([]byte, error) {
	t, err := template.New("").Parse(tmplStr)
	if err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template: %w", err)
	}
	return buf.Bytes(), nil
}

// addBlankImport links the rules package pkg into the binary's main.go.
func addBlankImport(mainPath, pkg string) error {
	data, err := os.ReadFile(mainPath)
	if err != nil {
		return err
	}

	prefix := "_ \"" + modulePath + "/rules/"
	importLine := "\t" + prefix + pkg + "\""
	content := string(data)
	if strings.Contains(content, importLine) {
		return nil
	}

	// Insert after the last rules import.
	lines := strings.Split(content, "\n")
	last := -1
	for i, line := range lines {
		if strings.Contains(line, prefix) {
			last = i
		}
	}
	if last < 0 {
		return fmt.Errorf("could not find insertion point in %s", mainPath)
	}
	lines = append(lines[:last+1], append([]string{importLine}, lines[last+1:]...)...)

	return os.WriteFile(mainPath, []byte(strings.Join(lines, "\n")), 0o644)
}

var ruleTmpl = `package {{.Pkg}}

import (
	"{{.Module}}/ast"
	"{{.Module}}/rules"
)

func init() {
	rules.Register(&rules.Rule{
		Meta: rules.Meta{
			ID:              {{printf "%q" .ID}},
			Type:            {{printf "%q" .Pkg}},
			Description:     {{printf "%q" .Description}},
			Category:        {{printf "%q" .Category}},
			DefaultSeverity: rules.Warn,
		},
		New: func(r rules.Reporter) ast.Visitor { return &{{.Type}}{reporter: r} },
	})
}

// {{.Type}} implements {{.ID}}.
type {{.Type}} struct {
	reporter rules.Reporter
}

func (c *{{.Type}}) Enter(n ast.Node) {
	switch nd := n.(type) {
	case *ast.ContractDefinition:
		c.enterContract(nd)
	}
}

func (c *{{.Type}}) Exit(n ast.Node) {}

func (c *{{.Type}}) enterContract(n *ast.ContractDefinition) {}
`

var fixtureTmpl = `Diagnostics expected from {{.ID}}, one "line:col message" per line.

-- contract.sol --
pragma solidity ^0.8.0;

contract Example {
}
-- want --
`
