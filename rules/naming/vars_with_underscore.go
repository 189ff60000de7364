// Package naming contains naming-convention rules.
package naming

import (
	"errors"
	"fmt"
	"slices"

	"github.com/madlabman/solhint-plugin-lido-csm/ast"
	"github.com/madlabman/solhint-plugin-lido-csm/rules"
)

const varsWithUnderscoreID = "vars-with-underscore"

// ErrUnbalancedScope is returned when an exit hook runs without a matching
// enter.
var ErrUnbalancedScope = errors.New("unbalanced scope: exit without enter")

func init() {
	rules.Register(&rules.Rule{
		Meta: rules.Meta{
			ID:              varsWithUnderscoreID,
			Type:            "naming",
			Description:     "Set of rules to check underscored variables.",
			Category:        "Style Guide Rules",
			DefaultSeverity: rules.Warn,
			Recommended:     true,
			IsDefault:       true,
			Doc: `Non-public mutable state variables must start with an underscore;
public state variables must not. Constants and immutables are exempt.
Parameters and local variables may only start with an underscore when the
name without it is already taken by a contract-level function or state
variable, or (for locals) by a parameter of the enclosing function.
Interfaces are not checked.`,
		},
		New: func(r rules.Reporter) ast.Visitor { return NewVarsWithUnderscore(r) },
	})
}

// HasLeadingUnderscore reports whether name starts with the underscore marker.
func HasLeadingUnderscore(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

// contractScope is the state of one open contract, interface or library.
// globals grows in visiting order: function names on entry, state
// variables as their declarations are reached.
type contractScope struct {
	inInterface bool
	globals     []string
}

type functionScope struct {
	params []string
}

// VarsWithUnderscore checks leading-underscore usage on state variables,
// parameters and local variables. A value is good for one tree walk.
type VarsWithUnderscore struct {
	reporter  rules.Reporter
	contracts []*contractScope
	functions []*functionScope
	err       error
}

// NewVarsWithUnderscore returns a checker reporting to r.
func NewVarsWithUnderscore(r rules.Reporter) *VarsWithUnderscore {
	return &VarsWithUnderscore{reporter: r}
}

// Enter dispatches on the node variant.
func (c *VarsWithUnderscore) Enter(n ast.Node) {
	switch nd := n.(type) {
	case *ast.ContractDefinition:
		c.EnterContract(nd)
	case *ast.StateVariableDeclaration:
		c.StateVariables(nd)
	case *ast.FunctionDefinition:
		c.EnterFunction(nd)
	case *ast.VariableDeclaration:
		c.VariableDeclaration(nd)
	}
}

// Exit pops the scope opened by the matching Enter.
func (c *VarsWithUnderscore) Exit(n ast.Node) {
	var err error
	switch n.(type) {
	case *ast.ContractDefinition:
		err = c.ExitContract()
	case *ast.FunctionDefinition:
		err = c.ExitFunction()
	}
	if err != nil && c.err == nil {
		c.err = err
	}
}

// Err returns the first scope error seen during the walk.
func (c *VarsWithUnderscore) Err() error { return c.err }

// EnterContract opens a contract scope seeded with the names of the
// contract's functions.
func (c *VarsWithUnderscore) EnterContract(cd *ast.ContractDefinition) {
	s := &contractScope{inInterface: cd.Kind == ast.KindInterface}
	for _, sub := range cd.SubNodes {
		if fd, ok := sub.(*ast.FunctionDefinition); ok && fd.Name != "" {
			s.globals = append(s.globals, fd.Name)
		}
	}
	c.contracts = append(c.contracts, s)
}

// ExitContract closes the innermost contract scope.
func (c *VarsWithUnderscore) ExitContract() error {
	if len(c.contracts) == 0 {
		return fmt.Errorf("contract: %w", ErrUnbalancedScope)
	}
	c.contracts = c.contracts[:len(c.contracts)-1]
	return nil
}

// StateVariables adds the names of a state variable declaration to the
// current contract's globals.
func (c *VarsWithUnderscore) StateVariables(sv *ast.StateVariableDeclaration) {
	s := c.contract()
	if s == nil {
		return
	}
	for _, vd := range sv.Variables {
		if vd != nil && vd.Name != "" {
			s.globals = append(s.globals, vd.Name)
		}
	}
}

// EnterFunction opens a function scope and checks underscored parameters
// against the globals collected so far.
func (c *VarsWithUnderscore) EnterFunction(fd *ast.FunctionDefinition) {
	f := &functionScope{}
	c.functions = append(c.functions, f)
	if c.inInterface() {
		return
	}
	globals := c.globals()
	for _, p := range fd.Parameters {
		if p.Name != "" {
			f.params = append(f.params, p.Name)
		}
		if HasLeadingUnderscore(p.Name) && !slices.Contains(globals, p.Name[1:]) {
			c.report(p, false)
		}
	}
}

// ExitFunction closes the innermost function scope.
func (c *VarsWithUnderscore) ExitFunction() error {
	if len(c.functions) == 0 {
		return fmt.Errorf("function: %w", ErrUnbalancedScope)
	}
	c.functions = c.functions[:len(c.functions)-1]
	return nil
}

// VariableDeclaration classifies one variable binding.
func (c *VarsWithUnderscore) VariableDeclaration(vd *ast.VariableDeclaration) {
	if c.inInterface() {
		return
	}
	underscored := HasLeadingUnderscore(vd.Name)
	if vd.IsStateVar {
		c.checkStateVariable(vd, underscored)
		return
	}
	if !underscored {
		return
	}
	stripped := vd.Name[1:]
	for _, names := range [][]string{c.params(), c.globals()} {
		for _, name := range names {
			if name == vd.Name || name == stripped {
				return
			}
		}
	}
	c.report(vd, false)
}

func (c *VarsWithUnderscore) checkStateVariable(vd *ast.VariableDeclaration, underscored bool) {
	if vd.Visibility == ast.VisibilityPublic {
		if underscored {
			c.report(vd, false)
		}
		return
	}
	if vd.IsDeclaredConst || vd.IsImmutable {
		return
	}
	if !underscored {
		c.report(vd, true)
	}
}

func (c *VarsWithUnderscore) report(vd *ast.VariableDeclaration, should bool) {
	verb := "should not"
	if should {
		verb = "should"
	}
	c.reporter.Report(vd, fmt.Sprintf("'%s' %s start with underscore", vd.Name, verb))
}

func (c *VarsWithUnderscore) contract() *contractScope {
	if len(c.contracts) == 0 {
		return nil
	}
	return c.contracts[len(c.contracts)-1]
}

func (c *VarsWithUnderscore) inInterface() bool {
	s := c.contract()
	return s != nil && s.inInterface
}

func (c *VarsWithUnderscore) globals() []string {
	if s := c.contract(); s != nil {
		return s.globals
	}
	return nil
}

func (c *VarsWithUnderscore) params() []string {
	if len(c.functions) == 0 {
		return nil
	}
	return c.functions[len(c.functions)-1].params
}
