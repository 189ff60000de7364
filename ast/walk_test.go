package ast

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder logs enter/exit events by node type and name.
type recorder struct {
	events []string
}

func label(n Node) string {
	switch nd := n.(type) {
	case *ContractDefinition:
		return "contract " + nd.Name
	case *FunctionDefinition:
		return "function " + nd.Name
	case *VariableDeclaration:
		return "var " + nd.Name
	case *StateVariableDeclaration:
		return "state"
	case *Expression:
		return "expr " + nd.Text
	}
	return fmt.Sprintf("%T", n)[len("*ast."):]
}

func (r *recorder) Enter(n Node) { r.events = append(r.events, "> "+label(n)) }
func (r *recorder) Exit(n Node)  { r.events = append(r.events, "< "+label(n)) }

func sampleTree() *SourceUnit {
	return &SourceUnit{Children: []Node{
		&ContractDefinition{Name: "C", SubNodes: []Node{
			&StateVariableDeclaration{
				Variables: []*VariableDeclaration{{Name: "_x", IsStateVar: true}},
				Initial:   &Expression{Text: "1"},
			},
			&FunctionDefinition{
				Name:             "f",
				Parameters:       []*VariableDeclaration{{Name: "a"}},
				ReturnParameters: []*VariableDeclaration{{Name: "r"}},
				Body: &Block{Statements: []Node{
					&VariableDeclarationStatement{
						Variables: []*VariableDeclaration{{Name: "b"}, nil},
					},
				}},
			},
		}},
	}}
}

func TestWalkOrder(t *testing.T) {
	r := &recorder{}
	Walk(r, sampleTree())
	assert.Equal(t, []string{
		"> SourceUnit",
		"> contract C",
		"> state",
		"> var _x",
		"< var _x",
		"> expr 1",
		"< expr 1",
		"< state",
		"> function f",
		"> var a",
		"< var a",
		"> var r",
		"< var r",
		"> Block",
		"> VariableDeclarationStatement",
		"> var b",
		"< var b",
		"< VariableDeclarationStatement",
		"< Block",
		"< function f",
		"< contract C",
		"< SourceUnit",
	}, r.events)
}

func TestWalkStatements(t *testing.T) {
	var seen []string
	tree := &Block{Statements: []Node{
		&IfStatement{
			Condition: &Expression{Text: "c"},
			TrueBody:  &ReturnStatement{},
		},
		&ForStatement{Body: &Block{}},
		&WhileStatement{Condition: &Expression{Text: "w"}, Body: &BreakStatement{}},
		&DoWhileStatement{Body: &ContinueStatement{}, Condition: &Expression{Text: "d"}},
		&TryStatement{
			Expression:       &Expression{Text: "t()"},
			ReturnParameters: []*VariableDeclaration{{Name: "r"}},
			Body:             &Block{},
			CatchClauses: []*CatchClause{{
				Parameters: []*VariableDeclaration{{Name: "e"}},
				Body:       &Block{},
			}},
		},
		&UncheckedBlock{Statements: []Node{&EmitStatement{Event: &Expression{Text: "E()"}}}},
		&InlineAssemblyStatement{Body: "{}"},
	}}
	Inspect(tree, func(n Node) { seen = append(seen, label(n)) })
	assert.Equal(t, []string{
		"Block",
		"IfStatement", "expr c", "ReturnStatement",
		"ForStatement", "Block",
		"WhileStatement", "expr w", "BreakStatement",
		"DoWhileStatement", "ContinueStatement", "expr d",
		"TryStatement", "expr t()", "var r", "Block", "CatchClause", "var e", "Block",
		"UncheckedBlock", "EmitStatement", "expr E()",
		"InlineAssemblyStatement",
	}, seen)
}

func TestWalkSkipsTypedNil(t *testing.T) {
	var nilBlock *Block
	tree := &IfStatement{TrueBody: nilBlock, FalseBody: nil}
	count := 0
	Inspect(tree, func(Node) { count++ })
	assert.Equal(t, 1, count)
}

type failingVisitor struct {
	VisitorFuncs
	err error
}

func (f *failingVisitor) Err() error { return f.err }

type namedCheck struct {
	name string
	err  error
	ran  *[]string
}

func (c namedCheck) Name() string { return c.name }

func (c namedCheck) Check(*SourceUnit) error {
	*c.ran = append(*c.ran, c.name)
	return c.err
}

func TestWalkCheck(t *testing.T) {
	want := errors.New("boom")
	wc := WalkCheck{N: "failing", V: &failingVisitor{err: want}}
	assert.Equal(t, "failing", wc.Name())
	assert.ErrorIs(t, wc.Check(sampleTree()), want)

	wc = WalkCheck{N: "plain", V: VisitorFuncs{}}
	assert.NoError(t, wc.Check(sampleTree()))
}

func TestCheckChainStopsAtFirstError(t *testing.T) {
	var ran []string
	boom := errors.New("boom")
	chain := CheckChain{
		namedCheck{name: "a", ran: &ran},
		namedCheck{name: "b", err: boom, ran: &ran},
		namedCheck{name: "c", ran: &ran},
	}
	require.ErrorIs(t, chain.Run(&SourceUnit{}), boom)
	assert.Equal(t, []string{"a", "b"}, ran)
}
