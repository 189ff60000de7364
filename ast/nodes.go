package ast

import "go/token"

// Node is the interface for all tree nodes.
type Node interface {
	Position() token.Position
	node()
}

// Base provides the source position shared by every node.
type Base struct {
	Pos token.Position
}

func (b Base) Position() token.Position { return b.Pos }
func (b Base) node()                     {}

// ContractKind distinguishes the three contract-like definitions.
type ContractKind string

const (
	KindContract  ContractKind = "contract"
	KindInterface ContractKind = "interface"
	KindLibrary   ContractKind = "library"
)

// FunctionKind distinguishes the function-like definitions.
type FunctionKind string

const (
	KindFunction     FunctionKind = "function"
	KindConstructor  FunctionKind = "constructor"
	KindFallback     FunctionKind = "fallback"
	KindReceive      FunctionKind = "receive"
	KindFreeFunction FunctionKind = "freeFunction"
)

// Visibility of a function or variable. Default is used when the source
// does not spell one out.
type Visibility string

const (
	VisibilityDefault  Visibility = "default"
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityInternal Visibility = "internal"
	VisibilityExternal Visibility = "external"
)

// SourceUnit is the root of one parsed file.
type SourceUnit struct {
	Base
	Name     string
	Children []Node
}

// PragmaDirective represents pragma <name> <value>;
type PragmaDirective struct {
	Base
	Name  string
	Value string
}

// ImportDirective represents any of the import forms.
type ImportDirective struct {
	Base
	Path      string
	UnitAlias string   // import "x" as y; / import * as y from "x";
	Symbols   []string // import {a, b as c} from "x";
}

// ContractDefinition is a contract, interface or library.
type ContractDefinition struct {
	Base
	Name          string
	Kind          ContractKind
	Abstract      bool
	BaseContracts []string
	SubNodes      []Node
}

// FunctionDefinition is a function, constructor, fallback, receive or
// file-level function.
type FunctionDefinition struct {
	Base
	Name             string // empty for constructor, fallback and receive
	Kind             FunctionKind
	Parameters       []*VariableDeclaration
	ReturnParameters []*VariableDeclaration
	Visibility       Visibility
	StateMutability  string
	Modifiers        []*ModifierInvocation
	IsVirtual        bool
	Override         []string // nil when absent, empty for a bare override
	Body             *Block   // nil for declarations without implementation
}

// ModifierInvocation is a modifier or base constructor call in a function header.
type ModifierInvocation struct {
	Name      string
	Arguments *Expression
}

// ModifierDefinition is a modifier. It is not function-like for naming
// purposes: its name is not a global and its parameters open no scope.
type ModifierDefinition struct {
	Base
	Name       string
	Parameters []*VariableDeclaration
	IsVirtual  bool
	Override   []string
	Body       *Block
}

// StateVariableDeclaration groups the variable bindings of one
// contract-level declaration.
type StateVariableDeclaration struct {
	Base
	Variables []*VariableDeclaration
	Initial   *Expression
}

// FileLevelConstant is a constant declared outside any contract.
type FileLevelConstant struct {
	Base
	Name     string
	TypeName string
	Initial  *Expression
}

// VariableDeclaration is a single variable binding: a state variable,
// parameter, return parameter, event or error parameter, struct member,
// catch parameter or local variable.
type VariableDeclaration struct {
	Base
	Name            string // empty for unnamed parameters
	TypeName        string
	Visibility      Visibility
	StorageLocation string
	IsStateVar      bool
	IsDeclaredConst bool
	IsImmutable     bool
	IsTransient     bool
	IsIndexed       bool
	Override        []string
}

// StructDefinition is a struct type.
type StructDefinition struct {
	Base
	Name    string
	Members []*VariableDeclaration
}

// EnumDefinition is an enum type.
type EnumDefinition struct {
	Base
	Name    string
	Members []string
}

// EventDefinition is an event declaration.
type EventDefinition struct {
	Base
	Name        string
	Parameters  []*VariableDeclaration
	IsAnonymous bool
}

// ErrorDefinition is a custom error declaration.
type ErrorDefinition struct {
	Base
	Name       string
	Parameters []*VariableDeclaration
}

// UserDefinedValueTypeDefinition represents type Name is Underlying;
type UserDefinedValueTypeDefinition struct {
	Base
	Name       string
	Underlying string
}

// UsingForDeclaration represents using Library for Type;
type UsingForDeclaration struct {
	Base
	Library  string
	TypeName string // "*" for using X for *;
	IsGlobal bool
}

// Block is a braced statement list.
type Block struct {
	Base
	Statements []Node
}

// UncheckedBlock is unchecked { ... }.
type UncheckedBlock struct {
	Base
	Statements []Node
}

// VariableDeclarationStatement declares one or more local variables.
// Tuple declarations may leave holes, which are nil entries.
type VariableDeclarationStatement struct {
	Base
	Variables []*VariableDeclaration
	Initial   *Expression
}

// ExpressionStatement is an expression followed by a semicolon.
type ExpressionStatement struct {
	Base
	Expression *Expression
}

// IfStatement represents if (cond) a else b. FalseBody may be nil.
type IfStatement struct {
	Base
	Condition *Expression
	TrueBody  Node
	FalseBody Node
}

// ForStatement represents for (init; cond; loop) body. Any header part may be nil.
type ForStatement struct {
	Base
	Init      Node
	Condition *Expression
	Loop      *Expression
	Body      Node
}

// WhileStatement represents while (cond) body.
type WhileStatement struct {
	Base
	Condition *Expression
	Body      Node
}

// DoWhileStatement represents do body while (cond);
type DoWhileStatement struct {
	Base
	Body      Node
	Condition *Expression
}

// TryStatement represents try call returns (...) { } catch ... { }.
type TryStatement struct {
	Base
	Expression       *Expression
	ReturnParameters []*VariableDeclaration
	Body             *Block
	CatchClauses     []*CatchClause
}

// CatchClause is one catch arm. Kind is empty, "Error" or "Panic".
type CatchClause struct {
	Base
	Kind       string
	Parameters []*VariableDeclaration
	Body       *Block
}

// ReturnStatement represents return [expr];
type ReturnStatement struct {
	Base
	Expression *Expression
}

// EmitStatement represents emit Event(...);
type EmitStatement struct {
	Base
	Event *Expression
}

// RevertStatement represents revert Error(...);
type RevertStatement struct {
	Base
	Call *Expression
}

// InlineAssemblyStatement keeps the raw assembly body; nothing in it is
// declared at Solidity scope.
type InlineAssemblyStatement struct {
	Base
	Body string
}

// BreakStatement represents break;
type BreakStatement struct{ Base }

// ContinueStatement represents continue;
type ContinueStatement struct{ Base }

// PlaceholderStatement is the _; inside a modifier body.
type PlaceholderStatement struct{ Base }

// Expression is kept as its source text. Nothing in the linter needs to
// look inside expressions, and Solidity declares no variables there.
type Expression struct {
	Base
	Text string
}
