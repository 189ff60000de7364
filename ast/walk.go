package ast

// Visitor receives pre-order enter and post-order exit events.
type Visitor interface {
	Enter(n Node)
	Exit(n Node)
}

// Walk traverses the tree rooted at n depth-first in source order. Enter is
// called for a node before any of its children and Exit after all of them,
// so every Enter is paired with exactly one Exit.
func Walk(v Visitor, n Node) {
	if isNil(n) {
		return
	}
	v.Enter(n)
	switch nd := n.(type) {
	case *SourceUnit:
		walkNodes(v, nd.Children)
	case *ContractDefinition:
		walkNodes(v, nd.SubNodes)
	case *FunctionDefinition:
		walkVars(v, nd.Parameters)
		walkVars(v, nd.ReturnParameters)
		for _, m := range nd.Modifiers {
			walkExpr(v, m.Arguments)
		}
		walkBlock(v, nd.Body)
	case *ModifierDefinition:
		walkVars(v, nd.Parameters)
		walkBlock(v, nd.Body)
	case *StateVariableDeclaration:
		walkVars(v, nd.Variables)
		walkExpr(v, nd.Initial)
	case *FileLevelConstant:
		walkExpr(v, nd.Initial)
	case *StructDefinition:
		walkVars(v, nd.Members)
	case *EventDefinition:
		walkVars(v, nd.Parameters)
	case *ErrorDefinition:
		walkVars(v, nd.Parameters)
	case *Block:
		walkNodes(v, nd.Statements)
	case *UncheckedBlock:
		walkNodes(v, nd.Statements)
	case *VariableDeclarationStatement:
		walkVars(v, nd.Variables)
		walkExpr(v, nd.Initial)
	case *ExpressionStatement:
		walkExpr(v, nd.Expression)
	case *IfStatement:
		walkExpr(v, nd.Condition)
		Walk(v, nd.TrueBody)
		Walk(v, nd.FalseBody)
	case *ForStatement:
		Walk(v, nd.Init)
		walkExpr(v, nd.Condition)
		walkExpr(v, nd.Loop)
		Walk(v, nd.Body)
	case *WhileStatement:
		walkExpr(v, nd.Condition)
		Walk(v, nd.Body)
	case *DoWhileStatement:
		Walk(v, nd.Body)
		walkExpr(v, nd.Condition)
	case *TryStatement:
		walkExpr(v, nd.Expression)
		walkVars(v, nd.ReturnParameters)
		walkBlock(v, nd.Body)
		for _, c := range nd.CatchClauses {
			Walk(v, c)
		}
	case *CatchClause:
		walkVars(v, nd.Parameters)
		walkBlock(v, nd.Body)
	case *ReturnStatement:
		walkExpr(v, nd.Expression)
	case *EmitStatement:
		walkExpr(v, nd.Event)
	case *RevertStatement:
		walkExpr(v, nd.Call)
	}
	v.Exit(n)
}

func walkNodes(v Visitor, nodes []Node) {
	for _, n := range nodes {
		Walk(v, n)
	}
}

// walkVars skips nil entries (holes in tuple declarations).
func walkVars(v Visitor, vars []*VariableDeclaration) {
	for _, vd := range vars {
		if vd != nil {
			Walk(v, vd)
		}
	}
}

func walkBlock(v Visitor, b *Block) {
	if b != nil {
		Walk(v, b)
	}
}

func walkExpr(v Visitor, e *Expression) {
	if e != nil {
		Walk(v, e)
	}
}

// isNil reports whether n is nil or a typed nil pointer stored in the
// interface, which optional statement fields can hold.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	switch nd := n.(type) {
	case *Block:
		return nd == nil
	case *VariableDeclarationStatement:
		return nd == nil
	case *ExpressionStatement:
		return nd == nil
	case *Expression:
		return nd == nil
	}
	return false
}

// VisitorFuncs adapts plain functions to Visitor. Either field may be nil.
type VisitorFuncs struct {
	EnterFunc func(Node)
	ExitFunc  func(Node)
}

func (f VisitorFuncs) Enter(n Node) {
	if f.EnterFunc != nil {
		f.EnterFunc(n)
	}
}

func (f VisitorFuncs) Exit(n Node) {
	if f.ExitFunc != nil {
		f.ExitFunc(n)
	}
}

// Inspect calls fn for every node in pre-order.
func Inspect(n Node, fn func(Node)) {
	Walk(VisitorFuncs{EnterFunc: fn}, n)
}
