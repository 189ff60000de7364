package parser

import (
	"github.com/madlabman/solhint-plugin-lido-csm/ast"
	"github.com/madlabman/solhint-plugin-lido-csm/scanner"
)

// notTypeStart lists identifiers that begin expressions even though the
// following token is an identifier, e.g. delete x; or new Foo().
var notTypeStart = map[string]bool{
	"new":    true,
	"delete": true,
	"return": true,
	"emit":   true,
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	open, err := p.expect("{")
	if err != nil {
		return nil, err
	}
	b := &ast.Block{Base: base(open)}
	if b.Statements, err = p.parseStatementsUntilBrace(open); err != nil {
		return nil, err
	}
	return b, nil
}

// parseStatementsUntilBrace parses statements up to and including the
// closing brace that matches open.
func (p *Parser) parseStatementsUntilBrace(open scanner.Token) ([]ast.Node, error) {
	var stmts []ast.Node
	for !p.accept("}") {
		if p.atEOF() {
			return nil, p.errorf(open, "unclosed %q", open.Text)
		}
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

func (p *Parser) parseStatement() (ast.Node, error) {
	t := p.peek()
	switch {
	case t.Is("{"):
		return p.parseBlock()
	case t.Is("unchecked") && p.peekN(1).Is("{"):
		p.next()
		open := p.next()
		stmts, err := p.parseStatementsUntilBrace(open)
		if err != nil {
			return nil, err
		}
		return &ast.UncheckedBlock{Base: base(t), Statements: stmts}, nil
	case t.Is("if"):
		return p.parseIf()
	case t.Is("for"):
		return p.parseFor()
	case t.Is("while"):
		return p.parseWhile()
	case t.Is("do"):
		return p.parseDoWhile()
	case t.Is("try"):
		return p.parseTry()
	case t.Is("return"):
		p.next()
		rs := &ast.ReturnStatement{Base: base(t)}
		if !p.at(";") {
			var err error
			if rs.Expression, err = p.parseExpressionUntil(";"); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return rs, nil
	case t.Is("emit"):
		p.next()
		ev, err := p.parseExpressionUntil(";")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.EmitStatement{Base: base(t), Event: ev}, nil
	case t.Is("revert") && p.peekN(1).Kind == scanner.Ident:
		p.next()
		call, err := p.parseExpressionUntil(";")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return &ast.RevertStatement{Base: base(t), Call: call}, nil
	case t.Is("assembly"):
		return p.parseAssembly()
	case t.Is("break") && p.peekN(1).Is(";"):
		p.next()
		p.next()
		return &ast.BreakStatement{Base: base(t)}, nil
	case t.Is("continue") && p.peekN(1).Is(";"):
		p.next()
		p.next()
		return &ast.ContinueStatement{Base: base(t)}, nil
	case t.Is("_") && p.peekN(1).Is(";"):
		p.next()
		p.next()
		return &ast.PlaceholderStatement{Base: base(t)}, nil
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses a variable declaration statement or an
// expression statement, including the terminating semicolon.
func (p *Parser) parseSimpleStatement() (ast.Node, error) {
	if vds, ok := p.tryVariableDeclarationStatement(); ok {
		if p.accept("=") {
			var err error
			if vds.Initial, err = p.parseExpressionUntil(";"); err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		return vds, nil
	}
	start := p.peek()
	expr, err := p.parseExpressionUntil(";")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Base: base(start), Expression: expr}, nil
}

// tryVariableDeclarationStatement parses the declaration part of a
// variable declaration statement. When the tokens do not form one, the
// position is restored and ok is false.
func (p *Parser) tryVariableDeclarationStatement() (vds *ast.VariableDeclarationStatement, ok bool) {
	saved := p.pos
	defer func() {
		if !ok {
			p.pos = saved
		}
	}()

	start := p.peek()
	vds = &ast.VariableDeclarationStatement{Base: base(start)}

	if p.accept("(") {
		declared := false
		for {
			if p.at(",") || p.at(")") {
				vds.Variables = append(vds.Variables, nil)
			} else {
				vd, ok := p.tryLocalVariable()
				if !ok {
					return nil, false
				}
				vds.Variables = append(vds.Variables, vd)
				declared = true
			}
			if p.accept(",") {
				continue
			}
			if !p.accept(")") {
				return nil, false
			}
			break
		}
		if !declared || !p.at("=") {
			return nil, false
		}
		return vds, true
	}

	vd, ok := p.tryLocalVariable()
	if !ok || !(p.at("=") || p.at(";")) {
		return nil, false
	}
	vds.Variables = []*ast.VariableDeclaration{vd}
	return vds, true
}

// tryLocalVariable parses type [location] name without consuming anything
// meaningful on failure; the caller restores the position.
func (p *Parser) tryLocalVariable() (*ast.VariableDeclaration, bool) {
	start := p.peek()
	if start.Kind != scanner.Ident || notTypeStart[start.Text] {
		return nil, false
	}
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, false
	}
	vd := &ast.VariableDeclaration{
		Base:       base(start),
		TypeName:   typeName,
		Visibility: ast.VisibilityDefault,
	}
	if p.atIdent() && storageLocations[p.peek().Text] {
		vd.StorageLocation = p.next().Text
	}
	if !p.atIdent() {
		return nil, false
	}
	name := p.next()
	vd.Name = name.Text
	return vd, true
}

func (p *Parser) parseIf() (ast.Node, error) {
	start := p.next()
	cond, err := p.parseParenthesized()
	if err != nil {
		return nil, err
	}
	is := &ast.IfStatement{Base: base(start), Condition: cond}
	if is.TrueBody, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if p.accept("else") {
		if is.FalseBody, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return is, nil
}

func (p *Parser) parseFor() (ast.Node, error) {
	start := p.next()
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	fs := &ast.ForStatement{Base: base(start)}
	var err error
	if !p.accept(";") {
		if fs.Init, err = p.parseSimpleStatement(); err != nil {
			return nil, err
		}
	}
	if !p.at(";") {
		if fs.Condition, err = p.parseExpressionUntil(";"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	if !p.at(")") {
		if fs.Loop, err = p.parseExpressionUntil(")"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	if fs.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (p *Parser) parseWhile() (ast.Node, error) {
	start := p.next()
	cond, err := p.parseParenthesized()
	if err != nil {
		return nil, err
	}
	ws := &ast.WhileStatement{Base: base(start), Condition: cond}
	if ws.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return ws, nil
}

func (p *Parser) parseDoWhile() (ast.Node, error) {
	start := p.next()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("while"); err != nil {
		return nil, err
	}
	cond, err := p.parseParenthesized()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Base: base(start), Body: body, Condition: cond}, nil
}

func (p *Parser) parseTry() (ast.Node, error) {
	start := p.next()
	ts := &ast.TryStatement{Base: base(start)}

	// The call may carry options in braces (f{value: 1}()); the body brace
	// is the first one that follows a closing parenthesis.
	from := p.pos
	for {
		t := p.peek()
		if t.Kind == scanner.EOF {
			return nil, p.unexpected(`"{"`)
		}
		if t.Is("returns") || (t.Is("{") && p.pos > from && p.toks[p.pos-1].Is(")")) {
			break
		}
		if t.Kind == scanner.Punct && scanner.IsOpenBracket(t.Text) {
			if err := p.skipBalanced(); err != nil {
				return nil, err
			}
			continue
		}
		p.next()
	}
	if p.pos == from {
		return nil, p.unexpected("expression")
	}
	ts.Expression = &ast.Expression{Base: base(p.toks[from]), Text: p.source(from, p.pos)}

	var err error
	if p.accept("returns") {
		if ts.ReturnParameters, err = p.parseParameterList(); err != nil {
			return nil, err
		}
	}
	if ts.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	for p.at("catch") {
		c := p.next()
		cc := &ast.CatchClause{Base: base(c)}
		if p.atIdent() && p.peekN(1).Is("(") {
			cc.Kind = p.next().Text
		}
		if p.at("(") {
			if cc.Parameters, err = p.parseParameterList(); err != nil {
				return nil, err
			}
		}
		if cc.Body, err = p.parseBlock(); err != nil {
			return nil, err
		}
		ts.CatchClauses = append(ts.CatchClauses, cc)
	}
	if len(ts.CatchClauses) == 0 {
		return nil, p.unexpected(`"catch"`)
	}
	return ts, nil
}

func (p *Parser) parseAssembly() (ast.Node, error) {
	start := p.next()
	if p.peek().Kind == scanner.String {
		p.next()
	}
	if p.at("(") {
		if err := p.skipBalanced(); err != nil {
			return nil, err
		}
	}
	if !p.at("{") {
		return nil, p.unexpected(`"{"`)
	}
	from := p.pos
	if err := p.skipBalanced(); err != nil {
		return nil, err
	}
	return &ast.InlineAssemblyStatement{Base: base(start), Body: p.source(from, p.pos)}, nil
}

// parseParenthesized reads ( expr ) and returns the inner expression.
func (p *Parser) parseParenthesized() (*ast.Expression, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	expr, err := p.parseExpressionUntil(")")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")"); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseExpressionUntil captures the tokens of an expression up to, but not
// including, the first stop token at bracket depth zero.
func (p *Parser) parseExpressionUntil(stop string) (*ast.Expression, error) {
	from := p.pos
	for {
		t := p.peek()
		switch {
		case t.Kind == scanner.EOF:
			return nil, p.unexpected(`"` + stop + `"`)
		case t.Is(stop):
			if p.pos == from {
				return nil, p.unexpected("expression")
			}
			return &ast.Expression{Base: base(p.toks[from]), Text: p.source(from, p.pos)}, nil
		case t.Kind == scanner.Punct && scanner.IsCloseBracket(t.Text):
			return nil, p.unexpected(`"` + stop + `"`)
		case t.Kind == scanner.Punct && scanner.IsOpenBracket(t.Text):
			if err := p.skipBalanced(); err != nil {
				return nil, err
			}
		case t.Is(";"):
			return nil, p.unexpected(`"` + stop + `"`)
		default:
			p.next()
		}
	}
}
