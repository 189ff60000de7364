package parser

import (
	"github.com/madlabman/solhint-plugin-lido-csm/ast"
	"github.com/madlabman/solhint-plugin-lido-csm/scanner"
)

var visibilities = map[string]ast.Visibility{
	"public":   ast.VisibilityPublic,
	"private":  ast.VisibilityPrivate,
	"internal": ast.VisibilityInternal,
	"external": ast.VisibilityExternal,
}

var mutabilities = map[string]bool{
	"pure":     true,
	"view":     true,
	"payable":  true,
	"constant": true,
}

var storageLocations = map[string]bool{
	"memory":   true,
	"storage":  true,
	"calldata": true,
}

func (p *Parser) parseFunction(free bool) (ast.Node, error) {
	start := p.next()
	fd := &ast.FunctionDefinition{Base: base(start), Visibility: ast.VisibilityDefault}
	switch start.Text {
	case "constructor":
		fd.Kind = ast.KindConstructor
	case "fallback":
		fd.Kind = ast.KindFallback
	case "receive":
		fd.Kind = ast.KindReceive
	default:
		fd.Kind = ast.KindFunction
		if free {
			fd.Kind = ast.KindFreeFunction
		}
		if p.atIdent() {
			fd.Name = p.next().Text
		}
	}

	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	fd.Parameters = params

	for !p.at("{") && !p.at(";") {
		t := p.peek()
		switch {
		case t.Kind == scanner.EOF:
			return nil, p.unexpected(`"{" or ";"`)
		case t.Is("returns"):
			p.next()
			if fd.ReturnParameters, err = p.parseParameterList(); err != nil {
				return nil, err
			}
		case visibilities[t.Text] != "" && t.Kind == scanner.Ident:
			fd.Visibility = visibilities[p.next().Text]
		case mutabilities[t.Text] && t.Kind == scanner.Ident:
			fd.StateMutability = p.next().Text
		case t.Is("virtual"):
			p.next()
			fd.IsVirtual = true
		case t.Is("override"):
			if fd.Override, err = p.parseOverride(); err != nil {
				return nil, err
			}
		case t.Kind == scanner.Ident:
			m, err := p.parseModifierInvocation()
			if err != nil {
				return nil, err
			}
			fd.Modifiers = append(fd.Modifiers, m)
		default:
			return nil, p.unexpected(`"{" or ";"`)
		}
	}

	if p.accept(";") {
		return fd, nil
	}
	if fd.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return fd, nil
}

func (p *Parser) parseModifierInvocation() (*ast.ModifierInvocation, error) {
	name, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	m := &ast.ModifierInvocation{Name: name}
	if p.at("(") {
		open := p.next()
		if p.at(")") {
			p.next()
			return m, nil
		}
		if m.Arguments, err = p.parseExpressionUntil(")"); err != nil {
			return nil, err
		}
		if _, err := p.expect(")"); err != nil {
			return nil, p.errorf(open, "unclosed %q", open.Text)
		}
	}
	return m, nil
}

// parseOverride reads override or override(A, B). The result is non-nil
// even for a bare override.
func (p *Parser) parseOverride() ([]string, error) {
	p.next()
	names := []string{}
	if !p.accept("(") {
		return names, nil
	}
	for !p.accept(")") {
		name, err := p.parsePath()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
		if !p.accept(",") && !p.at(")") {
			return nil, p.unexpected(`"," or ")"`)
		}
	}
	return names, nil
}

func (p *Parser) parseModifier() (ast.Node, error) {
	start := p.next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	md := &ast.ModifierDefinition{Base: base(start), Name: name.Text}
	if p.at("(") {
		if md.Parameters, err = p.parseParameterList(); err != nil {
			return nil, err
		}
	}
	for !p.at("{") && !p.at(";") {
		switch {
		case p.atEOF():
			return nil, p.unexpected(`"{" or ";"`)
		case p.at("virtual"):
			p.next()
			md.IsVirtual = true
		case p.at("override"):
			if md.Override, err = p.parseOverride(); err != nil {
				return nil, err
			}
		default:
			return nil, p.unexpected(`"{" or ";"`)
		}
	}
	if p.accept(";") {
		return md, nil
	}
	if md.Body, err = p.parseBlock(); err != nil {
		return nil, err
	}
	return md, nil
}

// parseParameterList reads a parenthesized list of parameters as used by
// functions, returns, events, errors, modifiers and catch clauses.
func (p *Parser) parseParameterList() ([]*ast.VariableDeclaration, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}
	params := []*ast.VariableDeclaration{}
	if p.accept(")") {
		return params, nil
	}
	for {
		vd, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		params = append(params, vd)
		if p.accept(",") {
			continue
		}
		if _, err := p.expect(")"); err != nil {
			return nil, err
		}
		return params, nil
	}
}

func (p *Parser) parseParameter() (*ast.VariableDeclaration, error) {
	start := p.peek()
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	vd := &ast.VariableDeclaration{
		Base:       base(start),
		TypeName:   typeName,
		Visibility: ast.VisibilityDefault,
	}
	for {
		switch {
		case p.atIdent() && storageLocations[p.peek().Text]:
			vd.StorageLocation = p.next().Text
			continue
		case p.at("indexed"):
			p.next()
			vd.IsIndexed = true
			continue
		}
		break
	}
	if p.atIdent() {
		name := p.next()
		vd.Name = name.Text
	}
	return vd, nil
}

// parseTypeName reads a type and returns its normalized text.
func (p *Parser) parseTypeName() (string, error) {
	from := p.pos
	t := p.peek()
	switch {
	case t.Is("mapping"):
		if err := p.parseMapping(); err != nil {
			return "", err
		}
	case t.Is("function"):
		if err := p.parseFunctionType(); err != nil {
			return "", err
		}
	case t.Is("address"):
		p.next()
		p.accept("payable")
	case t.Kind == scanner.Ident:
		if _, err := p.parsePath(); err != nil {
			return "", err
		}
	default:
		return "", p.unexpected("type name")
	}
	for p.at("[") {
		if err := p.skipBalanced(); err != nil {
			return "", err
		}
	}
	return p.joined(from, p.pos), nil
}

func (p *Parser) parseMapping() error {
	p.next()
	if _, err := p.expect("("); err != nil {
		return err
	}
	if _, err := p.parseTypeName(); err != nil {
		return err
	}
	if p.atIdent() {
		p.next()
	}
	if _, err := p.expect("=>"); err != nil {
		return err
	}
	if _, err := p.parseTypeName(); err != nil {
		return err
	}
	if p.atIdent() {
		p.next()
	}
	_, err := p.expect(")")
	return err
}

func (p *Parser) parseFunctionType() error {
	p.next()
	if _, err := p.parseParameterList(); err != nil {
		return err
	}
	for p.atIdent() && (visibilities[p.peek().Text] != "" || mutabilities[p.peek().Text]) {
		p.next()
	}
	if p.at("returns") && p.peekN(1).Is("(") {
		p.next()
		if _, err := p.parseParameterList(); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) parseStateVariable() (ast.Node, error) {
	start := p.peek()
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	vd := &ast.VariableDeclaration{
		Base:       base(start),
		TypeName:   typeName,
		Visibility: ast.VisibilityDefault,
		IsStateVar: true,
	}

attrs:
	for {
		t := p.peek()
		switch {
		case t.Kind != scanner.Ident:
			break attrs
		case t.Text == "public" || t.Text == "private" || t.Text == "internal":
			vd.Visibility = visibilities[p.next().Text]
		case t.Text == "constant":
			p.next()
			vd.IsDeclaredConst = true
		case t.Text == "immutable":
			p.next()
			vd.IsImmutable = true
		case t.Text == "transient":
			p.next()
			vd.IsTransient = true
		case t.Text == "override":
			if vd.Override, err = p.parseOverride(); err != nil {
				return nil, err
			}
		default:
			break attrs
		}
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	vd.Name = name.Text

	decl := &ast.StateVariableDeclaration{Base: base(start), Variables: []*ast.VariableDeclaration{vd}}
	if p.accept("=") {
		if decl.Initial, err = p.parseExpressionUntil(";"); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseFileLevelConstant() (ast.Node, error) {
	start := p.peek()
	typeName, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("constant"); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("="); err != nil {
		return nil, err
	}
	initial, err := p.parseExpressionUntil(";")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.FileLevelConstant{
		Base:     base(start),
		Name:     name.Text,
		TypeName: typeName,
		Initial:  initial,
	}, nil
}

func (p *Parser) parseStruct() (ast.Node, error) {
	start := p.next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	sd := &ast.StructDefinition{Base: base(start), Name: name.Text}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.accept("}") {
		if p.atEOF() {
			return nil, p.unexpected(`"}"`)
		}
		member, err := p.parseParameter()
		if err != nil {
			return nil, err
		}
		if member.Name == "" {
			return nil, p.unexpected("struct member name")
		}
		if _, err := p.expect(";"); err != nil {
			return nil, err
		}
		sd.Members = append(sd.Members, member)
	}
	return sd, nil
}

func (p *Parser) parseEnum() (ast.Node, error) {
	start := p.next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	ed := &ast.EnumDefinition{Base: base(start), Name: name.Text}
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.accept("}") {
		member, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ed.Members = append(ed.Members, member.Text)
		if !p.accept(",") && !p.at("}") {
			return nil, p.unexpected(`"," or "}"`)
		}
	}
	return ed, nil
}

func (p *Parser) parseEvent() (ast.Node, error) {
	start := p.next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	ev := &ast.EventDefinition{Base: base(start), Name: name.Text, Parameters: params}
	ev.IsAnonymous = p.accept("anonymous")
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return ev, nil
}

func (p *Parser) parseError() (ast.Node, error) {
	start := p.next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	params, err := p.parseParameterList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.ErrorDefinition{Base: base(start), Name: name.Text, Parameters: params}, nil
}

func (p *Parser) parseUserDefinedValueType() (ast.Node, error) {
	start := p.next()
	name := p.next()
	p.next() // is
	underlying, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return &ast.UserDefinedValueTypeDefinition{Base: base(start), Name: name.Text, Underlying: underlying}, nil
}

func (p *Parser) parseUsing() (ast.Node, error) {
	start := p.next()
	ud := &ast.UsingForDeclaration{Base: base(start)}
	from := p.pos
	if p.at("{") {
		if err := p.skipBalanced(); err != nil {
			return nil, err
		}
	} else if _, err := p.parsePath(); err != nil {
		return nil, err
	}
	ud.Library = p.joined(from, p.pos)
	if _, err := p.expect("for"); err != nil {
		return nil, err
	}
	if p.accept("*") {
		ud.TypeName = "*"
	} else {
		typeName, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		ud.TypeName = typeName
	}
	ud.IsGlobal = p.accept("global")
	if _, err := p.expect(";"); err != nil {
		return nil, err
	}
	return ud, nil
}
