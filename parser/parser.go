// Package parser builds ast trees from Solidity source. It is a
// recursive-descent parser over the scanner's token stream that models
// every declaration in full and keeps expressions as source text.
package parser

import (
	"fmt"
	"os"
	"strings"

	mscanner "modernc.org/scanner"

	"github.com/madlabman/solhint-plugin-lido-csm/ast"
	"github.com/madlabman/solhint-plugin-lido-csm/scanner"
)

// Parser holds the token stream of one file. The position can be saved
// and restored, which is how declaration statements are told apart from
// expression statements.
type Parser struct {
	src  []byte
	toks []scanner.Token
	pos  int
}

// ParseFile reads a Solidity file and parses it.
func ParseFile(filename string) (*ast.SourceUnit, []scanner.Comment, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return ParseSource(src, filename)
}

// ParseSource parses raw Solidity source. The name is used in positions
// and error messages. Errors are scanner.ErrList values carrying the
// position of the first problem found.
func ParseSource(src []byte, name string) (*ast.SourceUnit, []scanner.Comment, error) {
	f, err := scanner.Tokenize(name, src)
	if err != nil {
		return nil, nil, firstError(err)
	}
	p := &Parser{src: src, toks: f.Tokens}
	unit, err := p.parseSourceUnit(name)
	if err != nil {
		return nil, f.Comments, err
	}
	return unit, f.Comments, nil
}

// firstError trims a list of scanner errors down to the first one.
func firstError(err error) error {
	if el, ok := err.(mscanner.ErrList); ok && len(el) > 1 {
		return el[:1]
	}
	return err
}

func (p *Parser) peek() scanner.Token { return p.toks[p.pos] }

// peekN looks n tokens ahead, saturating at EOF.
func (p *Parser) peekN(n int) scanner.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *Parser) next() scanner.Token {
	t := p.toks[p.pos]
	if t.Kind != scanner.EOF {
		p.pos++
	}
	return t
}

func (p *Parser) at(text string) bool { return p.peek().Is(text) }

func (p *Parser) atEOF() bool { return p.peek().Kind == scanner.EOF }

func (p *Parser) atIdent() bool { return p.peek().Kind == scanner.Ident }

func (p *Parser) accept(text string) bool {
	if p.at(text) {
		p.next()
		return true
	}
	return false
}

func (p *Parser) expect(text string) (scanner.Token, error) {
	if !p.at(text) {
		return p.peek(), p.unexpected(fmt.Sprintf("%q", text))
	}
	return p.next(), nil
}

func (p *Parser) expectIdent() (scanner.Token, error) {
	if !p.atIdent() {
		return p.peek(), p.unexpected("identifier")
	}
	return p.next(), nil
}

func (p *Parser) errorf(t scanner.Token, format string, args ...any) error {
	var el mscanner.ErrList
	el.AddErr(t.Pos, format, args...)
	return el
}

func (p *Parser) unexpected(want string) error {
	t := p.peek()
	if t.Kind == scanner.EOF {
		return p.errorf(t, "expected %s, found end of file", want)
	}
	return p.errorf(t, "expected %s, found %q", want, t.Text)
}

// joined renders tokens [from, to) as normalized text, with a space only
// between adjacent words.
func (p *Parser) joined(from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		if i > from && isWord(p.toks[i-1]) && isWord(p.toks[i]) {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.toks[i].Text)
	}
	return sb.String()
}

// source returns the exact source text covered by tokens [from, to).
func (p *Parser) source(from, to int) string {
	if from >= to {
		return ""
	}
	last := p.toks[to-1]
	return string(p.src[p.toks[from].Pos.Offset : last.Pos.Offset+len(last.Text)])
}

func isWord(t scanner.Token) bool {
	return t.Kind == scanner.Ident || t.Kind == scanner.Number || t.Kind == scanner.String
}

func base(t scanner.Token) ast.Base { return ast.Base{Pos: t.Pos} }

func (p *Parser) parseSourceUnit(name string) (*ast.SourceUnit, error) {
	unit := &ast.SourceUnit{Base: base(p.peek()), Name: name}
	for !p.atEOF() {
		if p.accept(";") {
			continue
		}
		n, err := p.parseSourceUnitMember()
		if err != nil {
			return nil, err
		}
		unit.Children = append(unit.Children, n)
	}
	return unit, nil
}

func (p *Parser) parseSourceUnitMember() (ast.Node, error) {
	t := p.peek()
	switch {
	case t.Is("pragma"):
		return p.parsePragma()
	case t.Is("import"):
		return p.parseImport()
	case t.Is("abstract"), t.Is("contract"), t.Is("interface"), t.Is("library"):
		return p.parseContract()
	case t.Is("function"):
		return p.parseFunction(true)
	}
	if n, ok, err := p.parseTypeLevelMember(); ok || err != nil {
		return n, err
	}
	return p.parseFileLevelConstant()
}

// parseTypeLevelMember handles the definitions allowed both at file level
// and inside contracts. ok is false when the next tokens start none of them.
func (p *Parser) parseTypeLevelMember() (n ast.Node, ok bool, err error) {
	t := p.peek()
	switch {
	case t.Is("struct"):
		n, err = p.parseStruct()
	case t.Is("enum"):
		n, err = p.parseEnum()
	case t.Is("event"):
		n, err = p.parseEvent()
	case t.Is("error") && p.peekN(1).Kind == scanner.Ident && p.peekN(2).Is("("):
		n, err = p.parseError()
	case t.Is("type") && p.peekN(1).Kind == scanner.Ident && p.peekN(2).Is("is"):
		n, err = p.parseUserDefinedValueType()
	case t.Is("using"):
		n, err = p.parseUsing()
	default:
		return nil, false, nil
	}
	return n, true, err
}

func (p *Parser) parsePragma() (ast.Node, error) {
	start := p.next()
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	from := p.pos
	for !p.at(";") {
		if p.atEOF() {
			return nil, p.unexpected(`";"`)
		}
		p.next()
	}
	value := p.source(from, p.pos)
	p.next()
	return &ast.PragmaDirective{Base: base(start), Name: name.Text, Value: value}, nil
}

func (p *Parser) parseImport() (ast.Node, error) {
	start := p.next()
	imp := &ast.ImportDirective{Base: base(start)}
	inBraces := false
	for !p.at(";") {
		t := p.next()
		switch {
		case t.Kind == scanner.EOF:
			return nil, p.unexpected(`";"`)
		case t.Kind == scanner.String:
			imp.Path = strings.Trim(t.Text, `"'`)
		case t.Is("{"):
			inBraces = true
		case t.Is("}"):
			inBraces = false
		case t.Is("as"):
			alias, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if !inBraces {
				imp.UnitAlias = alias.Text
			}
		case inBraces && t.Kind == scanner.Ident:
			imp.Symbols = append(imp.Symbols, t.Text)
		}
	}
	p.next()
	if imp.Path == "" {
		return nil, p.errorf(start, "import without a path")
	}
	return imp, nil
}

func (p *Parser) parseContract() (ast.Node, error) {
	start := p.peek()
	cd := &ast.ContractDefinition{Base: base(start)}
	if p.accept("abstract") {
		cd.Abstract = true
	}
	kind := p.next()
	switch kind.Text {
	case "contract":
		cd.Kind = ast.KindContract
	case "interface":
		cd.Kind = ast.KindInterface
	case "library":
		cd.Kind = ast.KindLibrary
	default:
		return nil, p.errorf(kind, "expected contract, interface or library, found %q", kind.Text)
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	cd.Name = name.Text

	if p.accept("is") {
		for {
			from := p.pos
			if _, err := p.parsePath(); err != nil {
				return nil, err
			}
			if p.at("(") {
				if err := p.skipBalanced(); err != nil {
					return nil, err
				}
			}
			cd.BaseContracts = append(cd.BaseContracts, p.joined(from, p.pos))
			if !p.accept(",") {
				break
			}
		}
	}
	// Storage layout specifier: layout at <expr>.
	if p.at("layout") {
		for !p.at("{") && !p.atEOF() {
			p.next()
		}
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}
	for !p.at("}") {
		if p.atEOF() {
			return nil, p.unexpected(`"}"`)
		}
		if p.accept(";") {
			continue
		}
		n, err := p.parseContractMember()
		if err != nil {
			return nil, err
		}
		cd.SubNodes = append(cd.SubNodes, n)
	}
	p.next()
	return cd, nil
}

func (p *Parser) parseContractMember() (ast.Node, error) {
	t := p.peek()
	switch {
	case t.Is("function"):
		// function(...) may start a state variable of function type.
		if p.peekN(1).Is("(") {
			saved := p.pos
			if n, err := p.parseStateVariable(); err == nil {
				return n, nil
			}
			p.pos = saved
		}
		return p.parseFunction(false)
	case (t.Is("constructor") || t.Is("fallback") || t.Is("receive")) && p.peekN(1).Is("("):
		return p.parseFunction(false)
	case t.Is("modifier"):
		return p.parseModifier()
	}
	if n, ok, err := p.parseTypeLevelMember(); ok || err != nil {
		return n, err
	}
	return p.parseStateVariable()
}

// parsePath reads an identifier path such as A or A.B.C.
func (p *Parser) parsePath() (string, error) {
	from := p.pos
	if _, err := p.expectIdent(); err != nil {
		return "", err
	}
	for p.at(".") && p.peekN(1).Kind == scanner.Ident {
		p.next()
		p.next()
	}
	return p.joined(from, p.pos), nil
}

// skipBalanced consumes a bracketed group starting at the current opening
// bracket, including everything nested inside it.
func (p *Parser) skipBalanced() error {
	open := p.peek()
	if !scanner.IsOpenBracket(open.Text) || open.Kind != scanner.Punct {
		return p.unexpected("opening bracket")
	}
	depth := 0
	for {
		t := p.next()
		switch {
		case t.Kind == scanner.EOF:
			return p.errorf(open, "unclosed %q", open.Text)
		case t.Kind != scanner.Punct:
		case scanner.IsOpenBracket(t.Text):
			depth++
		case scanner.IsCloseBracket(t.Text):
			depth--
			if depth == 0 {
				return nil
			}
		}
	}
}
