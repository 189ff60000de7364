// Package scanner tokenizes Solidity source for the parser. It drives a
// modernc.org/scanner RecScanner with a hand-written scan function and
// separates comments from the token stream so the parser never sees them,
// while inline lint directives can still be read from File.Comments.
package scanner

import (
	"go/token"
	"strings"
	"unicode/utf8"

	"modernc.org/scanner"
)

// Kind classifies a token. The zero value is reserved: RecScanner hands it
// back for bytes the scan function rejected.
type Kind int

const (
	invalid Kind = iota
	EOF
	Whitespace
	CommentToken
	Ident
	Number
	String
	Punct
)

var kindNames = [...]string{
	invalid:      "invalid",
	EOF:          "EOF",
	Whitespace:   "whitespace",
	CommentToken: "comment",
	Ident:        "identifier",
	Number:       "number",
	String:       "string",
	Punct:        "punctuation",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Token is a single lexeme with its source text and start position.
type Token struct {
	Kind Kind
	Text string
	Pos  token.Position
}

// Is reports whether t is an identifier or punctuation token spelled text.
func (t Token) Is(text string) bool {
	return (t.Kind == Ident || t.Kind == Punct) && t.Text == text
}

// Comment is a line or block comment. Line is where it starts, EndLine
// where it ends (equal for line comments).
type Comment struct {
	Text    string
	Pos     token.Position
	EndLine int
}

// IsBlock reports whether c is a /* */ comment.
func (c Comment) IsBlock() bool { return strings.HasPrefix(c.Text, "/*") }

// Body returns the comment text without its delimiters.
func (c Comment) Body() string {
	if c.IsBlock() {
		return strings.TrimSuffix(strings.TrimPrefix(c.Text, "/*"), "*/")
	}
	return strings.TrimPrefix(c.Text, "//")
}

// File is the tokenized form of one source file. Tokens always ends with
// an EOF token.
type File struct {
	Name     string
	Tokens   []Token
	Comments []Comment
}

// Tokenize scans src completely. Lexical errors are returned as a
// scanner.ErrList; the returned File is usable up to the first error.
func Tokenize(name string, src []byte) (*File, error) {
	rs := scanner.NewRecScanner(name, src, scan, int(Whitespace))
	f := &File{Name: name}
	var errs scanner.ErrList

	for {
		tok := rs.Scan()
		kind := Kind(tok.Ch)
		if kind == invalid {
			continue
		}
		if kind == EOF {
			f.Tokens = append(f.Tokens, Token{Kind: EOF, Pos: tok.Position()})
			break
		}
		text := tok.Src()
		pos := tok.Position()
		switch kind {
		case CommentToken:
			if strings.HasPrefix(text, "/*") && (len(text) < 4 || !strings.HasSuffix(text, "*/")) {
				errs.AddErr(pos, "comment not terminated")
			}
			f.Comments = append(f.Comments, Comment{
				Text:    text,
				Pos:     pos,
				EndLine: pos.Line + strings.Count(text, "\n"),
			})
			continue
		case String:
			if !stringTerminated(text) {
				errs.AddErr(pos, "string literal not terminated")
			}
		}
		f.Tokens = append(f.Tokens, Token{Kind: kind, Text: text, Pos: pos})
	}

	if err := rs.Err(); err != nil {
		if el, ok := err.(scanner.ErrList); ok {
			errs = append(el, errs...)
		}
	}
	return f, errs.Err()
}

func stringTerminated(s string) bool {
	if len(s) < 2 || s[len(s)-1] != s[0] {
		return false
	}
	// A trailing quote preceded by an odd run of backslashes is escaped.
	n := 0
	for i := len(s) - 2; i > 0 && s[i] == '\\'; i-- {
		n++
	}
	return n%2 == 0
}

// puncts is ordered longest first so the first prefix match wins.
var puncts = []string{
	">>>=",
	">>>", "<<=", ">>=",
	"**", "==", "!=", "<=", ">=", "&&", "||", "++", "--", "+=", "-=", "*=", "/=",
	"%=", "|=", "&=", "^=", "=>", "->", ":=", "<<", ">>",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "=", "<", ">", "+", "-", "*", "/",
	"%", "!", "~", "&", "|", "^", "?", ":", "@",
}

// scan recognizes one lexeme at the start of s and returns its kind and
// length. It follows the RecScanner contract: a zero length ends the input
// and a negative id rejects the bytes.
func scan(s []byte) (id, length int) {
	if len(s) == 0 {
		return int(EOF), 0
	}
	c := s[0]
	switch {
	case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
		return int(Whitespace), 1
	case c == '/' && len(s) > 1 && s[1] == '/':
		n := 2
		for n < len(s) && s[n] != '\n' {
			n++
		}
		return int(CommentToken), n
	case c == '/' && len(s) > 1 && s[1] == '*':
		if end := strings.Index(string(s[2:]), "*/"); end >= 0 {
			return int(CommentToken), end + 4
		}
		return int(CommentToken), len(s)
	case isIdentStart(c):
		n := 1
		for n < len(s) && isIdentPart(s[n]) {
			n++
		}
		return int(Ident), n
	case isDigit(c) || (c == '.' && len(s) > 1 && isDigit(s[1])):
		return int(Number), scanNumber(s)
	case c == '"' || c == '\'':
		return int(String), scanString(s)
	}
	for _, p := range puncts {
		if len(s) >= len(p) && string(s[:len(p)]) == p {
			return int(Punct), len(p)
		}
	}
	_, size := utf8.DecodeRune(s)
	return -1, size
}

func scanNumber(s []byte) int {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n := 2
		for n < len(s) && (isHex(s[n]) || s[n] == '_') {
			n++
		}
		return n
	}
	n := 0
	for n < len(s) && (isDigit(s[n]) || s[n] == '_') {
		n++
	}
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n++
		for n < len(s) && (isDigit(s[n]) || s[n] == '_') {
			n++
		}
	}
	if n < len(s) && (s[n] == 'e' || s[n] == 'E') {
		m := n + 1
		if m < len(s) && s[m] == '-' {
			m++
		}
		if m < len(s) && isDigit(s[m]) {
			n = m
			for n < len(s) && (isDigit(s[n]) || s[n] == '_') {
				n++
			}
		}
	}
	return n
}

// scanString consumes a quoted literal. An unterminated literal stops at
// the end of the line.
func scanString(s []byte) int {
	quote := s[0]
	for n := 1; n < len(s); n++ {
		switch s[n] {
		case '\\':
			n++
		case quote:
			return n + 1
		case '\n':
			return n
		}
	}
	return len(s)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// IsOpenBracket reports whether text opens a bracket/paren/brace.
func IsOpenBracket(text string) bool {
	return text == "(" || text == "[" || text == "{"
}

// IsCloseBracket reports whether text closes a bracket/paren/brace.
func IsCloseBracket(text string) bool {
	return text == ")" || text == "]" || text == "}"
}
