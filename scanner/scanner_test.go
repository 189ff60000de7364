package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"modernc.org/scanner"
)

func texts(toks []Token) []string {
	var out []string
	for _, t := range toks {
		if t.Kind == EOF {
			break
		}
		out = append(out, t.Text)
	}
	return out
}

func TestTokenizeContractHeader(t *testing.T) {
	f, err := Tokenize("a.sol", []byte("contract A is B {\n  uint256 private _x = 0x1F;\n}"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		"contract", "A", "is", "B", "{",
		"uint256", "private", "_x", "=", "0x1F", ";",
		"}",
	}, texts(f.Tokens))
	assert.Equal(t, EOF, f.Tokens[len(f.Tokens)-1].Kind)
}

func TestTokenizePositions(t *testing.T) {
	f, err := Tokenize("a.sol", []byte("contract A {\n    uint x;\n}\n"))
	require.NoError(t, err)

	x := f.Tokens[4]
	require.Equal(t, "x", x.Text)
	assert.Equal(t, "a.sol", x.Pos.Filename)
	assert.Equal(t, 2, x.Pos.Line)
	assert.Equal(t, 10, x.Pos.Column)
}

func TestTokenizeLongestPunct(t *testing.T) {
	f, err := Tokenize("a.sol", []byte("a >>>= b => c ** d != e"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", ">>>=", "b", "=>", "c", "**", "d", "!=", "e"}, texts(f.Tokens))
	assert.Equal(t, Punct, f.Tokens[1].Kind)
}

func TestTokenizeCommentsAreSeparated(t *testing.T) {
	src := "// solhint-disable-next-line\nuint a; /* one\ntwo */ uint b;"
	f, err := Tokenize("a.sol", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"uint", "a", ";", "uint", "b", ";"}, texts(f.Tokens))
	require.Len(t, f.Comments, 2)

	assert.False(t, f.Comments[0].IsBlock())
	assert.Equal(t, " solhint-disable-next-line", f.Comments[0].Body())
	assert.Equal(t, 1, f.Comments[0].Pos.Line)
	assert.Equal(t, 1, f.Comments[0].EndLine)

	assert.True(t, f.Comments[1].IsBlock())
	assert.Equal(t, " one\ntwo ", f.Comments[1].Body())
	assert.Equal(t, 2, f.Comments[1].Pos.Line)
	assert.Equal(t, 3, f.Comments[1].EndLine)
}

func TestTokenizeLiterals(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
	}{
		{`"hello"`, String},
		{`'it\'s'`, String},
		{`"a\\"`, String},
		{`1_000`, Number},
		{`1.5e-3`, Number},
		{`.5`, Number},
		{`0xdeadBEEF`, Number},
		{`$foo_1`, Ident},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			f, err := Tokenize("lit.sol", []byte(tt.src))
			require.NoError(t, err)
			require.Len(t, f.Tokens, 2)
			assert.Equal(t, tt.kind, f.Tokens[0].Kind)
			assert.Equal(t, tt.src, f.Tokens[0].Text)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unterminated string", "string s = \"abc\nuint x;", "string literal not terminated"},
		{"unterminated comment", "uint x; /* never closed", "comment not terminated"},
		{"invalid byte", "uint # x;", "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize("bad.sol", []byte(tt.src))
			require.Error(t, err)
			var el scanner.ErrList
			require.ErrorAs(t, err, &el)
			assert.Contains(t, el[0].Error(), tt.msg)
			assert.Contains(t, el[0].Error(), "bad.sol:1:")
		})
	}
}

func TestTokenizeInvalidByteIsSkipped(t *testing.T) {
	f, err := Tokenize("bad.sol", []byte("a # b"))
	require.Error(t, err)
	assert.Equal(t, []string{"a", "b"}, texts(f.Tokens))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "comment", CommentToken.String())
	assert.Equal(t, "identifier", Ident.String())
	assert.Equal(t, "punctuation", Punct.String())
	assert.Equal(t, "EOF", EOF.String())
}

func TestTokenIs(t *testing.T) {
	assert.True(t, Token{Kind: Ident, Text: "contract"}.Is("contract"))
	assert.True(t, Token{Kind: Punct, Text: "{"}.Is("{"))
	assert.False(t, Token{Kind: String, Text: "contract"}.Is("contract"))
}

func TestBrackets(t *testing.T) {
	for _, s := range []string{"(", "[", "{"} {
		assert.True(t, IsOpenBracket(s), s)
		assert.False(t, IsCloseBracket(s), s)
	}
	for _, s := range []string{")", "]", "}"} {
		assert.True(t, IsCloseBracket(s), s)
	}
}
