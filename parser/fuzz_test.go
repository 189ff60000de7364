package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/madlabman/solhint-plugin-lido-csm/ast"
)

// seedCorpus loads the sample contracts from examples/ as seed inputs.
func seedCorpus(f *testing.F) {
	entries, err := os.ReadDir(filepath.Join("..", "examples"))
	if err == nil {
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".sol") {
				continue
			}
			data, err := os.ReadFile(filepath.Join("..", "examples", e.Name()))
			if err != nil {
				continue
			}
			f.Add(string(data))
		}
	}

	// Hand-crafted seeds targeting fragile areas
	seeds := []string{
		"contract C {",
		"contract C { function f() public { (uint a, , ) = g(); } }",
		"contract C { function f() public { try g() returns (uint x) {} catch {} } }",
		"contract C { function f() public { assembly { let x := 1 } } }",
		"contract C { mapping(address => mapping(uint => bool)) m; }",
		"contract C { function(uint) external returns (bool) cb; }",
		"function f() pure { unchecked { i++; } }",
		"contract C { uint x = (1; }",
		"contract C { uint x = 1); }",
		"/* unterminated",
		"\"unterminated",
		"pragma solidity",
		"import {A as} from \"x\";",
		"type T is",
		"contract C is {}",
		"contract C { function f() { if ( } }",
		"contract C { modifier m() { _; } }",
	}
	for _, s := range seeds {
		f.Add(s)
	}
}

// FuzzParseSource checks that arbitrary input never panics and that a
// successful parse yields a tree Walk can traverse with balanced events.
func FuzzParseSource(f *testing.F) {
	seedCorpus(f)
	f.Fuzz(func(t *testing.T, src string) {
		unit, _, err := ParseSource([]byte(src), "fuzz.sol")
		if err != nil {
			return
		}
		depth := 0
		ast.Walk(ast.VisitorFuncs{
			EnterFunc: func(ast.Node) { depth++ },
			ExitFunc: func(ast.Node) {
				depth--
				if depth < 0 {
					t.Fatal("exit without enter")
				}
			},
		}, unit)
		if depth != 0 {
			t.Fatalf("unbalanced walk: depth %d", depth)
		}
	})
}
