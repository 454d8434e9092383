package lexer

import "testing"

func collect(src string) []Token {
	l := New(src)
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			break
		}
	}
	return toks
}

func TestBasicTokens(t *testing.T) {
	toks := collect(`let x = 1 + 2.5;`)
	want := []TokenType{LET, IDENT, ASSIGN, INT, PLUS, FLOAT, SEMICOLON, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
}

func TestStringAndTranspose(t *testing.T) {
	toks := collect(`"hello" m'`)
	if toks[0].Type != STRING || toks[0].Literal != "hello" {
		t.Fatalf("expected STRING hello, got %v", toks[0])
	}
	if toks[1].Type != IDENT {
		t.Fatalf("expected IDENT, got %v", toks[1])
	}
	if toks[2].Type != QUOTE {
		t.Fatalf("expected QUOTE (transpose), got %v", toks[2])
	}
}

func TestNestedBlockComment(t *testing.T) {
	toks := collect("/* outer /* inner */ still-comment */ 42")
	if toks[0].Type != INT || toks[0].Literal != "42" {
		t.Fatalf("expected comment to be fully skipped, got %v", toks[0])
	}
}

func TestUnicodeIdentifier(t *testing.T) {
	toks := collect("let café = 1;")
	if toks[1].Type != IDENT || toks[1].Literal != "café" {
		t.Fatalf("expected unicode identifier, got %v", toks[1])
	}
}

func TestBOMStripped(t *testing.T) {
	toks := collect("\xEF\xBB\xBFlet x = 1;")
	if toks[0].Type != LET {
		t.Fatalf("expected BOM to be stripped, got %v", toks[0])
	}
}
