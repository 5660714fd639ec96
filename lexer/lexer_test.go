package lexer

import (
	"testing"

	"lox/token"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.TokenType
	}
	return types
}

func assertTypes(t *testing.T, got []token.Token, want []token.TokenType) {
	t.Helper()
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(gotTypes), gotTypes, len(want), want)
	}
	for i := range want {
		if gotTypes[i] != want[i] {
			t.Fatalf("token %d = %s, want %s", i, gotTypes[i], want[i])
		}
	}
}

func TestScan_Operators(t *testing.T) {
	scanner := New("==/=*+>-<!=<=>=!!%")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []token.TokenType{
		token.EQUAL_EQUAL, token.DIV, token.ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.BANG, token.MOD, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScan_Punctuation(t *testing.T) {
	scanner := New("(){}**;+!=<=.,")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.MULT, token.MULT,
		token.SEMICOLON, token.ADD, token.NOT_EQUAL, token.LESS_EQUAL,
		token.DOT, token.COMMA, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScan_Number(t *testing.T) {
	scanner := New("3.14")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.NUMBER, token.EOF})
	if got[0].Literal != 3.14 {
		t.Fatalf("literal = %v, want 3.14", got[0].Literal)
	}
}

func TestScan_InvalidNumberTrailingDot(t *testing.T) {
	scanner := New("1.")
	_, err := scanner.Scan()
	if err == nil {
		t.Fatal("expected an error for a trailing decimal point")
	}
}

func TestScan_StringLiteral(t *testing.T) {
	scanner := New(`"hello lox"`)
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.STRING, token.EOF})
	if got[0].Literal != "hello lox" {
		t.Fatalf("literal = %q, want %q", got[0].Literal, "hello lox")
	}
}

func TestScan_UnterminatedStringLiteral(t *testing.T) {
	scanner := New(`"hello`)
	_, err := scanner.Scan()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestScan_IdentifierWithDigits(t *testing.T) {
	scanner := New("foo2bar")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.IDENTIFIER, token.EOF})
	if got[0].Lexeme != "foo2bar" {
		t.Fatalf("lexeme = %q, want %q", got[0].Lexeme, "foo2bar")
	}
}

func TestScan_Keywords(t *testing.T) {
	scanner := New("and class else false fun for if nil or print return super this true var while")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	want := []token.TokenType{
		token.AND, token.CLASS, token.ELSE, token.FALSE, token.FUN, token.FOR,
		token.IF, token.NIL, token.OR, token.PRINT, token.RETURN, token.SUPER,
		token.THIS, token.TRUE, token.VAR, token.WHILE, token.EOF,
	}
	assertTypes(t, got, want)
}

func TestScan_LineComment(t *testing.T) {
	scanner := New("// this entire line is a comment\nprint 1;")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.PRINT, token.NUMBER, token.SEMICOLON, token.EOF})
}

func TestScan_NestedBlockComment(t *testing.T) {
	scanner := New("/* outer /* inner */ still outer */ print 1;")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	assertTypes(t, got, []token.TokenType{token.PRINT, token.NUMBER, token.SEMICOLON, token.EOF})
}

func TestScan_UnterminatedBlockComment(t *testing.T) {
	scanner := New("/* never closed")
	_, err := scanner.Scan()
	if err == nil {
		t.Fatal("expected an error for an unterminated block comment")
	}
}

func TestScan_LineAndColumnTracking(t *testing.T) {
	scanner := New("var a = 1;\nvar b = 2;")
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if got[0].Line != 1 {
		t.Fatalf("first token line = %d, want 1", got[0].Line)
	}
	var secondLineSeen bool
	for _, tok := range got {
		if tok.TokenType == token.VAR && tok.Line == 2 {
			secondLineSeen = true
		}
	}
	if !secondLineSeen {
		t.Fatal("expected a VAR token on line 2")
	}
}
