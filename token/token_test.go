package token

import "testing"

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		wantLex   string
	}{
		{"ASSIGN token", ASSIGN, "="},
		{"MULT token", MULT, "*"},
		{"EOF token", EOF, ""},
		{"LARGER_EQUAL token", LARGER_EQUAL, ">="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, 1, 0)
			if got.TokenType != tt.tokenType {
				t.Errorf("TokenType = %v, want %v", got.TokenType, tt.tokenType)
			}
			if got.Lexeme != tt.wantLex {
				t.Errorf("Lexeme = %q, want %q", got.Lexeme, tt.wantLex)
			}
			if got.Literal != nil {
				t.Errorf("Literal = %v, want nil", got.Literal)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(NUMBER, 42.0, "42", 3, 5)
	if got.TokenType != NUMBER {
		t.Errorf("TokenType = %v, want NUMBER", got.TokenType)
	}
	if got.Literal != 42.0 {
		t.Errorf("Literal = %v, want 42.0", got.Literal)
	}
	if got.Lexeme != "42" {
		t.Errorf("Lexeme = %q, want %q", got.Lexeme, "42")
	}
	if got.Line != 3 || got.Column != 5 {
		t.Errorf("position = (%d, %d), want (3, 5)", got.Line, got.Column)
	}
}

func TestKeyWords(t *testing.T) {
	for word, wantType := range map[string]TokenType{
		"and": AND, "class": CLASS, "fun": FUN, "return": RETURN, "while": WHILE,
	} {
		gotType, ok := KeyWords[word]
		if !ok {
			t.Fatalf("expected %q to be a keyword", word)
		}
		if gotType != wantType {
			t.Errorf("KeyWords[%q] = %v, want %v", word, gotType, wantType)
		}
	}
	if _, ok := KeyWords["notakeyword"]; ok {
		t.Error("expected \"notakeyword\" to not be a keyword")
	}
}

func TestTokenString(t *testing.T) {
	tok := CreateLiteralToken(IDENTIFIER, "x", "x", 1, 0)
	want := `Token {Type: IDENTIFIER, Value: "x"}`
	if got := tok.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
