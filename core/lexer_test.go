package core

import "testing"

func TestTokenizePunctuationAndOperators(t *testing.T) {
	tests := []struct {
		input string
		want  []tokenKind
	}{
		{"()", []tokenKind{LEFT_PAREN, RIGHT_PAREN, EOF}},
		{"{}", []tokenKind{LEFT_BRACE, RIGHT_BRACE, EOF}},
		{"[]", []tokenKind{LEFT_BRACKET, RIGHT_BRACKET, EOF}},
		{", ;", []tokenKind{COMMA, SEMICOLON, EOF}},
		{"+ - * /", []tokenKind{PLUS, MINUS, STAR, SLASH, EOF}},
		{"= ==", []tokenKind{ASSIGN, EQ, EOF}},
		{"! !=", []tokenKind{BANG, NEQ, EOF}},
		{"< <=", []tokenKind{LESS, LEQ, EOF}},
		{"> >=", []tokenKind{GREATER, GEQ, EOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize(%q) error: %v", tt.input, err)
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("tokenize(%q) = %d tokens, want %d", tt.input, len(toks), len(tt.want))
			}
			for i, want := range tt.want {
				if toks[i].kind != want {
					t.Errorf("token[%d] = %s, want %s", i, toks[i].kind, want)
				}
			}
		})
	}
}

func TestTokenizeKeywords(t *testing.T) {
	tests := []struct {
		input string
		want  tokenKind
	}{
		{"let", LET}, {"fun", FUN}, {"return", RETURN},
		{"if", IF}, {"else", ELSE}, {"while", WHILE},
		{"print", PRINT}, {"true", TRUE}, {"false", FALSE}, {"nil", NIL},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize(%q) error: %v", tt.input, err)
			}
			if toks[0].kind != tt.want {
				t.Errorf("tokenize(%q)[0].kind = %s, want %s", tt.input, toks[0].kind, tt.want)
			}
		})
	}
}

func TestTokenizeIdentifiersNotKeywords(t *testing.T) {
	toks, err := tokenize("letter iffy whiley")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	for i, want := range []string{"letter", "iffy", "whiley"} {
		if toks[i].kind != IDENTIFIER {
			t.Errorf("token[%d].kind = %s, want identifier", i, toks[i].kind)
		}
		if toks[i].lexeme != want {
			t.Errorf("token[%d].lexeme = %q, want %q", i, toks[i].lexeme, want)
		}
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"0", "0"},
		{"3.14", "3.14"},
		{"10 + 1", "10"}, // the number ends at the first non-digit; the rest lexes as separate tokens
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			toks, err := tokenize(tt.input)
			if err != nil {
				t.Fatalf("tokenize(%q) error: %v", tt.input, err)
			}
			if toks[0].kind != NUMBER {
				t.Fatalf("tokenize(%q)[0].kind = %s, want number", tt.input, toks[0].kind)
			}
			if toks[0].lexeme != tt.want {
				t.Errorf("tokenize(%q)[0].lexeme = %q, want %q", tt.input, toks[0].lexeme, tt.want)
			}
		})
	}
}

func TestTokenizeDanglingDotIsNotConsumed(t *testing.T) {
	// "10." lexes the number "10", then a lone '.' has no lexical
	// meaning of its own and fails.
	_, err := tokenize("10.")
	if err == nil {
		t.Fatal("expected an error tokenizing a lone trailing '.'")
	}
}

func TestTokenizeStrings(t *testing.T) {
	toks, err := tokenize(`"hello world"`)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	if toks[0].kind != STRING {
		t.Fatalf("kind = %s, want string", toks[0].kind)
	}
	if toks[0].lexeme != "hello world" {
		t.Errorf("lexeme = %q, want %q", toks[0].lexeme, "hello world")
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := tokenize(`"unterminated`)
	if err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestTokenizeCommentsAndWhitespace(t *testing.T) {
	toks, err := tokenize("let x = 1; // this is a comment\nprint x;")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	var kinds []tokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.kind)
	}
	want := []tokenKind{LET, IDENTIFIER, ASSIGN, NUMBER, SEMICOLON, PRINT, IDENTIFIER, SEMICOLON, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i, w := range want {
		if kinds[i] != w {
			t.Errorf("token[%d] = %s, want %s", i, kinds[i], w)
		}
	}
}

func TestTokenizeUnexpectedCharacter(t *testing.T) {
	_, err := tokenize("let x = @;")
	if err == nil {
		t.Fatal("expected a lex error for '@'")
	}
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks, err := tokenize("let\nx")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	if toks[0].pos.line != 1 {
		t.Errorf("first token line = %d, want 1", toks[0].pos.line)
	}
	if toks[1].pos.line != 2 {
		t.Errorf("second token line = %d, want 2", toks[1].pos.line)
	}
}
