package lexer

import "testing"

func tokens(src string) []Token {
	l := New(src)
	var out []Token
	for {
		tok := l.NextToken()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

func TestNextTokenPunctuationAndOperators(t *testing.T) {
	toks := tokens(`const x = 1 + 2 ** 3 ?? null;`)
	want := []TokenType{CONST, IDENT, ASSIGN, NUMBER, PLUS, NUMBER, POW, NUMBER, QQ, NULL, SEMI, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tt := range want {
		if toks[i].Type != tt {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Type, tt)
		}
	}
}

func TestNextTokenNumberForms(t *testing.T) {
	cases := []struct {
		src  string
		want TokenType
	}{
		{"42", NUMBER},
		{"0x2A", NUMBER},
		{"0b101", NUMBER},
		{"0o52", NUMBER},
		{"3.14e10", NUMBER},
		{"10n", BIGINT},
	}
	for _, c := range cases {
		toks := tokens(c.src)
		if toks[0].Type != c.want {
			t.Errorf("%q: got %s, want %s", c.src, toks[0].Type, c.want)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	toks := tokens(`"a\nb\"c"`)
	if toks[0].Type != STRING {
		t.Fatalf("got %s, want STRING", toks[0].Type)
	}
	if toks[0].Literal != "a\nb\"c" {
		t.Errorf("got %q", toks[0].Literal)
	}
}

func TestNextTokenIllegal(t *testing.T) {
	toks := tokens("@")
	if toks[0].Type != ILLEGAL {
		t.Fatalf("got %s, want ILLEGAL", toks[0].Type)
	}
}

func TestNLBeforeTracksNewlines(t *testing.T) {
	toks := tokens("let x\nlet y")
	// find the second `let`
	count := 0
	for _, tok := range toks {
		if tok.Type == LET {
			count++
			if count == 2 && !tok.NLBefore {
				t.Errorf("second let: expected NLBefore true")
			}
		}
	}
}

func TestKeywordLookup(t *testing.T) {
	if LookupIdent("async") != ASYNC {
		t.Errorf("expected async keyword")
	}
	if LookupIdent("notAKeyword") != IDENT {
		t.Errorf("expected plain identifier")
	}
}

func TestTokenTypeString(t *testing.T) {
	if PLUS.String() != "+" {
		t.Errorf("got %q", PLUS.String())
	}
	if TokenType(9999).String() != "UNKNOWN" {
		t.Errorf("expected UNKNOWN for out-of-range type")
	}
}
