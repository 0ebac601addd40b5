package lexer

import "testing"

func kinds(toks []SpannedToken) []Kind {
	out := make([]Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Token.Kind
	}
	return out
}

func TestLexBasic(t *testing.T) {
	toks, err := Lex(`stave dashboard { text "hi" }`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{KStave, KIdent, KLBrace, KText, KStringLit, KRBrace, KEof}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
	if toks[1].Token.Ident != "dashboard" {
		t.Errorf("ident = %q", toks[1].Token.Ident)
	}
	if toks[4].Token.Str != "hi" {
		t.Errorf("string = %q", toks[4].Token.Str)
	}
}

func TestLexColor(t *testing.T) {
	cases := []struct {
		src        string
		r, g, b, a uint8
	}{
		{"#1a1a2e", 0x1a, 0x1a, 0x2e, 255},
		{"#fff", 255, 255, 255, 255},
		{"#1a1a2eff", 0x1a, 0x1a, 0x2e, 255},
	}
	for _, c := range cases {
		toks, err := Lex(c.src)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.src, err)
		}
		if toks[0].Token.Kind != KColorHex {
			t.Fatalf("%s: kind = %v", c.src, toks[0].Token.Kind)
		}
		tok := toks[0].Token
		if tok.ColorR != c.r || tok.ColorG != c.g || tok.ColorB != c.b || tok.ColorA != c.a {
			t.Errorf("%s: got rgba(%d,%d,%d,%d)", c.src, tok.ColorR, tok.ColorG, tok.ColorB, tok.ColorA)
		}
	}
}

func TestLexUnits(t *testing.T) {
	toks, err := Lex("200px 50% 100vh 80vw 440hz 250ms 2s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{KPx, KPercent, KVh, KVw, KHz, KMs, KSeconds, KEof}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
	if toks[0].Token.Px != 200 {
		t.Errorf("px = %d", toks[0].Token.Px)
	}
	if toks[1].Token.Percent != 5000 {
		t.Errorf("percent = %d", toks[1].Token.Percent)
	}
	if toks[2].Token.Vh != 1000 {
		t.Errorf("vh = %d", toks[2].Token.Vh)
	}
	if toks[3].Token.Vw != 800 {
		t.Errorf("vw = %d", toks[3].Token.Vw)
	}
	if toks[4].Token.Hz != 440 {
		t.Errorf("hz = %d", toks[4].Token.Hz)
	}
	if toks[5].Token.Ms != 250 {
		t.Errorf("ms = %d", toks[5].Token.Ms)
	}
	if toks[6].Token.Seconds != 2 {
		t.Errorf("s = %d", toks[6].Token.Seconds)
	}
}

func TestLexComment(t *testing.T) {
	toks, err := Lex("stave a { // a line comment\n# another comment\ntext \"x\" }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Kind{KStave, KIdent, KLBrace, KText, KStringLit, KRBrace, KEof}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexColorNotConfusedWithComment(t *testing.T) {
	toks, err := Lex("style s { background: #1a1a2e }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawColor bool
	for _, tok := range toks {
		if tok.Token.Kind == KColorHex {
			sawColor = true
		}
	}
	if !sawColor {
		t.Errorf("expected a KColorHex token, got %v", kinds(toks))
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := Lex(`text "unterminated`)
	if err == nil {
		t.Fatal("expected error for unterminated string")
	}
}

func TestLexKeywordAsIdent(t *testing.T) {
	toks, err := Lex("column")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toks[0].Token.Kind != KColumn {
		t.Fatalf("kind = %v", toks[0].Token.Kind)
	}
	name, ok := toks[0].Token.IdentOrKeyword()
	if !ok || name != "column" {
		t.Errorf("IdentOrKeyword = %q, %v", name, ok)
	}
}
