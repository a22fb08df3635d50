package sakura

import (
	"strings"
	"testing"
)

func TestParseScriptDirectives(t *testing.T) {
	s := ParseScript("AB/C。D", DefaultDirectives())
	want := []Token{
		{Kind: TokenChar, Text: "A"},
		{Kind: TokenChar, Text: "B"},
		{Kind: TokenPause},
		{Kind: TokenChar, Text: "C"},
		{Kind: TokenLineBreak},
		{Kind: TokenChar, Text: "D"},
	}
	if len(s.Tokens) != len(want) {
		t.Fatalf("tokens = %d, want %d (%v)", len(s.Tokens), len(want), s.Tokens)
	}
	for i, w := range want {
		if s.Tokens[i] != w {
			t.Errorf("token[%d] = %+v, want %+v", i, s.Tokens[i], w)
		}
	}
}

func TestParseScriptCharsMatchStrippedText(t *testing.T) {
	d := DefaultDirectives()
	for _, raw := range []string{
		"",
		"hello",
		"520/I love you/。Sakura ❤ forever",
		"//。。",
		"a/b/c。d",
		"我爱你/。范小饭",
	} {
		s := ParseScript(raw, d)
		stripped := strings.NewReplacer("/", "", "。", "").Replace(raw)
		if got := s.DisplayText(); got != stripped {
			t.Errorf("DisplayText(%q) = %q, want %q", raw, got, stripped)
		}
	}
}

func TestParseScriptGraphemeClusters(t *testing.T) {
	// Flag emoji and a combining accent are single user-perceived characters.
	s := ParseScript("🇯🇵é", DefaultDirectives())
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2 (%v)", s.Len(), s.Tokens)
	}
	if s.Tokens[1].Text != "é" {
		t.Errorf("token[1] = %q, want %q", s.Tokens[1].Text, "é")
	}
}

func TestParseScriptEscape(t *testing.T) {
	s := ParseScript(`a\/b\x`, DefaultDirectives())
	if got := s.DisplayText(); got != `a/b\x` {
		t.Errorf("DisplayText = %q, want %q", got, `a/b\x`)
	}
	for _, tok := range s.Tokens {
		if tok.Kind != TokenChar {
			t.Errorf("unexpected %v token", tok.Kind)
		}
	}
}

func TestParseScriptTrailingEscape(t *testing.T) {
	s := ParseScript(`ab\`, DefaultDirectives())
	if got := s.DisplayText(); got != `ab\` {
		t.Errorf("DisplayText = %q, want %q", got, `ab\`)
	}
}

func TestParseScriptGroup(t *testing.T) {
	s := ParseScript("a{bcd}e", DefaultDirectives())
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if s.Tokens[1].Text != "bcd" {
		t.Errorf("group token = %q, want %q", s.Tokens[1].Text, "bcd")
	}
}

func TestParseScriptUnclosedGroupIsLiteral(t *testing.T) {
	s := ParseScript("a{bc", DefaultDirectives())
	if got := s.DisplayText(); got != "a{bc" {
		t.Errorf("DisplayText = %q, want %q", got, "a{bc")
	}
	if s.Len() != 4 {
		t.Errorf("Len = %d, want 4", s.Len())
	}
}

func TestParseScriptEmptyGroup(t *testing.T) {
	s := ParseScript("a{}b", DefaultDirectives())
	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestScriptFullText(t *testing.T) {
	s := ParseScript("520/hi。you", DefaultDirectives())
	if got := s.FullText(); got != "520hi\nyou" {
		t.Errorf("FullText = %q, want %q", got, "520hi\nyou")
	}
}

func TestParseScriptCustomMarkers(t *testing.T) {
	d := DefaultDirectives()
	d.Pause = '|'
	d.LineBreak = '#'
	s := ParseScript("a|b#c/", d)
	if got := s.FullText(); got != "ab\nc/" {
		t.Errorf("FullText = %q, want %q", got, "ab\nc/")
	}
}
