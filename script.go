package sakura

import (
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// TokenKind distinguishes the entries of a parsed script.
type TokenKind uint8

const (
	TokenChar      TokenKind = iota // visible text revealed in one step
	TokenPause                      // dwell for the configured pause duration
	TokenLineBreak                  // paragraph break; contributes no character
)

// Token is one step of a scripted reveal. Text is set only for TokenChar and
// holds a whole grapheme cluster or a grouped unit.
type Token struct {
	Kind TokenKind
	Text string
}

// Directives are the in-band markers recognized by ParseScript.
type Directives struct {
	Pause      rune // default '/'
	LineBreak  rune // default '。'
	Escape     rune // default '\\'
	GroupOpen  rune // default '{'
	GroupClose rune // default '}'
}

// DefaultDirectives returns the markers used by the stock greeting.
func DefaultDirectives() Directives {
	return Directives{
		Pause:      '/',
		LineBreak:  '。',
		Escape:     '\\',
		GroupOpen:  '{',
		GroupClose: '}',
	}
}

// Script is an ordered token sequence derived from a directive-annotated string.
type Script struct {
	Tokens []Token
}

// ParseScript splits raw into tokens. Unknown escapes and unclosed groups are
// kept as literal characters; parsing never fails.
func ParseScript(raw string, d Directives) Script {
	var s Script
	var lit strings.Builder

	flush := func() {
		if lit.Len() == 0 {
			return
		}
		g := uniseg.NewGraphemes(lit.String())
		for g.Next() {
			s.Tokens = append(s.Tokens, Token{Kind: TokenChar, Text: g.Str()})
		}
		lit.Reset()
	}

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		i += size

		switch {
		case r == d.Escape && d.Escape != 0:
			if i >= len(raw) {
				lit.WriteRune(r)
				continue
			}
			next, nsize := utf8.DecodeRuneInString(raw[i:])
			if d.isMarker(next) {
				i += nsize
				lit.WriteRune(next)
				continue
			}
			lit.WriteRune(r)
		case r == d.Pause:
			flush()
			s.Tokens = append(s.Tokens, Token{Kind: TokenPause})
		case r == d.LineBreak:
			flush()
			s.Tokens = append(s.Tokens, Token{Kind: TokenLineBreak})
		case r == d.GroupOpen && d.GroupOpen != 0:
			end := strings.IndexRune(raw[i:], d.GroupClose)
			if end < 0 {
				lit.WriteRune(r)
				continue
			}
			flush()
			if end > 0 {
				s.Tokens = append(s.Tokens, Token{Kind: TokenChar, Text: raw[i : i+end]})
			}
			i += end + utf8.RuneLen(d.GroupClose)
		default:
			lit.WriteRune(r)
		}
	}
	flush()
	return s
}

func (d Directives) isMarker(r rune) bool {
	return r == d.Pause || r == d.LineBreak || r == d.Escape ||
		(r == d.GroupOpen && d.GroupOpen != 0) || (r == d.GroupClose && d.GroupClose != 0)
}

// Len returns the number of tokens.
func (s Script) Len() int {
	return len(s.Tokens)
}

// DisplayText concatenates every TokenChar in order, skipping directives.
func (s Script) DisplayText() string {
	var b strings.Builder
	for _, t := range s.Tokens {
		if t.Kind == TokenChar {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// FullText is the revealed text once every token has been shown: the display
// text with a newline per line break.
func (s Script) FullText() string {
	var b strings.Builder
	for _, t := range s.Tokens {
		switch t.Kind {
		case TokenChar:
			b.WriteString(t.Text)
		case TokenLineBreak:
			b.WriteByte('\n')
		}
	}
	return b.String()
}
