package sakura

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// TypingConfig holds the reveal timing.
type TypingConfig struct {
	CharInterval  time.Duration
	PauseDuration time.Duration
}

// RevealState is the progress of a scripted reveal.
type RevealState struct {
	Index       int           // tokens revealed so far
	Paused      bool          // a pause token is being waited out
	PausedUntil time.Duration // valid when Paused
	Complete    bool
}

// Edit is a post-completion change to the revealed text. Backspace removes
// that many grapheme clusters from the end before Insert is appended.
type Edit struct {
	Insert    string
	Backspace int
}

// Typist reveals a Script over time. It is driven by Advance with a
// monotonically increasing clock and never blocks.
type Typist struct {
	script Script
	cfg    TypingConfig
	state  RevealState

	text        strings.Builder
	lastAdvance time.Duration
	started     bool
}

// NewTypist creates a Typist at the start of script. A script with no tokens
// is complete immediately.
func NewTypist(script Script, cfg TypingConfig) *Typist {
	t := &Typist{script: script, cfg: cfg}
	t.state.Complete = script.Len() == 0
	return t
}

// Advance reveals at most one token if the interval has elapsed and no pause
// is pending at now. It returns the revealed text and whether the visible
// text changed.
func (t *Typist) Advance(now time.Duration) (string, bool) {
	if t.state.Complete {
		return t.text.String(), false
	}
	if t.state.Paused {
		if now < t.state.PausedUntil {
			return t.text.String(), false
		}
		t.state.Paused = false
	}
	if t.started && now-t.lastAdvance < t.cfg.CharInterval {
		return t.text.String(), false
	}
	t.started = true
	t.lastAdvance = now

	tok := t.script.Tokens[t.state.Index]
	t.state.Index++
	changed := false
	switch tok.Kind {
	case TokenChar:
		t.text.WriteString(tok.Text)
		changed = true
	case TokenLineBreak:
		t.text.WriteByte('\n')
		changed = true
	case TokenPause:
		t.state.Paused = true
		t.state.PausedUntil = now + t.cfg.PauseDuration
	}
	if t.state.Index >= t.script.Len() {
		t.state.Complete = true
		t.state.Paused = false
	}
	return t.text.String(), changed
}

// Skip jumps to the full text, cancelling any pending pause. It reports
// whether anything changed; a second call is a no-op.
func (t *Typist) Skip() bool {
	if t.state.Complete {
		return false
	}
	full := t.script.FullText()
	changed := full != t.text.String()
	t.text.Reset()
	t.text.WriteString(full)
	t.state = RevealState{Index: t.script.Len(), Complete: true}
	return changed
}

// Edit applies e once the reveal is complete. Edits during the reveal are
// ignored. It reports whether the text changed.
func (t *Typist) Edit(e Edit) bool {
	if !t.state.Complete {
		return false
	}
	cur := t.text.String()
	next := cur
	for i := 0; i < e.Backspace && next != ""; i++ {
		next = trimLastGrapheme(next)
	}
	next += e.Insert
	if next == cur {
		return false
	}
	t.text.Reset()
	t.text.WriteString(next)
	return true
}

// Text returns the revealed text.
func (t *Typist) Text() string {
	return t.text.String()
}

// Complete reports whether every token has been revealed.
func (t *Typist) Complete() bool {
	return t.state.Complete
}

// State returns a copy of the reveal progress.
func (t *Typist) State() RevealState {
	return t.state
}

// trimLastGrapheme drops the final user-perceived character of s.
func trimLastGrapheme(s string) string {
	last := 0
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		from, _ := g.Positions()
		last = from
	}
	return s[:last]
}
