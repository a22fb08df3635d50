package sakura

import (
	"encoding/json"
	"fmt"
	"time"
)

// autoplayStep is a single action in an autoplay script.
type autoplayStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Text   string `json:"text,omitempty"`
	Count  int    `json:"count,omitempty"`
	Ms     int    `json:"ms,omitempty"`
	Value  *bool  `json:"value,omitempty"`
}

type autoplayScript struct {
	Steps []autoplayStep `json:"steps"`
}

// autoplayTarget receives the intents of a script. *Game implements it.
type autoplayTarget interface {
	Skip()
	Edit(Edit)
	SetFocus(bool)
	Screenshot(label string)
	Quit()
}

var autoplayActions = map[string]bool{
	"wait": true, "skip": true, "type": true, "backspace": true,
	"enter": true, "focus": true, "screenshot": true, "quit": true,
}

// Autoplay replays a scripted sequence of intents against the loop clock,
// one step per frame. It drives demos and visual regression runs.
type Autoplay struct {
	steps     []autoplayStep
	cursor    int
	waitUntil time.Duration
	waiting   bool
	done      bool
}

// LoadAutoplay parses a JSON script of the form
//
//	{"steps": [{"action": "wait", "ms": 500}, {"action": "skip"}, ...]}
//
// Actions: wait{ms}, skip, type{text}, backspace{count}, enter,
// focus{value}, screenshot{label}, quit.
func LoadAutoplay(data []byte) (*Autoplay, error) {
	var script autoplayScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("sakura: parse autoplay script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("sakura: parse autoplay script: no steps")
	}
	for i, st := range script.Steps {
		if !autoplayActions[st.Action] {
			return nil, fmt.Errorf("sakura: parse autoplay script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "focus" && st.Value == nil {
			return nil, fmt.Errorf("sakura: parse autoplay script: step %d: focus needs a value", i)
		}
	}
	return &Autoplay{steps: script.Steps}, nil
}

// Done reports whether every step has run.
func (a *Autoplay) Done() bool {
	return a.done
}

// step runs at most one action at clock value now.
func (a *Autoplay) step(t autoplayTarget, now time.Duration) {
	if a.done {
		return
	}
	if a.waiting {
		if now < a.waitUntil {
			return
		}
		a.waiting = false
	}
	if a.cursor >= len(a.steps) {
		a.done = true
		return
	}

	st := a.steps[a.cursor]
	a.cursor++

	switch st.Action {
	case "wait":
		a.waiting = true
		a.waitUntil = now + time.Duration(st.Ms)*time.Millisecond
	case "skip":
		t.Skip()
	case "type":
		t.Edit(Edit{Insert: st.Text})
	case "backspace":
		n := st.Count
		if n <= 0 {
			n = 1
		}
		t.Edit(Edit{Backspace: n})
	case "enter":
		t.Edit(Edit{Insert: "\n"})
	case "focus":
		t.SetFocus(*st.Value)
	case "screenshot":
		t.Screenshot(st.Label)
	case "quit":
		t.Quit()
	}

	if a.cursor >= len(a.steps) && !a.waiting {
		a.done = true
	}
}
