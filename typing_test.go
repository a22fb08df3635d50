package sakura

import (
	"testing"
	"time"
)

const ms = time.Millisecond

func scenarioTypist(raw string) *Typist {
	return NewTypist(ParseScript(raw, DefaultDirectives()), TypingConfig{
		CharInterval:  200 * ms,
		PauseDuration: 1000 * ms,
	})
}

// runTypist advances ty every step from 0 to end and records when the text changed.
func runTypist(ty *Typist, end, step time.Duration) map[time.Duration]string {
	reveals := map[time.Duration]string{}
	for now := time.Duration(0); now <= end; now += step {
		if text, changed := ty.Advance(now); changed {
			reveals[now] = text
		}
	}
	return reveals
}

func TestTypistPauseScenario(t *testing.T) {
	ty := scenarioTypist("AB/C")
	reveals := runTypist(ty, 2000*ms, 10*ms)

	want := map[time.Duration]string{
		0:         "A",
		200 * ms:  "AB",
		1400 * ms: "ABC",
	}
	if len(reveals) != len(want) {
		t.Fatalf("reveals = %v, want %v", reveals, want)
	}
	for at, text := range want {
		if reveals[at] != text {
			t.Errorf("text at %v = %q, want %q", at, reveals[at], text)
		}
	}
	if !ty.Complete() {
		t.Error("Complete = false, want true")
	}
}

func TestTypistPausedState(t *testing.T) {
	ty := scenarioTypist("AB/C")
	ty.Advance(0)
	ty.Advance(200 * ms)
	ty.Advance(400 * ms)
	st := ty.State()
	if !st.Paused {
		t.Fatal("Paused = false after pause token")
	}
	if st.PausedUntil != 1400*ms {
		t.Errorf("PausedUntil = %v, want %v", st.PausedUntil, 1400*ms)
	}
	if _, changed := ty.Advance(1399 * ms); changed {
		t.Error("revealed during pause")
	}
	if text, changed := ty.Advance(1400 * ms); !changed || text != "ABC" {
		t.Errorf("Advance(1400ms) = %q, %v, want ABC, true", text, changed)
	}
}

func TestTypistCoarseTicks(t *testing.T) {
	// With a 30 Hz clock every step lands late, so C appears a few ticks after 1400ms.
	ty := scenarioTypist("AB/C")
	reveals := runTypist(ty, 2000*ms, 33*ms)
	var at time.Duration = -1
	for k, v := range reveals {
		if v == "ABC" {
			at = k
		}
	}
	if at < 1400*ms || at >= 1400*ms+4*33*ms {
		t.Errorf("C revealed at %v, want just after 1400ms", at)
	}
}

func TestTypistEmptyScript(t *testing.T) {
	ty := scenarioTypist("")
	if !ty.Complete() {
		t.Fatal("empty script should be complete immediately")
	}
	if text, changed := ty.Advance(0); text != "" || changed {
		t.Errorf("Advance = %q, %v, want empty, false", text, changed)
	}
}

func TestTypistOnlyDirectives(t *testing.T) {
	ty := scenarioTypist("/。")
	runTypist(ty, 3000*ms, 10*ms)
	if !ty.Complete() {
		t.Error("Complete = false, want true")
	}
	if ty.Text() != "\n" {
		t.Errorf("Text = %q, want %q", ty.Text(), "\n")
	}
}

func TestTypistSkipIdempotent(t *testing.T) {
	ty := scenarioTypist("520/I love you/。bye")
	ty.Advance(0)
	if !ty.Skip() {
		t.Fatal("first Skip reported no change")
	}
	once := ty.Text()
	if ty.Skip() {
		t.Error("second Skip reported a change")
	}
	if ty.Text() != once {
		t.Errorf("Text after second Skip = %q, want %q", ty.Text(), once)
	}
	if once != "520I love you\nbye" {
		t.Errorf("Text = %q, want %q", once, "520I love you\nbye")
	}
}

func TestTypistSkipDuringPause(t *testing.T) {
	ty := scenarioTypist("AB/C")
	ty.Advance(0)
	ty.Advance(200 * ms)
	ty.Advance(400 * ms)
	if !ty.State().Paused {
		t.Fatal("expected pause")
	}
	ty.Skip()
	st := ty.State()
	if st.Paused || !st.Complete {
		t.Errorf("state after skip = %+v, want complete and not paused", st)
	}
	if ty.Text() != "ABC" {
		t.Errorf("Text = %q, want ABC", ty.Text())
	}
}

func TestTypistEditBeforeComplete(t *testing.T) {
	ty := scenarioTypist("AB")
	ty.Advance(0)
	if ty.Edit(Edit{Insert: "x"}) {
		t.Error("Edit applied before completion")
	}
	if ty.Text() != "A" {
		t.Errorf("Text = %q, want A", ty.Text())
	}
}

func TestTypistEdit(t *testing.T) {
	ty := scenarioTypist("hi❤")
	ty.Skip()

	if !ty.Edit(Edit{Backspace: 1}) {
		t.Fatal("backspace reported no change")
	}
	if ty.Text() != "hi" {
		t.Errorf("Text = %q, want hi", ty.Text())
	}
	ty.Edit(Edit{Insert: "!\nyo"})
	if ty.Text() != "hi!\nyo" {
		t.Errorf("Text = %q, want %q", ty.Text(), "hi!\nyo")
	}
	ty.Edit(Edit{Backspace: 100})
	if ty.Text() != "" {
		t.Errorf("Text = %q, want empty", ty.Text())
	}
	if ty.Edit(Edit{Backspace: 1}) {
		t.Error("backspace on empty text reported a change")
	}
}

func TestTrimLastGrapheme(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"a", ""},
		{"ab", "a"},
		{"a🇯🇵", "a"},
		{"aé", "a"},
		{"我爱你", "我爱"},
	}
	for _, tt := range tests {
		if got := trimLastGrapheme(tt.in); got != tt.want {
			t.Errorf("trimLastGrapheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
