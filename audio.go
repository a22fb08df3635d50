package sakura

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const (
	audioSampleRate = beep.SampleRate(48000)
	resampleQuality = 4
)

// Soundtrack is the looping background track. Every method is safe to call
// on a track that failed to open: it then only tracks state and is silent.
type Soundtrack struct {
	ctrl   *beep.Ctrl
	vol    *effects.Volume
	stream beep.StreamSeekCloser

	volume   float64
	muted    bool
	playing  bool
	blurred  bool
	fadeIn   time.Duration
	fade     *gween.Tween
	fadeGain float64
}

// newSoundtrack returns a silent track holding cfg's settings.
func newSoundtrack(cfg AudioConfig) *Soundtrack {
	return &Soundtrack{
		volume:   clamp01(cfg.Volume),
		muted:    cfg.Muted,
		fadeIn:   time.Duration(cfg.FadeInMs) * time.Millisecond,
		fadeGain: 1,
	}
}

// OpenSoundtrack decodes cfg.Path (mp3 or wav by extension), starts the
// speaker, and begins playback when cfg.Autoplay is set. Failures are logged
// and yield a silent track; the caller never needs to handle them.
func OpenSoundtrack(cfg AudioConfig) *Soundtrack {
	s := newSoundtrack(cfg)
	if cfg.Path == "" {
		return s
	}
	if err := s.open(cfg.Path); err != nil {
		Logger().Warn("audio unavailable", "path", cfg.Path, "err", err)
		return s
	}
	if cfg.Autoplay {
		s.Play()
	}
	return s
}

func (s *Soundtrack) open(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("sakura: open audio: %w", err)
	}
	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		stream, format, err = mp3.Decode(f)
	case ".wav":
		stream, format, err = wav.Decode(f)
	default:
		_ = f.Close()
		return fmt.Errorf("sakura: unsupported audio format %q", filepath.Ext(path))
	}
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("sakura: decode audio: %w", err)
	}
	if err := speaker.Init(audioSampleRate, audioSampleRate.N(100*time.Millisecond)); err != nil {
		_ = stream.Close()
		return fmt.Errorf("sakura: init speaker: %w", err)
	}

	looped := beep.Loop(-1, stream)
	resampled := beep.Resample(resampleQuality, format.SampleRate, audioSampleRate, looped)
	s.stream = stream
	s.ctrl = &beep.Ctrl{Streamer: resampled, Paused: true}
	s.vol = &effects.Volume{Streamer: s.ctrl, Base: 2}
	s.apply()
	speaker.Play(s.vol)
	Logger().Info("audio loaded", "path", path, "sample_rate", int(format.SampleRate))
	return nil
}

// Enabled reports whether a track is actually loaded.
func (s *Soundtrack) Enabled() bool { return s.ctrl != nil }

// Playing reports whether playback is requested.
func (s *Soundtrack) Playing() bool { return s.playing }

// Muted reports whether the track is muted.
func (s *Soundtrack) Muted() bool { return s.muted }

// Volume returns the linear volume in [0, 1].
func (s *Soundtrack) Volume() float64 { return s.volume }

// Play starts or resumes playback, fading in when configured.
func (s *Soundtrack) Play() {
	if s.playing {
		return
	}
	s.playing = true
	if s.fadeIn > 0 {
		s.fadeGain = 0
		s.fade = gween.New(0, 1, float32(s.fadeIn.Seconds()), ease.Linear)
	}
	s.apply()
}

// Pause stops playback, keeping the position.
func (s *Soundtrack) Pause() {
	if !s.playing {
		return
	}
	s.playing = false
	s.fade = nil
	s.fadeGain = 1
	s.apply()
}

// Toggle flips between Play and Pause.
func (s *Soundtrack) Toggle() {
	if s.playing {
		s.Pause()
	} else {
		s.Play()
	}
}

// SetVolume sets the linear volume, clamped to [0, 1].
func (s *Soundtrack) SetVolume(v float64) {
	s.volume = clamp01(v)
	s.apply()
}

// SetMuted mutes or unmutes without changing the volume.
func (s *Soundtrack) SetMuted(m bool) {
	s.muted = m
	s.apply()
}

// SetFocus silences the track while the window is in the background. The
// requested play state is kept and restored on focus.
func (s *Soundtrack) SetFocus(focused bool) {
	if s.blurred == !focused {
		return
	}
	s.blurred = !focused
	s.apply()
}

// Update advances the fade-in by dt seconds.
func (s *Soundtrack) Update(dt float32) {
	if s.fade == nil {
		return
	}
	v, done := s.fade.Update(dt)
	s.fadeGain = float64(v)
	if done {
		s.fadeGain = 1
		s.fade = nil
	}
	s.apply()
}

// gain returns the effective linear gain.
func (s *Soundtrack) gain() float64 {
	if s.muted {
		return 0
	}
	return s.volume * s.fadeGain
}

// audible reports whether samples should be produced at all.
func (s *Soundtrack) audible() bool {
	return s.playing && !s.blurred
}

// volumeLevel maps a linear gain to an effects.Volume level with base 2.
func volumeLevel(gain float64) (level float64, silent bool) {
	if gain <= 0 {
		return 0, true
	}
	return math.Log2(gain), false
}

// apply pushes the current state to the speaker goroutine.
func (s *Soundtrack) apply() {
	if s.ctrl == nil {
		return
	}
	level, silent := volumeLevel(s.gain())
	speaker.Lock()
	s.ctrl.Paused = !s.audible()
	s.vol.Volume = level
	s.vol.Silent = silent
	speaker.Unlock()
}

// Close stops playback and releases the decoder.
func (s *Soundtrack) Close() error {
	if s.ctrl == nil {
		return nil
	}
	speaker.Clear()
	err := s.stream.Close()
	s.ctrl = nil
	return err
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
