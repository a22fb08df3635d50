package sakura

import (
	"math"
	"testing"
)

func testPetalConfig() PetalConfig {
	return DefaultConfig().Petals
}

func TestNewPetalVariants(t *testing.T) {
	cfg := testPetalConfig()
	rng := newRand(7)
	small := 0
	const n = 4000
	for i := 0; i < n; i++ {
		p := NewPetal(1, 1, &cfg, rng)
		if p.State != PetalGrowing || p.Scale != 0 {
			t.Fatalf("new petal = %+v, want growing at scale 0", p)
		}
		vc := cfg.Variant(p.Variant)
		if p.Hue < vc.Hue.Min || p.Hue > vc.Hue.Max {
			t.Errorf("hue %v outside %+v", p.Hue, vc.Hue)
		}
		if p.MaxScale < vc.MaxScaleMin || p.MaxScale > vc.MaxScaleMin+vc.MaxScaleSpan {
			t.Errorf("MaxScale %v out of range for variant %d", p.MaxScale, p.Variant)
		}
		if math.Abs(p.X-1) > vc.Jitter/2 || math.Abs(p.Y-1) > vc.Jitter/2 {
			t.Errorf("jitter moved petal to (%v,%v)", p.X, p.Y)
		}
		if p.Variant == VariantSmall {
			small++
		}
	}
	ratio := float64(small) / n
	if ratio < 0.1 || ratio > 0.2 {
		t.Errorf("small ratio = %v, want about %v", ratio, cfg.SmallRatio)
	}
}

func TestPetalGrowthMonotonic(t *testing.T) {
	cfg := testPetalConfig()
	p := Petal{State: PetalGrowing, MaxScale: 0.5, GrowthRate: 0.05, AgeRate: 0.02}
	prev := p.Scale
	for i := 0; i < 10000 && p.State == PetalGrowing; i++ {
		p = p.Step(1, &cfg)
		if p.Scale < prev {
			t.Fatalf("tick %d: scale %v < %v while growing", i, p.Scale, prev)
		}
		prev = p.Scale
	}
	if p.State != PetalIdle {
		t.Errorf("State = %v, want idle", p.State)
	}
}

func TestPetalIdleFlutter(t *testing.T) {
	cfg := testPetalConfig()
	p := Petal{Variant: VariantPrimary, State: PetalIdle, MaxScale: 0.5, AgeRate: 0.02}
	amp := cfg.Primary.FlutterAmplitude
	for i := 0; i < 1000; i++ {
		p = p.Step(1, &cfg)
		if p.Scale < 0 || p.Scale > p.MaxScale+amp+1e-9 {
			t.Fatalf("idle scale %v outside [0, %v]", p.Scale, p.MaxScale+amp)
		}
	}
}

func TestPetalIdleScaleClampedAtZero(t *testing.T) {
	cfg := testPetalConfig()
	p := Petal{Variant: VariantPrimary, State: PetalIdle, MaxScale: 0.05, Age: -math.Pi / 2}
	p = p.Step(1, &cfg)
	if p.Scale != 0 {
		t.Errorf("Scale = %v, want 0", p.Scale)
	}
}

func TestPetalSmallDoesNotFlutter(t *testing.T) {
	cfg := testPetalConfig()
	p := Petal{Variant: VariantSmall, State: PetalIdle, MaxScale: 0.3, Age: 0.1, Rotation: 0.4}
	for i := 0; i < 600; i++ {
		p = p.Step(1, &cfg)
		assertNear(t, "small idle scale", p.Scale, 0.3)
	}
	assertNear(t, "small idle rotation", p.Rotation, 0.4)

	p.AgeRate = 0.02
	for i := 0; i < 600; i++ {
		p = p.Step(1, &cfg)
	}
	assertNear(t, "small idle rotation with age", p.Rotation, 0.4)
}

func TestPetalRemovalMonotonic(t *testing.T) {
	cfg := testPetalConfig()
	p := Petal{State: PetalIdle, MaxScale: 0.7, Scale: 0.7, GrowthRate: 0.01, AgeRate: 0.02}
	p = p.MarkForRemoval(&cfg)
	if p.State != PetalShrinking {
		t.Fatalf("State = %v, want shrinking", p.State)
	}
	prev := p.Scale
	ticks := 0
	for p.State != PetalRemoved {
		p = p.Step(1, &cfg)
		if p.Scale > prev {
			t.Fatalf("tick %d: scale rose from %v to %v while shrinking", ticks, prev, p.Scale)
		}
		prev = p.Scale
		ticks++
		if ticks > 1000 {
			t.Fatal("petal never finished shrinking")
		}
	}
	if p.Scale != 0 {
		t.Errorf("Scale = %v, want 0", p.Scale)
	}
}

func TestPetalRemovalBoundedFromStalledRate(t *testing.T) {
	// A petal whose growth rate decayed to nothing must still disappear.
	cfg := testPetalConfig()
	p := Petal{State: PetalIdle, MaxScale: 0.7, Scale: 0.9, GrowthRate: 0}
	p = p.MarkForRemoval(&cfg)
	if p.GrowthRate != cfg.MinDecayRate {
		t.Errorf("GrowthRate = %v, want floor %v", p.GrowthRate, cfg.MinDecayRate)
	}
	// rate_n = r0 * 1.1^n, so the shrink sum exceeds 0.9 in well under 100 ticks.
	for i := 0; i < 100 && p.State != PetalRemoved; i++ {
		p = p.Step(1, &cfg)
	}
	if p.State != PetalRemoved {
		t.Errorf("State = %v after 100 ticks, want removed", p.State)
	}
}

func TestPetalMarkForRemovalIgnoresLateStates(t *testing.T) {
	cfg := testPetalConfig()
	for _, st := range []PetalState{PetalShrinking, PetalRemoved} {
		p := Petal{State: st, GrowthRate: 0.5, Scale: 0.2}
		if got := p.MarkForRemoval(&cfg); got != p {
			t.Errorf("MarkForRemoval changed a %v petal: %+v", st, got)
		}
	}
}

func TestPetalRemovedIsInert(t *testing.T) {
	cfg := testPetalConfig()
	p := Petal{State: PetalRemoved}
	p2 := p.Step(5, &cfg)
	if p2.State != PetalRemoved || p2.Scale != 0 {
		t.Errorf("removed petal changed: %+v", p2)
	}
}

func TestPetalStepFrameRateIndependent(t *testing.T) {
	// Two half ticks should land close to one full tick.
	cfg := testPetalConfig()
	start := Petal{State: PetalGrowing, MaxScale: 10, GrowthRate: 0.1}
	one := start.Step(1, &cfg)
	half := start.Step(0.5, &cfg).Step(0.5, &cfg)
	if math.Abs(one.Scale-half.Scale) > 0.002 {
		t.Errorf("scale after 1 tick = %v, after 2 half ticks = %v", one.Scale, half.Scale)
	}
}

func TestPetalStateString(t *testing.T) {
	if PetalShrinking.String() != "shrinking" || PetalState(9).String() != "unknown" {
		t.Error("String mismatch")
	}
}
