package mods

import (
	"fmt"
	"strings"

	"github.com/velvetkeys/cadence/internal/clock"
)

// Mod is a gameplay modifier. Mods that want to alter playback speed
// additionally implement ClockAdjuster.
type Mod interface {
	Name() string
}

// ClockAdjuster is the clock-adjustment capability. ApplyToClock is
// invoked once per mod, in order, after the base user rate has been
// applied, so mods compose with or override it.
type ClockAdjuster interface {
	ApplyToClock(c clock.Source)
}

// DoubleTime speeds playback up by 50%, preserving pitch when the
// source supports tempo adjustment.
type DoubleTime struct{}

func (DoubleTime) Name() string { return "Double Time" }

func (DoubleTime) ApplyToClock(c clock.Source) { multiply(c, 1.5) }

// HalfTime slows playback to 75%, preserving pitch when possible.
type HalfTime struct{}

func (HalfTime) Name() string { return "Half Time" }

func (HalfTime) ApplyToClock(c clock.Source) { multiply(c, 0.75) }

// Nightcore speeds playback up by 50% via raw rate, so pitch rises
// with it.
type Nightcore struct{}

func (Nightcore) Name() string { return "Nightcore" }

func (Nightcore) ApplyToClock(c clock.Source) { c.SetRate(c.Rate() * 1.5) }

// Daycore slows playback to 75% via raw rate, lowering pitch.
type Daycore struct{}

func (Daycore) Name() string { return "Daycore" }

func (Daycore) ApplyToClock(c clock.Source) { c.SetRate(c.Rate() * 0.75) }

// FixedTempo pins playback to an exact tempo regardless of the user
// rate or earlier mods.
type FixedTempo struct {
	Tempo float64
}

func (m FixedTempo) Name() string { return fmt.Sprintf("Fixed Tempo %.2fx", m.Tempo) }

func (m FixedTempo) ApplyToClock(c clock.Source) {
	if t, ok := c.(clock.TempoAdjustable); ok {
		t.SetTempoAdjust(m.Tempo)
		return
	}
	c.SetRate(m.Tempo)
}

// multiply scales the source's speed, preferring tempo adjustment so
// pitch is preserved.
func multiply(c clock.Source, factor float64) {
	if t, ok := c.(clock.TempoAdjustable); ok {
		t.SetTempoAdjust(t.TempoAdjust() * factor)
		return
	}
	c.SetRate(c.Rate() * factor)
}

// Parse resolves a mod by name, case-insensitively. Known names:
// doubletime, halftime, nightcore, daycore.
func Parse(name string) (Mod, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "doubletime", "dt":
		return DoubleTime{}, nil
	case "halftime", "ht":
		return HalfTime{}, nil
	case "nightcore", "nc":
		return Nightcore{}, nil
	case "daycore", "dc":
		return Daycore{}, nil
	default:
		return nil, fmt.Errorf("unknown mod %q, must be one of: doubletime, halftime, nightcore, daycore", name)
	}
}

// ParseAll resolves a comma-separable list of mod names.
func ParseAll(names []string) ([]Mod, error) {
	var out []Mod
	for _, n := range names {
		if n == "" {
			continue
		}
		m, err := Parse(n)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
