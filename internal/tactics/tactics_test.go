package tactics

import (
	"math"
	"testing"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBalancedStandardIsNeutral(t *testing.T) {
	m := Modifiers(domain.FieldSizeStandard, domain.FocusBalanced)
	for stat, got := range map[string]float64{
		StatOffense: m.Offense,
		StatDefense: m.Defense,
		StatPassing: m.Passing,
		StatRunning: m.Running,
	} {
		if !almostEqual(got, 1.0) {
			t.Errorf("%s modifier = %v, want 1.0", stat, got)
		}
	}
	if got := Mean(m); !almostEqual(got, 1.0) {
		t.Errorf("mean modifier = %v, want 1.0", got)
	}
}

func TestFieldSizeOnlyAffectsPassing(t *testing.T) {
	std := Modifiers(domain.FieldSizeStandard, domain.FocusBalanced)
	large := Modifiers(domain.FieldSizeLarge, domain.FocusBalanced)
	small := Modifiers(domain.FieldSizeSmall, domain.FocusBalanced)

	if !almostEqual(large.Passing, 1.1) {
		t.Errorf("large field passing = %v, want 1.1", large.Passing)
	}
	if !almostEqual(small.Passing, 0.9) {
		t.Errorf("small field passing = %v, want 0.9", small.Passing)
	}
	for _, pair := range []struct {
		name     string
		got, std float64
	}{
		{"large offense", large.Offense, std.Offense},
		{"large defense", large.Defense, std.Defense},
		{"large running", large.Running, std.Running},
		{"small offense", small.Offense, std.Offense},
		{"small defense", small.Defense, std.Defense},
		{"small running", small.Running, std.Running},
	} {
		if !almostEqual(pair.got, pair.std) {
			t.Errorf("%s = %v, want %v (field size must not touch it)", pair.name, pair.got, pair.std)
		}
	}
}

func TestFocusTables(t *testing.T) {
	tests := []struct {
		focus string
		want  domain.TacticalModifiers
	}{
		{domain.FocusOffensive, domain.TacticalModifiers{Offense: 1.15, Defense: 0.85, Passing: 1.05, Running: 1.05}},
		{domain.FocusDefensive, domain.TacticalModifiers{Offense: 0.85, Defense: 1.15, Passing: 0.95, Running: 0.95}},
		{domain.FocusPassing, domain.TacticalModifiers{Offense: 1.05, Defense: 0.95, Passing: 1.20, Running: 0.90}},
		{domain.FocusRunning, domain.TacticalModifiers{Offense: 1.05, Defense: 0.95, Passing: 0.90, Running: 1.20}},
	}
	for _, tc := range tests {
		got := Modifiers(domain.FieldSizeStandard, tc.focus)
		if got != tc.want {
			t.Errorf("%s modifiers = %+v, want %+v", tc.focus, got, tc.want)
		}
	}
}

func TestFieldAndFocusCompose(t *testing.T) {
	// Passing focus on a large field stacks both passing multipliers.
	got := Modifier(domain.FieldSizeLarge, domain.FocusPassing, StatPassing)
	if want := 1.1 * 1.20; !almostEqual(got, want) {
		t.Errorf("stacked passing modifier = %v, want %v", got, want)
	}
}

func TestUnknownInputsAreNeutral(t *testing.T) {
	if got := Modifier("Colossal", "Chaotic", StatOffense); !almostEqual(got, 1.0) {
		t.Errorf("unknown enum modifier = %v, want 1.0", got)
	}
}
