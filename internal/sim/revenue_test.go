package sim

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
	"github.com/jimmy058910/replitballgame-sub001/internal/tactics"
)

func TestResolveGate_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	stadium := domain.Stadium{Name: "Hawks Park", Capacity: 5000, Atmosphere: 50}

	for trial := 0; trial < 200; trial++ {
		gate := ResolveGate(rng, stadium, domain.MatchTypeLeague)

		// rate = 0.5 + 0.15 + [0,0.2) with atmosphere 50
		if gate.Attendance < 3250 || gate.Attendance >= 4250 {
			t.Fatalf("attendance = %d; want [3250,4250)", gate.Attendance)
		}
		if gate.TicketPrice != ticketPriceStandard {
			t.Fatalf("league ticket price = %d; want %d", gate.TicketPrice, ticketPriceStandard)
		}
		want := int64(gate.Attendance) * int64(ticketPriceStandard+concessionsPerHead+merchandisePerHead)
		if gate.Revenue != want {
			t.Fatalf("revenue = %d; want %d", gate.Revenue, want)
		}
	}
}

func TestResolveGate_TournamentPremium(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	stadium := domain.Stadium{Capacity: 1000, Atmosphere: 50}

	gate := ResolveGate(rng, stadium, domain.MatchTypeTournament)
	if gate.TicketPrice != ticketPriceTournament {
		t.Errorf("tournament ticket price = %d; want %d", gate.TicketPrice, ticketPriceTournament)
	}
}

func TestResolveGate_CapacityMonotonicity(t *testing.T) {
	// With the random walk-up pinned to the same draw sequence, doubling
	// capacity must never lower revenue.
	rngSmall := rand.New(rand.NewSource(42))
	rngLarge := rand.New(rand.NewSource(42))

	for trial := 0; trial < 100; trial++ {
		small := ResolveGate(rngSmall, domain.Stadium{Capacity: 5000, Atmosphere: 60}, domain.MatchTypeLeague)
		large := ResolveGate(rngLarge, domain.Stadium{Capacity: 10000, Atmosphere: 60}, domain.MatchTypeLeague)
		if large.Revenue <= small.Revenue {
			t.Fatalf("trial %d: revenue at capacity 10000 = %d, not above %d at capacity 5000", trial, large.Revenue, small.Revenue)
		}
	}
}

func TestResolveGate_ZeroCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	gate := ResolveGate(rng, domain.Stadium{Capacity: 0, Atmosphere: 80}, domain.MatchTypeLeague)
	if gate.Attendance != 0 || gate.Revenue != 0 {
		t.Errorf("empty stadium gate = %+v; want zero attendance and revenue", gate)
	}
}

func TestSelectMVP_EncounterOrderBreaksTies(t *testing.T) {
	stats := []domain.PlayerMatchStat{
		{PlayerName: "Asha", PerformanceRating: 80},
		{PlayerName: "Bruno", PerformanceRating: 95},
		{PlayerName: "Caleb", PerformanceRating: 95},
		{PlayerName: "Dina", PerformanceRating: 60},
	}
	if got := SelectMVP(stats); got != "Bruno" {
		t.Errorf("SelectMVP = %q; want Bruno (first of the tied ratings)", got)
	}
}

func TestSelectMVP_Empty(t *testing.T) {
	if got := SelectMVP(nil); got != "" {
		t.Errorf("SelectMVP(nil) = %q; want empty", got)
	}
}

func TestSummarize(t *testing.T) {
	events := []domain.MatchEvent{
		{Type: domain.EventGoal, Importance: domain.ImportanceHigh},
		{Type: domain.EventGoal, Importance: domain.ImportanceHigh},
		{Type: domain.EventInjury, Importance: domain.ImportanceMedium},
	}

	got := Summarize("Hawks", "Wolves", domain.FinalScore{Home: 3, Away: 1}, domain.WinnerHome, events)
	for _, fragment := range []string{"Hawks", "Wolves", "3-1", "2 standout"} {
		if !strings.Contains(got, fragment) {
			t.Errorf("summary %q missing %q", got, fragment)
		}
	}

	draw := Summarize("Hawks", "Wolves", domain.FinalScore{Home: 2, Away: 2}, domain.WinnerDraw, nil)
	if !strings.Contains(draw, "draw") {
		t.Errorf("draw summary %q should mention the draw", draw)
	}
}

func TestTeamEffects(t *testing.T) {
	team := makeTeam("team-h", "Hawks", 3, 30)
	team.AggressionLevel = 2
	venue := domain.Stadium{Capacity: 5000, Atmosphere: 60}
	mods := tactics.Modifiers(domain.FieldSizeLarge, domain.FocusPassing)

	effects := TeamEffects(team, 2.5, 1.5, venue, mods)
	if effects.TeamID != "team-h" {
		t.Errorf("TeamID = %q", effects.TeamID)
	}
	if effects.AtmosphereBonus != 3.0 {
		t.Errorf("AtmosphereBonus = %v; want 3.0", effects.AtmosphereBonus)
	}
	if effects.TotalModifier != 7.0 {
		t.Errorf("TotalModifier = %v; want 7.0", effects.TotalModifier)
	}
	if effects.Tactical != mods {
		t.Errorf("Tactical = %+v; want %+v", effects.Tactical, mods)
	}
	if effects.AggressionLevel != 2 {
		t.Errorf("AggressionLevel = %d; want 2", effects.AggressionLevel)
	}
}
