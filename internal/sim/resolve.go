package sim

import (
	"fmt"
	"math/rand"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// Per-stat ceilings for involvement-scaled counts.
const (
	maxPassesAttempted = 30
	maxPassesCompleted = 25
	maxRushingAttempts = 10
	maxYardsGained     = 100
	maxTackles         = 8
	maxBlocks          = 5
)

const (
	minMinutesPlayed   = 45
	minutesPlayedRange = 15
	maxTurnovers       = 3
	scoringShareChance = 0.3
	baseRating         = 50
)

const (
	staminaLossFloor = 10
	staminaLossRange = 20
)

// Resolution bundles everything the score and stat resolver derives from the
// strengths and the event timeline.
type Resolution struct {
	Score          domain.FinalScore
	PlayerStats    []domain.PlayerMatchStat
	Injuries       []domain.PlayerInjury
	StaminaUpdates []domain.StaminaUpdate
}

// ResolveMatch turns the two effective strengths and the generated timeline
// into the final score, per-player stat lines, injuries, and stamina deltas.
// Stat lines come out home roster first, each roster in store order.
func ResolveMatch(rng *rand.Rand, home, away *domain.TeamSnapshot, homeStrength, awayStrength float64, events []domain.MatchEvent) Resolution {
	score := resolveScore(rng, homeStrength, awayStrength, events)

	stats := make([]domain.PlayerMatchStat, 0, len(home.Roster)+len(away.Roster))
	stats = append(stats, rosterStats(rng, home, domain.SideHome, score.Home)...)
	stats = append(stats, rosterStats(rng, away, domain.SideAway, score.Away)...)

	return Resolution{
		Score:          score,
		PlayerStats:    stats,
		Injuries:       resolveInjuries(rng, home, away, events),
		StaminaUpdates: resolveStamina(rng, home, away),
	}
}

// resolveScore gives each side a strength-derived base plus a uniform 0-3
// bump, then splits the timeline's goal events by strength share: the home
// side takes the floored share, the away side the remainder.
func resolveScore(rng *rand.Rand, homeStrength, awayStrength float64, events []domain.MatchEvent) domain.FinalScore {
	homeBase := int(homeStrength/20) + rng.Intn(4)
	awayBase := int(awayStrength/20) + rng.Intn(4)

	goals := 0
	for _, ev := range events {
		if ev.Type == domain.EventGoal {
			goals++
		}
	}
	homeGoals := int(float64(goals) * strengthShare(homeStrength, awayStrength))
	awayGoals := goals - homeGoals

	return domain.FinalScore{
		Home: nonNegative(homeBase + homeGoals),
		Away: nonNegative(awayBase + awayGoals),
	}
}

func rosterStats(rng *rand.Rand, team *domain.TeamSnapshot, side string, teamScore int) []domain.PlayerMatchStat {
	stats := make([]domain.PlayerMatchStat, 0, len(team.Roster))
	for _, p := range team.Roster {
		involvement := rng.Float64()

		points := 0
		if rng.Float64() < scoringShareChance {
			points = teamScore / 3
		}

		stats = append(stats, domain.PlayerMatchStat{
			PlayerID:          p.ID,
			PlayerName:        p.Name,
			TeamID:            team.ID,
			Side:              side,
			MinutesPlayed:     minMinutesPlayed + rng.Intn(minutesPlayedRange),
			PassesAttempted:   int(involvement * maxPassesAttempted),
			PassesCompleted:   int(involvement * maxPassesCompleted),
			RushingAttempts:   int(involvement * maxRushingAttempts),
			YardsGained:       int(involvement * maxYardsGained),
			Tackles:           int(involvement * maxTackles),
			Blocks:            int(involvement * maxBlocks),
			Turnovers:         rng.Intn(maxTurnovers),
			Points:            points,
			PerformanceRating: baseRating + int(involvement*50),
		})
	}
	return stats
}

// resolveInjuries draws one candidate per injury-type event from the combined
// player pool. Severity lands minor 60%, moderate 30%, severe 10%, with
// days out uniform inside the severity's range.
func resolveInjuries(rng *rand.Rand, home, away *domain.TeamSnapshot, events []domain.MatchEvent) []domain.PlayerInjury {
	type pooled struct {
		player domain.PlayerSnapshot
		teamID string
	}
	pool := make([]pooled, 0, len(home.Roster)+len(away.Roster))
	for _, p := range home.Roster {
		pool = append(pool, pooled{player: p, teamID: home.ID})
	}
	for _, p := range away.Roster {
		pool = append(pool, pooled{player: p, teamID: away.ID})
	}
	if len(pool) == 0 {
		return nil
	}

	var injuries []domain.PlayerInjury
	for _, ev := range events {
		if ev.Type != domain.EventInjury {
			continue
		}
		victim := pool[rng.Intn(len(pool))]
		severity, daysOut := rollSeverity(rng)
		injuries = append(injuries, domain.PlayerInjury{
			PlayerID:    victim.player.ID,
			PlayerName:  victim.player.Name,
			TeamID:      victim.teamID,
			Severity:    severity,
			DaysOut:     daysOut,
			Description: fmt.Sprintf("%s picked up a %s injury in minute %d", victim.player.Name, severity, ev.Minute),
		})
	}
	return injuries
}

func rollSeverity(rng *rand.Rand) (string, int) {
	switch roll := rng.Float64(); {
	case roll < 0.6:
		return domain.SeverityMinor, 1 + rng.Intn(3)
	case roll < 0.9:
		return domain.SeverityModerate, 4 + rng.Intn(7)
	default:
		return domain.SeveritySevere, 11 + rng.Intn(20)
	}
}

// resolveStamina knocks a uniform 10-29 off every active player's pre-match
// stamina, floored at zero, and buckets the post-match value.
func resolveStamina(rng *rand.Rand, home, away *domain.TeamSnapshot) []domain.StaminaUpdate {
	updates := make([]domain.StaminaUpdate, 0, len(home.Roster)+len(away.Roster))
	for _, roster := range [][]domain.PlayerSnapshot{home.Roster, away.Roster} {
		for _, p := range roster {
			after := nonNegative(p.CurrentStamina - (staminaLossFloor + rng.Intn(staminaLossRange)))
			updates = append(updates, domain.StaminaUpdate{
				PlayerID:      p.ID,
				PlayerName:    p.Name,
				StaminaBefore: p.CurrentStamina,
				StaminaAfter:  after,
				Fatigue:       fatigueBucket(after),
			})
		}
	}
	return updates
}

func fatigueBucket(stamina int) string {
	switch {
	case stamina > 70:
		return domain.FatigueFresh
	case stamina > 40:
		return domain.FatigueTired
	default:
		return domain.FatigueExhausted
	}
}

// Winner applies the score comparison rule.
func Winner(score domain.FinalScore) string {
	switch {
	case score.Home > score.Away:
		return domain.WinnerHome
	case score.Away > score.Home:
		return domain.WinnerAway
	default:
		return domain.WinnerDraw
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
