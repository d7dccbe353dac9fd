package sim

import (
	"fmt"
	"math/rand"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

const (
	baseAttendanceRate   = 0.5
	atmosphereRateWeight = 0.3
	attendanceJitter     = 0.2

	ticketPriceTournament = 50
	ticketPriceStandard   = 30
	concessionsPerHead    = 15
	merchandisePerHead    = 5
)

// Gate is the venue outcome of one match.
type Gate struct {
	Attendance  int
	TicketPrice int
	Revenue     int64
}

// ResolveGate fills the stands in proportion to stadium atmosphere plus a
// random walk-up, then totals ticket, concession, and merchandise income.
// Tournament matches charge premium tickets.
func ResolveGate(rng *rand.Rand, stadium domain.Stadium, matchType string) Gate {
	rate := baseAttendanceRate +
		float64(stadium.Atmosphere)/100*atmosphereRateWeight +
		rng.Float64()*attendanceJitter

	attendance := int(float64(stadium.Capacity) * rate)
	if attendance < 0 {
		attendance = 0
	}

	price := ticketPriceStandard
	if matchType == domain.MatchTypeTournament {
		price = ticketPriceTournament
	}

	return Gate{
		Attendance:  attendance,
		TicketPrice: price,
		Revenue:     int64(attendance) * int64(price+concessionsPerHead+merchandisePerHead),
	}
}

// SelectMVP picks the player with the highest performance rating across both
// stat lists; the first encountered wins ties.
func SelectMVP(stats []domain.PlayerMatchStat) string {
	best := ""
	bestRating := -1
	for _, st := range stats {
		if st.PerformanceRating > bestRating {
			best = st.PlayerName
			bestRating = st.PerformanceRating
		}
	}
	return best
}

// Summarize renders the one-line narrative for a completed match.
func Summarize(homeName, awayName string, score domain.FinalScore, winner string, events []domain.MatchEvent) string {
	highlights := 0
	for _, ev := range events {
		if ev.Importance == domain.ImportanceHigh {
			highlights++
		}
	}

	switch winner {
	case domain.WinnerHome:
		return fmt.Sprintf("%s beat %s %d-%d in a match with %d standout moments", homeName, awayName, score.Home, score.Away, highlights)
	case domain.WinnerAway:
		return fmt.Sprintf("%s fell to %s %d-%d in a match with %d standout moments", homeName, awayName, score.Home, score.Away, highlights)
	default:
		return fmt.Sprintf("%s and %s played out a %d-%d draw in a match with %d standout moments", homeName, awayName, score.Home, score.Away, highlights)
	}
}

// TeamEffects reports the additive bonuses and tactical multipliers that
// shaped one side. The atmosphere term is the venue's crowd contribution and
// is reported for both sides identically.
func TeamEffects(team *domain.TeamSnapshot, camaraderieBonus, coachingBonus float64, venue domain.Stadium, mods domain.TacticalModifiers) domain.TeamMatchEffects {
	atmosphereBonus := float64(venue.Atmosphere) / 20.0
	return domain.TeamMatchEffects{
		TeamID:           team.ID,
		CamaraderieBonus: camaraderieBonus,
		CoachingBonus:    coachingBonus,
		AtmosphereBonus:  atmosphereBonus,
		TotalModifier:    camaraderieBonus + coachingBonus + atmosphereBonus,
		Tactical:         mods,
		AggressionLevel:  team.AggressionLevel,
	}
}
