package sim

import (
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
	"github.com/jimmy058910/replitballgame-sub001/internal/tactics"
)

// neutralStrength stands in for a side with no eligible players so that an
// otherwise valid match still simulates.
const neutralStrength = 50.0

// TeamStrength collapses a roster into a single scalar in [0,100]: the mean
// of each player's eight-attribute average plus the externally supplied
// camaraderie bonus and the coaching bonus. An empty roster yields 50.
func TeamStrength(roster []domain.PlayerSnapshot, camaraderieBonus, coachingBonus float64) float64 {
	if len(roster) == 0 {
		return neutralStrength
	}
	var sum float64
	for _, p := range roster {
		sum += p.AttributeAverage()
	}
	strength := sum/float64(len(roster)) + camaraderieBonus + coachingBonus
	return clamp(strength, 0, 100)
}

// CoachingBonus converts a lead coach's tactics rating into the additive
// strength bonus. A team with no coach contributes 0.
func CoachingBonus(coachTactics int) float64 {
	return float64(coachTactics) / 10.0
}

// EffectiveStrength scales a base strength by the mean of the side's four
// tactical multipliers, clamped back into [0,100].
func EffectiveStrength(strength float64, mods domain.TacticalModifiers) float64 {
	return clamp(strength*tactics.Mean(mods), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
