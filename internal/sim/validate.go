package sim

import (
	"fmt"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// severityDayRanges bounds daysOut per injury severity, inclusive.
var severityDayRanges = map[string][2]int{
	domain.SeverityMinor:    {1, 3},
	domain.SeverityModerate: {4, 10},
	domain.SeveritySevere:   {11, 30},
}

// ValidateResult checks an assembled result against its schema invariants and
// returns a *ValidationError listing every violation. A violation means the
// engine itself is defective; results are never coerced into shape.
func ValidateResult(res *domain.SimulationResult) error {
	var violations []string

	if res.FinalScore.Home < 0 || res.FinalScore.Away < 0 {
		violations = append(violations, fmt.Sprintf("negative final score %d-%d", res.FinalScore.Home, res.FinalScore.Away))
	}
	if want := Winner(res.FinalScore); res.Winner != want {
		violations = append(violations, fmt.Sprintf("winner %q inconsistent with score %d-%d", res.Winner, res.FinalScore.Home, res.FinalScore.Away))
	}
	if res.MatchDuration <= 0 {
		violations = append(violations, fmt.Sprintf("non-positive match duration %d", res.MatchDuration))
	}
	if res.RevenueGenerated < 0 {
		violations = append(violations, fmt.Sprintf("negative revenue %d", res.RevenueGenerated))
	}

	for _, st := range res.PlayerStats {
		if st.MinutesPlayed < 45 || st.MinutesPlayed > 60 {
			violations = append(violations, fmt.Sprintf("player %s minutes played %d outside [45,60]", st.PlayerName, st.MinutesPlayed))
		}
	}

	for _, up := range res.StaminaUpdates {
		if up.StaminaAfter < 0 || up.StaminaAfter > up.StaminaBefore {
			violations = append(violations, fmt.Sprintf("player %s stamina %d -> %d out of bounds", up.PlayerName, up.StaminaBefore, up.StaminaAfter))
		}
	}

	for _, inj := range res.Injuries {
		bounds, ok := severityDayRanges[inj.Severity]
		if !ok {
			violations = append(violations, fmt.Sprintf("player %s has unknown injury severity %q", inj.PlayerName, inj.Severity))
			continue
		}
		if inj.DaysOut < bounds[0] || inj.DaysOut > bounds[1] {
			violations = append(violations, fmt.Sprintf("player %s %s injury lasts %d days, outside [%d,%d]", inj.PlayerName, inj.Severity, inj.DaysOut, bounds[0], bounds[1]))
		}
	}

	for _, ev := range res.Events {
		if ev.Minute < 0 || ev.Minute > res.MatchDuration {
			violations = append(violations, fmt.Sprintf("event minute %d outside [0,%d]", ev.Minute, res.MatchDuration))
		}
	}

	want := KeyEvents(res.Events)
	if len(want) != len(res.KeyEvents) {
		violations = append(violations, fmt.Sprintf("key events count %d, want %d", len(res.KeyEvents), len(want)))
	} else {
		for i := range want {
			if res.KeyEvents[i] != want[i] {
				violations = append(violations, fmt.Sprintf("key event %d diverges from the timeline", i))
				break
			}
		}
	}

	if len(violations) > 0 {
		return &ValidationError{MatchID: res.MatchID, Violations: violations}
	}
	return nil
}
