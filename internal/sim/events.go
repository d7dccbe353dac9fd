package sim

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// Event counts are fixed per detail level so the downstream score and stat
// derivation sees a stable sample size; variance comes from which events
// occur, not how many.
const (
	eventCountStandard = 10
	eventCountDetailed = 20
)

var eventTypes = []string{
	domain.EventGoal,
	domain.EventInjury,
	domain.EventSubstitution,
	domain.EventTacticalChange,
	domain.EventMomentumShift,
}

var goalTemplates = []string{
	"A driving run splits the defense and the ball crosses the line",
	"A looping kick drops over the keeper and in",
	"Scramble in front of goal and the ball is forced home",
}

var injuryTemplates = []string{
	"Play stops while a player stays down after a heavy collision",
	"A player pulls up sharply and signals to the bench",
}

var substitutionTemplates = []string{
	"%s rotate fresh legs into the lineup",
	"%s make a change to steady the midfield",
}

var tacticalChangeTemplates = []string{
	"%s drop deeper and compress the space",
	"%s push their wings higher up the field",
}

var momentumShiftTemplates = []string{
	"%s seize control and pin their opponents back",
	"The crowd lifts as %s string together a dominant spell",
}

// GenerateEvents produces the timeline for one match: 10 events normally, 20
// when detailed. Each event lands on a minute proportional to its index over
// the match duration, draws a uniformly random type, and carries an
// importance fixed by that type. The result is stable-sorted by minute.
func GenerateEvents(rng *rand.Rand, homeName, awayName string, homeStrength, awayStrength float64, detailed bool) []domain.MatchEvent {
	count := eventCountStandard
	if detailed {
		count = eventCountDetailed
	}

	homeShare := strengthShare(homeStrength, awayStrength)
	events := make([]domain.MatchEvent, 0, count)
	for i := 0; i < count; i++ {
		minute := i * constants.MatchDurationMinutes / count
		typ := eventTypes[rng.Intn(len(eventTypes))]
		events = append(events, domain.MatchEvent{
			Minute:      minute,
			Type:        typ,
			Description: describeEvent(rng, typ, homeName, awayName, homeShare),
			Importance:  importanceFor(typ),
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Minute < events[j].Minute
	})
	return events
}

func importanceFor(eventType string) string {
	switch eventType {
	case domain.EventGoal:
		return domain.ImportanceHigh
	case domain.EventInjury, domain.EventMomentumShift:
		return domain.ImportanceMedium
	default:
		return domain.ImportanceLow
	}
}

// describeEvent fills a template for the event type. Goal and injury lines
// stay team-neutral because scoring sides and injured players are decided by
// the resolver, not here; the remaining types name the side that acts, drawn
// in proportion to strength.
func describeEvent(rng *rand.Rand, eventType, homeName, awayName string, homeShare float64) string {
	actor := awayName
	if rng.Float64() < homeShare {
		actor = homeName
	}
	switch eventType {
	case domain.EventGoal:
		return goalTemplates[rng.Intn(len(goalTemplates))]
	case domain.EventInjury:
		return injuryTemplates[rng.Intn(len(injuryTemplates))]
	case domain.EventSubstitution:
		return fmt.Sprintf(substitutionTemplates[rng.Intn(len(substitutionTemplates))], actor)
	case domain.EventTacticalChange:
		return fmt.Sprintf(tacticalChangeTemplates[rng.Intn(len(tacticalChangeTemplates))], actor)
	default:
		return fmt.Sprintf(momentumShiftTemplates[rng.Intn(len(momentumShiftTemplates))], actor)
	}
}

// strengthShare is the home side's share of combined strength, used for both
// goal allocation and description attribution. Two zero-strength sides split
// evenly.
func strengthShare(homeStrength, awayStrength float64) float64 {
	total := homeStrength + awayStrength
	if total <= 0 {
		return 0.5
	}
	return homeStrength / total
}

// KeyEvents filters the timeline down to the medium and high importance
// entries, preserving order.
func KeyEvents(events []domain.MatchEvent) []domain.MatchEvent {
	key := make([]domain.MatchEvent, 0, len(events))
	for _, ev := range events {
		if ev.Importance == domain.ImportanceMedium || ev.Importance == domain.ImportanceHigh {
			key = append(key, ev)
		}
	}
	return key
}
