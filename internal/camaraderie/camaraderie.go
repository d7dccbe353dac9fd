// Package camaraderie supplies the externally computed team chemistry bonus
// consumed by strength aggregation. Two providers exist: one derived from the
// stored team record and one backed by a remote service.
package camaraderie

import (
	"context"
	"fmt"
)

// ChemistryReader is the slice of the store the local provider needs: the raw
// 0-100 camaraderie score of a team.
type ChemistryReader interface {
	Camaraderie(ctx context.Context, teamID string) (int, error)
}

// StoreProvider derives the bonus from the team's stored camaraderie score.
// A score of 50 is neutral; the bonus scales linearly to ±5 at the extremes.
type StoreProvider struct {
	teams ChemistryReader
}

func NewStoreProvider(teams ChemistryReader) *StoreProvider {
	return &StoreProvider{teams: teams}
}

func (p *StoreProvider) Bonus(ctx context.Context, teamID string) (float64, error) {
	score, err := p.teams.Camaraderie(ctx, teamID)
	if err != nil {
		return 0, fmt.Errorf("reading camaraderie for team %s: %w", teamID, err)
	}
	return BonusFromScore(score), nil
}

// BonusFromScore maps a raw 0-100 camaraderie score onto the additive
// strength bonus.
func BonusFromScore(score int) float64 {
	return (float64(score) - 50.0) / 10.0
}
