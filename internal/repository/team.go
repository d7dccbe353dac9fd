package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
	"github.com/jimmy058910/replitballgame-sub001/internal/sim"
)

type TeamRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewTeamRepository(sqlDB *sql.DB, logger zerolog.Logger) *TeamRepository {
	return &TeamRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Snapshot assembles the read-only view of a team the engine consumes: the
// team row, up to the active roster cap of players ordered by name, the head
// coach's tactics rating, and the stadium (defaults when the team has none).
func (r *TeamRepository) Snapshot(ctx context.Context, teamID string) (*domain.TeamSnapshot, error) {
	team := domain.TeamSnapshot{ID: teamID}

	err := r.db.QueryRowContext(ctx,
		`SELECT name, field_size, tactical_focus, aggression_level, camaraderie FROM teams WHERE id = ?`,
		teamID).Scan(&team.Name, &team.FieldSize, &team.TacticalFocus, &team.AggressionLevel, &team.Camaraderie)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", teamID, sim.ErrTeamNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team %s: %w", teamID, err)
	}

	if !domain.ValidFieldSize(team.FieldSize) {
		return nil, fmt.Errorf("team %s has invalid field size %q", teamID, team.FieldSize)
	}
	if !domain.ValidTacticalFocus(team.TacticalFocus) {
		return nil, fmt.Errorf("team %s has invalid tactical focus %q", teamID, team.TacticalFocus)
	}

	if err := r.loadCoach(ctx, &team); err != nil {
		return nil, err
	}
	if err := r.loadStadium(ctx, &team); err != nil {
		return nil, err
	}
	if err := r.loadRoster(ctx, &team); err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("team_id", teamID).
		Int("roster_size", len(team.Roster)).
		Int("coach_tactics", team.CoachTactics).
		Msg("team snapshot loaded")

	return &team, nil
}

// Camaraderie returns the raw team chemistry score.
func (r *TeamRepository) Camaraderie(ctx context.Context, teamID string) (int, error) {
	var score int
	err := r.db.QueryRowContext(ctx,
		`SELECT camaraderie FROM teams WHERE id = ?`, teamID).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("team %s: %w", teamID, sim.ErrTeamNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load camaraderie for team %s: %w", teamID, err)
	}
	return score, nil
}

func (r *TeamRepository) loadCoach(ctx context.Context, team *domain.TeamSnapshot) error {
	err := r.db.QueryRowContext(ctx,
		`SELECT tactics FROM coaches WHERE team_id = ? AND role = 'head' ORDER BY created_at LIMIT 1`,
		team.ID).Scan(&team.CoachTactics)
	if errors.Is(err, sql.ErrNoRows) {
		team.CoachTactics = 0
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load coach for team %s: %w", team.ID, err)
	}
	return nil
}

func (r *TeamRepository) loadStadium(ctx context.Context, team *domain.TeamSnapshot) error {
	err := r.db.QueryRowContext(ctx,
		`SELECT name, capacity, atmosphere FROM stadiums WHERE team_id = ?`,
		team.ID).Scan(&team.Stadium.Name, &team.Stadium.Capacity, &team.Stadium.Atmosphere)
	if errors.Is(err, sql.ErrNoRows) {
		team.Stadium = domain.Stadium{
			Name:       team.Name + " Stadium",
			Capacity:   constants.DefaultStadiumCapacity,
			Atmosphere: constants.DefaultStadiumAtmosphere,
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load stadium for team %s: %w", team.ID, err)
	}
	return nil
}

func (r *TeamRepository) loadRoster(ctx context.Context, team *domain.TeamSnapshot) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, role, speed, power, throwing, catching, kicking, stamina, leadership, agility, current_stamina
		 FROM players WHERE team_id = ? AND is_active = 1 ORDER BY name LIMIT ?`,
		team.ID, constants.MaxActivePlayers)
	if err != nil {
		return fmt.Errorf("failed to load roster for team %s: %w", team.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.PlayerSnapshot
		err := rows.Scan(
			&p.ID, &p.Name, &p.Role,
			&p.Speed, &p.Power, &p.Throwing, &p.Catching,
			&p.Kicking, &p.Stamina, &p.Leadership, &p.Agility,
			&p.CurrentStamina,
		)
		if err != nil {
			return fmt.Errorf("failed to scan player row: %w", err)
		}
		team.Roster = append(team.Roster, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate player rows: %w", err)
	}
	return nil
}
