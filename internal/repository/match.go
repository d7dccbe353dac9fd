package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
	"github.com/jimmy058910/replitballgame-sub001/internal/sim"
)

// dbtx is the subset of *sql.DB and *sql.Tx the repositories write through,
// so completion queries run identically inside and outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const matchColumns = `id, home_team_id, away_team_id, type, status, home_score, away_score, simulated, scheduled_day, created_at, updated_at`

func scanMatch(row interface{ Scan(...any) error }) (*domain.MatchRecord, error) {
	var m domain.MatchRecord
	err := row.Scan(
		&m.ID,
		&m.HomeTeamID,
		&m.AwayTeamID,
		&m.Type,
		&m.Status,
		&m.HomeScore,
		&m.AwayScore,
		&m.Simulated,
		&m.ScheduledDay,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatchRepository) Get(ctx context.Context, matchID string) (*domain.MatchRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`, matchID)

	match, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("match %s: %w", matchID, sim.ErrMatchNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load match %s: %w", matchID, err)
	}
	return match, nil
}

func (r *MatchRepository) ListByDay(ctx context.Context, day int) ([]domain.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE scheduled_day = ? ORDER BY id`, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for day %d: %w", day, err)
	}
	defer rows.Close()

	var matches []domain.MatchRecord
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, *match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return matches, nil
}

func (r *MatchRepository) Create(ctx context.Context, match *domain.MatchRecord) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO matches (`+matchColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		match.ID, match.HomeTeamID, match.AwayTeamID, match.Type, match.Status,
		match.HomeScore, match.AwayScore, match.Simulated, match.ScheduledDay, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}
	return nil
}

// Complete applies a simulation result with plain sequential writes. A
// failure part-way leaves the earlier writes in place.
func (r *MatchRepository) Complete(ctx context.Context, res *domain.SimulationResult) error {
	return r.persistResult(ctx, r.db, res)
}

// CompleteAtomic applies a simulation result inside a single transaction.
// On any failure the match row and its dependents are left untouched.
func (r *MatchRepository) CompleteAtomic(ctx context.Context, res *domain.SimulationResult) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.persistResult(ctx, tx, res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *MatchRepository) persistResult(ctx context.Context, ex dbtx, res *domain.SimulationResult) error {
	now := time.Now().UTC()

	updated, err := ex.ExecContext(ctx,
		`UPDATE matches SET status = ?, home_score = ?, away_score = ?, simulated = 1, updated_at = ? WHERE id = ?`,
		domain.StatusCompleted, res.FinalScore.Home, res.FinalScore.Away, now, res.MatchID)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", res.MatchID, err)
	}
	if n, err := updated.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("match %s: %w", res.MatchID, sim.ErrMatchNotFound)
	}

	for _, stat := range res.PlayerStats {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate stat id: %w", err)
		}
		_, err = ex.ExecContext(ctx,
			`INSERT INTO player_match_stats (
				id, match_id, player_id, player_name, team_id, side,
				minutes_played, passes_attempted, passes_completed, rushing_attempts,
				yards_gained, tackles, blocks, turnovers, points, performance_rating, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, res.MatchID, stat.PlayerID, stat.PlayerName, stat.TeamID, stat.Side,
			stat.MinutesPlayed, stat.PassesAttempted, stat.PassesCompleted, stat.RushingAttempts,
			stat.YardsGained, stat.Tackles, stat.Blocks, stat.Turnovers, stat.Points,
			stat.PerformanceRating, now)
		if err != nil {
			return fmt.Errorf("failed to insert stat line for player %s: %w", stat.PlayerID, err)
		}
	}

	for _, injury := range res.Injuries {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate injury id: %w", err)
		}
		_, err = ex.ExecContext(ctx,
			`INSERT INTO injuries (
				id, match_id, player_id, player_name, team_id, severity, days_out, description, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, res.MatchID, injury.PlayerID, injury.PlayerName, injury.TeamID,
			injury.Severity, injury.DaysOut, injury.Description, now)
		if err != nil {
			return fmt.Errorf("failed to insert injury for player %s: %w", injury.PlayerID, err)
		}
	}

	for _, update := range res.StaminaUpdates {
		_, err := ex.ExecContext(ctx,
			`UPDATE players SET current_stamina = ?, updated_at = ? WHERE id = ?`,
			update.StaminaAfter, now, update.PlayerID)
		if err != nil {
			return fmt.Errorf("failed to update stamina for player %s: %w", update.PlayerID, err)
		}
	}

	return nil
}
