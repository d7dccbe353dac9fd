package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

// DemoSeed reports the row IDs created by SeedDemo.
type DemoSeed struct {
	HomeTeamID string `json:"home_team_id"`
	AwayTeamID string `json:"away_team_id"`
	MatchID    string `json:"match_id"`
}

type SeedRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSeedRepository(sqlDB *sql.DB, logger zerolog.Logger) *SeedRepository {
	return &SeedRepository{
		db:     sqlDB,
		logger: logger,
	}
}

type teamSeed struct {
	name         string
	fieldSize    string
	focus        string
	aggression   int
	camaraderie  int
	coachName    string
	coachTactics int
	stadiumName  string
	capacity     int
	atmosphere   int
	players      []string
	attrBase     int
}

var demoRoles = []string{"Passer", "Runner", "Blocker"}

var demoTeams = [2]teamSeed{
	{
		name:         "Oakhaven Wardens",
		fieldSize:    domain.FieldSizeLarge,
		focus:        domain.FocusPassing,
		aggression:   2,
		camaraderie:  72,
		coachName:    "Mara Thistlewood",
		coachTactics: 28,
		stadiumName:  "Oakhaven Grounds",
		capacity:     8000,
		atmosphere:   70,
		attrBase:     24,
		players: []string{
			"Ansel Creed", "Briga Stonehelm", "Callum Reed", "Darra Swiftwater",
			"Edrin Vale", "Fenna Brightoak", "Garrick Slate", "Hale Underbough",
			"Isolde Marchwind", "Joren Ashfall", "Kerra Duskmere", "Lorn Heathrow",
		},
	},
	{
		name:         "Emberfall Chasers",
		fieldSize:    domain.FieldSizeStandard,
		focus:        domain.FocusRunning,
		aggression:   3,
		camaraderie:  58,
		coachName:    "Oswin Larkspur",
		coachTactics: 22,
		stadiumName:  "Emberfall Pit",
		capacity:     5000,
		atmosphere:   55,
		attrBase:     21,
		players: []string{
			"Moren Gale", "Nessa Firebrand", "Orin Blacktide", "Petra Quill",
			"Quent Harrow", "Rilla Stormbole", "Sten Margrave", "Tessa Wildgrove",
			"Ulric Fenwick", "Vanna Coppervein", "Wells Braddock", "Yara Nightsedge",
		},
	},
}

// SeedDemo inserts two demo teams with full rosters, coaches, and stadiums,
// plus one scheduled day-1 league match between them. Everything lands in a
// single transaction.
func (r *SeedRepository) SeedDemo(ctx context.Context) (*DemoSeed, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var teamIDs [2]string
	for i, seed := range demoTeams {
		teamID, err := r.insertTeam(ctx, tx, seed)
		if err != nil {
			return nil, err
		}
		teamIDs[i] = teamID
	}

	matchID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate match id: %w", err)
	}
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO matches (id, home_team_id, away_team_id, type, status, home_score, away_score, simulated, scheduled_day, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, 0, 0, 1, ?, ?)`,
		matchID, teamIDs[0], teamIDs[1], domain.MatchTypeLeague, domain.StatusScheduled, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert demo match: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit demo seed: %w", err)
	}

	r.logger.Info().
		Str("home_team_id", teamIDs[0]).
		Str("away_team_id", teamIDs[1]).
		Str("match_id", matchID).
		Msg("demo data seeded")

	return &DemoSeed{HomeTeamID: teamIDs[0], AwayTeamID: teamIDs[1], MatchID: matchID}, nil
}

func (r *SeedRepository) insertTeam(ctx context.Context, tx *sql.Tx, seed teamSeed) (string, error) {
	now := time.Now().UTC()

	teamID, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate team id: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO teams (id, name, field_size, tactical_focus, aggression_level, camaraderie, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		teamID, seed.name, seed.fieldSize, seed.focus, seed.aggression, seed.camaraderie, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert team %s: %w", seed.name, err)
	}

	coachID, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate coach id: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO coaches (id, team_id, name, role, tactics, created_at) VALUES (?, ?, ?, 'head', ?, ?)`,
		coachID, teamID, seed.coachName, seed.coachTactics, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert coach for team %s: %w", seed.name, err)
	}

	stadiumID, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate stadium id: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO stadiums (id, team_id, name, capacity, atmosphere, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		stadiumID, teamID, seed.stadiumName, seed.capacity, seed.atmosphere, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert stadium for team %s: %w", seed.name, err)
	}

	for i, name := range seed.players {
		playerID, err := gonanoid.New()
		if err != nil {
			return "", fmt.Errorf("failed to generate player id: %w", err)
		}
		// Spread attributes a little so rosters are not uniform.
		attr := seed.attrBase + (i*5)%9 - 4
		role := demoRoles[i%len(demoRoles)]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO players (id, team_id, name, role, speed, power, throwing, catching, kicking, stamina, leadership, agility, current_stamina, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 100, 1, ?, ?)`,
			playerID, teamID, name, role,
			attr, attr+1, attr, attr-1, attr, attr+2, attr-2, attr+1,
			now, now)
		if err != nil {
			return "", fmt.Errorf("failed to insert player %s: %w", name, err)
		}
	}

	return teamID, nil
}
