// Package sim implements the match simulation engine: strength aggregation,
// event generation, score and stat resolution, revenue and summary
// resolution, and the orchestrator that sequences them around the external
// store.
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jimmy058910/replitballgame-sub001/internal/cache"
	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
	"github.com/jimmy058910/replitballgame-sub001/internal/tactics"
)

// MatchStore is the authoritative match record surface the engine reads from
// and writes back to.
type MatchStore interface {
	Get(ctx context.Context, matchID string) (*domain.MatchRecord, error)
	ListByDay(ctx context.Context, day int) ([]domain.MatchRecord, error)
	Complete(ctx context.Context, res *domain.SimulationResult) error
	CompleteAtomic(ctx context.Context, res *domain.SimulationResult) error
}

// TeamStore loads the read-only team snapshots a simulation consumes.
type TeamStore interface {
	Snapshot(ctx context.Context, teamID string) (*domain.TeamSnapshot, error)
}

// CamaraderieProvider supplies the externally computed chemistry bonus for a
// team. A provider failure costs the bonus, never the simulation.
type CamaraderieProvider interface {
	Bonus(ctx context.Context, teamID string) (float64, error)
}

// EventPublisher is the fire-and-forget sink match timelines are broadcast to.
type EventPublisher interface {
	Publish(ctx context.Context, matchID string, events []domain.MatchEvent) error
}

// Options control one simulation call.
type Options struct {
	UseCache        bool `json:"use_cache"`
	Detailed        bool `json:"detailed"`
	BroadcastEvents bool `json:"broadcast_events"`
	TransactionMode bool `json:"transaction_mode"`
}

// Simulator sequences a full match simulation: load inputs, aggregate
// strengths, generate the timeline, resolve outcomes, validate, persist,
// broadcast, cache. Concurrent calls for the same match collapse into one
// in-flight run.
type Simulator struct {
	matches     MatchStore
	teams       TeamStore
	camaraderie CamaraderieProvider
	publisher   EventPublisher
	results     *cache.ResultCache
	logger      zerolog.Logger

	flight singleflight.Group

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewSimulator(matches MatchStore, teams TeamStore, camaraderie CamaraderieProvider, publisher EventPublisher, results *cache.ResultCache, logger zerolog.Logger) *Simulator {
	return &Simulator{
		matches:     matches,
		teams:       teams,
		camaraderie: camaraderie,
		publisher:   publisher,
		results:     results,
		logger:      logger,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reseed resets the engine's random source. Simulations make no
// reproducibility promise; a fixed seed only pins the draw sequence for
// statistical checks.
func (s *Simulator) Reseed(seed int64) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng = rand.New(rand.NewSource(seed))
}

// newRunRNG derives an independent source for one run so concurrent
// simulations never contend on shared RNG state.
func (s *Simulator) newRunRNG() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// Run simulates one match. At most one run per match is in flight at a time;
// callers that arrive while a run is active receive that run's result. A
// non-transactional persistence failure returns both the computed result and
// a *PersistenceError.
func (s *Simulator) Run(ctx context.Context, matchID string, opts Options) (*domain.SimulationResult, error) {
	v, err, shared := s.flight.Do(matchID, func() (interface{}, error) {
		return s.run(ctx, matchID, opts)
	})
	if shared {
		s.logger.Debug().Str("match_id", matchID).Msg("joined in-flight simulation")
	}
	res, _ := v.(*domain.SimulationResult)
	return res, err
}

func (s *Simulator) run(ctx context.Context, matchID string, opts Options) (*domain.SimulationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.SimulationTimeout)
	defer cancel()

	if opts.UseCache {
		if cached, ok := s.results.Get(matchID); ok {
			s.logger.Info().Str("match_id", matchID).Msg("returning cached simulation result")
			return cached, nil
		}
	}

	match, err := s.matches.Get(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("match lookup failed")
		return nil, fmt.Errorf("loading match %s: %w", matchID, err)
	}
	if match.Status == domain.StatusCompleted {
		s.logger.Warn().Str("match_id", matchID).Msg("re-simulating a completed match")
	}

	home, away, homeBonus, awayBonus, err := s.loadSides(ctx, match)
	if err != nil {
		return nil, err
	}

	res := s.simulate(simInputs{
		match:     match,
		home:      home,
		away:      away,
		homeBonus: homeBonus,
		awayBonus: awayBonus,
		detailed:  opts.Detailed,
	})

	if err := ValidateResult(res); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("assembled result failed validation")
		return nil, err
	}

	var persistErr error
	if opts.TransactionMode {
		if err := s.matches.CompleteAtomic(ctx, res); err != nil {
			s.logger.Error().Err(err).Str("match_id", matchID).Msg("transactional persist failed, discarding result")
			return nil, &PersistenceError{MatchID: matchID, Err: err}
		}
	} else if err := s.matches.Complete(ctx, res); err != nil {
		s.logger.Error().Err(err).Str("match_id", matchID).Msg("persist failed, returning unpersisted result")
		persistErr = &PersistenceError{MatchID: matchID, Err: err}
	}

	if opts.BroadcastEvents {
		s.broadcast(ctx, matchID, res.Events)
	}

	// An unpersisted result must not satisfy later cache reads, or a retry
	// inside the TTL window would never reach the store.
	if opts.UseCache && persistErr == nil {
		s.results.Put(matchID, res)
	}

	s.logger.Info().
		Str("match_id", matchID).
		Int("home_score", res.FinalScore.Home).
		Int("away_score", res.FinalScore.Away).
		Str("winner", res.Winner).
		Str("mvp", res.MVPPlayerName).
		Int64("revenue", res.RevenueGenerated).
		Msg("match simulated")

	return res, persistErr
}

type simInputs struct {
	match     *domain.MatchRecord
	home      *domain.TeamSnapshot
	away      *domain.TeamSnapshot
	homeBonus float64
	awayBonus float64
	detailed  bool
}

// simulate is the pure computation: no I/O, every random draw comes from one
// per-run source.
func (s *Simulator) simulate(in simInputs) *domain.SimulationResult {
	rng := s.newRunRNG()

	homeMods := tactics.Modifiers(in.home.FieldSize, in.home.TacticalFocus)
	awayMods := tactics.Modifiers(in.away.FieldSize, in.away.TacticalFocus)

	homeStrength := EffectiveStrength(TeamStrength(in.home.Roster, in.homeBonus, CoachingBonus(in.home.CoachTactics)), homeMods)
	awayStrength := EffectiveStrength(TeamStrength(in.away.Roster, in.awayBonus, CoachingBonus(in.away.CoachTactics)), awayMods)

	s.logger.Debug().
		Str("match_id", in.match.ID).
		Float64("home_strength", homeStrength).
		Float64("away_strength", awayStrength).
		Msg("aggregated team strengths")

	events := GenerateEvents(rng, in.home.Name, in.away.Name, homeStrength, awayStrength, in.detailed)
	resolution := ResolveMatch(rng, in.home, in.away, homeStrength, awayStrength, events)
	gate := ResolveGate(rng, in.home.Stadium, in.match.Type)
	winner := Winner(resolution.Score)

	return &domain.SimulationResult{
		MatchID:          in.match.ID,
		FinalScore:       resolution.Score,
		MatchDuration:    constants.MatchDurationMinutes,
		Winner:           winner,
		PlayerStats:      resolution.PlayerStats,
		Injuries:         resolution.Injuries,
		StaminaUpdates:   resolution.StaminaUpdates,
		RevenueGenerated: gate.Revenue,
		Attendance:       gate.Attendance,
		MVPPlayerName:    SelectMVP(resolution.PlayerStats),
		MatchSummary:     Summarize(in.home.Name, in.away.Name, resolution.Score, winner, events),
		HomeEffects:      TeamEffects(in.home, in.homeBonus, CoachingBonus(in.home.CoachTactics), in.home.Stadium, homeMods),
		AwayEffects:      TeamEffects(in.away, in.awayBonus, CoachingBonus(in.away.CoachTactics), in.home.Stadium, awayMods),
		Events:           events,
		KeyEvents:        KeyEvents(events),
		SimulatedAt:      time.Now().UTC(),
	}
}

// loadSides fetches both team snapshots and camaraderie bonuses in parallel.
// A missing team fails the call; a failed bonus lookup degrades to zero.
func (s *Simulator) loadSides(ctx context.Context, match *domain.MatchRecord) (home, away *domain.TeamSnapshot, homeBonus, awayBonus float64, err error) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		home, err = s.teams.Snapshot(gctx, match.HomeTeamID)
		if err != nil {
			return fmt.Errorf("loading home team %s: %w", match.HomeTeamID, err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		away, err = s.teams.Snapshot(gctx, match.AwayTeamID)
		if err != nil {
			return fmt.Errorf("loading away team %s: %w", match.AwayTeamID, err)
		}
		return nil
	})

	g.Go(func() error {
		homeBonus = s.bonusFor(gctx, match.HomeTeamID)
		return nil
	})

	g.Go(func() error {
		awayBonus = s.bonusFor(gctx, match.AwayTeamID)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Str("match_id", match.ID).Msg("failed to load team snapshots")
		return nil, nil, 0, 0, err
	}
	return home, away, homeBonus, awayBonus, nil
}

func (s *Simulator) bonusFor(ctx context.Context, teamID string) float64 {
	ctx, cancel := context.WithTimeout(ctx, constants.CamaraderieTimeout)
	defer cancel()

	bonus, err := s.camaraderie.Bonus(ctx, teamID)
	if err != nil {
		s.logger.Warn().Err(err).Str("team_id", teamID).Msg("camaraderie provider failed, using zero bonus")
		return 0
	}
	return bonus
}

func (s *Simulator) broadcast(ctx context.Context, matchID string, events []domain.MatchEvent) {
	bctx, cancel := context.WithTimeout(ctx, constants.BroadcastTimeout)
	defer cancel()

	if err := s.publisher.Publish(bctx, matchID, events); err != nil {
		s.logger.Warn().Err(err).Str("match_id", matchID).Msg("event broadcast failed")
		return
	}
	s.logger.Debug().Str("match_id", matchID).Int("event_count", len(events)).Msg("events broadcast")
}

// RoundFailure records one match that could not be simulated during a round.
type RoundFailure struct {
	MatchID string
	Err     error
}

// RoundReport is the outcome of simulating every match scheduled on one day.
type RoundReport struct {
	Day     int
	Results []*domain.SimulationResult
	Skipped []string
	Failed  []RoundFailure
}

// RunRound simulates every match scheduled on the given day, sequentially.
// Matches already completed are skipped so a round can be re-run after a
// partial failure; individual failures are collected, not fatal.
func (s *Simulator) RunRound(ctx context.Context, day int, opts Options) (*RoundReport, error) {
	matches, err := s.matches.ListByDay(ctx, day)
	if err != nil {
		s.logger.Error().Err(err).Int("day", day).Msg("round match listing failed")
		return nil, fmt.Errorf("listing matches for day %d: %w", day, err)
	}

	report := &RoundReport{Day: day}
	for _, m := range matches {
		if m.Status == domain.StatusCompleted {
			report.Skipped = append(report.Skipped, m.ID)
			continue
		}
		res, err := s.Run(ctx, m.ID, opts)
		if res != nil {
			report.Results = append(report.Results, res)
		}
		if err != nil {
			s.logger.Error().Err(err).Str("match_id", m.ID).Int("day", day).Msg("round simulation failed for match")
			report.Failed = append(report.Failed, RoundFailure{MatchID: m.ID, Err: err})
		}
	}

	s.logger.Info().
		Int("day", day).
		Int("simulated", len(report.Results)).
		Int("skipped", len(report.Skipped)).
		Int("failed", len(report.Failed)).
		Msg("round simulated")

	return report, nil
}
