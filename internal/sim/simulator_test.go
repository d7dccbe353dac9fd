package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimmy058910/replitballgame-sub001/internal/cache"
	"github.com/jimmy058910/replitballgame-sub001/internal/constants"
	"github.com/jimmy058910/replitballgame-sub001/internal/domain"
)

type stubStores struct {
	mu            sync.Mutex
	matches       map[string]*domain.MatchRecord
	teams         map[string]*domain.TeamSnapshot
	failComplete  bool
	failAtomic    bool
	completeCalls int
	atomicCalls   int
}

func (s *stubStores) Get(_ context.Context, matchID string) (*domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.matches[matchID]
	if !ok {
		return nil, ErrMatchNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *stubStores) ListByDay(_ context.Context, day int) ([]domain.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.MatchRecord
	for _, rec := range s.matches {
		if rec.ScheduledDay == day {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *stubStores) Complete(_ context.Context, res *domain.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completeCalls++
	if s.failComplete {
		return errors.New("write failed")
	}
	s.apply(res)
	return nil
}

func (s *stubStores) CompleteAtomic(_ context.Context, res *domain.SimulationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.atomicCalls++
	if s.failAtomic {
		return errors.New("transaction rolled back")
	}
	s.apply(res)
	return nil
}

func (s *stubStores) apply(res *domain.SimulationResult) {
	rec := s.matches[res.MatchID]
	rec.Status = domain.StatusCompleted
	rec.HomeScore = res.FinalScore.Home
	rec.AwayScore = res.FinalScore.Away
	rec.Simulated = true
}

func (s *stubStores) Snapshot(_ context.Context, teamID string) (*domain.TeamSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[teamID]
	if !ok {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

func (s *stubStores) status(matchID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[matchID].Status
}

func (s *stubStores) completed(matchID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches[matchID].Simulated
}

type stubBonus struct {
	bonus float64
	err   error
}

func (s stubBonus) Bonus(context.Context, string) (float64, error) {
	return s.bonus, s.err
}

type stubPublisher struct {
	mu       sync.Mutex
	err      error
	payloads map[string][]domain.MatchEvent
}

func (p *stubPublisher) Publish(_ context.Context, matchID string, events []domain.MatchEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.payloads == nil {
		p.payloads = make(map[string][]domain.MatchEvent)
	}
	p.payloads[matchID] = events
	return nil
}

func (p *stubPublisher) published(matchID string) ([]domain.MatchEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	events, ok := p.payloads[matchID]
	return events, ok
}

func newStubStores() *stubStores {
	return &stubStores{
		matches: map[string]*domain.MatchRecord{
			"match-1": {ID: "match-1", HomeTeamID: "team-h", AwayTeamID: "team-a", Type: domain.MatchTypeLeague, Status: domain.StatusScheduled, ScheduledDay: 5},
		},
		teams: map[string]*domain.TeamSnapshot{
			"team-h": makeTeam("team-h", "Hawks", 12, 30),
			"team-a": makeTeam("team-a", "Wolves", 12, 25),
		},
	}
}

func newTestSimulator(stores *stubStores, ttl time.Duration) (*Simulator, *stubPublisher, *cache.ResultCache) {
	pub := &stubPublisher{}
	results := cache.NewResultCache(ttl)
	s := NewSimulator(stores, stores, stubBonus{bonus: 1.0}, pub, results, zerolog.Nop())
	return s, pub, results
}

func TestRun_HappyPath(t *testing.T) {
	stores := newStubStores()
	s, _, _ := newTestSimulator(stores, time.Minute)

	res, err := s.Run(context.Background(), "match-1", Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.MatchID != "match-1" {
		t.Errorf("MatchID = %q", res.MatchID)
	}
	if res.MatchDuration != constants.MatchDurationMinutes {
		t.Errorf("MatchDuration = %d; want %d", res.MatchDuration, constants.MatchDurationMinutes)
	}
	if got := len(res.Events); got != 10 {
		t.Errorf("len(Events) = %d; want 10", got)
	}
	if got, want := len(res.PlayerStats), 24; got != want {
		t.Errorf("len(PlayerStats) = %d; want %d", got, want)
	}
	if got, want := len(res.StaminaUpdates), 24; got != want {
		t.Errorf("len(StaminaUpdates) = %d; want %d", got, want)
	}
	if res.Winner != Winner(res.FinalScore) {
		t.Errorf("Winner = %q inconsistent with score %+v", res.Winner, res.FinalScore)
	}
	if res.RevenueGenerated <= 0 {
		t.Errorf("RevenueGenerated = %d; want positive for a 5000-seat venue", res.RevenueGenerated)
	}
	if res.MVPPlayerName == "" {
		t.Error("MVPPlayerName should be set")
	}
	if res.MatchSummary == "" {
		t.Error("MatchSummary should be set")
	}
	if res.HomeEffects.TeamID != "team-h" || res.AwayEffects.TeamID != "team-a" {
		t.Errorf("effects teams = %q, %q", res.HomeEffects.TeamID, res.AwayEffects.TeamID)
	}
	if err := ValidateResult(res); err != nil {
		t.Errorf("result failed its own validation: %v", err)
	}

	if stores.status("match-1") != domain.StatusCompleted {
		t.Errorf("match status = %q; want %q", stores.status("match-1"), domain.StatusCompleted)
	}
	if !stores.completed("match-1") {
		t.Error("match should be flagged simulated")
	}
}

func TestRun_DetailedTimeline(t *testing.T) {
	s, _, _ := newTestSimulator(newStubStores(), time.Minute)

	res, err := s.Run(context.Background(), "match-1", Options{Detailed: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := len(res.Events); got != 20 {
		t.Errorf("len(Events) = %d; want 20", got)
	}
}

func TestRun_MatchNotFound(t *testing.T) {
	s, _, _ := newTestSimulator(newStubStores(), time.Minute)

	res, err := s.Run(context.Background(), "match-ghost", Options{})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("err = %v; want ErrMatchNotFound", err)
	}
	if res != nil {
		t.Error("result should be nil when the match is missing")
	}
}

func TestRun_TeamNotFound(t *testing.T) {
	stores := newStubStores()
	stores.matches["match-1"].AwayTeamID = "team-ghost"
	s, _, _ := newTestSimulator(stores, time.Minute)

	_, err := s.Run(context.Background(), "match-1", Options{})
	if !errors.Is(err, ErrTeamNotFound) {
		t.Errorf("err = %v; want ErrTeamNotFound", err)
	}
}

func TestRun_CacheIdempotence(t *testing.T) {
	stores := newStubStores()
	s, _, _ := newTestSimulator(stores, time.Minute)
	opts := Options{UseCache: true}

	first, err := s.Run(context.Background(), "match-1", opts)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	second, err := s.Run(context.Background(), "match-1", opts)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if first != second {
		t.Error("second Run inside the TTL should return the cached result object")
	}
	if stores.completeCalls != 1 {
		t.Errorf("completeCalls = %d; want 1 (cache hit must not re-simulate)", stores.completeCalls)
	}
}

func TestRun_CacheExpiry(t *testing.T) {
	stores := newStubStores()
	s, _, _ := newTestSimulator(stores, 20*time.Millisecond)
	opts := Options{UseCache: true}

	if _, err := s.Run(context.Background(), "match-1", opts); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := s.Run(context.Background(), "match-1", opts); err != nil {
		t.Fatalf("second Run: %v", err)
	}

	if stores.completeCalls != 2 {
		t.Errorf("completeCalls = %d; want 2 after the TTL lapsed", stores.completeCalls)
	}
}

func TestRun_TransactionFailureDiscardsResult(t *testing.T) {
	stores := newStubStores()
	stores.failAtomic = true
	s, _, _ := newTestSimulator(stores, time.Minute)

	res, err := s.Run(context.Background(), "match-1", Options{TransactionMode: true})
	if res != nil {
		t.Error("transactional failure must discard the result")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v; want *PersistenceError", err)
	}
	if perr.MatchID != "match-1" {
		t.Errorf("PersistenceError.MatchID = %q", perr.MatchID)
	}
	if got := stores.status("match-1"); got != domain.StatusScheduled {
		t.Errorf("match status = %q; must remain %q after a rolled-back write", got, domain.StatusScheduled)
	}
}

func TestRun_NonTransactionalFailureReturnsResult(t *testing.T) {
	stores := newStubStores()
	stores.failComplete = true
	s, _, results := newTestSimulator(stores, time.Minute)

	res, err := s.Run(context.Background(), "match-1", Options{UseCache: true})
	if res == nil {
		t.Fatal("computed result should still be returned outside transaction mode")
	}
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v; want *PersistenceError", err)
	}
	if got := stores.status("match-1"); got != domain.StatusScheduled {
		t.Errorf("match status = %q; want unchanged %q", got, domain.StatusScheduled)
	}
	if _, ok := results.Get("match-1"); ok {
		t.Error("an unpersisted result must not be cached")
	}
}

func TestRun_BroadcastsEvents(t *testing.T) {
	stores := newStubStores()
	s, pub, _ := newTestSimulator(stores, time.Minute)

	res, err := s.Run(context.Background(), "match-1", Options{BroadcastEvents: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	events, ok := pub.published("match-1")
	if !ok {
		t.Fatal("events should have been published")
	}
	if len(events) != len(res.Events) {
		t.Errorf("published %d events; want %d", len(events), len(res.Events))
	}
}

func TestRun_BroadcastFailureIsNotFatal(t *testing.T) {
	stores := newStubStores()
	s, pub, _ := newTestSimulator(stores, time.Minute)
	pub.err = errors.New("stream unavailable")

	if _, err := s.Run(context.Background(), "match-1", Options{BroadcastEvents: true}); err != nil {
		t.Errorf("Run = %v; broadcast failures must not fail the simulation", err)
	}
}

func TestRun_CamaraderieFailureDegradesToZero(t *testing.T) {
	stores := newStubStores()
	pub := &stubPublisher{}
	s := NewSimulator(stores, stores, stubBonus{err: errors.New("service down")}, pub, cache.NewResultCache(time.Minute), zerolog.Nop())

	res, err := s.Run(context.Background(), "match-1", Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.HomeEffects.CamaraderieBonus != 0 || res.AwayEffects.CamaraderieBonus != 0 {
		t.Errorf("camaraderie bonuses = %v, %v; want 0 on provider failure",
			res.HomeEffects.CamaraderieBonus, res.AwayEffects.CamaraderieBonus)
	}
}

func TestRun_EmptyRosterStillCompletes(t *testing.T) {
	stores := newStubStores()
	stores.teams["team-h"] = makeTeam("team-h", "Hawks", 0, 0)
	s, _, _ := newTestSimulator(stores, time.Minute)

	res, err := s.Run(context.Background(), "match-1", Options{})
	if err != nil {
		t.Fatalf("Run with an empty home roster: %v", err)
	}
	if got := len(res.PlayerStats); got != 12 {
		t.Errorf("len(PlayerStats) = %d; want 12 away lines only", got)
	}
	if err := ValidateResult(res); err != nil {
		t.Errorf("result failed validation: %v", err)
	}
}

func TestRun_StrongHomeWinsWithHighProbability(t *testing.T) {
	stores := newStubStores()
	stores.teams["team-h"] = makeTeam("team-h", "Hawks", 10, 80)
	stores.teams["team-a"] = makeTeam("team-a", "Wolves", 10, 20)
	s, _, _ := newTestSimulator(stores, time.Minute)
	s.Reseed(1)

	const trials = 2000
	scoreAtLeast := 0
	homeWins := 0
	for i := 0; i < trials; i++ {
		res, err := s.Run(context.Background(), "match-1", Options{})
		if err != nil {
			t.Fatalf("trial %d: %v", i, err)
		}
		if got := len(res.Events); got != 10 {
			t.Fatalf("trial %d: len(Events) = %d; want 10", i, got)
		}
		if res.FinalScore.Home >= res.FinalScore.Away {
			scoreAtLeast++
		}
		if res.Winner == domain.WinnerHome {
			homeWins++
		}
	}

	if min := trials * 9 / 10; scoreAtLeast <= min {
		t.Errorf("home scored at least away in %d/%d trials; want > %d", scoreAtLeast, trials, min)
	}
	if min := trials * 9 / 10; homeWins <= min {
		t.Errorf("home won %d/%d trials; want > %d", homeWins, trials, min)
	}
}

func TestRun_ConcurrentDistinctMatches(t *testing.T) {
	stores := newStubStores()
	const n = 8
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("match-c%d", i)
		stores.matches[id] = &domain.MatchRecord{
			ID: id, HomeTeamID: "team-h", AwayTeamID: "team-a",
			Type: domain.MatchTypeLeague, Status: domain.StatusScheduled,
		}
	}
	s, _, results := newTestSimulator(stores, time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			res, err := s.Run(context.Background(), id, Options{UseCache: true})
			if err != nil {
				errs <- fmt.Errorf("%s: %w", id, err)
				return
			}
			if res.MatchID != id {
				errs <- fmt.Errorf("%s: result for %s", id, res.MatchID)
			}
		}(fmt.Sprintf("match-c%d", i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("match-c%d", i)
		cached, ok := results.Get(id)
		if !ok {
			t.Errorf("%s missing from cache", id)
			continue
		}
		if cached.MatchID != id {
			t.Errorf("cache for %s holds result for %s", id, cached.MatchID)
		}
	}
}

func TestRun_ConcurrentSameMatch(t *testing.T) {
	stores := newStubStores()
	s, _, _ := newTestSimulator(stores, time.Minute)

	var wg sync.WaitGroup
	errs := make(chan error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Run(context.Background(), "match-1", Options{}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent same-match Run: %v", err)
	}
}

func TestRunRound(t *testing.T) {
	stores := newStubStores()
	stores.matches["match-2"] = &domain.MatchRecord{
		ID: "match-2", HomeTeamID: "team-h", AwayTeamID: "team-a",
		Type: domain.MatchTypeLeague, Status: domain.StatusScheduled, ScheduledDay: 5,
	}
	stores.matches["match-done"] = &domain.MatchRecord{
		ID: "match-done", HomeTeamID: "team-h", AwayTeamID: "team-a",
		Type: domain.MatchTypeLeague, Status: domain.StatusCompleted, ScheduledDay: 5,
	}
	stores.matches["match-other-day"] = &domain.MatchRecord{
		ID: "match-other-day", HomeTeamID: "team-h", AwayTeamID: "team-a",
		Type: domain.MatchTypeLeague, Status: domain.StatusScheduled, ScheduledDay: 6,
	}
	s, _, _ := newTestSimulator(stores, time.Minute)

	report, err := s.RunRound(context.Background(), 5, Options{})
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if got := len(report.Results); got != 2 {
		t.Errorf("len(Results) = %d; want 2", got)
	}
	if len(report.Skipped) != 1 || report.Skipped[0] != "match-done" {
		t.Errorf("Skipped = %v; want [match-done]", report.Skipped)
	}
	if len(report.Failed) != 0 {
		t.Errorf("Failed = %v; want none", report.Failed)
	}
	if got := stores.status("match-other-day"); got != domain.StatusScheduled {
		t.Errorf("day-6 match status = %q; a day-5 round must not touch it", got)
	}
}

func TestRunRound_CollectsFailures(t *testing.T) {
	stores := newStubStores()
	stores.matches["match-broken"] = &domain.MatchRecord{
		ID: "match-broken", HomeTeamID: "team-ghost", AwayTeamID: "team-a",
		Type: domain.MatchTypeLeague, Status: domain.StatusScheduled, ScheduledDay: 5,
	}
	s, _, _ := newTestSimulator(stores, time.Minute)

	report, err := s.RunRound(context.Background(), 5, Options{})
	if err != nil {
		t.Fatalf("RunRound: %v", err)
	}
	if got := len(report.Results); got != 1 {
		t.Errorf("len(Results) = %d; want 1", got)
	}
	if len(report.Failed) != 1 || report.Failed[0].MatchID != "match-broken" {
		t.Fatalf("Failed = %+v; want match-broken", report.Failed)
	}
	if !errors.Is(report.Failed[0].Err, ErrTeamNotFound) {
		t.Errorf("failure error = %v; want ErrTeamNotFound", report.Failed[0].Err)
	}
}
