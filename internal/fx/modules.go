package fx

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/jimmy058910/replitballgame-sub001/internal/broadcast"
	"github.com/jimmy058910/replitballgame-sub001/internal/cache"
	"github.com/jimmy058910/replitballgame-sub001/internal/camaraderie"
	"github.com/jimmy058910/replitballgame-sub001/internal/config"
	"github.com/jimmy058910/replitballgame-sub001/internal/database"
	"github.com/jimmy058910/replitballgame-sub001/internal/logger"
	"github.com/jimmy058910/replitballgame-sub001/internal/repository"
	"github.com/jimmy058910/replitballgame-sub001/internal/server"
	"github.com/jimmy058910/replitballgame-sub001/internal/sim"
)

func ProvideLogger(cfg *config.Config) zerolog.Logger {
	return logger.WithLevel(cfg.LogLevel)
}

func ProvideResultCache(cfg *config.Config) *cache.ResultCache {
	return cache.NewResultCache(cfg.ResultCacheTTL)
}

func ProvideLiveCache(matches *repository.MatchRepository) *cache.LiveStateCache {
	return cache.NewLiveStateCache(matches)
}

// ProvidePublisher selects the event sink: a Redis stream when an address is
// configured, otherwise a no-op.
func ProvidePublisher(cfg *config.Config, log zerolog.Logger) sim.EventPublisher {
	if cfg.RedisAddr == "" {
		return broadcast.NopPublisher{}
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("Event broadcasting enabled")
	return broadcast.NewStreamPublisher(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
}

// ProvideCamaraderie selects the chemistry source: the external service when a
// URL is configured, otherwise the team records already in the store.
func ProvideCamaraderie(cfg *config.Config, teams *repository.TeamRepository, log zerolog.Logger) sim.CamaraderieProvider {
	if cfg.CamaraderieURL == "" {
		return camaraderie.NewStoreProvider(teams)
	}
	log.Info().Str("url", cfg.CamaraderieURL).Msg("Using external camaraderie service")
	return camaraderie.NewHTTPProvider(cfg.CamaraderieURL)
}

func ProvideSimulator(
	matches *repository.MatchRepository,
	teams *repository.TeamRepository,
	chemistry sim.CamaraderieProvider,
	publisher sim.EventPublisher,
	results *cache.ResultCache,
	log zerolog.Logger,
) *sim.Simulator {
	return sim.NewSimulator(matches, teams, chemistry, publisher, results, log)
}

var Module = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(ProvideLogger),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewTeamRepository),
	// caches
	fx.Provide(ProvideResultCache),
	fx.Provide(ProvideLiveCache),
	// engine
	fx.Provide(ProvideCamaraderie),
	fx.Provide(ProvidePublisher),
	fx.Provide(ProvideSimulator),
	// server
	fx.Provide(server.New),
)
