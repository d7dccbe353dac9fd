// Command simctl drives the match engine from the terminal.
//
// Usage:
//
//	simctl seed demo
//	simctl simulate match --id m_abc123 --detailed --tx
//	simctl simulate round --day 1
//	simctl cache stats
//	simctl cache clear --id m_abc123
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"github.com/jimmy058910/replitballgame-sub001/internal/broadcast"
	"github.com/jimmy058910/replitballgame-sub001/internal/cache"
	"github.com/jimmy058910/replitballgame-sub001/internal/camaraderie"
	"github.com/jimmy058910/replitballgame-sub001/internal/config"
	"github.com/jimmy058910/replitballgame-sub001/internal/database"
	"github.com/jimmy058910/replitballgame-sub001/internal/logger"
	"github.com/jimmy058910/replitballgame-sub001/internal/repository"
	"github.com/jimmy058910/replitballgame-sub001/internal/sim"
)

func main() {
	root := &cobra.Command{
		Use:   "simctl",
		Short: "Match engine control CLI",
	}

	root.AddCommand(seedCmd())
	root.AddCommand(simulateCmd())
	root.AddCommand(cacheCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed local data",
	}
	cmd.AddCommand(seedDemoCmd())
	return cmd
}

func seedDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Insert two demo teams and one scheduled match",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(ctx context.Context, cfg *config.Config, db *sql.DB, log zerolog.Logger) error {
				seed, err := repository.NewSeedRepository(db, log).SeedDemo(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), seed)
			})
		},
	}
}

// --------------------------------------------------------------------------
// simulate command
// --------------------------------------------------------------------------

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a single match or a full round",
	}
	cmd.AddCommand(simulateMatchCmd())
	cmd.AddCommand(simulateRoundCmd())
	return cmd
}

func simulateMatchCmd() *cobra.Command {
	var (
		matchID  string
		detailed bool
		tx       bool
		publish  bool
		noCache  bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Simulate one scheduled match and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchID == "" {
				return fmt.Errorf("--id is required")
			}
			return withStore(func(ctx context.Context, cfg *config.Config, db *sql.DB, log zerolog.Logger) error {
				engine := buildSimulator(cfg, db, log)
				start := time.Now()
				res, err := engine.Run(ctx, matchID, sim.Options{
					UseCache:        !noCache,
					Detailed:        detailed,
					BroadcastEvents: publish,
					TransactionMode: tx,
				})
				if err != nil {
					var perr *sim.PersistenceError
					if !errors.As(err, &perr) || res == nil {
						return err
					}
					log.Warn().Err(perr.Err).Str("match_id", matchID).Msg("result computed but not persisted")
				}
				log.Info().
					Str("match_id", matchID).
					Str("winner", res.Winner).
					Dur("duration", time.Since(start)).
					Msg("simulation finished")
				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().StringVar(&matchID, "id", "", "Match ID to simulate")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "Generate the extended timeline")
	cmd.Flags().BoolVar(&tx, "tx", false, "Persist atomically in one transaction")
	cmd.Flags().BoolVar(&publish, "broadcast", false, "Publish the timeline to the Redis stream")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the result cache")
	return cmd
}

func simulateRoundCmd() *cobra.Command {
	var (
		day int
		tx  bool
	)
	cmd := &cobra.Command{
		Use:   "round",
		Short: "Simulate every scheduled match on one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if day < 0 {
				return fmt.Errorf("--day is required")
			}
			return withStore(func(ctx context.Context, cfg *config.Config, db *sql.DB, log zerolog.Logger) error {
				engine := buildSimulator(cfg, db, log)
				start := time.Now()
				report, err := engine.RunRound(ctx, day, sim.Options{TransactionMode: tx})
				if err != nil {
					return err
				}
				for _, res := range report.Results {
					log.Info().
						Str("match_id", res.MatchID).
						Int("home", res.FinalScore.Home).
						Int("away", res.FinalScore.Away).
						Str("winner", res.Winner).
						Msg("match simulated")
				}
				for _, f := range report.Failed {
					log.Error().Str("match_id", f.MatchID).Err(f.Err).Msg("match failed")
				}
				log.Info().
					Int("day", day).
					Int("simulated", len(report.Results)).
					Int("skipped", len(report.Skipped)).
					Int("failed", len(report.Failed)).
					Dur("duration", time.Since(start)).
					Msg("round finished")
				if len(report.Failed) > 0 {
					return fmt.Errorf("%d of %d matches failed", len(report.Failed), len(report.Failed)+len(report.Results))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&day, "day", -1, "Schedule day to simulate")
	cmd.Flags().BoolVar(&tx, "tx", false, "Persist each match atomically")
	return cmd
}

// --------------------------------------------------------------------------
// cache command
// --------------------------------------------------------------------------

// Cache entries live inside the server process, so these commands go over its
// HTTP API rather than touching the database.

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the running server's result cache",
	}
	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cacheClearCmd())
	return cmd
}

func cacheStatsCmd() *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show result cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := callServer(fasthttp.MethodGet, serverURL+"/api/v1/cache/stats")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
			return err
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of a running server")
	return cmd
}

func cacheClearCmd() *cobra.Command {
	var (
		serverURL string
		matchID   string
	)
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the result cache, or one match's entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := serverURL + "/api/v1/cache"
			if matchID != "" {
				url += "/" + matchID
			}
			if _, err := callServer(fasthttp.MethodDelete, url); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of a running server")
	cmd.Flags().StringVar(&matchID, "id", "", "Clear only this match's entry")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withStore handles config loading, database setup, and signal cancellation.
func withStore(fn func(ctx context.Context, cfg *config.Config, db *sql.DB, log zerolog.Logger) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.WithLevel(cfg.LogLevel)

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return fn(ctx, cfg, db, log)
}

// buildSimulator wires the engine the same way the server does, minus fx.
func buildSimulator(cfg *config.Config, db *sql.DB, log zerolog.Logger) *sim.Simulator {
	matches := repository.NewMatchRepository(db, log)
	teams := repository.NewTeamRepository(db, log)

	var publisher sim.EventPublisher = broadcast.NopPublisher{}
	if cfg.RedisAddr != "" {
		publisher = broadcast.NewStreamPublisher(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	}
	var chemistry sim.CamaraderieProvider = camaraderie.NewStoreProvider(teams)
	if cfg.CamaraderieURL != "" {
		chemistry = camaraderie.NewHTTPProvider(cfg.CamaraderieURL)
	}

	return sim.NewSimulator(matches, teams, chemistry, publisher, cache.NewResultCache(cfg.ResultCacheTTL), log)
}

// callServer issues one request against a running server's API.
func callServer(method, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(method)

	client := &fasthttp.Client{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	if err := client.Do(req, resp); err != nil {
		return nil, fmt.Errorf("calling %s: %w", url, err)
	}
	if resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("server returned %d for %s", resp.StatusCode(), url)
	}
	return append([]byte(nil), resp.Body()...), nil
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
