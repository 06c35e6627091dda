package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/tgray07/duelcore/internal/arena"
	"github.com/tgray07/duelcore/internal/duel"
	"github.com/tgray07/duelcore/internal/economy"
	"github.com/tgray07/duelcore/internal/gateway"
	"github.com/tgray07/duelcore/internal/host"
	"github.com/tgray07/duelcore/internal/replay"
	"github.com/tgray07/duelcore/internal/rivalry"
	"github.com/tgray07/duelcore/internal/stats"
)

// Services bundles the wired components and their shutdown hooks.
type Services struct {
	Orchestrator *duel.Orchestrator
	Gateway      *gateway.ConnectionManager
	Host         *host.Memory
	Economy      *economy.Memory

	cleanups []func()
}

// Close releases external connections in reverse wiring order.
func (s *Services) Close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

// setupServices wires the dependency chain: external stores → collaborator
// implementations → orchestrator → gateway. Missing external endpoints fall
// back to in-process implementations so a bare server still runs.
func setupServices(ctx context.Context, cfg *Config) (*Services, error) {
	s := &Services{}

	playerHost := host.NewMemory()
	s.Host = playerHost

	ledger := economy.NewMemory(cfg.Economy.Currency)
	s.Economy = ledger

	var arenaProvider *arena.Provider
	if cfg.Arena.Enabled {
		arenaProvider = arena.New(cfg.Arena.SpawnA, cfg.Arena.SpawnB, cfg.Arena.ProximityRadius)
	} else {
		arenaProvider = arena.Unconfigured(cfg.Arena.ProximityRadius)
	}

	var statsStore duel.StatsStore
	if dbURL := getEnv("DATABASE_URL", cfg.Database.URL); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		statsStore = stats.NewRepository(pool, cfg.Duel.DefaultRating)
		s.cleanups = append(s.cleanups, pool.Close)
		log.Info().Msg("stats store: postgres")
	} else {
		statsStore = stats.NewMemory(cfg.Duel.DefaultRating)
		log.Info().Msg("stats store: in-memory")
	}

	var rivalryStore duel.RivalryStore
	if addr := getEnv("REDIS_ADDR", cfg.Redis.Addr); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		rivalryStore = rivalry.NewRedis(client)
		s.cleanups = append(s.cleanups, func() { client.Close() })
		log.Info().Msg("rivalry store: redis")
	} else {
		rivalryStore = rivalry.NewMemory()
		log.Info().Msg("rivalry store: in-memory")
	}

	var replayLog duel.ReplayLog = duel.NoopReplay{}
	if url := getEnv("NATS_URL", cfg.NATS.URL); url != "" {
		publisher, err := replay.Connect(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("failed to connect replay publisher: %w", err)
		}
		replayLog = publisher
		s.cleanups = append(s.cleanups, publisher.Close)
		log.Info().Msg("replay log: nats jetstream")
	} else {
		log.Info().Msg("replay log: disabled")
	}

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	s.Gateway = cm

	s.Orchestrator = duel.NewOrchestrator(cfg.duelConfig(), duel.Deps{
		Economy:   ledger,
		Stats:     statsStore,
		Replay:    replayLog,
		Arena:     arenaProvider,
		Host:      playerHost,
		Notifier:  cm,
		Rivalries: rivalryStore,
	})
	return s, nil
}
