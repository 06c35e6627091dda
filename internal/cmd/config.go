package main

import (
	"fmt"
	"os"
	"time"

	"github.com/tgray07/duelcore/internal/duel"
	"github.com/tgray07/duelcore/internal/models"
	"gopkg.in/yaml.v3"
)

// Config is the YAML server configuration. Environment variables override
// the connection settings, see setupServices.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`

	Duel struct {
		SoloChallengeTimeoutSec int    `yaml:"solo_challenge_timeout_sec"`
		TeamChallengeTimeoutSec int    `yaml:"team_challenge_timeout_sec"`
		CountdownTicks          int    `yaml:"countdown_ticks"`
		MaxDurationSec          int    `yaml:"max_duration_sec"`
		Kit                     string `yaml:"kit"`
		RivalryThreshold        int    `yaml:"rivalry_threshold"`
		Elo                     struct {
			Base        int `yaml:"base"`
			GapDivisor  int `yaml:"gap_divisor"`
			DeltaMin    int `yaml:"delta_min"`
			DeltaMax    int `yaml:"delta_max"`
			RatingFloor int `yaml:"rating_floor"`
		} `yaml:"elo"`
		DefaultRating int `yaml:"default_rating"`
	} `yaml:"duel"`

	Economy struct {
		Currency string `yaml:"currency"`
	} `yaml:"economy"`

	Arena struct {
		Enabled         bool            `yaml:"enabled"`
		SpawnA          models.Position `yaml:"spawn_a"`
		SpawnB          models.Position `yaml:"spawn_b"`
		ProximityRadius float64         `yaml:"proximity_radius"`
	} `yaml:"arena"`

	NATS struct {
		URL string `yaml:"url"`
	} `yaml:"nats"`

	Redis struct {
		Addr string `yaml:"addr"`
	} `yaml:"redis"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig(path string) (*Config, error) {
	config := defaultConfigValues()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return config, nil
}

func defaultConfigValues() *Config {
	c := &Config{}
	c.Server.Port = "8080"
	c.Duel.SoloChallengeTimeoutSec = 30
	c.Duel.TeamChallengeTimeoutSec = 60
	c.Duel.CountdownTicks = 3
	c.Duel.MaxDurationSec = 300
	c.Duel.Kit = "standard"
	c.Duel.RivalryThreshold = 3
	c.Duel.Elo.Base = 20
	c.Duel.Elo.GapDivisor = 25
	c.Duel.Elo.DeltaMin = 4
	c.Duel.Elo.DeltaMax = 50
	c.Duel.Elo.RatingFloor = 100
	c.Duel.DefaultRating = 1000
	c.Economy.Currency = "coins"
	c.Arena.ProximityRadius = 25
	return c
}

// duelConfig maps the YAML settings onto the orchestrator's config.
func (c *Config) duelConfig() duel.Config {
	cfg := duel.DefaultConfig()
	cfg.SoloChallengeTimeout = time.Duration(c.Duel.SoloChallengeTimeoutSec) * time.Second
	cfg.TeamChallengeTimeout = time.Duration(c.Duel.TeamChallengeTimeoutSec) * time.Second
	cfg.CountdownTicks = c.Duel.CountdownTicks
	cfg.MaxDuration = time.Duration(c.Duel.MaxDurationSec) * time.Second
	cfg.KitName = c.Duel.Kit
	cfg.RivalryThreshold = c.Duel.RivalryThreshold
	cfg.EloBase = c.Duel.Elo.Base
	cfg.EloGapDivisor = c.Duel.Elo.GapDivisor
	cfg.EloDeltaMin = c.Duel.Elo.DeltaMin
	cfg.EloDeltaMax = c.Duel.Elo.DeltaMax
	cfg.RatingFloor = c.Duel.Elo.RatingFloor
	return cfg
}
