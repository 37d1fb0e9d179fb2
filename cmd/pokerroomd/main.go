package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"pokerroom/internal/engine"
	"pokerroom/internal/room"
	"pokerroom/internal/server"
)

var CLI struct {
	Config         string `short:"c" default:"pokerroomd.hcl" help:"Path to HCL configuration file"`
	Addr           string `short:"a" help:"Address to bind to (overrides config)"`
	Port           int    `short:"p" help:"Port to listen on (overrides config)"`
	LogLevel       string `short:"l" env:"LOG_LEVEL" help:"Log level (info or debug)"`
	MinPlayers     int    `env:"MIN_PLAYERS" help:"Players required before a game can start"`
	StartSleepTime int    `env:"START_SLEEP_TIME" help:"Delay in ms before the first deal once enough players joined"`
	RoundOverDelay int    `env:"ROUND_OVER_DELAY_MS" help:"Delay in ms between rounds"`
	Seed           int64  `short:"s" help:"Random seed (0 = from time)"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("pokerroomd"),
		kong.Description("Authoritative Texas Hold'em room server."),
	)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		kctx.Errorf("loading config: %v", err)
		kctx.Exit(1)
	}
	if CLI.Addr != "" {
		cfg.Address = CLI.Addr
	}
	if CLI.Port != 0 {
		cfg.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.LogLevel = CLI.LogLevel
	}
	if CLI.MinPlayers != 0 {
		cfg.Table.MinPlayers = CLI.MinPlayers
	}
	if CLI.StartSleepTime != 0 {
		cfg.StartDelay = time.Duration(CLI.StartSleepTime) * time.Millisecond
	}
	if CLI.RoundOverDelay != 0 {
		cfg.RoundDelay = time.Duration(CLI.RoundOverDelay) * time.Millisecond
	}
	cfg.Seed = CLI.Seed
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	level, lerr := log.ParseLevel(cfg.LogLevel)
	if lerr != nil {
		level = log.InfoLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	rm := room.New(room.Config{
		TableID: cfg.Table.Name,
		Engine: engine.Config{
			MaxRounds:     cfg.Table.MaxRounds,
			StartingChips: cfg.Table.StartingChips,
			SmallBlind:    cfg.Table.SmallBlind,
			BigBlind:      cfg.Table.BigBlind,
			MinPlayers:    cfg.Table.MinPlayers,
			MaxPlayers:    cfg.Table.MaxPlayers,
		},
		StartDelay: cfg.StartDelay,
		RoundDelay: cfg.RoundDelay,
		Seed:       cfg.Seed,
	}, room.WithLogger(logger))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, rm, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server exited", "error", err)
		kctx.Exit(1)
	}
}
