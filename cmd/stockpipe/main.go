package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"stockpipe/internal/infrastructure/config"
	"stockpipe/internal/infrastructure/logger"
	"stockpipe/internal/infrastructure/scheduler"
	"stockpipe/internal/infrastructure/svc"
)

func main() {
	configPath := flag.String("config", "configs/config.toml", "path to config.toml")
	flag.Parse()

	mode := flag.Arg(0)
	if mode == "" {
		mode = "run"
	}
	if mode != "run" && mode != "schedule" {
		fmt.Fprintf(os.Stderr, "usage: stockpipe [-config path] [run|schedule]\n")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config %s: %v\n", *configPath, err)
		os.Exit(1)
	}

	logCloser, err := logger.Setup(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup logger: %v\n", err)
		os.Exit(1)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc, err := svc.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("initialization failed")
	}
	defer sc.Close()

	log.Info().
		Str("config", *configPath).
		Str("mode", mode).
		Int("symbols", len(cfg.Symbols.List)).
		Str("driver", cfg.Storage.Driver).
		Msg("stockpipe started")

	switch mode {
	case "run":
		if err := sc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("run failed")
			os.Exit(1)
		}
	case "schedule":
		sched := scheduler.New(sc, cfg.Schedule.Cadence,
			time.Duration(cfg.Schedule.IntervalMin)*time.Minute, cfg.Schedule.DailyAt)
		if err := sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("scheduler exited")
		}
	}

	log.Info().Msg("exit")
}
