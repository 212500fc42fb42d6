package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ovalline/cricsync/internal/app"
	"github.com/ovalline/cricsync/internal/config"
	"github.com/ovalline/cricsync/internal/observability"
	"github.com/ovalline/cricsync/internal/platform/logging"
	"github.com/ovalline/cricsync/internal/usecase"
)

const usage = `usage: repair <mode> [flags]

modes:
  reconcile   refetch provisional matches and repair finished ones
  clean       remove duplicated batting rows

flags:
  --dry-run       report changes without writing
  --limit N       cap the number of matches examined
  --match-id ID   restrict to a single match
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	mode := os.Args[1]

	flags := flag.NewFlagSet("repair", flag.ExitOnError)
	dryRun := flags.Bool("dry-run", false, "report changes without writing")
	limit := flags.Int("limit", 0, "cap the number of matches examined, 0 means no cap")
	matchID := flags.String("match-id", "", "restrict to a single match")
	if err := flags.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = application.Close()
	}()

	switch mode {
	case "reconcile":
		result, err := application.Reconcile.Run(ctx, usecase.ReconcileInput{
			MatchID: *matchID,
			Limit:   *limit,
			DryRun:  *dryRun,
		})
		if err != nil {
			logger.Error("reconcile run aborted", "error", err)
			os.Exit(1)
		}
		logger.Info("reconcile finished",
			"candidates", result.Candidates,
			"repaired", result.Repaired,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"dry_run", *dryRun,
		)
		if result.Failed > 0 {
			os.Exit(1)
		}
	case "clean":
		result, err := application.Dedupe.Run(ctx, usecase.DedupeInput{
			MatchID: *matchID,
			Limit:   *limit,
			DryRun:  *dryRun,
		})
		if err != nil {
			logger.Error("clean run aborted", "error", err)
			os.Exit(1)
		}
		logger.Info("clean finished",
			"matches", result.Matches,
			"groups", result.Groups,
			"removed", result.Removed,
			"failed", result.Failed,
			"dry_run", *dryRun,
		)
		if result.Failed > 0 {
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n\n%s", mode, usage)
		os.Exit(2)
	}
}
