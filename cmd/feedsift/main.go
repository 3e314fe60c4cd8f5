package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/feedsift/feedsift/pkg/config"
	"github.com/feedsift/feedsift/pkg/domain"
	"github.com/feedsift/feedsift/pkg/extract"
	"github.com/feedsift/feedsift/pkg/feed"
	"github.com/feedsift/feedsift/pkg/repository"
	"github.com/feedsift/feedsift/pkg/resolve"
	"github.com/feedsift/feedsift/pkg/scheduler"
	"github.com/feedsift/feedsift/pkg/urlcheck"
	"github.com/feedsift/feedsift/pkg/worker"
	"github.com/feedsift/feedsift/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"config.yml" description:"config file path"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)

	lgr.Printf("[INFO] starting feedsift version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		lgr.Printf("[INFO] termination signal received")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	lgr.Printf("[INFO] shutdown complete")
}

func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	repos, err := repository.NewRepositories(ctx, repository.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer func() {
		if err := repos.Close(); err != nil {
			lgr.Printf("[WARN] failed to close database: %v", err)
		}
	}()

	if err := seedFeeds(ctx, repos, cfg.Feeds); err != nil {
		return fmt.Errorf("seed feeds: %w", err)
	}

	// pipeline stages
	validator := urlcheck.New(cfg.Ingest.MaxURLLength, nil)
	resolver := resolve.New(validator, resolve.Config{
		Timeout:     cfg.Ingest.Timeout,
		MaxHops:     cfg.Ingest.MaxRedirects,
		MaxBodySize: cfg.Ingest.MaxBodySize,
		UserAgent:   cfg.Ingest.UserAgent,
	})
	extractor := extract.New()
	feedParser := feed.NewParser(cfg.Ingest.Timeout, cfg.Ingest.UserAgent)
	ingestor := feed.NewIngestor(feedParser, repos.Article)

	wrk := worker.New(resolver, extractor, repos.Article, worker.Config{
		MaxRetries: cfg.Ingest.MaxRetries,
		BaseDelay:  cfg.Ingest.BaseDelay,
		MaxDelay:   cfg.Ingest.MaxDelay,
		MaxWorkers: cfg.Schedule.MaxWorkers,
		ClaimTTL:   cfg.Ingest.ClaimTTL,
	})

	sched := scheduler.NewScheduler(repos.Feed, ingestor, wrk, scheduler.Config{
		UpdateInterval: time.Duration(cfg.Schedule.UpdateInterval) * time.Minute,
		IngestInterval: time.Duration(cfg.Schedule.IngestInterval) * time.Minute,
		MaxWorkers:     cfg.Schedule.MaxWorkers,
	})
	sched.Start(ctx)
	defer sched.Stop()

	srv := server.New(cfg, repos.Article, repos.Feed, sched, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// seedFeeds upserts configured topic feeds into the store so removed entries
// stay in the database but config remains the source of truth for the rest
func seedFeeds(ctx context.Context, repos *repository.Repositories, feeds []config.FeedConfig) error {
	for _, fc := range feeds {
		f := &domain.Feed{
			Topic:   fc.Topic,
			URL:     fc.URL,
			Limit:   fc.Limit,
			Enabled: fc.IsEnabled(),
		}
		if err := repos.Feed.UpsertFeed(ctx, f); err != nil {
			return fmt.Errorf("upsert feed %s: %w", fc.URL, err)
		}
		lgr.Printf("[INFO] feed configured: %s (%s)", fc.Topic, fc.URL)
	}
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = append(logOpts, lgr.Debug)
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
