package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/ascent/internal/calendar"
	"github.com/alexanderramin/ascent/internal/catalog"
	"github.com/alexanderramin/ascent/internal/cli"
	"github.com/alexanderramin/ascent/internal/clock"
	"github.com/alexanderramin/ascent/internal/config"
	"github.com/alexanderramin/ascent/internal/db"
	"github.com/alexanderramin/ascent/internal/logger"
	"github.com/alexanderramin/ascent/internal/progress"
	"github.com/alexanderramin/ascent/internal/repository"
	"github.com/alexanderramin/ascent/internal/service"
	"github.com/alexanderramin/ascent/internal/store"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Init(logger.Config{Debug: cfg.Debug, DataDir: cfg.DataDir}); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	cal, err := calendar.New(cfg.PhaseTable(), loc)
	if err != nil {
		return fmt.Errorf("building calendar: %w", err)
	}

	source := catalog.NewMemorySource()
	if cfg.CatalogPath != "" {
		if source, err = catalog.LoadFile(cfg.CatalogPath); err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
	} else {
		logger.Warn("no catalog configured; action lists will be empty", "hint", "set ASCENT_CATALOG")
	}

	database, err := db.Open(cfg.DatabaseURL, cfg.SQLitePath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Administrative time travel shifts every service by the same offset.
	var clk clock.Clock = clock.System{}
	if cfg.TimeOffset != 0 {
		clk = clock.Offset{Base: clk, Delta: cfg.TimeOffset}
		logger.Info("clock offset active", "offset", cfg.TimeOffset)
	}

	uow := database.UnitOfWork()
	learners := repository.NewSQLLearnerRepo(database.Conn())
	visits := repository.NewSQLVisitRepo(database.Conn())
	rollovers := repository.NewSQLRolloverRepo(database.Conn())
	records := store.New(uow, database.Conn(), store.WithClock(clk))
	engine := progress.NewEngine(records, progress.WithMaxCarries(cfg.MaxCarries), progress.WithClock(clk))
	resolver := catalog.NewResolver(source, cal)
	observer := service.NewLogUseCaseObserver(logger.Slog())

	app := &cli.App{
		Enrollment: service.NewEnrollmentService(learners, clk, observer),
		Journey:    service.NewJourneyService(learners, visits, records, resolver, cal, uow, clk, engine.MaxCarries(), observer),
		Progress:   service.NewProgressService(engine, records, learners, resolver, cal, clk, observer),
		Rollover:   service.NewRolloverService(engine, records, learners, rollovers, resolver, cal, clk, observer),
		Stats:      service.NewStatsService(records, learners, cal, clk, observer),
		Feed:       records,
		Clock:      clk,
		Location:   loc,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
