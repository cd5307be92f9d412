package main

import (
	"fmt"
	"os"
	"time"

	"github.com/empdesk/empdesk/internal/cli"
	"github.com/empdesk/empdesk/internal/config"
	"github.com/empdesk/empdesk/internal/db"
	"github.com/empdesk/empdesk/internal/po"
	"github.com/empdesk/empdesk/internal/repository"
	"github.com/empdesk/empdesk/internal/scheduler"
	"github.com/empdesk/empdesk/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	employeeRepo := repository.NewSQLiteEmployeeRepo(database)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(database)
	amendmentRepo := repository.NewSQLiteAmendmentRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)
	store := service.NewAmendmentStore(projectRepo, assignmentRepo, amendmentRepo, uow)

	observer := service.NewLogUseCaseObserver(logger)
	today := func() time.Time { return po.Day(time.Now(), cfg.Timezone) }

	recalc := service.NewRecalcService(store, cfg.RecalcTimeout(), logger, observer)
	sched := scheduler.New(recalc, store, scheduler.Options{
		Location:    cfg.Timezone,
		Concurrency: cfg.RecalcConcurrency,
		Timeout:     cfg.RecalcTimeout(),
		Logger:      logger,
	})

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, observer),
		Employees:   service.NewEmployeeService(employeeRepo, observer),
		Assignments: service.NewAssignmentService(assignmentRepo, uow, observer),
		Amendments:  service.NewAmendmentService(amendmentRepo, projectRepo, assignmentRepo, recalc, today, observer),
		Recalc:      recalc,
		Reports:     service.NewReportService(store, observer),
		Scheduler:   sched,
		Today:       today,
		Location:    cfg.Timezone,
		Nightly:     cfg.Nightly,
	}

	// Forms and the watch view need a terminal on both ends.
	app.IsInteractive = func() bool {
		in := isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		out := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		return in && out
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
