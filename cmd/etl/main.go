package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"student-etl/internal/config"
	"student-etl/internal/etl"
	"student-etl/internal/store"
)

func main() {
	var (
		sourcePath = flag.String("source", "", "override configured source path or URL")
		sourceType = flag.String("type", "", "override configured source type (csv or json)")
		dryRun     = flag.Bool("dry-run", false, "transform only, skip the database load")
		schedule   = flag.Bool("cron", false, "keep running on the configured cron schedule")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *sourcePath != "" {
		cfg.Source.Path = *sourcePath
	}
	if *sourceType != "" {
		cfg.Source.Type = *sourceType
	}

	runs, err := store.OpenRuns(cfg.Database.RunsPath)
	if err != nil {
		log.Fatalf("open run store: %v", err)
	}
	defer runs.Close()

	runner := &etl.Runner{
		SourceType: cfg.Source.Type,
		SourcePath: cfg.Source.Path,
		Transformer: etl.NewTransformer(etl.Options{
			ColumnMapping:      cfg.Transform.ColumnMapping,
			DepartmentSynonyms: cfg.Transform.DepartmentSynonyms,
		}),
		Runs:    runs,
		Reports: etl.NewReportWriter(cfg.Server.OutputDir),
	}

	if !*dryRun {
		if cfg.Database.StudentsDSN == "" {
			log.Fatal("students DSN is not configured (set STUDENTS_DSN or use -dry-run)")
		}
		students, err := store.OpenStudents(cfg.Database.StudentsDSN)
		if err != nil {
			log.Fatalf("open student store: %v", err)
		}
		defer students.Close()
		runner.Loader = students
	}

	if *schedule {
		runOnSchedule(cfg.Scheduler.CronExpression, runner, runs)
		return
	}

	if err := runOnce(runner, runs); err != nil {
		log.Fatalf("etl run: %v", err)
	}
}

func runOnce(runner *etl.Runner, runs *store.Runs) error {
	runID := uuid.New().String()
	if err := runs.CreateRun(runID, runner.SourcePath); err != nil {
		return fmt.Errorf("create run: %w", err)
	}

	report, err := runner.Run(context.Background(), runID)
	if err != nil {
		return err
	}

	fmt.Printf("📊 Run %s: %d accepted, %d rejected, %d duplicates removed\n",
		runID, report.Accepted, report.Rejected, report.DuplicatesRemoved)
	return nil
}

func runOnSchedule(expr string, runner *etl.Runner, runs *store.Runs) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		if err := runOnce(runner, runs); err != nil {
			fmt.Printf("❌ Scheduled run failed: %v\n", err)
		}
	})
	if err != nil {
		log.Fatalf("invalid cron expression %q: %v", expr, err)
	}

	fmt.Printf("⏰ Scheduler started: %q\n", expr)
	c.Start()
	defer c.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	fmt.Println("⏰ Scheduler stopped")
}
