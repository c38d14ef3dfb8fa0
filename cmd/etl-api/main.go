package main

import (
	"log"

	"student-etl/internal/api"
	"student-etl/internal/api/handler"
	"student-etl/internal/config"
	"student-etl/internal/store"
	"student-etl/pkg/router"
)

// @title Student Records ETL API
// @version 1.0
// @description Student registration and ETL run management API
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Init run store
	runs, err := store.OpenRuns(cfg.Database.RunsPath)
	if err != nil {
		log.Fatalf("open run store: %v", err)
	}
	defer runs.Close()

	// Init student store
	if cfg.Database.StudentsDSN == "" {
		log.Fatal("students DSN is not configured (set STUDENTS_DSN)")
	}
	students, err := store.OpenStudents(cfg.Database.StudentsDSN)
	if err != nil {
		log.Fatalf("open student store: %v", err)
	}
	defer students.Close()

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r, handler.New(students, runs, cfg))

	// Start server
	r.Start(cfg.Server.Addr)
}
