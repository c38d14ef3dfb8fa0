package etl

import (
	"context"
	"fmt"
	"time"

	"student-etl/internal/model"
)

// RunStore tracks run lifecycle and rejected-row feedback. Satisfied by
// internal/store; nil disables tracking (used by one-shot CLI runs
// against a fresh database path).
type RunStore interface {
	UpdateRunStatus(runID, status string) error
	SaveRunCounts(runID string, result model.TransformResult, load *model.LoadStats) error
	SaveRunError(runID string, line int, message string) error
}

// StudentLoader consumes the accepted set and performs idempotent upsert
// keyed by email. The runner makes no assumptions about its transaction
// semantics. A nil loader means transform-only (dry run).
type StudentLoader interface {
	Load(ctx context.Context, students []model.NormalizedStudent) (model.LoadStats, error)
}

// Runner sequences one full ETL invocation:
// extract → transform → load → audit → report.
type Runner struct {
	SourceType  string
	SourcePath  string
	Transformer *Transformer
	Loader      StudentLoader
	Runs        RunStore
	Reports     *ReportWriter
}

// Run processes one batch to completion and returns the run report.
// Transform failures never abort the batch; only extraction or load
// infrastructure errors fail the run.
func (r *Runner) Run(ctx context.Context, runID string) (report model.RunReport, err error) {
	start := time.Now()
	fmt.Printf("🚀 Starting ETL run: %s\n", runID)

	r.updateStatus(runID, model.RunRunning)
	defer func() {
		if err != nil {
			r.updateStatus(runID, model.RunFailed)
		}
	}()

	// --- EXTRACT ---
	batch, err := Extract(ctx, r.SourceType, r.SourcePath)
	if err != nil {
		return report, fmt.Errorf("extract: %w", err)
	}

	// --- TRANSFORM ---
	fmt.Println("🔄 Starting transform stage...")
	result := r.Transformer.Transform(batch)
	fmt.Printf("🔄 Transform Summary: %d in, %d accepted, %d rejected, %d duplicates removed\n",
		result.InputRows, len(result.Accepted), len(result.Rejected), result.DuplicatesRemoved)

	if r.Runs != nil {
		for _, rejected := range result.Rejected {
			for _, msg := range rejected.Messages() {
				if saveErr := r.Runs.SaveRunError(runID, rejected.Line, msg); saveErr != nil {
					fmt.Printf("❌ Failed to record rejection for line %d: %v\n", rejected.Line, saveErr)
				}
			}
		}
	}

	// --- LOAD ---
	var loadStats *model.LoadStats
	if r.Loader != nil {
		fmt.Printf("💾 Starting load stage: %d records\n", len(result.Accepted))
		stats, loadErr := r.Loader.Load(ctx, result.Accepted)
		if loadErr != nil {
			return report, fmt.Errorf("load: %w", loadErr)
		}
		loadStats = &stats
		fmt.Printf("💾 Load Summary: %d inserted, %d updated\n",
			stats.StudentsInserted, stats.StudentsUpdated)
	}

	if r.Runs != nil {
		if saveErr := r.Runs.SaveRunCounts(runID, result, loadStats); saveErr != nil {
			fmt.Printf("❌ Failed to save run counts: %v\n", saveErr)
		}
	}

	// --- REPORT ---
	report = model.RunReport{
		RunID:             runID,
		Source:            r.SourcePath,
		StartedAt:         start,
		FinishedAt:        time.Now(),
		InputRows:         result.InputRows,
		Accepted:          len(result.Accepted),
		Rejected:          len(result.Rejected),
		DuplicatesRemoved: result.DuplicatesRemoved,
		Load:              loadStats,
		Audit:             Audit(result),
	}
	if r.Reports != nil {
		if _, reportErr := r.Reports.Write(report, result.Rejected); reportErr != nil {
			fmt.Printf("❌ Failed to write run report: %v\n", reportErr)
		}
	}

	r.updateStatus(runID, model.RunCompleted)
	fmt.Printf("🏁 ETL run %s completed in %v\n", runID, time.Since(start))
	return report, nil
}

func (r *Runner) updateStatus(runID, status string) {
	if r.Runs == nil {
		return
	}
	if err := r.Runs.UpdateRunStatus(runID, status); err != nil {
		fmt.Printf("❌ Failed to update run %s status to %s: %v\n", runID, status, err)
	}
}
