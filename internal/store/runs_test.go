package store

import (
	"path/filepath"
	"testing"

	"student-etl/internal/model"
)

func openTestRuns(t *testing.T) *Runs {
	t.Helper()
	runs, err := OpenRuns(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("OpenRuns: %v", err)
	}
	t.Cleanup(func() { runs.Close() })
	return runs
}

func TestRuns_Lifecycle(t *testing.T) {
	runs := openTestRuns(t)

	if err := runs.CreateRun("run-1", "datasets/students_raw.csv"); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	run, err := runs.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if run.Status != model.RunPending {
		t.Errorf("new run status = %q, want pending", run.Status)
	}
	if run.Source != "datasets/students_raw.csv" {
		t.Errorf("Source = %q", run.Source)
	}

	if err := runs.UpdateRunStatus("run-1", model.RunRunning); err != nil {
		t.Fatalf("UpdateRunStatus: %v", err)
	}
	run, _ = runs.GetRun("run-1")
	if run.Status != model.RunRunning {
		t.Errorf("status = %q, want running", run.Status)
	}
}

func TestRuns_SaveRunCounts(t *testing.T) {
	runs := openTestRuns(t)
	if err := runs.CreateRun("run-2", "src"); err != nil {
		t.Fatal(err)
	}

	result := model.TransformResult{
		InputRows:         10,
		DuplicatesRemoved: 2,
		Accepted:          make([]model.NormalizedStudent, 7),
		Rejected:          make([]model.RejectedRow, 1),
	}
	load := &model.LoadStats{StudentsInserted: 5, StudentsUpdated: 2}

	if err := runs.SaveRunCounts("run-2", result, load); err != nil {
		t.Fatalf("SaveRunCounts: %v", err)
	}

	run, err := runs.GetRun("run-2")
	if err != nil {
		t.Fatal(err)
	}
	if run.InputRows != 10 || run.Accepted != 7 || run.Rejected != 1 || run.DuplicatesRemoved != 2 {
		t.Errorf("transform counters = %+v", run)
	}
	if run.Inserted != 5 || run.Updated != 2 {
		t.Errorf("load counters = %+v", run)
	}
}

func TestRuns_SaveRunCountsWithoutLoad(t *testing.T) {
	runs := openTestRuns(t)
	if err := runs.CreateRun("run-3", "src"); err != nil {
		t.Fatal(err)
	}

	result := model.TransformResult{InputRows: 1, Accepted: make([]model.NormalizedStudent, 1)}
	if err := runs.SaveRunCounts("run-3", result, nil); err != nil {
		t.Fatalf("SaveRunCounts: %v", err)
	}

	run, _ := runs.GetRun("run-3")
	if run.Inserted != 0 || run.Updated != 0 {
		t.Errorf("dry run should leave load counters at zero: %+v", run)
	}
}

func TestRuns_RunErrors(t *testing.T) {
	runs := openTestRuns(t)
	if err := runs.CreateRun("run-4", "src"); err != nil {
		t.Fatal(err)
	}

	if err := runs.SaveRunError("run-4", 5, "email: invalid email format: \"broken\""); err != nil {
		t.Fatalf("SaveRunError: %v", err)
	}
	if err := runs.SaveRunError("run-4", 7, "first_name: first name is required"); err != nil {
		t.Fatalf("SaveRunError: %v", err)
	}

	errs, err := runs.GetRunErrors("run-4")
	if err != nil {
		t.Fatalf("GetRunErrors: %v", err)
	}
	if len(errs) != 2 {
		t.Fatalf("errors = %d, want 2", len(errs))
	}
	if errs[0]["line"] != 5 || errs[1]["line"] != 7 {
		t.Errorf("insertion order lost: %v", errs)
	}

	// Errors are scoped per run.
	other, err := runs.GetRunErrors("run-999")
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 0 {
		t.Errorf("unexpected errors for unknown run: %v", other)
	}
}

func TestRuns_ListRunsNewestFirst(t *testing.T) {
	runs := openTestRuns(t)
	for _, id := range []string{"run-a", "run-b"} {
		if err := runs.CreateRun(id, "src"); err != nil {
			t.Fatal(err)
		}
	}

	list, err := runs.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("runs = %d, want 2", len(list))
	}
}

func TestRuns_GetRunMissing(t *testing.T) {
	runs := openTestRuns(t)
	if _, err := runs.GetRun("nope"); err == nil {
		t.Fatal("expected error for unknown run")
	}
}
