package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"student-etl/internal/etl"
	"student-etl/pkg/router"
)

// runRequest optionally overrides the configured source for one run.
type runRequest struct {
	SourceType string `json:"source_type,omitempty"`
	SourcePath string `json:"source_path,omitempty"`
}

// CreateRun starts a new ETL run
// @Summary Start an ETL run
// @Description Extract, transform and load the configured (or overridden) source asynchronously
// @Tags runs
// @Accept json
// @Produce json
// @Param run body handler.runRequest false "Source override"
// @Success 200 {object} map[string]interface{} "Run created"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [post]
func (h *Handler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if r.Body != nil {
		// A missing or empty body means "use the configured source".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	sourceType := h.Cfg.Source.Type
	sourcePath := h.Cfg.Source.Path
	if req.SourceType != "" {
		sourceType = req.SourceType
	}
	if req.SourcePath != "" {
		sourcePath = req.SourcePath
	}

	runID := uuid.New().String()
	if err := h.Runs.CreateRun(runID, sourcePath); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to save run",
		})
		return
	}

	runner := &etl.Runner{
		SourceType:  sourceType,
		SourcePath:  sourcePath,
		Transformer: etl.NewTransformer(etl.Options{
			ColumnMapping:      h.Cfg.Transform.ColumnMapping,
			DepartmentSynonyms: h.Cfg.Transform.DepartmentSynonyms,
		}),
		Loader:  h.Students,
		Runs:    h.Runs,
		Reports: etl.NewReportWriter(h.Cfg.Server.OutputDir),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := runner.Run(ctx, runID); err != nil {
			fmt.Printf("❌ Run %s failed: %v\n", runID, err)
		}
	}()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Run created successfully!",
		"runID":     runID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	})
}

// ListRuns retrieves all ETL runs
// @Summary List runs
// @Tags runs
// @Produce json
// @Success 200 {array} model.Run "Runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs [get]
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := h.Runs.ListRuns()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to fetch runs",
		})
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun retrieves one ETL run
// @Summary Get run
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} model.Run "Run"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /runs/{id} [get]
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	// Path: /api/v1/runs/{id}
	runID := router.PathParam(r, 3)

	run, err := h.Runs.GetRun(runID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Run not found",
		})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// GetRunErrors retrieves the rejected-row feedback for a run
// @Summary Get run errors
// @Description Per-row rejection messages, detailed enough to fix the source row
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /runs/{id}/errors [get]
func (h *Handler) GetRunErrors(w http.ResponseWriter, r *http.Request) {
	// Path: /api/v1/runs/{id}/errors
	runID := router.PathParam(r, 3)

	errs, err := h.Runs.GetRunErrors(runID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to retrieve errors",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": runID,
		"errors": errs,
		"count":  len(errs),
	})
}

// DownloadArtifact serves a run artifact for download
// @Summary Download run artifact
// @Tags runs
// @Produce application/octet-stream
// @Param id path string true "Run ID"
// @Param filename path string true "Artifact name"
// @Success 200 {file} file "Artifact download"
// @Failure 404 {object} map[string]interface{} "Artifact not found"
// @Router /download/{id}/{filename} [get]
func (h *Handler) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	// Path: /api/v1/download/{runID}/{filename}
	runID := filepath.Base(router.PathParam(r, 3))
	fileName := filepath.Base(router.PathParam(r, 4))
	if runID == "." || runID == ".." || fileName == "." || fileName == ".." {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Artifact not found",
		})
		return
	}

	filePath := filepath.Join(h.Cfg.Server.OutputDir, runID, fileName)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Artifact not found",
		})
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, filePath)
}
