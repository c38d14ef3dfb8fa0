package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"student-etl/internal/config"
	"student-etl/internal/etl"
	"student-etl/internal/model"
	"student-etl/internal/store"
	"student-etl/pkg/router"
)

// Handler carries the wired dependencies for all API endpoints.
type Handler struct {
	Students  *store.Students
	Runs      *store.Runs
	Cfg       config.Config
	validator *etl.Validator
}

// New builds the handler set; the registration endpoint reuses the same
// field normalizers the batch pipeline runs.
func New(students *store.Students, runs *store.Runs, cfg config.Config) *Handler {
	normalizer := etl.NewNormalizer(cfg.Transform.DepartmentSynonyms)
	return &Handler{
		Students:  students,
		Runs:      runs,
		Cfg:       cfg,
		validator: etl.NewValidator(normalizer),
	}
}

// registerRequest is the one-student payload the external trigger posts.
// Scalar fields stay untyped so numeric and string spellings both work,
// matching what the spreadsheet script sends.
type registerRequest struct {
	Email     interface{} `json:"email"`
	FirstName interface{} `json:"first_name"`
	LastName  interface{} `json:"last_name"`
	YearLevel interface{} `json:"year_level"`
	Dept      interface{} `json:"department"`
	Status    interface{} `json:"status"`
	Phone     interface{} `json:"phone"`
	DOB       interface{} `json:"dob"`
	GPA       interface{} `json:"gpa"`
}

func (r registerRequest) toRawRow() model.RawRow {
	return model.RawRow{Fields: map[string]interface{}{
		model.FieldEmail:       r.Email,
		model.FieldFirstName:   r.FirstName,
		model.FieldLastName:    r.LastName,
		model.FieldYearLevel:   r.YearLevel,
		model.FieldDepartment:  r.Dept,
		model.FieldStatus:      r.Status,
		model.FieldPhone:       r.Phone,
		model.FieldDateOfBirth: r.DOB,
		model.FieldGPA:         r.GPA,
	}}
}

// RegisterStudent registers or updates one student
// @Summary Register a student
// @Description Validate, normalize and upsert a single student record keyed by email
// @Tags students
// @Accept json
// @Produce json
// @Param student body handler.registerRequest true "Student payload"
// @Success 200 {object} map[string]interface{} "Student updated"
// @Success 201 {object} map[string]interface{} "Student created"
// @Failure 400 {object} map[string]interface{} "Validation failure"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /register [post]
func (h *Handler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid JSON payload",
		})
		return
	}

	outcome := h.validator.ValidateRow(req.toRawRow())
	if !outcome.Valid() {
		messages := make([]string, len(outcome.Errors))
		for i, e := range outcome.Errors {
			messages[i] = e.Error()
		}
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": strings.Join(messages, "; "),
			"errors":  outcome.Errors,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	id, created, err := h.Students.Upsert(ctx, *outcome.Student)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": "Failed to save student: " + err.Error(),
		})
		return
	}

	status := http.StatusOK
	message := "Student updated successfully"
	action := "updated"
	if created {
		status = http.StatusCreated
		message = "Student registered successfully"
		action = "created"
	}
	writeJSON(w, status, map[string]interface{}{
		"success":    true,
		"message":    message,
		"student_id": id,
		"action":     action,
	})
}

// ListStudents lists all persisted students
// @Summary List students
// @Tags students
// @Produce json
// @Success 200 {object} map[string]interface{} "Students"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /students [get]
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Students.List(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"students": students,
		"count":    len(students),
	})
}

// GetStudent fetches one student by assigned identifier
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} map[string]interface{} "Student"
// @Failure 400 {object} map[string]interface{} "Invalid student ID"
// @Failure 404 {object} map[string]interface{} "Student not found"
// @Router /students/{id} [get]
func (h *Handler) GetStudent(w http.ResponseWriter, r *http.Request) {
	// Path: /api/v1/students/{id}
	id, err := strconv.ParseInt(router.PathParam(r, 3), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Invalid student ID",
		})
		return
	}

	student, err := h.Students.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"message": "Student not found",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"student": student,
	})
}

// HealthCheck reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Healthy"
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
