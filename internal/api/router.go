package api

import (
	httpSwagger "github.com/swaggo/http-swagger"

	_ "student-etl/docs"
	"student-etl/internal/api/handler"
	"student-etl/pkg/router"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.GET("/health", h.HealthCheck)

	r.POST("/api/v1/register", h.RegisterStudent)
	r.GET("/api/v1/students", h.ListStudents)
	r.GET("/api/v1/students/*", h.GetStudent)

	r.POST("/api/v1/runs", h.CreateRun)
	r.GET("/api/v1/runs", h.ListRuns)
	// More specific routes first
	r.GET("/api/v1/runs/*/errors", h.GetRunErrors)
	// Generic run route last
	r.GET("/api/v1/runs/*", h.GetRun)

	r.GET("/api/v1/download/*/*", h.DownloadArtifact)

	r.Mount("/swagger/", httpSwagger.WrapHandler)
}
