package router

import (
	"github.com/gin-gonic/gin"

	"docpipe/internal/config"
	"docpipe/internal/handler"
	"docpipe/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	pipelineH *handler.PipelineHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(&cfg.CORS))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	api := r.Group("/api")

	// Each pipeline step accepts parameters via query string or JSON
	// body, so both GET and POST are routed.
	api.GET("/perform_ocr", pipelineH.PerformOCR)
	api.POST("/perform_ocr", pipelineH.PerformOCR)
	api.GET("/parse_ocr", pipelineH.ParseOCR)
	api.POST("/parse_ocr", pipelineH.ParseOCR)
	api.GET("/create_excel", pipelineH.CreateExcel)
	api.POST("/create_excel", pipelineH.CreateExcel)
	api.GET("/clean_up", pipelineH.CleanUp)
	api.POST("/clean_up", pipelineH.CleanUp)

	return r
}
