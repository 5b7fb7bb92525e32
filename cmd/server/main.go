package main

import (
	"fmt"
	"log"

	"docpipe/internal/config"
	"docpipe/internal/handler"
	"docpipe/internal/router"
	"docpipe/internal/service"
	s3storage "docpipe/internal/storage/s3"
	"docpipe/internal/understanding"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize the content-understanding client
	understandingClient, err := understanding.NewClient(&cfg.Understanding)
	if err != nil {
		return fmt.Errorf("failed to initialize content-understanding client: %w", err)
	}

	// Initialize services
	ocrSvc := service.NewOCRService(s3Client, understandingClient, &cfg.Containers, cfg.Understanding.DefaultClassifier)
	reportSvc := service.NewReportService(s3Client, &cfg.Containers)
	excelSvc := service.NewExcelService(s3Client, &cfg.Containers)
	cleanupSvc := service.NewCleanupService(s3Client, &cfg.Containers)

	// Initialize handlers
	pipelineH := handler.NewPipelineHandler(ocrSvc, reportSvc, excelSvc, cleanupSvc)
	healthH := handler.NewHealthHandler()

	// Setup router
	r := router.Setup(cfg, pipelineH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
