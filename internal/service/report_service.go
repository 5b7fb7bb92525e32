package service

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"docpipe/internal/blobref"
	"docpipe/internal/config"
	"docpipe/internal/domain"
	"docpipe/internal/port"
	"docpipe/internal/summary"
)

// SummaryInput is the DTO for parse_ocr requests.
type SummaryInput struct {
	StorageAccount string
	OCRBlobName    string
}

// SummaryResult names the stored summary report blob.
type SummaryResult struct {
	BlobName  string
	Container string
}

// ReportService derives a summary report from a stored OCR result.
type ReportService interface {
	CreateSummary(ctx context.Context, input SummaryInput) (*SummaryResult, error)
}

type reportService struct {
	storage    port.ObjectStorage
	containers *config.ContainersConfig
}

// NewReportService creates a new ReportService implementation.
func NewReportService(storage port.ObjectStorage, containers *config.ContainersConfig) ReportService {
	return &reportService{storage: storage, containers: containers}
}

func (s *reportService) CreateSummary(ctx context.Context, input SummaryInput) (*SummaryResult, error) {
	sourceKey := blobref.Join(s.containers.Results, input.OCRBlobName)
	data, err := s.storage.Download(ctx, input.StorageAccount, sourceKey)
	if err != nil {
		return nil, err
	}

	report, err := summary.BuildFromJSON(data)
	if err != nil {
		return nil, err
	}
	encoded, err := report.Encode()
	if err != nil {
		return nil, err
	}

	blobName := blobref.SummaryBlobName(input.OCRBlobName)
	key := blobref.Join(s.containers.Summary, blobName)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      input.StorageAccount,
		Key:         key,
		Body:        bytes.NewReader(encoded),
		ContentType: "application/json",
	})
	if err != nil {
		log.Printf("reportService.CreateSummary: uploading %s/%s failed: %v", input.StorageAccount, key, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	log.Printf("reportService.CreateSummary: stored summary blob %q in container %q", blobName, s.containers.Summary)

	return &SummaryResult{
		BlobName:  blobName,
		Container: s.containers.Summary,
	}, nil
}
