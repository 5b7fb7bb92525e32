package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"docpipe/internal/blobref"
	"docpipe/internal/config"
	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// OCRInput is the DTO for perform_ocr requests.
type OCRInput struct {
	StorageAccount string
	BlobURL        string
	ClassifierID   string
}

// OCRResult names the stored OCR result blob.
type OCRResult struct {
	BlobName  string
	Container string
}

// OCRService runs a source document through the content-understanding
// service and persists the raw result.
type OCRService interface {
	PerformOCR(ctx context.Context, input OCRInput) (*OCRResult, error)
}

type ocrService struct {
	storage    port.ObjectStorage
	classifier port.DocumentClassifier
	containers *config.ContainersConfig
	defaultID  string
	now        func() time.Time
}

// NewOCRService creates a new OCRService implementation.
func NewOCRService(
	storage port.ObjectStorage,
	classifier port.DocumentClassifier,
	containers *config.ContainersConfig,
	defaultClassifierID string,
) OCRService {
	return &ocrService{
		storage:    storage,
		classifier: classifier,
		containers: containers,
		defaultID:  defaultClassifierID,
		now:        time.Now,
	}
}

func (s *ocrService) PerformOCR(ctx context.Context, input OCRInput) (*OCRResult, error) {
	classifierID := input.ClassifierID
	if classifierID == "" {
		classifierID = s.defaultID
	}
	if classifierID == "" {
		return nil, domain.ErrClassifierRequired
	}

	source, err := blobref.Parse(input.BlobURL)
	if err != nil {
		return nil, err
	}

	// Presence check before handing the URL to the external service.
	exists, err := s.storage.Exists(ctx, source.Bucket, source.Key)
	if err != nil {
		return nil, fmt.Errorf("checking source blob: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("source blob %s: %w", input.BlobURL, domain.ErrBlobNotFound)
	}

	log.Printf("ocrService.PerformOCR: classifying %s with classifier %s", input.BlobURL, classifierID)
	raw, err := s.classifier.Classify(ctx, port.ClassifyInput{
		ClassifierID: classifierID,
		DocumentURL:  input.BlobURL,
	})
	if err != nil {
		return nil, err
	}

	blobName := blobref.ResultBlobName(source.Base(), s.now().UTC())
	key := blobref.Join(s.containers.Results, blobName)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      input.StorageAccount,
		Key:         key,
		Body:        bytes.NewReader(raw),
		ContentType: "application/json",
	})
	if err != nil {
		log.Printf("ocrService.PerformOCR: uploading result %s/%s failed: %v", input.StorageAccount, key, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	log.Printf("ocrService.PerformOCR: stored result blob %q in container %q", blobName, s.containers.Results)

	return &OCRResult{
		BlobName:  blobName,
		Container: s.containers.Results,
	}, nil
}
