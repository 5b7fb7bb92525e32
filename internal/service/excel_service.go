package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"docpipe/internal/blobref"
	"docpipe/internal/config"
	"docpipe/internal/domain"
	"docpipe/internal/excelreport"
	"docpipe/internal/port"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SpreadsheetInput is the DTO for create_excel requests.
type SpreadsheetInput struct {
	StorageAccount string
	OCRBlobName    string
}

// SpreadsheetResult names the stored spreadsheet blob.
type SpreadsheetResult struct {
	BlobName  string
	Container string
}

// ExcelService renders a spreadsheet report from a stored OCR result.
type ExcelService interface {
	CreateSpreadsheet(ctx context.Context, input SpreadsheetInput) (*SpreadsheetResult, error)
}

type excelService struct {
	storage    port.ObjectStorage
	containers *config.ContainersConfig
}

// NewExcelService creates a new ExcelService implementation.
func NewExcelService(storage port.ObjectStorage, containers *config.ContainersConfig) ExcelService {
	return &excelService{storage: storage, containers: containers}
}

func (s *excelService) CreateSpreadsheet(ctx context.Context, input SpreadsheetInput) (*SpreadsheetResult, error) {
	sourceKey := blobref.Join(s.containers.Results, input.OCRBlobName)
	data, err := s.storage.Download(ctx, input.StorageAccount, sourceKey)
	if err != nil {
		return nil, err
	}

	var result domain.ClassifyResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOCRResult, err)
	}

	workbook, err := excelreport.RenderBytes(&result)
	if err != nil {
		return nil, err
	}

	blobName := blobref.SpreadsheetBlobName(input.OCRBlobName)
	key := blobref.Join(s.containers.Spreadsheet, blobName)
	_, err = s.storage.Upload(ctx, port.UploadInput{
		Bucket:      input.StorageAccount,
		Key:         key,
		Body:        bytes.NewReader(workbook),
		ContentType: xlsxContentType,
	})
	if err != nil {
		log.Printf("excelService.CreateSpreadsheet: uploading %s/%s failed: %v", input.StorageAccount, key, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}
	log.Printf("excelService.CreateSpreadsheet: stored spreadsheet blob %q in container %q", blobName, s.containers.Spreadsheet)

	return &SpreadsheetResult{
		BlobName:  blobName,
		Container: s.containers.Spreadsheet,
	}, nil
}
