package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"docpipe/internal/service"
)

// PipelineHandler exposes the four document-pipeline endpoints.
type PipelineHandler struct {
	ocr     service.OCRService
	report  service.ReportService
	excel   service.ExcelService
	cleanup service.CleanupService
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(
	ocr service.OCRService,
	report service.ReportService,
	excel service.ExcelService,
	cleanup service.CleanupService,
) *PipelineHandler {
	return &PipelineHandler{ocr: ocr, report: report, excel: excel, cleanup: cleanup}
}

// requestParams reads named parameters from the query string first and
// falls back to a JSON object body for any that are absent. Callers may
// mix the two sources in a single request.
func requestParams(c *gin.Context, names ...string) map[string]string {
	params := make(map[string]string, len(names))
	missing := false
	for _, name := range names {
		if v := c.Query(name); v != "" {
			params[name] = v
		} else {
			missing = true
		}
	}
	if !missing {
		return params
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		return params
	}
	for _, name := range names {
		if _, ok := params[name]; ok {
			continue
		}
		if v, ok := body[name].(string); ok && v != "" {
			params[name] = v
		}
	}
	return params
}

// PerformOCR handles perform_ocr requests. It submits the referenced
// document to the content-understanding service and stores the raw
// result in the results container.
func (h *PipelineHandler) PerformOCR(c *gin.Context) {
	params := requestParams(c, "storage_account_name", "blob_url", "classifier_id")
	if params["storage_account_name"] == "" || params["blob_url"] == "" {
		RespondFailure(c, http.StatusBadRequest,
			"storage_account_name and blob_url are required")
		return
	}

	result, err := h.ocr.PerformOCR(c.Request.Context(), service.OCRInput{
		StorageAccount: params["storage_account_name"],
		BlobURL:        params["blob_url"],
		ClassifierID:   params["classifier_id"],
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PipelineResponse{
		Success:        true,
		Message:        fmt.Sprintf("OCR result stored as %s", result.BlobName),
		ResultBlobName: result.BlobName,
		ContainerName:  result.Container,
	})
}

// ParseOCR handles parse_ocr requests. It aggregates a stored OCR
// result into a summary report blob.
func (h *PipelineHandler) ParseOCR(c *gin.Context) {
	params := requestParams(c, "ocr_result_blob_name", "storage_account_name")
	if params["ocr_result_blob_name"] == "" || params["storage_account_name"] == "" {
		RespondFailure(c, http.StatusBadRequest,
			"ocr_result_blob_name and storage_account_name are required")
		return
	}

	result, err := h.report.CreateSummary(c.Request.Context(), service.SummaryInput{
		StorageAccount: params["storage_account_name"],
		OCRBlobName:    params["ocr_result_blob_name"],
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{
		Success:               true,
		Message:               fmt.Sprintf("summary report stored as %s", result.BlobName),
		SummaryReportBlobName: result.BlobName,
		SummaryContainerName:  result.Container,
	})
}

// CreateExcel handles create_excel requests. It renders a spreadsheet
// from a stored OCR result.
func (h *PipelineHandler) CreateExcel(c *gin.Context) {
	params := requestParams(c, "ocr_result_blob_name", "storage_account_name")
	if params["ocr_result_blob_name"] == "" || params["storage_account_name"] == "" {
		RespondFailure(c, http.StatusBadRequest,
			"ocr_result_blob_name and storage_account_name are required")
		return
	}

	result, err := h.excel.CreateSpreadsheet(c.Request.Context(), service.SpreadsheetInput{
		StorageAccount: params["storage_account_name"],
		OCRBlobName:    params["ocr_result_blob_name"],
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PipelineResponse{
		Success:        true,
		Message:        fmt.Sprintf("spreadsheet stored as %s", result.BlobName),
		ResultBlobName: result.BlobName,
		ContainerName:  result.Container,
	})
}

// CleanUp handles clean_up requests. It archives the source document
// and removes the intermediate blobs derived from it.
func (h *PipelineHandler) CleanUp(c *gin.Context) {
	params := requestParams(c, "storage_account_name", "blob_url")
	if params["storage_account_name"] == "" || params["blob_url"] == "" {
		RespondFailure(c, http.StatusBadRequest,
			"storage_account_name and blob_url are required")
		return
	}

	err := h.cleanup.CleanUp(c.Request.Context(), service.CleanupInput{
		StorageAccount: params["storage_account_name"],
		BlobURL:        params["blob_url"],
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, PipelineResponse{
		Success: true,
		Message: "clean-up completed",
	})
}
