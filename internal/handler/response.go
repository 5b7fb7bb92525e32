package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docpipe/internal/domain"
)

// PipelineResponse is the envelope returned by perform_ocr, create_excel,
// and clean_up.
type PipelineResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	ResultBlobName string `json:"result_blob_name,omitempty"`
	ContainerName  string `json:"container_name,omitempty"`
}

// SummaryResponse is the envelope returned by parse_ocr. The summary
// fields carry their own names per the documented contract.
type SummaryResponse struct {
	Success               bool   `json:"success"`
	Message               string `json:"message"`
	SummaryReportBlobName string `json:"summary_report_blob_name,omitempty"`
	SummaryContainerName  string `json:"summary_container_name,omitempty"`
}

// RespondFailure sends a failure envelope with the given status code.
// Failures never raise; every outcome is a JSON envelope.
func RespondFailure(c *gin.Context, status int, msg string) {
	c.JSON(status, PipelineResponse{Success: false, Message: msg})
}

// MapDomainError translates pipeline errors to HTTP status codes. The
// error text is surfaced in the response message so callers see the
// upstream reason.
func MapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingParameter),
		errors.Is(err, domain.ErrMalformedBlobURL),
		errors.Is(err, domain.ErrClassifierRequired),
		errors.Is(err, domain.ErrInvalidOCRResult),
		errors.Is(err, domain.ErrEmptyOCRResult):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBlobNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnderstandingTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUnderstandingFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HandleError maps a pipeline error and sends the failure envelope.
func HandleError(c *gin.Context, err error) {
	status := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%v] pipeline error: %v", requestID, err)
	}
	RespondFailure(c, status, err.Error())
}
