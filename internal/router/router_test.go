package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docpipe/internal/config"
	"docpipe/internal/handler"
	"docpipe/internal/router"
	"docpipe/internal/service"
	"docpipe/mocks"
)

func testEngine(cleanup *mocks.MockCleanupService) http.Handler {
	cfg := &config.Config{
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
	pipelineH := handler.NewPipelineHandler(
		new(mocks.MockOCRService),
		new(mocks.MockReportService),
		new(mocks.MockExcelService),
		cleanup,
	)
	return router.Setup(cfg, pipelineH, handler.NewHealthHandler())
}

func TestRouter_HealthEndpoints(t *testing.T) {
	r := testEngine(new(mocks.MockCleanupService))

	for _, path := range []string{"/healthz", "/readyz"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "ok")
	}
}

func TestRouter_PipelineRoutesAcceptGetAndPost(t *testing.T) {
	cleanup := new(mocks.MockCleanupService)
	cleanup.On("CleanUp", mock.Anything, service.CleanupInput{
		StorageAccount: "acct",
		BlobURL:        "claim.pdf",
	}).Return(nil)

	r := testEngine(cleanup)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/api/clean_up?storage_account_name=acct&blob_url=claim.pdf", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, method)
	}
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r := testEngine(new(mocks.MockCleanupService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	r := testEngine(new(mocks.MockCleanupService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/clean_up", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := testEngine(new(mocks.MockCleanupService))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
