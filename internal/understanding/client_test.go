package understanding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docpipe/internal/config"
	"docpipe/internal/domain"
	"docpipe/internal/port"
	"docpipe/internal/understanding"
)

func testConfig(endpoint string) *config.UnderstandingConfig {
	return &config.UnderstandingConfig{
		Endpoint:        endpoint,
		APIVersion:      "2024-12-01-preview",
		SubscriptionKey: "test-key",
		PollTimeout:     500 * time.Millisecond,
		PollInterval:    10 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, endpoint string) *understanding.Client {
	t.Helper()
	client, err := understanding.NewClient(testConfig(endpoint))
	assert.NoError(t, err)
	return client
}

func TestNewClient_RequiresEndpointAndCredentials(t *testing.T) {
	_, err := understanding.NewClient(&config.UnderstandingConfig{APIVersion: "v1", SubscriptionKey: "k"})
	assert.Error(t, err)

	_, err = understanding.NewClient(&config.UnderstandingConfig{Endpoint: "https://svc", SubscriptionKey: "k"})
	assert.Error(t, err)

	_, err = understanding.NewClient(&config.UnderstandingConfig{Endpoint: "https://svc", APIVersion: "v1"})
	assert.Error(t, err)
}

func TestClassify_SucceedsAfterPolling(t *testing.T) {
	var polls atomic.Int32

	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("POST /contentunderstanding/classifiers/claims-classifier:classify", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		assert.NotEmpty(t, r.Header.Get("x-ms-useragent"))

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://acct.blob.core.windows.net/incoming-docs/claim.pdf", body["url"])

		w.Header().Set("Operation-Location", server.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"status": "Running"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status": "Succeeded", "result": {"contents": [{"category": "Claim_Form"}]}}`))
	})

	client := newTestClient(t, server.URL)
	raw, err := client.Classify(context.Background(), port.ClassifyInput{
		ClassifierID: "claims-classifier",
		DocumentURL:  "https://acct.blob.core.windows.net/incoming-docs/claim.pdf",
	})

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, polls.Load(), int32(3))

	var result domain.ClassifyResult
	assert.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, "Succeeded", result.Status)
	assert.Equal(t, "Claim_Form", result.Result.Contents[0].Category)
}

func TestClassify_EmptyClassifierID(t *testing.T) {
	client := newTestClient(t, "https://unused.invalid")

	_, err := client.Classify(context.Background(), port.ClassifyInput{DocumentURL: "https://doc"})

	assert.ErrorIs(t, err, domain.ErrClassifierRequired)
}

func TestBeginClassify_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "classifier not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.BeginClassify(context.Background(), "missing", "https://doc")

	assert.ErrorIs(t, err, domain.ErrUnderstandingFailed)
	assert.Contains(t, err.Error(), "404")
}

func TestBeginClassify_MissingOperationLocation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.BeginClassify(context.Background(), "claims-classifier", "https://doc")

	assert.ErrorIs(t, err, domain.ErrUnderstandingFailed)
	assert.Contains(t, err.Error(), "operation location")
}

func TestPollResult_OperationFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "Failed", "error": {"message": "document unreadable"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.PollResult(context.Background(), server.URL+"/operations/op-1")

	assert.ErrorIs(t, err, domain.ErrUnderstandingFailed)
	assert.Contains(t, err.Error(), "document unreadable")
}

func TestPollResult_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "Running"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.PollResult(context.Background(), server.URL+"/operations/op-1")

	assert.ErrorIs(t, err, domain.ErrUnderstandingTimeout)
}

func TestPollResult_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "Running"}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.PollInterval = time.Second
	client, err := understanding.NewClient(cfg)
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err = client.PollResult(ctx, server.URL+"/operations/op-1")

	assert.ErrorIs(t, err, context.Canceled)
}
