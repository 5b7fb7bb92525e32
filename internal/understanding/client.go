// Package understanding is an HTTP client for the content-understanding
// service's classify/analyze long-running-operation API.
package understanding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"docpipe/internal/config"
	"docpipe/internal/domain"
	"docpipe/internal/port"
)

// PrebuiltDocumentAnalyzerID is the service's general-purpose document analyzer.
const PrebuiltDocumentAnalyzerID = "prebuilt-documentAnalyzer"

const (
	defaultPollTimeout  = 920 * time.Second
	defaultPollInterval = 25 * time.Second
)

// Client calls the content-understanding service. Requests carry either
// a subscription key or a bearer token from the configured token source.
type Client struct {
	endpoint        string
	apiVersion      string
	subscriptionKey string
	tokens          oauth2.TokenSource
	client          *http.Client
	pollTimeout     time.Duration
	pollInterval    time.Duration
}

// NewClient creates a Client from configuration.
func NewClient(cfg *config.UnderstandingConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("understanding: endpoint must be configured")
	}
	if cfg.APIVersion == "" {
		return nil, errors.New("understanding: API version must be configured")
	}

	var tokens oauth2.TokenSource
	if cfg.SubscriptionKey == "" {
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, errors.New("understanding: either a subscription key or client credentials must be configured")
		}
		tokens = NewTokenSource(cfg)
	}

	pollTimeout := cfg.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = defaultPollTimeout
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	return &Client{
		endpoint:        strings.TrimRight(cfg.Endpoint, "/"),
		apiVersion:      cfg.APIVersion,
		subscriptionKey: cfg.SubscriptionKey,
		tokens:          tokens,
		client:          &http.Client{Timeout: 60 * time.Second},
		pollTimeout:     pollTimeout,
		pollInterval:    pollInterval,
	}, nil
}

// Classify submits the document to the named classifier and polls the
// resulting operation to completion. Implements port.DocumentClassifier.
func (c *Client) Classify(ctx context.Context, input port.ClassifyInput) (json.RawMessage, error) {
	operationURL, err := c.BeginClassify(ctx, input.ClassifierID, input.DocumentURL)
	if err != nil {
		return nil, err
	}
	return c.PollResult(ctx, operationURL)
}

// Analyze runs the named analyzer over the document and polls the
// resulting operation to completion.
func (c *Client) Analyze(ctx context.Context, analyzerID, documentURL string) (json.RawMessage, error) {
	operationURL, err := c.begin(ctx, c.analyzeURL(analyzerID), documentURL)
	if err != nil {
		return nil, err
	}
	return c.PollResult(ctx, operationURL)
}

// BeginClassify starts a classify operation and returns the URL to poll.
func (c *Client) BeginClassify(ctx context.Context, classifierID, documentURL string) (string, error) {
	if classifierID == "" {
		return "", domain.ErrClassifierRequired
	}
	return c.begin(ctx, c.classifyURL(classifierID), documentURL)
}

func (c *Client) begin(ctx context.Context, endpoint, documentURL string) (string, error) {
	body, err := json.Marshal(map[string]string{"url": documentURL})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if err := c.setAuth(req); err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnderstandingFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrUnderstandingFailed, resp.StatusCode, truncate(string(respBody), 500))
	}

	operationURL := resp.Header.Get("Operation-Location")
	if operationURL == "" {
		return "", fmt.Errorf("%w: operation location not found in response headers", domain.ErrUnderstandingFailed)
	}
	return operationURL, nil
}

// PollResult polls a long-running operation until it succeeds, fails,
// or the configured timeout elapses. On success the full operation
// payload is returned verbatim.
func (c *Client) PollResult(ctx context.Context, operationURL string) (json.RawMessage, error) {
	start := time.Now()
	for {
		body, err := c.getOperation(ctx, operationURL)
		if err != nil {
			return nil, err
		}

		var op struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(body, &op); err != nil {
			return nil, fmt.Errorf("%w: decoding operation status: %v", domain.ErrUnderstandingFailed, err)
		}

		switch strings.ToLower(op.Status) {
		case "succeeded":
			return body, nil
		case "failed":
			return nil, fmt.Errorf("%w: %s", domain.ErrUnderstandingFailed, truncate(string(body), 500))
		}

		elapsed := time.Since(start)
		if elapsed > c.pollTimeout {
			return nil, fmt.Errorf("%w after %s", domain.ErrUnderstandingTimeout, elapsed.Round(time.Second))
		}
		log.Printf("understanding: operation %s in progress (%s elapsed)", operationName(operationURL), elapsed.Round(time.Second))

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) getOperation(ctx context.Context, operationURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating poll request: %w", err)
	}
	if err := c.setAuth(req); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnderstandingFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading poll response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: poll status %d: %s", domain.ErrUnderstandingFailed, resp.StatusCode, truncate(string(body), 500))
	}
	return body, nil
}

func (c *Client) setAuth(req *http.Request) error {
	req.Header.Set("x-ms-useragent", "docpipe")
	if c.subscriptionKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", c.subscriptionKey)
		return nil
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("fetching access token: %w", err)
	}
	token.SetAuthHeader(req)
	return nil
}

func (c *Client) classifyURL(classifierID string) string {
	return fmt.Sprintf("%s/contentunderstanding/classifiers/%s:classify?api-version=%s",
		c.endpoint, url.PathEscape(classifierID), url.QueryEscape(c.apiVersion))
}

func (c *Client) analyzeURL(analyzerID string) string {
	return fmt.Sprintf("%s/contentunderstanding/analyzers/%s:analyze?api-version=%s",
		c.endpoint, url.PathEscape(analyzerID), url.QueryEscape(c.apiVersion))
}

func operationName(operationURL string) string {
	trimmed := operationURL
	if i := strings.IndexByte(trimmed, '?'); i >= 0 {
		trimmed = trimmed[:i]
	}
	if i := strings.LastIndexByte(trimmed, '/'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return trimmed
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
