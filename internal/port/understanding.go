package port

import (
	"context"
	"encoding/json"
)

// ClassifyInput carries the parameters for a classify request.
type ClassifyInput struct {
	ClassifierID string
	DocumentURL  string
}

// DocumentClassifier abstracts the external content-understanding
// service. Classify submits the document and blocks until the
// long-running operation completes, returning the raw operation
// payload; the pipeline stores it opaquely.
type DocumentClassifier interface {
	Classify(ctx context.Context, input ClassifyInput) (json.RawMessage, error)
}
