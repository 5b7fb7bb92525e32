package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"docpipe/internal/domain"
)

func TestClassifyResult_Documents_OperationEnvelope(t *testing.T) {
	raw := `{
		"id": "op-1",
		"status": "Succeeded",
		"result": {
			"analyzerId": "claims-classifier",
			"contents": [
				{"category": "Billing_Statement", "startPageNumber": 1, "endPageNumber": 2},
				{"category": "Operative_Note", "startPageNumber": 3, "endPageNumber": 3}
			]
		}
	}`

	var result domain.ClassifyResult
	assert.NoError(t, json.Unmarshal([]byte(raw), &result))

	docs := result.Documents()
	assert.Len(t, docs, 2)
	assert.Equal(t, "Billing_Statement", docs[0].Category)
	assert.Equal(t, 2, docs[0].PageCount())
	assert.Equal(t, "1-2", docs[0].PageRange())
	assert.Equal(t, "3-3", docs[1].PageRange())
}

func TestClassifyResult_Documents_BareFieldMap(t *testing.T) {
	var result domain.ClassifyResult
	assert.NoError(t, json.Unmarshal([]byte(`{"fields":{"total":"42"}}`), &result))

	docs := result.Documents()
	assert.Len(t, docs, 1)
	assert.Equal(t, "42", docs[0].Fields["total"].Scalar())
	assert.Equal(t, "?", docs[0].PageRange())
}

func TestField_UnmarshalJSON_BareScalars(t *testing.T) {
	var fields map[string]domain.Field
	raw := `{"name": "Jane", "total": 42.5, "approved": true, "items": ["a", "b"]}`
	assert.NoError(t, json.Unmarshal([]byte(raw), &fields))

	assert.Equal(t, "Jane", fields["name"].Scalar())
	assert.Equal(t, "42.5", fields["total"].Scalar())
	assert.Equal(t, "true", fields["approved"].Scalar())
	assert.Len(t, fields["items"].ValueArray, 2)
}

func TestField_UnmarshalJSON_TypedEnvelope(t *testing.T) {
	var field domain.Field
	raw := `{"type": "number", "valueNumber": 120.5}`
	assert.NoError(t, json.Unmarshal([]byte(raw), &field))

	assert.Equal(t, "number", field.Type)
	assert.Equal(t, "120.5", field.Scalar())
}

func TestField_Scalar_Empty(t *testing.T) {
	assert.Equal(t, "", domain.Field{Type: "object"}.Scalar())
}
