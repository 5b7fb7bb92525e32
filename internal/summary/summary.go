// Package summary aggregates a classified document bundle into a
// summary report. Building a report is a pure function of the OCR
// result content, so repeated runs over the same blob produce
// identical output.
package summary

import (
	"encoding/json"
	"fmt"

	"docpipe/internal/domain"
)

// expensesField is the array field carrying itemized expenses on
// billing statements.
const expensesField = "Expenses"

// Report is the summary of one OCR result blob.
type Report struct {
	TotalDocuments int               `json:"total_documents"`
	TotalPages     int               `json:"total_pages"`
	TotalExpenses  int               `json:"total_expenses"`
	Documents      []DocumentSummary `json:"documents"`
}

// DocumentSummary describes one classified document within the bundle.
type DocumentSummary struct {
	Index        int               `json:"index"`
	Category     string            `json:"category"`
	PageRange    string            `json:"page_range"`
	PageCount    int               `json:"page_count"`
	FieldCount   int               `json:"field_count"`
	ExpenseCount int               `json:"expense_count"`
	Fields       map[string]string `json:"fields,omitempty"`
}

// BuildFromJSON decodes an OCR result blob and builds its report.
func BuildFromJSON(data []byte) (*Report, error) {
	var result domain.ClassifyResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOCRResult, err)
	}
	return Build(&result), nil
}

// Build aggregates the classified contents into a report.
func Build(result *domain.ClassifyResult) *Report {
	contents := result.Documents()

	report := &Report{
		TotalDocuments: len(contents),
		Documents:      make([]DocumentSummary, 0, len(contents)),
	}
	if n := len(contents); n > 0 {
		report.TotalPages = contents[n-1].EndPageNumber
	}

	for i, content := range contents {
		doc := DocumentSummary{
			Index:      i + 1,
			Category:   category(content.Category),
			PageRange:  content.PageRange(),
			PageCount:  content.PageCount(),
			FieldCount: len(content.Fields),
			Fields:     scalarFields(content.Fields),
		}
		if expenses, ok := content.Fields[expensesField]; ok {
			doc.ExpenseCount = len(expenses.ValueArray)
		}
		report.TotalExpenses += doc.ExpenseCount
		report.Documents = append(report.Documents, doc)
	}

	return report
}

// Encode renders the report as indented JSON with stable key order.
func (r *Report) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding summary report: %w", err)
	}
	return data, nil
}

// scalarFields flattens the scalar field values for the report,
// skipping arrays and objects. JSON encoding sorts the keys, so the
// rendered report stays deterministic.
func scalarFields(fields map[string]domain.Field) map[string]string {
	out := make(map[string]string, len(fields))
	for name, field := range fields {
		if v := field.Scalar(); v != "" {
			out[name] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func category(c string) string {
	if c == "" {
		return "Unknown"
	}
	return c
}
