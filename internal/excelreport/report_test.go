package excelreport_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	"docpipe/internal/domain"
	"docpipe/internal/excelreport"
)

func claimsBundle(t *testing.T) *domain.ClassifyResult {
	t.Helper()
	raw := `{
		"result": {
			"contents": [
				{
					"category": "Claim_Form",
					"startPageNumber": 1,
					"endPageNumber": 1,
					"fields": {
						"Patient_First_Name": {"type": "string", "valueString": "Jane"},
						"Patient_Last_Name": {"type": "string", "valueString": "Roe"},
						"DOB": {"type": "string", "valueString": "1980-04-02"},
						"Gender": {"type": "string", "valueString": "F"},
						"Policy_Number": {"type": "string", "valueString": "P-1234"}
					}
				},
				{
					"category": "Billing_Statement",
					"startPageNumber": 2,
					"endPageNumber": 3,
					"fields": {
						"title_on_first_page_of_document": {"type": "string", "valueString": "Hospital Bill"},
						"Expenses": {"type": "array", "valueArray": [
							{"type": "object", "valueObject": {
								"Expense_Amount": {"type": "number", "valueNumber": 120.5},
								"Expense_Description": {"type": "string", "valueString": "X-Ray"},
								"Ref_Page": {"type": "number", "valueNumber": 2}
							}}
						]}
					}
				}
			]
		}
	}`

	var result domain.ClassifyResult
	assert.NoError(t, json.Unmarshal([]byte(raw), &result))
	return &result
}

func TestRender_EmptyResult(t *testing.T) {
	_, err := excelreport.Render(&domain.ClassifyResult{})

	assert.ErrorIs(t, err, domain.ErrEmptyOCRResult)
}

func TestRenderBytes_ReopensWithSections(t *testing.T) {
	data, err := excelreport.RenderBytes(claimsBundle(t))
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Contains(t, f.GetSheetList(), excelreport.SheetName)

	get := func(cell string) string {
		v, err := f.GetCellValue(excelreport.SheetName, cell)
		assert.NoError(t, err)
		return v
	}

	// Patient information block
	assert.Equal(t, "PATIENT INFORMATION", get("A1"))
	assert.Equal(t, "Patient Name:", get("A2"))
	assert.Equal(t, "Jane Roe", get("B2"))
	assert.Equal(t, "DOB", get("A3"))
	assert.Equal(t, "1980-04-02", get("A4"))
	assert.Equal(t, "P-1234", get("E4"))

	// Document listing starts after the three-row gap
	assert.Equal(t, "DOCUMENTS FOUND IN BUNDLE", get("A8"))
	assert.Equal(t, "Document #", get("A9"))
	assert.Equal(t, "1", get("A10"))
	assert.Equal(t, "N/A", get("B10"))

	// Second document carries a title and an expense block
	assert.Equal(t, "2", get("A12"))
	assert.Equal(t, "Hospital Bill", get("B12"))
	assert.Equal(t, "Expense Amount", get("B13"))
	assert.Equal(t, "$120.50", get("B14"))
	assert.Equal(t, "X-Ray", get("C14"))
}

func TestRenderBytes_RefPageAdjustedToBundle(t *testing.T) {
	data, err := excelreport.RenderBytes(claimsBundle(t))
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	assert.NoError(t, err)
	defer func() { _ = f.Close() }()

	// Ref_Page 2 in a document starting at bundle page 2 resolves to 3.
	v, err := f.GetCellValue(excelreport.SheetName, "I14")
	assert.NoError(t, err)
	assert.Equal(t, "3", v)
}

func TestRenderBytes_Deterministic(t *testing.T) {
	first, err := excelreport.RenderBytes(claimsBundle(t))
	assert.NoError(t, err)
	second, err := excelreport.RenderBytes(claimsBundle(t))
	assert.NoError(t, err)

	open := func(data []byte) *excelize.File {
		f, err := excelize.OpenReader(bytes.NewReader(data))
		assert.NoError(t, err)
		return f
	}
	f1 := open(first)
	defer func() { _ = f1.Close() }()
	f2 := open(second)
	defer func() { _ = f2.Close() }()

	rows1, err := f1.GetRows(excelreport.SheetName)
	assert.NoError(t, err)
	rows2, err := f2.GetRows(excelreport.SheetName)
	assert.NoError(t, err)
	assert.Equal(t, rows1, rows2)
}
