// Package excelreport renders a classified document bundle into a
// spreadsheet: a patient information block, a document listing, and a
// collapsible expense breakdown per document.
package excelreport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"docpipe/internal/domain"
)

// SheetName is the single worksheet produced by Render.
const SheetName = "Claims Analysis Report"

const (
	maxColWidth     = 50
	defaultColWidth = 15
	tableWidth      = 10 // columns A through J carry section fills
)

// Patient fields looked up on the claim form content.
var patientFieldNames = []string{
	"Patient_First_Name",
	"Patient_Last_Name",
	"DOB",
	"Gender",
	"Policy_Number",
}

// Expense table column headers and the valueObject keys backing them.
var expenseColumns = []struct {
	header string
	key    string
}{
	{"Expense Amount", "Expense_Amount"},
	{"Expense Description", "Expense_Description"},
	{"Date", "Date"},
	{"CPT Code", "CPT_Code"},
	{"ICD Code", "ICD_Code"},
	{"Expense Type", "Expense_Type"},
	{"Surgeon/Provider", "Surgeon_Name_or_Provider"},
	{"Ref Page", "Ref_Page"},
	{"Drug Name", "Drug_Name"},
}

// RenderBytes renders the workbook and returns its serialized form.
func RenderBytes(result *domain.ClassifyResult) ([]byte, error) {
	f, err := Render(result)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Render builds the claims analysis workbook from an OCR result.
func Render(result *domain.ClassifyResult) (*excelize.File, error) {
	contents := result.Documents()
	if len(contents) == 0 {
		return nil, domain.ErrEmptyOCRResult
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	r, err := newRenderer(f)
	if err != nil {
		return nil, err
	}

	if err := r.patientSection(findPatientInfo(contents)); err != nil {
		return nil, err
	}
	r.row += 3

	if err := r.documentSection(contents); err != nil {
		return nil, err
	}

	if err := r.applyColumnWidths(); err != nil {
		return nil, err
	}
	return f, nil
}

type patientInfo struct {
	firstName    string
	lastName     string
	dob          string
	gender       string
	policyNumber string
}

// findPatientInfo returns patient details from the first content that
// carries any claim-form field.
func findPatientInfo(contents []domain.Content) patientInfo {
	for _, content := range contents {
		found := false
		for _, name := range patientFieldNames {
			if _, ok := content.Fields[name]; ok {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		return patientInfo{
			firstName:    content.Fields["Patient_First_Name"].Scalar(),
			lastName:     content.Fields["Patient_Last_Name"].Scalar(),
			dob:          content.Fields["DOB"].Scalar(),
			gender:       content.Fields["Gender"].Scalar(),
			policyNumber: content.Fields["Policy_Number"].Scalar(),
		}
	}
	return patientInfo{}
}

type styleSet struct {
	sectionHeader int
	patientLabel  int
	patientValue  int
	docHeader     int
	docCell       int
	docCellCenter int
	expenseHeader int
	expenseCell   int
}

type renderer struct {
	f      *excelize.File
	styles styleSet
	row    int
	widths map[int]float64
}

func newRenderer(f *excelize.File) (*renderer, error) {
	styles, err := newStyles(f)
	if err != nil {
		return nil, err
	}
	return &renderer{f: f, styles: styles, row: 1, widths: map[int]float64{}}, nil
}

func newStyles(f *excelize.File) (styleSet, error) {
	border := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}

	var s styleSet
	var err error

	newStyle := func(style *excelize.Style) int {
		if err != nil {
			return 0
		}
		var id int
		id, err = f.NewStyle(style)
		return id
	}

	const (
		patientColor = "E6F3FF"
		docColor     = "F0F8FF"
		expenseColor = "FFF8DC"
	)

	s.sectionHeader = newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12},
		Fill:      fill(patientColor),
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.patientLabel = newStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   fill(patientColor),
		Border: border,
	})
	s.patientValue = newStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Fill:   fill(patientColor),
		Border: border,
	})
	s.docHeader = newStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   fill(docColor),
		Border: border,
	})
	s.docCell = newStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Fill:   fill(docColor),
		Border: border,
	})
	s.docCellCenter = newStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 10},
		Fill:      fill(docColor),
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	s.expenseHeader = newStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 10},
		Fill:   fill(expenseColor),
		Border: border,
	})
	s.expenseCell = newStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Fill:   fill(expenseColor),
		Border: border,
	})
	if err != nil {
		return styleSet{}, fmt.Errorf("creating styles: %w", err)
	}
	return s, nil
}

func (r *renderer) patientSection(info patientInfo) error {
	if err := r.mergedHeader("PATIENT INFORMATION"); err != nil {
		return err
	}

	name := info.firstName
	if info.lastName != "" {
		if name != "" {
			name += " "
		}
		name += info.lastName
	}

	if err := r.setCell(1, r.row, "Patient Name:", r.styles.patientLabel); err != nil {
		return err
	}
	if err := r.setCell(2, r.row, name, r.styles.patientValue); err != nil {
		return err
	}
	if err := r.fillRow(3, tableWidth, r.styles.patientValue); err != nil {
		return err
	}
	r.row++

	labels := map[int]string{1: "DOB", 3: "Gender", 5: "Policy Number"}
	for col := 1; col <= tableWidth; col++ {
		style := r.styles.patientValue
		value := any(nil)
		if label, ok := labels[col]; ok {
			style = r.styles.patientLabel
			value = label
		}
		if err := r.setCell(col, r.row, value, style); err != nil {
			return err
		}
	}
	r.row++

	values := map[int]string{1: info.dob, 3: info.gender, 5: info.policyNumber}
	for col := 1; col <= tableWidth; col++ {
		if err := r.setCell(col, r.row, values[col], r.styles.patientValue); err != nil {
			return err
		}
	}
	r.row++
	return nil
}

func (r *renderer) documentSection(contents []domain.Content) error {
	if err := r.mergedHeader("DOCUMENTS FOUND IN BUNDLE"); err != nil {
		return err
	}

	docHeaders := []string{"Document #", "Title", "Starting Page", "Ending Page", "Number of Pages"}
	for i, header := range docHeaders {
		if err := r.setCell(i+1, r.row, header, r.styles.docHeader); err != nil {
			return err
		}
	}
	r.row++

	for docNum, content := range contents {
		if err := r.documentRow(docNum+1, content); err != nil {
			return err
		}
		if expenses, ok := content.Fields["Expenses"]; ok && len(expenses.ValueArray) > 0 {
			if err := r.expenseRows(expenses.ValueArray, content.StartPageNumber); err != nil {
				return err
			}
		}
		r.row++ // spacing between documents
	}
	return nil
}

func (r *renderer) documentRow(docNum int, content domain.Content) error {
	title := "N/A"
	if f, ok := content.Fields["title_on_first_page_of_document"]; ok && f.Scalar() != "" {
		title = f.Scalar()
	}

	var startPage, endPage, numPages any = "?", "?", "?"
	if content.StartPageNumber != 0 && content.EndPageNumber != 0 {
		startPage = content.StartPageNumber
		endPage = content.EndPageNumber
		numPages = content.PageCount()
	}

	cells := []any{docNum, title, startPage, endPage, numPages}
	for i, value := range cells {
		style := r.styles.docCell
		if i == 0 {
			style = r.styles.docCellCenter
		}
		if err := r.setCell(i+1, r.row, value, style); err != nil {
			return err
		}
	}
	// Extend the document row fill to line up with the expense columns.
	if err := r.fillRow(len(cells)+1, tableWidth, r.styles.docCell); err != nil {
		return err
	}
	r.row++
	return nil
}

func (r *renderer) expenseRows(expenses []domain.Field, docStartPage int) error {
	groupStart := r.row

	// Expense header and rows start from column B, leaving A empty.
	for i, col := range expenseColumns {
		if err := r.setCell(i+2, r.row, col.header, r.styles.expenseHeader); err != nil {
			return err
		}
	}
	r.row++

	for _, expense := range expenses {
		obj := expense.ValueObject
		for i, col := range expenseColumns {
			if err := r.setCell(i+2, r.row, expenseValue(obj, col.key, docStartPage), r.styles.expenseCell); err != nil {
				return err
			}
		}
		r.row++
	}

	// Collapse the expense block under the document row.
	for row := groupStart; row < r.row; row++ {
		if err := r.f.SetRowOutlineLevel(SheetName, row, 1); err != nil {
			return fmt.Errorf("grouping expense rows: %w", err)
		}
		if err := r.f.SetRowVisible(SheetName, row, false); err != nil {
			return fmt.Errorf("hiding expense rows: %w", err)
		}
	}
	return nil
}

// expenseValue renders one expense cell, defaulting to N/A. Reference
// pages are adjusted from document-relative to bundle page numbers.
func expenseValue(obj map[string]domain.Field, key string, docStartPage int) any {
	field, ok := obj[key]
	if !ok {
		return "N/A"
	}
	switch key {
	case "Expense_Amount":
		if field.Type == "number" && field.ValueNumber != nil {
			return fmt.Sprintf("$%.2f", *field.ValueNumber)
		}
		return "N/A"
	case "Ref_Page":
		if field.Type == "number" && field.ValueNumber != nil {
			page := int(*field.ValueNumber)
			if docStartPage != 0 {
				page += docStartPage - 1
			}
			return page
		}
		return "N/A"
	default:
		if v := field.Scalar(); v != "" {
			return v
		}
		return "N/A"
	}
}

func (r *renderer) mergedHeader(title string) error {
	start := cellName(1, r.row)
	end := cellName(tableWidth-1, r.row)
	if err := r.f.MergeCell(SheetName, start, end); err != nil {
		return fmt.Errorf("merging header cells: %w", err)
	}
	if err := r.setCell(1, r.row, title, r.styles.sectionHeader); err != nil {
		return err
	}
	r.row++
	return nil
}

// setCell writes a value with a style and records the column width.
func (r *renderer) setCell(col, row int, value any, styleID int) error {
	cell := cellName(col, row)
	if value != nil {
		if err := r.f.SetCellValue(SheetName, cell, value); err != nil {
			return fmt.Errorf("setting cell %s: %w", cell, err)
		}
		if width := float64(len(fmt.Sprint(value)) + 2); width > r.widths[col] {
			r.widths[col] = width
		}
	}
	if err := r.f.SetCellStyle(SheetName, cell, cell, styleID); err != nil {
		return fmt.Errorf("styling cell %s: %w", cell, err)
	}
	return nil
}

// fillRow applies a style to a span of empty cells so section fills
// stay continuous.
func (r *renderer) fillRow(fromCol, toCol, styleID int) error {
	for col := fromCol; col <= toCol; col++ {
		if err := r.setCell(col, r.row, nil, styleID); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) applyColumnWidths() error {
	for col := 1; col <= tableWidth; col++ {
		width := r.widths[col]
		if width == 0 {
			width = defaultColWidth
		}
		if width > maxColWidth {
			width = maxColWidth
		}
		name, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return fmt.Errorf("resolving column %d: %w", col, err)
		}
		if err := r.f.SetColWidth(SheetName, name, name, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", name, err)
		}
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
