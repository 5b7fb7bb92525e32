package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ClassifyResult is the operation envelope returned by the
// content-understanding service for a classify/analyze request. The raw
// payload is stored opaquely by perform_ocr; this model is decoded by
// the parse and spreadsheet stages. A bare field map (no envelope) is
// also accepted, so hand-stored extraction outputs remain readable.
type ClassifyResult struct {
	ID     string           `json:"id,omitempty"`
	Status string           `json:"status,omitempty"`
	Result AnalyzeResult    `json:"result,omitempty"`
	Fields map[string]Field `json:"fields,omitempty"`
}

// Documents returns the classified document contents, treating a bare
// field map as a single unclassified document.
func (r *ClassifyResult) Documents() []Content {
	if len(r.Result.Contents) > 0 {
		return r.Result.Contents
	}
	if len(r.Fields) > 0 {
		return []Content{{Fields: r.Fields}}
	}
	return nil
}

// AnalyzeResult is the result body of a completed operation.
type AnalyzeResult struct {
	AnalyzerID string    `json:"analyzerId,omitempty"`
	APIVersion string    `json:"apiVersion,omitempty"`
	Contents   []Content `json:"contents,omitempty"`
}

// Content is one classified document within a bundle.
type Content struct {
	Category        string           `json:"category,omitempty"`
	StartPageNumber int              `json:"startPageNumber,omitempty"`
	EndPageNumber   int              `json:"endPageNumber,omitempty"`
	Markdown        string           `json:"markdown,omitempty"`
	Fields          map[string]Field `json:"fields,omitempty"`
}

// PageCount returns the number of pages this document spans, or 0 when
// page numbers are absent.
func (c *Content) PageCount() int {
	if c.StartPageNumber == 0 || c.EndPageNumber == 0 {
		return 0
	}
	return c.EndPageNumber - c.StartPageNumber + 1
}

// PageRange renders the document's page span, "?" when unknown.
func (c *Content) PageRange() string {
	if c.StartPageNumber == 0 || c.EndPageNumber == 0 {
		return "?"
	}
	return fmt.Sprintf("%d-%d", c.StartPageNumber, c.EndPageNumber)
}

// Field is one extracted value. The populated value slot depends on Type.
type Field struct {
	Type         string           `json:"type,omitempty"`
	ValueString  string           `json:"valueString,omitempty"`
	ValueNumber  *float64         `json:"valueNumber,omitempty"`
	ValueDate    string           `json:"valueDate,omitempty"`
	ValueBoolean *bool            `json:"valueBoolean,omitempty"`
	ValueArray   []Field          `json:"valueArray,omitempty"`
	ValueObject  map[string]Field `json:"valueObject,omitempty"`
}

// UnmarshalJSON accepts both the typed field envelope and a bare JSON
// scalar or array, which hand-stored extraction outputs use.
func (f *Field) UnmarshalJSON(data []byte) error {
	trimmed := firstNonSpace(data)
	switch trimmed {
	case '{':
		type alias Field
		var a alias
		if err := json.Unmarshal(data, &a); err != nil {
			return err
		}
		*f = Field(a)
		return nil
	case '[':
		var arr []Field
		if err := json.Unmarshal(data, &arr); err != nil {
			return err
		}
		*f = Field{Type: "array", ValueArray: arr}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field{Type: "string", ValueString: s}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*f = Field{Type: "boolean", ValueBoolean: &b}
		return nil
	case 'n':
		*f = Field{}
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*f = Field{Type: "number", ValueNumber: &n}
		return nil
	}
}

func firstNonSpace(data []byte) byte {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b
	}
	return 0
}

// Scalar renders the field's value as a display string. Array and
// object fields render as an empty string.
func (f Field) Scalar() string {
	switch {
	case f.ValueString != "":
		return f.ValueString
	case f.ValueDate != "":
		return f.ValueDate
	case f.ValueNumber != nil:
		return strconv.FormatFloat(*f.ValueNumber, 'f', -1, 64)
	case f.ValueBoolean != nil:
		return strconv.FormatBool(*f.ValueBoolean)
	default:
		return ""
	}
}
