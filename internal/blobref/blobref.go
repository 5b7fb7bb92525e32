// Package blobref resolves blob URLs into bucket/key references and
// derives the deterministic names of pipeline artifacts.
//
// Azure-style addressing maps onto object storage as follows: the
// storage account selects the bucket, the container is the first key
// segment, and the blob name is the remainder of the key.
package blobref

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"docpipe/internal/domain"
)

// timestampLayout stamps result blob names, e.g. claim.pdf_20251016_111305.json.
const timestampLayout = "20060102_150405"

// Ref addresses a single blob.
type Ref struct {
	Bucket string
	Key    string
}

// Base returns the blob's file name without container prefixes.
func (r Ref) Base() string {
	return path.Base(r.Key)
}

// Parse resolves a blob URL into a bucket/key reference. Supported
// forms:
//
//	s3://bucket/key
//	https://bucket.s3.region.amazonaws.com/key   (virtual-hosted)
//	https://account.blob.core.windows.net/container/blob
//	https://endpoint/bucket/key                  (path-style)
func Parse(raw string) (Ref, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", domain.ErrMalformedBlobURL, raw)
	}

	switch u.Scheme {
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Ref{}, fmt.Errorf("%w: %q", domain.ErrMalformedBlobURL, raw)
		}
		return Ref{Bucket: u.Host, Key: key}, nil
	case "http", "https":
	default:
		return Ref{}, fmt.Errorf("%w: unsupported scheme in %q", domain.ErrMalformedBlobURL, raw)
	}

	hostname := u.Hostname()
	key := strings.TrimPrefix(u.Path, "/")

	// Virtual-hosted and account-qualified hosts carry the bucket as
	// the leading host label.
	if bucket, ok := bucketFromHost(hostname); ok {
		if key == "" {
			return Ref{}, fmt.Errorf("%w: missing blob path in %q", domain.ErrMalformedBlobURL, raw)
		}
		return Ref{Bucket: bucket, Key: key}, nil
	}

	// Path-style: first path segment is the bucket.
	bucket, rest, ok := strings.Cut(key, "/")
	if !ok || bucket == "" || rest == "" {
		return Ref{}, fmt.Errorf("%w: missing bucket or blob path in %q", domain.ErrMalformedBlobURL, raw)
	}
	return Ref{Bucket: bucket, Key: rest}, nil
}

func bucketFromHost(hostname string) (string, bool) {
	if rest, ok := strings.CutSuffix(hostname, ".blob.core.windows.net"); ok {
		return rest, rest != ""
	}
	if bucket, rest, ok := strings.Cut(hostname, ".s3"); ok {
		if bucket != "" && (rest == "" || strings.HasPrefix(rest, ".") || strings.HasPrefix(rest, "-")) {
			return bucket, true
		}
	}
	return "", false
}

// SourceName extracts the source document's file name from a blob URL,
// or returns the input unchanged when it is already a bare blob name.
func SourceName(raw string) string {
	if ref, err := Parse(raw); err == nil {
		return ref.Base()
	}
	return path.Base(raw)
}

// ResultBlobName derives the OCR result blob name from the source file
// name and a timestamp: <source>_<YYYYMMDD_HHMMSS>.json.
func ResultBlobName(sourceName string, ts time.Time) string {
	return fmt.Sprintf("%s_%s.json", sourceName, ts.Format(timestampLayout))
}

// SummaryBlobName derives the summary report blob name from the OCR
// result blob name by swapping the extension for _summary.json.
func SummaryBlobName(ocrBlobName string) string {
	return trimExt(ocrBlobName) + "_summary.json"
}

// SpreadsheetBlobName derives the spreadsheet blob name from the OCR
// result blob name by swapping the extension for .xlsx.
func SpreadsheetBlobName(ocrBlobName string) string {
	return trimExt(ocrBlobName) + ".xlsx"
}

// Join places a blob name under a container prefix.
func Join(container, blobName string) string {
	return container + "/" + blobName
}

func trimExt(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}
