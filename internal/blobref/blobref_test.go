package blobref_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docpipe/internal/blobref"
	"docpipe/internal/domain"
)

func TestParse_S3Scheme(t *testing.T) {
	ref, err := blobref.Parse("s3://claims-account/incoming-docs/claim.pdf")

	assert.NoError(t, err)
	assert.Equal(t, "claims-account", ref.Bucket)
	assert.Equal(t, "incoming-docs/claim.pdf", ref.Key)
	assert.Equal(t, "claim.pdf", ref.Base())
}

func TestParse_VirtualHosted(t *testing.T) {
	ref, err := blobref.Parse("https://claims-account.s3.us-east-1.amazonaws.com/incoming-docs/claim.pdf")

	assert.NoError(t, err)
	assert.Equal(t, "claims-account", ref.Bucket)
	assert.Equal(t, "incoming-docs/claim.pdf", ref.Key)
}

func TestParse_AzureStyleHost(t *testing.T) {
	ref, err := blobref.Parse("https://claimsaccount.blob.core.windows.net/incoming-docs/claim.pdf")

	assert.NoError(t, err)
	assert.Equal(t, "claimsaccount", ref.Bucket)
	assert.Equal(t, "incoming-docs/claim.pdf", ref.Key)
}

func TestParse_PathStyle(t *testing.T) {
	ref, err := blobref.Parse("https://minio.internal:9000/claims-account/incoming-docs/claim.pdf")

	assert.NoError(t, err)
	assert.Equal(t, "claims-account", ref.Bucket)
	assert.Equal(t, "incoming-docs/claim.pdf", ref.Key)
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"s3://bucket-only",
		"ftp://host/bucket/key",
		"https://claims-account.s3.amazonaws.com/",
		"https://minio.internal/bucket-only",
	}
	for _, raw := range cases {
		_, err := blobref.Parse(raw)
		assert.ErrorIs(t, err, domain.ErrMalformedBlobURL, raw)
	}
}

func TestSourceName_FullURLAndBareName(t *testing.T) {
	assert.Equal(t, "claim.pdf", blobref.SourceName("s3://acct/incoming-docs/claim.pdf"))
	assert.Equal(t, "claim.pdf", blobref.SourceName("claim.pdf"))
	assert.Equal(t, "claim.pdf", blobref.SourceName("incoming-docs/claim.pdf"))
}

func TestResultBlobName_Deterministic(t *testing.T) {
	ts := time.Date(2025, 10, 16, 11, 13, 5, 0, time.UTC)

	assert.Equal(t, "claim.pdf_20251016_111305.json", blobref.ResultBlobName("claim.pdf", ts))
}

func TestSummaryBlobName(t *testing.T) {
	assert.Equal(t, "claim.pdf_20251016_111305_summary.json",
		blobref.SummaryBlobName("claim.pdf_20251016_111305.json"))
}

func TestSpreadsheetBlobName(t *testing.T) {
	assert.Equal(t, "claim.pdf_20251016_111305.xlsx",
		blobref.SpreadsheetBlobName("claim.pdf_20251016_111305.json"))
	assert.Equal(t, "noext.xlsx", blobref.SpreadsheetBlobName("noext"))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "enhanced-results/claim.json", blobref.Join("enhanced-results", "claim.json"))
}
