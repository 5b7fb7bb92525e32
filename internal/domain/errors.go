package domain

import "errors"

var (
	ErrMissingParameter     = errors.New("missing required parameter")
	ErrMalformedBlobURL     = errors.New("blob URL is malformed")
	ErrBlobNotFound         = errors.New("blob not found")
	ErrClassifierRequired   = errors.New("classifier id is required")
	ErrUnderstandingFailed  = errors.New("content-understanding request failed")
	ErrUnderstandingTimeout = errors.New("content-understanding operation timed out")
	ErrInvalidOCRResult     = errors.New("OCR result blob is not valid JSON")
	ErrEmptyOCRResult       = errors.New("OCR result contains no document contents")
	ErrUploadFailed         = errors.New("blob upload to storage failed")
)
