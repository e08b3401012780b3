package signing

import "errors"

// Failure taxonomy for the signing pipeline. Callers classify with errors.Is;
// the HTTP layer maps each sentinel to a status code.
var (
	// ErrValidation marks a malformed or incomplete request.
	ErrValidation = errors.New("invalid request data")

	// ErrNotFound means the document record does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrAccessDenied means the actor may not act on this document.
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadySigned enforces the single-signing invariant: a signed
	// document is never signed again.
	ErrAlreadySigned = errors.New("document already signed")

	// ErrMalformedPdf means the source bytes could not be parsed as a PDF.
	ErrMalformedPdf = errors.New("malformed pdf")

	// ErrInvalidPageIndex means a placement targets a page outside the
	// document.
	ErrInvalidPageIndex = errors.New("page index out of range")

	// ErrUnsupportedImageFormat means the signature image is not a valid PNG.
	ErrUnsupportedImageFormat = errors.New("unsupported signature image format")

	// ErrSerialization means the mutated document could not be written back
	// to bytes.
	ErrSerialization = errors.New("pdf serialization failed")

	// ErrBlobUnavailable means the original PDF could not be fetched.
	ErrBlobUnavailable = errors.New("blob unavailable")

	// ErrBlobWrite means the signed PDF could not be persisted.
	ErrBlobWrite = errors.New("blob write failed")

	// ErrMetadataWrite means the document record update failed.
	ErrMetadataWrite = errors.New("metadata write failed")
)
