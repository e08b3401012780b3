package services

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"golang.org/x/sync/errgroup"

	"docsignflow/internal/cpf"
	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

// filenamePattern is the upload naming convention: <employee name>_<cpf>.pdf
// with an 11-digit CPF. The CPF binds the document to its signer.
var filenamePattern = regexp.MustCompile(`^(.+)_(\d{11})\.pdf$`)

// Normalizer validates and rewrites uploaded PDFs; satisfied by
// signing.Stamper.
type Normalizer interface {
	Normalize(pdfBytes []byte) ([]byte, int, error)
}

// Uploader is the admin upload workflow: validate the filename convention,
// validate and optimize the PDF, persist the blob and create the pending
// document record.
type Uploader struct {
	docs  DocumentStore
	blobs BlobStore
	pdf   Normalizer
	now   func() time.Time
}

// NewUploader wires an Uploader from its collaborators.
func NewUploader(docs DocumentStore, blobs BlobStore, pdf Normalizer) *Uploader {
	return &Uploader{docs: docs, blobs: blobs, pdf: pdf, now: time.Now}
}

// Upload processes a single uploaded PDF and returns the created record.
func (u *Uploader) Upload(ctx context.Context, filename string, data []byte, uploadedBy string) (*models.Document, error) {
	employee, taxID, err := ParseUploadFilename(filename)
	if err != nil {
		return nil, err
	}

	optimized, pageCount, err := u.pdf.Normalize(data)
	if err != nil {
		return nil, err
	}

	object := "documents/" + filename
	meta := map[string]string{"employeeName": employee, "cpf": taxID}
	if err := u.blobs.Write(ctx, object, optimized, "application/pdf", meta); err != nil {
		return nil, fmt.Errorf("%w: %v", signing.ErrBlobWrite, err)
	}
	url, err := u.blobs.SignedURL(object, DocumentURLTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", signing.ErrBlobWrite, err)
	}

	doc := &models.Document{
		EmployeeName:   employee,
		Filename:       filename,
		AssociatedCPF:  taxID,
		Status:         models.StatusPending,
		PageCount:      pageCount,
		OriginalObject: object,
		OriginalURL:    url,
		UploadedBy:     uploadedBy,
		CreatedAt:      u.now(),
	}
	id, err := u.docs.Create(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", signing.ErrMetadataWrite, err)
	}
	doc.ID = id

	slog.Info("Document uploaded.", "documentId", id, "filename", filename, "pageCount", pageCount)
	return doc, nil
}

// UploadFile pairs a filename with its content for bulk uploads.
type UploadFile struct {
	Filename string
	Data     []byte
}

// UploadBulk processes the files with bounded concurrency and reports a
// per-file result for each; one bad file never aborts the batch.
func (u *Uploader) UploadBulk(ctx context.Context, files []UploadFile, uploadedBy string) models.BulkUploadResponse {
	results := make([]models.UploadResult, len(files))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, f := range files {
		eg.Go(func() error {
			res := models.UploadResult{Filename: f.Filename}
			doc, err := u.Upload(gctx, f.Filename, f.Data, uploadedBy)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.DocumentID = doc.ID
			}
			results[i] = res
			return nil
		})
	}
	// Goroutines never return errors; failures are captured per file.
	_ = eg.Wait()

	resp := models.BulkUploadResponse{Results: results}
	for _, r := range results {
		if r.Error == "" {
			resp.SuccessCount++
		} else {
			resp.ErrorCount++
		}
	}
	return resp
}

// ParseUploadFilename extracts the employee name and CPF from an upload
// filename, enforcing the naming convention and the CPF check digits.
func ParseUploadFilename(filename string) (employee, taxID string, err error) {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return "", "", fmt.Errorf("%w: filename must follow <name>_<cpf>.pdf", signing.ErrValidation)
	}
	if !cpf.IsValid(m[2]) {
		return "", "", fmt.Errorf("%w: filename carries an invalid cpf", signing.ErrValidation)
	}
	return m[1], m[2], nil
}
