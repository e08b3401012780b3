package services

import (
	"context"
	"time"

	"docsignflow/internal/models"
)

// DocumentStore is the metadata store for document records. Implementations
// must map missing records to signing.ErrNotFound and must make MarkSigned a
// conditional write: it commits only while the record's status is still
// pending and fails with signing.ErrAlreadySigned otherwise, so that of two
// concurrent signers exactly one wins.
type DocumentStore interface {
	Get(ctx context.Context, id string) (*models.Document, error)
	ListAll(ctx context.Context) ([]models.Document, error)
	ListByCPF(ctx context.Context, cpf string) ([]models.Document, error)
	Create(ctx context.Context, doc *models.Document) (string, error)
	Delete(ctx context.Context, id string) error
	MarkSigned(ctx context.Context, id string, patch models.SignedPatch) error
}

// UserStore looks up administrator accounts.
type UserStore interface {
	GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

// BlobStore holds the PDF binaries. Object names are bucket-relative paths.
type BlobStore interface {
	Read(ctx context.Context, object string) ([]byte, error)
	Write(ctx context.Context, object string, data []byte, contentType string, metadata map[string]string) error
	Delete(ctx context.Context, object string) error
	SignedURL(object string, ttl time.Duration) (string, error)
}

// Stamper mutates PDF bytes; satisfied by signing.Stamper.
type Stamper interface {
	ApplyStamp(pdfBytes []byte, placements []models.Placement, signaturePNG []byte) ([]byte, error)
}
