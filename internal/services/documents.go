package services

import (
	"context"
	"fmt"
	"time"

	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

// ViewURLTTL is the lifetime of the short-lived URLs issued for in-browser
// viewing.
const ViewURLTTL = 15 * time.Minute

// Documents serves the read side of the archive: listings, single fetches,
// view URLs and downloads.
type Documents struct {
	docs  DocumentStore
	blobs BlobStore
}

// NewDocuments wires a Documents service.
func NewDocuments(docs DocumentStore, blobs BlobStore) *Documents {
	return &Documents{docs: docs, blobs: blobs}
}

// ListAll returns every document, newest first. Admin only; the transport
// enforces the role.
func (d *Documents) ListAll(ctx context.Context) ([]models.Document, error) {
	return d.docs.ListAll(ctx)
}

// ListForUser returns the documents assigned to the actor's CPF.
func (d *Documents) ListForUser(ctx context.Context, actor models.Actor) ([]models.Document, error) {
	if actor.CPF == "" {
		return nil, fmt.Errorf("%w: token carries no cpf", signing.ErrValidation)
	}
	return d.docs.ListByCPF(ctx, actor.CPF)
}

// Get fetches one document, applying the access rule.
func (d *Documents) Get(ctx context.Context, id string, actor models.Actor) (*models.Document, error) {
	doc, err := d.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := signing.AuthorizeAccess(doc, actor); err != nil {
		return nil, err
	}
	return doc, nil
}

// ViewURL issues a short-lived signed URL for the document's current PDF:
// the signed rendition once it exists, the original before that.
func (d *Documents) ViewURL(ctx context.Context, id string, actor models.Actor) (string, error) {
	doc, err := d.Get(ctx, id, actor)
	if err != nil {
		return "", err
	}
	url, err := d.blobs.SignedURL(currentObject(doc), ViewURLTTL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", signing.ErrBlobUnavailable, err)
	}
	return url, nil
}

// Download returns the document's current PDF bytes together with the
// filename to serve them under.
func (d *Documents) Download(ctx context.Context, id string) (filename string, data []byte, err error) {
	doc, err := d.docs.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	data, err = d.blobs.Read(ctx, currentObject(doc))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", signing.ErrBlobUnavailable, err)
	}
	return doc.Filename, data, nil
}

// currentObject picks the blob a reader should see for the document's state.
func currentObject(doc *models.Document) string {
	if doc.Status == models.StatusSigned && doc.SignedObject != "" {
		return doc.SignedObject
	}
	return doc.OriginalObject
}
