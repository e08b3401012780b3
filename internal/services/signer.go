package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

// DocumentURLTTL is the lifetime of the durable signed URLs stored on
// document records. Effectively permanent, matching the retention of the
// records themselves. Requires V2 URL signing; V4 caps expiry at 7 days.
const DocumentURLTTL = 10 * 365 * 24 * time.Hour

// Signer orchestrates one signing operation: authorize, fetch, stamp,
// persist, commit. The stores are injected once at startup and shared across
// requests; all per-request buffers are local.
type Signer struct {
	docs    DocumentStore
	blobs   BlobStore
	stamper Stamper
	now     func() time.Time
}

// NewSigner wires a Signer from its collaborators.
func NewSigner(docs DocumentStore, blobs BlobStore, stamper Stamper) *Signer {
	return &Signer{docs: docs, blobs: blobs, stamper: stamper, now: time.Now}
}

// Sign executes the pending->signed transition for one document.
//
// Every step before the final metadata write leaves the record untouched, so
// a failed attempt is retriable from the top. If the signed blob is written
// but the conditional metadata update fails, the blob is orphaned and logged;
// it is never visible through the document record.
func (s *Signer) Sign(ctx context.Context, req models.SignRequest, actor models.Actor) (*models.SignResponse, error) {
	if req.DocumentID == "" || req.SignatureImage == "" || len(req.StampPlacements) == 0 {
		return nil, fmt.Errorf("%w: documentId, signatureImage and signaturePositions are required", signing.ErrValidation)
	}
	sigPNG, err := DecodeSignatureImage(req.SignatureImage)
	if err != nil {
		return nil, err
	}

	logCtx := slog.With("documentId", req.DocumentID, "role", actor.Role)

	doc, err := s.docs.Get(ctx, req.DocumentID)
	if err != nil {
		return nil, err
	}
	if err := signing.AuthorizeSigning(doc, actor); err != nil {
		logCtx.Warn("Signing rejected by guard.", "error", err)
		return nil, err
	}

	original, err := s.blobs.Read(ctx, doc.OriginalObject)
	if err != nil {
		logCtx.Error("Failed to fetch original PDF.", "object", doc.OriginalObject, "error", err)
		return nil, fmt.Errorf("%w: %v", signing.ErrBlobUnavailable, err)
	}

	signed, err := s.stamper.ApplyStamp(original, req.StampPlacements, sigPNG)
	if err != nil {
		logCtx.Error("Stamping failed.", "error", err)
		return nil, err
	}

	signedBy := actor.CPF
	if signedBy == "" {
		signedBy = doc.AssociatedCPF
	}
	object := signedObjectName(doc.Filename, signedBy, s.now())

	meta := map[string]string{
		"originalDocumentId": doc.ID,
		"signedByCpf":        signedBy,
		"originalFileName":   doc.Filename,
	}
	if err := s.blobs.Write(ctx, object, signed, "application/pdf", meta); err != nil {
		logCtx.Error("Failed to persist signed PDF.", "object", object, "error", err)
		return nil, fmt.Errorf("%w: %v", signing.ErrBlobWrite, err)
	}
	signedURL, err := s.blobs.SignedURL(object, DocumentURLTTL)
	if err != nil {
		logCtx.Error("Failed to issue signed URL; blob orphaned.", "object", object, "error", err)
		return nil, fmt.Errorf("%w: %v", signing.ErrBlobWrite, err)
	}

	patch := models.SignedPatch{
		SignedObject:    object,
		SignedURL:       signedURL,
		SignedByCPF:     signedBy,
		SignedAt:        s.now(),
		StampPlacements: req.StampPlacements,
	}
	if err := s.docs.MarkSigned(ctx, doc.ID, patch); err != nil {
		// The blob already exists but no record points at it; report the
		// path so it can be garbage-collected.
		logCtx.Error("Metadata update failed after blob write; blob orphaned.", "object", object, "error", err)
		return nil, err
	}

	logCtx.Info("Document signed.", "object", object, "placements", len(req.StampPlacements))
	return &models.SignResponse{SignedURL: signedURL}, nil
}

// DecodeSignatureImage strips the data-URI prefix, if present, and decodes
// the base64 payload.
func DecodeSignatureImage(dataURI string) ([]byte, error) {
	payload := dataURI
	if i := strings.IndexByte(dataURI, ','); i >= 0 {
		payload = dataURI[i+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: signature image is not valid base64: %v", signing.ErrValidation, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: signature image is empty", signing.ErrValidation)
	}
	return raw, nil
}

// signedObjectName builds the storage path for a signed PDF, keeping the
// original base name and tagging the signer and the signing time.
func signedObjectName(filename, cpf string, ts time.Time) string {
	base := strings.TrimSuffix(filename, path.Ext(filename))
	return fmt.Sprintf("documents/signed/%s_SIGNED_%s_%d.pdf", base, cpf, ts.UnixMilli())
}
