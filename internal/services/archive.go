package services

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"docsignflow/internal/models"
)

// Archive implements the admin bulk operations: zip packaging of many
// documents and bulk deletion. Failures are collected per item and returned
// to the caller, never skipped silently.
type Archive struct {
	docs  DocumentStore
	blobs BlobStore
}

// NewArchive wires an Archive service.
func NewArchive(docs DocumentStore, blobs BlobStore) *Archive {
	return &Archive{docs: docs, blobs: blobs}
}

// ZipItemError records why one document could not be added to the archive.
type ZipItemError struct {
	DocumentID string `json:"documentId"`
	Error      string `json:"error"`
}

// BuildZip streams a zip of the documents' current PDFs into w. Blob fetches
// run with bounded concurrency; zip entries are written sequentially in the
// order requested. Returns the number of entries written and the per-item
// failures. err is non-nil only when the archive itself cannot be produced.
func (a *Archive) BuildZip(ctx context.Context, ids []string, w io.Writer) (added int, failed []ZipItemError, err error) {
	type fetched struct {
		filename string
		data     []byte
		err      error
	}
	items := make([]fetched, len(ids))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(5)
	for i, id := range ids {
		eg.Go(func() error {
			doc, err := a.docs.Get(gctx, id)
			if err != nil {
				items[i] = fetched{err: err}
				return nil
			}
			data, err := a.blobs.Read(gctx, currentObject(doc))
			if err != nil {
				items[i] = fetched{err: fmt.Errorf("reading blob: %w", err)}
				return nil
			}
			items[i] = fetched{filename: doc.Filename, data: data}
			return nil
		})
	}
	_ = eg.Wait()

	zw := zip.NewWriter(w)
	for i, item := range items {
		if item.err != nil {
			failed = append(failed, ZipItemError{DocumentID: ids[i], Error: item.err.Error()})
			continue
		}
		f, err := zw.Create(item.filename)
		if err != nil {
			return added, failed, fmt.Errorf("creating zip entry: %w", err)
		}
		if _, err := f.Write(item.data); err != nil {
			return added, failed, fmt.Errorf("writing zip entry: %w", err)
		}
		added++
	}
	if err := zw.Close(); err != nil {
		return added, failed, fmt.Errorf("finalizing zip: %w", err)
	}
	return added, failed, nil
}

// DeleteOne removes a document record and its blobs. The record is removed
// first so readers never see a document whose blobs are gone; blob deletion
// failures are reported, not swallowed.
func (a *Archive) DeleteOne(ctx context.Context, id string) models.DeleteResult {
	res := models.DeleteResult{DocumentID: id}

	doc, err := a.docs.Get(ctx, id)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	if err := a.docs.Delete(ctx, id); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Deleted = true

	for _, object := range []string{doc.OriginalObject, doc.SignedObject} {
		if object == "" {
			continue
		}
		if err := a.blobs.Delete(ctx, object); err != nil {
			// The object path stays in the log; callers only learn that
			// cleanup was incomplete.
			slog.Warn("Blob left behind after document delete.", "documentId", id, "object", object, "error", err)
			res.Error = "record deleted, but a stored file could not be removed"
		}
	}
	return res
}

// DeleteMany deletes each requested document, returning one result per id.
func (a *Archive) DeleteMany(ctx context.Context, ids []string) []models.DeleteResult {
	results := make([]models.DeleteResult, len(ids))
	for i, id := range ids {
		results[i] = a.DeleteOne(ctx, id)
	}
	return results
}
