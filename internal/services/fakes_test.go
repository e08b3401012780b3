package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

// fakeDocStore is an in-memory DocumentStore and UserStore. MarkSigned
// honors the conditional-write contract under a mutex, so concurrent signer
// tests exercise the same single-winner semantics as the real store.
type fakeDocStore struct {
	mu     sync.Mutex
	docs   map[string]*models.Document
	admins map[string]*models.AdminUser
	nextID int

	createErr error
	listErr   error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{
		docs:   make(map[string]*models.Document),
		admins: make(map[string]*models.AdminUser),
	}
}

func (f *fakeDocStore) put(doc models.Document) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if doc.ID == "" {
		f.nextID++
		doc.ID = "doc-" + strconv.Itoa(f.nextID)
	}
	f.docs[doc.ID] = &doc
	return doc.ID
}

func (f *fakeDocStore) get(id string) models.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.docs[id]
}

func (f *fakeDocStore) Get(_ context.Context, id string) (*models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %s: %w", id, signing.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeDocStore) ListAll(_ context.Context) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Document, 0, len(f.docs))
	for _, doc := range f.docs {
		out = append(out, *doc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDocStore) ListByCPF(_ context.Context, cpf string) ([]models.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Document
	for _, doc := range f.docs {
		if doc.AssociatedCPF == cpf {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeDocStore) Create(_ context.Context, doc *models.Document) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.put(*doc), nil
}

func (f *fakeDocStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return fmt.Errorf("document %s: %w", id, signing.ErrNotFound)
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDocStore) MarkSigned(_ context.Context, id string, patch models.SignedPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return fmt.Errorf("document %s: %w", id, signing.ErrNotFound)
	}
	if doc.Status != models.StatusPending {
		return signing.ErrAlreadySigned
	}
	doc.Status = models.StatusSigned
	doc.SignedObject = patch.SignedObject
	doc.SignedURL = patch.SignedURL
	doc.SignedByCPF = patch.SignedByCPF
	signedAt := patch.SignedAt
	doc.SignedAt = &signedAt
	doc.StampPlacements = patch.StampPlacements
	return nil
}

func (f *fakeDocStore) GetAdminByEmail(_ context.Context, email string) (*models.AdminUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	admin, ok := f.admins[email]
	if !ok {
		return nil, fmt.Errorf("admin %s: %w", email, signing.ErrNotFound)
	}
	cp := *admin
	return &cp, nil
}

// fakeBlobStore is an in-memory BlobStore with injectable failures.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	meta    map[string]map[string]string

	readErr   error
	writeErr  error
	urlErr    error
	deleteErr map[string]error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		objects:   make(map[string][]byte),
		meta:      make(map[string]map[string]string),
		deleteErr: make(map[string]error),
	}
}

func (f *fakeBlobStore) Read(_ context.Context, object string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	data, ok := f.objects[object]
	if !ok {
		return nil, fmt.Errorf("object %s does not exist", object)
	}
	return append([]byte(nil), data...), nil
}

func (f *fakeBlobStore) Write(_ context.Context, object string, data []byte, _ string, metadata map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.objects[object] = append([]byte(nil), data...)
	f.meta[object] = metadata
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, object string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[object]; err != nil {
		return err
	}
	delete(f.objects, object)
	return nil
}

func (f *fakeBlobStore) SignedURL(object string, _ time.Duration) (string, error) {
	if f.urlErr != nil {
		return "", f.urlErr
	}
	return "https://blobs.test/" + object, nil
}

func (f *fakeBlobStore) has(object string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[object]
	return ok
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeStamper satisfies both Stamper and Normalizer without touching real
// PDF bytes.
type fakeStamper struct {
	stampErr  error
	normErr   error
	pageCount int

	mu         sync.Mutex
	stampCalls int
}

func (f *fakeStamper) ApplyStamp(pdfBytes []byte, _ []models.Placement, _ []byte) ([]byte, error) {
	f.mu.Lock()
	f.stampCalls++
	f.mu.Unlock()
	if f.stampErr != nil {
		return nil, f.stampErr
	}
	return append(append([]byte(nil), pdfBytes...), []byte("+stamped")...), nil
}

func (f *fakeStamper) Normalize(pdfBytes []byte) ([]byte, int, error) {
	if f.normErr != nil {
		return nil, 0, f.normErr
	}
	return pdfBytes, f.pageCount, nil
}
