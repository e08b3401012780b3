package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

// DocumentStore is the Firestore-backed metadata store for document records
// and admin accounts.
type DocumentStore struct {
	client          *firestore.Client
	collection      string
	usersCollection string
}

// NewDocumentStore wraps a Firestore client with the collection names used by
// the service.
func NewDocumentStore(client *firestore.Client, collection, usersCollection string) *DocumentStore {
	return &DocumentStore{client: client, collection: collection, usersCollection: usersCollection}
}

// Get fetches one document record by id.
func (s *DocumentStore) Get(ctx context.Context, id string) (*models.Document, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, signing.ErrNotFound
		}
		return nil, fmt.Errorf("fetching document %s: %w", id, err)
	}
	return decodeDocument(snap)
}

// ListAll returns every document record, newest first.
func (s *DocumentStore) ListAll(ctx context.Context) ([]models.Document, error) {
	snaps, err := s.client.Collection(s.collection).OrderBy("createdAt", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return decodeDocuments(snaps)
}

// ListByCPF returns the documents assigned to one CPF.
func (s *DocumentStore) ListByCPF(ctx context.Context, cpf string) ([]models.Document, error) {
	snaps, err := s.client.Collection(s.collection).Where("associatedCpf", "==", cpf).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("listing documents for cpf: %w", err)
	}
	return decodeDocuments(snaps)
}

// Create adds a new document record and returns its generated id.
func (s *DocumentStore) Create(ctx context.Context, doc *models.Document) (string, error) {
	ref, _, err := s.client.Collection(s.collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("creating document record: %w", err)
	}
	return ref.ID, nil
}

// Delete removes a document record.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.client.Collection(s.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}

// MarkSigned commits the pending->signed transition inside a transaction that
// re-checks the status at write time. Of two concurrent signers the
// transaction retry makes the loser observe status=signed and fail with
// ErrAlreadySigned; the prior signature is never overwritten.
func (s *DocumentStore) MarkSigned(ctx context.Context, id string, patch models.SignedPatch) error {
	ref := s.client.Collection(s.collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return signing.ErrNotFound
			}
			return err
		}
		doc, err := decodeDocument(snap)
		if err != nil {
			return err
		}
		if doc.Status != models.StatusPending {
			return signing.ErrAlreadySigned
		}
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: models.StatusSigned},
			{Path: "signedObject", Value: patch.SignedObject},
			{Path: "signedUrl", Value: patch.SignedURL},
			{Path: "signedByCpf", Value: patch.SignedByCPF},
			{Path: "signedAt", Value: patch.SignedAt},
			{Path: "stampPlacements", Value: patch.StampPlacements},
		})
	})
	if err != nil {
		if errors.Is(err, signing.ErrAlreadySigned) || errors.Is(err, signing.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", signing.ErrMetadataWrite, err)
	}
	return nil
}

// GetAdminByEmail looks up an administrator account.
func (s *DocumentStore) GetAdminByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	snaps, err := s.client.Collection(s.usersCollection).
		Where("email", "==", email).
		Where("role", "==", models.RoleAdmin).
		Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("querying admin account: %w", err)
	}
	if len(snaps) == 0 {
		return nil, signing.ErrNotFound
	}
	var admin models.AdminUser
	if err := snaps[0].DataTo(&admin); err != nil {
		return nil, fmt.Errorf("decoding admin account: %w", err)
	}
	admin.ID = snaps[0].Ref.ID
	return &admin, nil
}

func decodeDocument(snap *firestore.DocumentSnapshot) (*models.Document, error) {
	var doc models.Document
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding document %s: %w", snap.Ref.ID, err)
	}
	doc.ID = snap.Ref.ID
	return &doc, nil
}

func decodeDocuments(snaps []*firestore.DocumentSnapshot) ([]models.Document, error) {
	docs := make([]models.Document, 0, len(snaps))
	for _, snap := range snaps {
		doc, err := decodeDocument(snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
