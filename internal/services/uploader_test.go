package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

func TestParseUploadFilename(t *testing.T) {
	employee, taxID, err := ParseUploadFilename("Maria Souza_52998224725.pdf")
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", employee)
	assert.Equal(t, "52998224725", taxID)

	// Underscores in the name bind greedily; only the last segment is the CPF.
	employee, taxID, err = ParseUploadFilename("de_souza_jr_11144477735.pdf")
	require.NoError(t, err)
	assert.Equal(t, "de_souza_jr", employee)
	assert.Equal(t, "11144477735", taxID)

	for _, bad := range []string{
		"contract.pdf",                  // no CPF segment
		"Maria Souza_52998224725.docx",  // wrong extension
		"Maria Souza_5299822472.pdf",    // 10 digits
		"Maria Souza_12345678901.pdf",   // bad check digits
		"Maria Souza_00000000000.pdf",   // all-equal CPF
		"_52998224725.pdf",              // empty name
	} {
		_, _, err := ParseUploadFilename(bad)
		assert.ErrorIs(t, err, signing.ErrValidation, bad)
	}
}

func TestUpload(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	u := NewUploader(docs, blobs, &fakeStamper{pageCount: 4})
	u.now = func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }

	doc, err := u.Upload(context.Background(), "Maria Souza_52998224725.pdf", []byte("%PDF data"), "admin-1")
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Maria Souza", doc.EmployeeName)
	assert.Equal(t, "52998224725", doc.AssociatedCPF)
	assert.Equal(t, models.StatusPending, doc.Status)
	assert.Equal(t, 4, doc.PageCount)
	assert.Equal(t, "documents/Maria Souza_52998224725.pdf", doc.OriginalObject)
	assert.Equal(t, "https://blobs.test/documents/Maria Souza_52998224725.pdf", doc.OriginalURL)
	assert.Equal(t, "admin-1", doc.UploadedBy)
	assert.True(t, blobs.has(doc.OriginalObject))

	stored := docs.get(doc.ID)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestUploadRejectsBadFilename(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	u := NewUploader(docs, blobs, &fakeStamper{pageCount: 1})

	_, err := u.Upload(context.Background(), "contract.pdf", []byte("%PDF"), "admin-1")
	assert.ErrorIs(t, err, signing.ErrValidation)
	assert.Equal(t, 0, blobs.count())
}

func TestUploadRejectsMalformedPdf(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	u := NewUploader(docs, blobs, &fakeStamper{normErr: signing.ErrMalformedPdf})

	_, err := u.Upload(context.Background(), "Maria Souza_52998224725.pdf", []byte("junk"), "admin-1")
	assert.ErrorIs(t, err, signing.ErrMalformedPdf)
	assert.Equal(t, 0, blobs.count())
}

func TestUploadBulk(t *testing.T) {
	docs := newFakeDocStore()
	blobs := newFakeBlobStore()
	u := NewUploader(docs, blobs, &fakeStamper{pageCount: 2})

	files := []UploadFile{
		{Filename: "Maria Souza_52998224725.pdf", Data: []byte("%PDF a")},
		{Filename: "bad-name.pdf", Data: []byte("%PDF b")},
		{Filename: "Joao Lima_11144477735.pdf", Data: []byte("%PDF c")},
	}
	resp := u.UploadBulk(context.Background(), files, "admin-1")

	require.Len(t, resp.Results, 3)
	assert.Equal(t, 2, resp.SuccessCount)
	assert.Equal(t, 1, resp.ErrorCount)

	// Results keep the input order regardless of completion order.
	assert.Equal(t, "Maria Souza_52998224725.pdf", resp.Results[0].Filename)
	assert.NotEmpty(t, resp.Results[0].DocumentID)
	assert.Empty(t, resp.Results[0].Error)

	assert.Equal(t, "bad-name.pdf", resp.Results[1].Filename)
	assert.Empty(t, resp.Results[1].DocumentID)
	assert.NotEmpty(t, resp.Results[1].Error)

	assert.NotEmpty(t, resp.Results[2].DocumentID)

	all, err := docs.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
