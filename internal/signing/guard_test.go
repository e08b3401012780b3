package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docsignflow/internal/models"
)

func pendingDoc() *models.Document {
	return &models.Document{
		ID:            "doc-1",
		AssociatedCPF: "52998224725",
		Status:        models.StatusPending,
	}
}

func TestAuthorizeAccess(t *testing.T) {
	doc := pendingDoc()

	owner := models.Actor{Role: models.RoleUser, CPF: "52998224725"}
	assert.NoError(t, AuthorizeAccess(doc, owner))

	other := models.Actor{Role: models.RoleUser, CPF: "11144477735"}
	assert.ErrorIs(t, AuthorizeAccess(doc, other), ErrAccessDenied)

	admin := models.Actor{Role: models.RoleAdmin, UserID: "admin-1"}
	assert.NoError(t, AuthorizeAccess(doc, admin))
}

func TestAuthorizeSigning(t *testing.T) {
	owner := models.Actor{Role: models.RoleUser, CPF: "52998224725"}

	doc := pendingDoc()
	assert.NoError(t, AuthorizeSigning(doc, owner))

	doc.Status = models.StatusSigned
	assert.ErrorIs(t, AuthorizeSigning(doc, owner), ErrAlreadySigned)

	// Ownership is checked before state, so a stranger hitting a signed
	// document still sees a denial rather than the signing conflict.
	other := models.Actor{Role: models.RoleUser, CPF: "11144477735"}
	assert.ErrorIs(t, AuthorizeSigning(doc, other), ErrAccessDenied)

	admin := models.Actor{Role: models.RoleAdmin, UserID: "admin-1"}
	assert.ErrorIs(t, AuthorizeSigning(doc, admin), ErrAlreadySigned)
	doc.Status = models.StatusPending
	assert.NoError(t, AuthorizeSigning(doc, admin))
}
