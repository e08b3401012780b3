package signing

import (
	"fmt"

	"docsignflow/internal/models"
)

// AuthorizeAccess checks whether the actor may read or act on the document.
// A user is restricted to documents assigned to their own CPF; an admin
// passes for any document. The check is a point-in-time read; the final
// state transition is re-validated by the store's conditional update.
func AuthorizeAccess(doc *models.Document, actor models.Actor) error {
	if actor.Role == models.RoleUser && actor.CPF != doc.AssociatedCPF {
		return fmt.Errorf("cpf does not match document assignee: %w", ErrAccessDenied)
	}
	return nil
}

// AuthorizeSigning applies the access rule plus the single-signing invariant:
// only a pending document may be signed. A second signing attempt fails with
// ErrAlreadySigned instead of overwriting the prior signature.
func AuthorizeSigning(doc *models.Document, actor models.Actor) error {
	if err := AuthorizeAccess(doc, actor); err != nil {
		return err
	}
	if doc.Status != models.StatusPending {
		return ErrAlreadySigned
	}
	return nil
}
