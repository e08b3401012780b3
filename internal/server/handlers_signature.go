package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docsignflow/internal/models"
	"docsignflow/internal/services"
)

// SignatureHandler exposes the signing endpoints.
type SignatureHandler struct {
	signer *services.Signer
	docs   *services.Documents
}

// NewSignatureHandler wires a SignatureHandler.
func NewSignatureHandler(signer *services.Signer, docs *services.Documents) *SignatureHandler {
	return &SignatureHandler{signer: signer, docs: docs}
}

// Sign handles POST /api/signature/sign.
func (h *SignatureHandler) Sign(c *gin.Context) {
	var req models.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse request body"})
		return
	}
	resp, err := h.signer.Sign(c.Request.Context(), req, actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Document handles GET /api/signature/document/:id, the access-checked fetch
// backing the signing view.
func (h *SignatureHandler) Document(c *gin.Context) {
	doc, err := h.docs.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}
