package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsignflow/internal/services"
	"docsignflow/internal/signing"
)

// writeError maps pipeline errors onto the API's status contract. Business
// rule violations surface their own message; internal failures are logged
// with context and reported generically so storage paths and library errors
// never reach the caller.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, signing.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, signing.ErrAlreadySigned):
		c.JSON(http.StatusBadRequest, gin.H{"error": "document already signed"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, signing.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, signing.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
	default:
		slog.Error("Request failed.", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
