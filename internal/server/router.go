// Package server is the HTTP transport: routing, auth middleware, rate
// limiting and the mapping from pipeline errors to response statuses.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docsignflow/internal/config"
	"docsignflow/internal/services"
)

// Deps bundles the services the router exposes.
type Deps struct {
	Auth      *services.Auth
	Documents *services.Documents
	Uploader  *services.Uploader
	Archive   *services.Archive
	Signer    *services.Signer
}

// NewRouter assembles the gin engine with all routes and middleware.
func NewRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLog())
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	authH := NewAuthHandler(deps.Auth)
	docsH := NewDocumentsHandler(deps.Documents, deps.Uploader, deps.Archive, cfg.MaxUploadBytes, cfg.MaxBulkFiles)
	sigH := NewSignatureHandler(deps.Signer, deps.Documents)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authGroup := r.Group("/api/auth")
	{
		loginLimiter := RateLimit(cfg.LoginRatePerMinute, cfg.LoginBurst, cfg.TrustProxyHeader)
		authGroup.POST("/admin/login", loginLimiter, authH.AdminLogin)
		authGroup.POST("/user/login", loginLimiter, authH.UserLogin)
		authGroup.GET("/verify", RequireAuth(deps.Auth), authH.Verify)
	}

	docsGroup := r.Group("/api/documents", RequireAuth(deps.Auth))
	{
		docsGroup.GET("", RequireAdmin(), docsH.ListAll)
		docsGroup.GET("/user", docsH.ListMine)
		docsGroup.POST("/upload", RequireAdmin(), docsH.Upload)
		docsGroup.POST("/upload-bulk", RequireAdmin(), docsH.UploadBulk)
		docsGroup.POST("/download-bulk", RequireAdmin(), docsH.DownloadBulk)
		docsGroup.DELETE("/delete-bulk", RequireAdmin(), docsH.DeleteBulk)
		docsGroup.GET("/:id", docsH.Get)
		docsGroup.GET("/:id/view", docsH.View)
		docsGroup.GET("/:id/download", RequireAdmin(), docsH.Download)
		docsGroup.DELETE("/:id", RequireAdmin(), docsH.Delete)
	}

	sigGroup := r.Group("/api/signature", RequireAuth(deps.Auth))
	{
		sigGroup.POST("/sign", sigH.Sign)
		sigGroup.GET("/document/:id", sigH.Document)
	}

	return r
}
