package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docsignflow/internal/models"
	"docsignflow/internal/services"
)

// DocumentsHandler exposes the archive endpoints: listings, fetches, uploads,
// downloads and deletes.
type DocumentsHandler struct {
	docs     *services.Documents
	uploader *services.Uploader
	archive  *services.Archive

	maxUploadBytes int64
	maxBulkFiles   int
}

// NewDocumentsHandler wires a DocumentsHandler with the upload limits.
func NewDocumentsHandler(docs *services.Documents, uploader *services.Uploader, archive *services.Archive, maxUploadBytes int64, maxBulkFiles int) *DocumentsHandler {
	return &DocumentsHandler{
		docs:           docs,
		uploader:       uploader,
		archive:        archive,
		maxUploadBytes: maxUploadBytes,
		maxBulkFiles:   maxBulkFiles,
	}
}

// ListAll handles GET /api/documents (admin).
func (h *DocumentsHandler) ListAll(c *gin.Context) {
	docs, err := h.docs.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// ListMine handles GET /api/documents/user.
func (h *DocumentsHandler) ListMine(c *gin.Context) {
	docs, err := h.docs.ListForUser(c.Request.Context(), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// Get handles GET /api/documents/:id.
func (h *DocumentsHandler) Get(c *gin.Context) {
	doc, err := h.docs.Get(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc})
}

// View handles GET /api/documents/:id/view, redirecting to a short-lived
// signed URL for in-browser rendering.
func (h *DocumentsHandler) View(c *gin.Context) {
	url, err := h.docs.ViewURL(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Download handles GET /api/documents/:id/download (admin), streaming the
// current PDF as an attachment.
func (h *DocumentsHandler) Download(c *gin.Context) {
	filename, data, err := h.docs.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Upload handles POST /api/documents/upload (admin, multipart, field "pdf").
func (h *DocumentsHandler) Upload(c *gin.Context) {
	file, err := h.readUpload(c, "pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, err := h.uploader.Upload(c.Request.Context(), file.Filename, file.Data, actorFrom(c).UserID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documentId": doc.ID, "document": doc})
}

// UploadBulk handles POST /api/documents/upload-bulk (admin, multipart,
// field "pdfs").
func (h *DocumentsHandler) UploadBulk(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not parse multipart form"})
		return
	}
	headers := form.File["pdfs"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files supplied"})
		return
	}
	if len(headers) > h.maxBulkFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("at most %d files per bulk upload", h.maxBulkFiles)})
		return
	}

	files := make([]services.UploadFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s exceeds the upload size limit", fh.Filename)})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("could not read %s", fh.Filename)})
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > h.maxUploadBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("could not read %s", fh.Filename)})
			return
		}
		files = append(files, services.UploadFile{Filename: fh.Filename, Data: data})
	}

	resp := h.uploader.UploadBulk(c.Request.Context(), files, actorFrom(c).UserID)
	c.JSON(http.StatusOK, resp)
}

// DownloadBulk handles POST /api/documents/download-bulk (admin), streaming a
// zip of the selected documents. The archive is built into a buffer first so
// per-item failures can still be reported in headers before the body goes out.
func (h *DocumentsHandler) DownloadBulk(c *gin.Context) {
	var req models.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.DocumentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "documentIds must be a non-empty array"})
		return
	}

	var buf bytes.Buffer
	added, failed, err := h.archive.BuildZip(c.Request.Context(), req.DocumentIDs, &buf)
	if err != nil {
		writeError(c, err)
		return
	}
	if added == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no downloadable documents in selection"})
		return
	}
	if len(failed) > 0 {
		c.Header("X-Failed-Items", fmt.Sprintf("%d", len(failed)))
	}
	c.Header("Content-Disposition", `attachment; filename="documents.zip"`)
	c.Data(http.StatusOK, "application/zip", buf.Bytes())
}

// DeleteBulk handles DELETE /api/documents/delete-bulk (admin).
func (h *DocumentsHandler) DeleteBulk(c *gin.Context) {
	var req models.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.DocumentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "documentIds must be a non-empty array"})
		return
	}
	results := h.archive.DeleteMany(c.Request.Context(), req.DocumentIDs)
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Delete handles DELETE /api/documents/:id (admin).
func (h *DocumentsHandler) Delete(c *gin.Context) {
	res := h.archive.DeleteOne(c.Request.Context(), c.Param("id"))
	if !res.Deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": res.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res})
}

type uploadedFile struct {
	Filename string
	Data     []byte
}

func (h *DocumentsHandler) readUpload(c *gin.Context, field string) (*uploadedFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("no file supplied in field %q", field)
	}
	if fh.Size > h.maxUploadBytes {
		return nil, fmt.Errorf("%s exceeds the upload size limit", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("could not read %s", fh.Filename)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes+1))
	if err != nil || int64(len(data)) > h.maxUploadBytes {
		return nil, fmt.Errorf("could not read %s", fh.Filename)
	}
	return &uploadedFile{Filename: fh.Filename, Data: data}, nil
}
