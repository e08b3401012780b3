package models

// These structs define the JSON payloads exchanged with the web client.

// SignRequest is the body of POST /api/signature/sign. SignatureImage is a
// base64 data URI ("data:image/png;base64,..."); the transport layer strips
// the prefix and decodes it before the signing core runs.
type SignRequest struct {
	DocumentID      string      `json:"documentId"`
	SignatureImage  string      `json:"signatureImage"`
	StampPlacements []Placement `json:"signaturePositions"`
}

// SignResponse reports the durable URL of the signed PDF.
type SignResponse struct {
	SignedURL string `json:"signedUrl"`
}

// AdminLoginRequest is the body of POST /api/auth/admin/login.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLoginRequest is the body of POST /api/auth/user/login.
type UserLoginRequest struct {
	CPF string `json:"cpf"`
}

// LoginResponse is returned by both login endpoints.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser describes the authenticated identity inside a LoginResponse.
type LoginUser struct {
	ID            string `json:"id,omitempty"`
	Email         string `json:"email,omitempty"`
	CPF           string `json:"cpf,omitempty"`
	Role          string `json:"role"`
	DocumentCount int    `json:"documentCount,omitempty"`
}

// BulkRequest selects documents for a bulk download or delete.
type BulkRequest struct {
	DocumentIDs []string `json:"documentIds"`
}

// UploadResult is the per-file outcome of a bulk upload. Exactly one of
// DocumentID or Error is set.
type UploadResult struct {
	Filename   string `json:"filename"`
	DocumentID string `json:"documentId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// DeleteResult is the per-document outcome of a delete operation.
type DeleteResult struct {
	DocumentID string `json:"documentId"`
	Deleted    bool   `json:"deleted"`
	Error      string `json:"error,omitempty"`
}

// BulkUploadResponse summarizes a bulk upload.
type BulkUploadResponse struct {
	Results      []UploadResult `json:"results"`
	SuccessCount int            `json:"successCount"`
	ErrorCount   int            `json:"errorCount"`
}
