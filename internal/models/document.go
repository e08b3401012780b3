package models

import "time"

// Document status values. A document is created as pending and transitions to
// signed exactly once; signed is terminal.
const (
	StatusPending = "pending"
	StatusSigned  = "signed"
)

// Actor roles carried in auth tokens.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Document is the Firestore record for an uploaded PDF awaiting signature.
// Blob fields come in pairs: the object path inside the bucket (used for
// reads, deletes and zip packaging) and the long-lived signed URL handed to
// clients.
type Document struct {
	ID              string      `json:"id" firestore:"-"`
	EmployeeName    string      `json:"employeeName" firestore:"employeeName,omitempty"`
	Filename        string      `json:"filename" firestore:"filename,omitempty"`
	AssociatedCPF   string      `json:"associatedCpf" firestore:"associatedCpf,omitempty"`
	Status          string      `json:"status" firestore:"status,omitempty"`
	PageCount       int         `json:"pageCount" firestore:"pageCount,omitempty"`
	OriginalObject  string      `json:"-" firestore:"originalObject,omitempty"`
	OriginalURL     string      `json:"originalUrl" firestore:"originalUrl,omitempty"`
	SignedObject    string      `json:"-" firestore:"signedObject,omitempty"`
	SignedURL       string      `json:"signedUrl,omitempty" firestore:"signedUrl,omitempty"`
	SignedByCPF     string      `json:"signedByCpf,omitempty" firestore:"signedByCpf,omitempty"`
	StampPlacements []Placement `json:"stampPlacements,omitempty" firestore:"stampPlacements,omitempty"`
	UploadedBy      string      `json:"uploadedBy,omitempty" firestore:"uploadedBy,omitempty"`
	CreatedAt       time.Time   `json:"createdAt" firestore:"createdAt,omitempty"`
	SignedAt        *time.Time  `json:"signedAt,omitempty" firestore:"signedAt,omitempty"`
}

// Placement is one signature stamp position captured on the client's render
// canvas, in pixel space with the origin at the top-left. PageIndex is
// zero-based. Immutable once recorded.
type Placement struct {
	PageIndex    int     `json:"pageIndex" firestore:"pageIndex"`
	X            float64 `json:"x" firestore:"x"`
	Y            float64 `json:"y" firestore:"y"`
	Width        float64 `json:"width" firestore:"width"`
	Height       float64 `json:"height" firestore:"height"`
	CanvasWidth  float64 `json:"canvasWidth" firestore:"canvasWidth"`
	CanvasHeight float64 `json:"canvasHeight" firestore:"canvasHeight"`
}

// Actor identifies the authenticated caller of an operation.
type Actor struct {
	Role   string
	CPF    string
	UserID string
	Email  string
}

// AdminUser is a record in the users collection. Password holds a bcrypt hash.
type AdminUser struct {
	ID       string `firestore:"-"`
	Email    string `firestore:"email"`
	Password string `firestore:"password"`
	Role     string `firestore:"role"`
}

// SignedPatch carries the fields written to a document when a signing
// operation commits. The store applies it only while status is still pending.
type SignedPatch struct {
	SignedObject    string
	SignedURL       string
	SignedByCPF     string
	SignedAt        time.Time
	StampPlacements []Placement
}
