package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"docsignflow/internal/cpf"
	"docsignflow/internal/models"
	"docsignflow/internal/signing"
)

// TokenTTL is the lifetime of issued auth tokens.
const TokenTTL = 24 * time.Hour

// ErrInvalidCredentials is returned for any failed login attempt. It is
// deliberately indistinguishable between unknown account and wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Claims is the JWT payload for both roles: admins carry UserID and Email,
// users carry CPF.
type Claims struct {
	Role   string `json:"role"`
	CPF    string `json:"cpf,omitempty"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts token claims into the actor identity used by the guard.
func (c *Claims) Actor() models.Actor {
	return models.Actor{Role: c.Role, CPF: c.CPF, UserID: c.UserID, Email: c.Email}
}

// Auth issues and verifies tokens for the two login flows: admin by
// email/password, user by CPF ownership of assigned documents.
type Auth struct {
	users  UserStore
	docs   DocumentStore
	secret []byte
	now    func() time.Time
}

// NewAuth wires an Auth service with the HMAC signing secret.
func NewAuth(users UserStore, docs DocumentStore, secret []byte) *Auth {
	return &Auth{users: users, docs: docs, secret: secret, now: time.Now}
}

// AdminLogin verifies an administrator's credentials and issues a token.
func (a *Auth) AdminLogin(ctx context.Context, req models.AdminLoginRequest) (*models.LoginResponse, error) {
	if req.Email == "" || len(req.Password) < 6 {
		return nil, fmt.Errorf("%w: email and a password of at least 6 characters are required", signing.ErrValidation)
	}

	admin, err := a.users.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, signing.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		slog.Warn("Admin login failed.", "email", req.Email)
		return nil, ErrInvalidCredentials
	}

	token, err := a.issue(Claims{Role: models.RoleAdmin, UserID: admin.ID, Email: admin.Email})
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Token: token,
		User:  models.LoginUser{ID: admin.ID, Email: admin.Email, Role: models.RoleAdmin},
	}, nil
}

// UserLogin authenticates an employee by CPF. The CPF must be well formed and
// must have at least one document assigned to it; possession of a valid CPF
// with pending paperwork is the whole credential, as in the source system.
func (a *Auth) UserLogin(ctx context.Context, req models.UserLoginRequest) (*models.LoginResponse, error) {
	clean := cpf.Normalize(req.CPF)
	if !cpf.IsValid(clean) {
		return nil, fmt.Errorf("%w: invalid cpf", signing.ErrValidation)
	}

	docs, err := a.docs.ListByCPF(ctx, clean)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents for this cpf", signing.ErrNotFound)
	}

	token, err := a.issue(Claims{Role: models.RoleUser, CPF: clean})
	if err != nil {
		return nil, err
	}
	return &models.LoginResponse{
		Token: token,
		User:  models.LoginUser{CPF: clean, Role: models.RoleUser, DocumentCount: len(docs)},
	}, nil
}

// ParseToken verifies a token and returns its claims.
func (a *Auth) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", ErrInvalidCredentials)
	}
	return claims, nil
}

func (a *Auth) issue(claims Claims) (string, error) {
	now := a.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}
