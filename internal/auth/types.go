package auth

import (
	"context"
	"time"
)

// Operator is a dashboard user. Operators are dashboard-side only; the
// trading backend has no notion of them.
type Operator struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	IsAdmin      bool       `json:"is_admin"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}

// OperatorStore is the persistence the auth service needs. Implemented by
// the database repository.
type OperatorStore interface {
	GetOperatorByUsername(ctx context.Context, username string) (*Operator, error)
	GetOperatorByID(ctx context.Context, operatorID string) (*Operator, error)
	CreateOperator(ctx context.Context, op *Operator) error
	UpdateLastLogin(ctx context.Context, operatorID string, at time.Time) error
	CountOperators(ctx context.Context) (int, error)
}

// OperatorClaims is the JWT payload for an operator.
type OperatorClaims struct {
	OperatorID string `json:"operator_id"`
	Username   string `json:"username"`
	IsAdmin    bool   `json:"is_admin"`
}

// LoginRequest is an operator login request.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Operator     Operator `json:"operator"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// RefreshRequest exchanges a refresh token for a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse is returned on successful token refresh.
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthError is a coded authentication error suitable for API responses.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e AuthError) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = AuthError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password"}
	ErrOperatorNotFound   = AuthError{Code: "OPERATOR_NOT_FOUND", Message: "operator not found"}
	ErrUsernameExists     = AuthError{Code: "USERNAME_EXISTS", Message: "username already registered"}
	ErrInvalidToken       = AuthError{Code: "INVALID_TOKEN", Message: "invalid or expired token"}
	ErrTokenExpired       = AuthError{Code: "TOKEN_EXPIRED", Message: "token has expired"}
	ErrUnauthorized       = AuthError{Code: "UNAUTHORIZED", Message: "unauthorized access"}
	ErrForbidden          = AuthError{Code: "FORBIDDEN", Message: "access forbidden"}
)
