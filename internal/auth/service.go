package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// refreshSession is one issued refresh token. Refresh tokens are held in
// memory; a restart logs every operator out, which is acceptable for a
// dashboard.
type refreshSession struct {
	operatorID string
	expiresAt  time.Time
}

// Service implements operator login, token refresh and admin seeding.
type Service struct {
	store     OperatorStore
	jwt       *JWTManager
	passwords *PasswordManager
	logger    zerolog.Logger

	mu       sync.Mutex
	sessions map[string]refreshSession // refresh token -> session
}

// NewService wires the auth service.
func NewService(store OperatorStore, jwt *JWTManager, passwords *PasswordManager, logger zerolog.Logger) *Service {
	return &Service{
		store:     store,
		jwt:       jwt,
		passwords: passwords,
		logger:    logger,
		sessions:  make(map[string]refreshSession),
	}
}

// Login verifies credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	op, err := s.store.GetOperatorByUsername(ctx, req.Username)
	if err != nil {
		// Same error as a bad password so usernames cannot be probed.
		return nil, ErrInvalidCredentials
	}
	if !s.passwords.VerifyPassword(req.Password, op.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwt.GenerateAccessToken(OperatorClaims{
		OperatorID: op.ID,
		Username:   op.Username,
		IsAdmin:    op.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.issueRefreshToken(op.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.store.UpdateLastLogin(ctx, op.ID, now); err != nil {
		s.logger.Warn().Err(err).Str("operator_id", op.ID).Msg("failed to record last login")
	}
	op.LastLoginAt = &now

	s.logger.Info().Str("operator_id", op.ID).Str("username", op.Username).Msg("operator logged in")
	return &LoginResponse{
		Operator:     *op,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenSeconds(),
	}, nil
}

// Refresh rotates a refresh token and issues a new access token.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	s.mu.Lock()
	session, ok := s.sessions[req.RefreshToken]
	if ok {
		delete(s.sessions, req.RefreshToken)
	}
	s.mu.Unlock()

	if !ok || time.Now().After(session.expiresAt) {
		return nil, ErrInvalidToken
	}

	op, err := s.store.GetOperatorByID(ctx, session.operatorID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	accessToken, err := s.jwt.GenerateAccessToken(OperatorClaims{
		OperatorID: op.ID,
		Username:   op.Username,
		IsAdmin:    op.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.issueRefreshToken(op.ID)
	if err != nil {
		return nil, err
	}

	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.jwt.AccessTokenSeconds(),
	}, nil
}

// Logout revokes a refresh token. Access tokens simply expire.
func (s *Service) Logout(refreshToken string) {
	s.mu.Lock()
	delete(s.sessions, refreshToken)
	s.mu.Unlock()
}

// SeedAdmin creates the configured admin operator when the store is empty.
// No-op when operators already exist or no admin is configured.
func (s *Service) SeedAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}

	count, err := s.store.CountOperators(ctx)
	if err != nil {
		return fmt.Errorf("failed to count operators: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := s.passwords.ValidatePassword(password); err != nil {
		return fmt.Errorf("admin password rejected: %w", err)
	}
	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return err
	}

	op := &Operator{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		IsAdmin:      true,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateOperator(ctx, op); err != nil {
		return fmt.Errorf("failed to seed admin operator: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("seeded initial admin operator")
	return nil
}

func (s *Service) issueRefreshToken(operatorID string) (string, error) {
	token, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[token] = refreshSession{
		operatorID: operatorID,
		expiresAt:  time.Now().Add(s.jwt.RefreshTokenDuration()),
	}
	s.mu.Unlock()
	return token, nil
}
