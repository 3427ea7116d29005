package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"trading-ops-dashboard/internal/auth"
)

// Repository implements operator persistence and the audit trail on top of
// the connection pool. Satisfies auth.OperatorStore.
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// GetOperatorByUsername looks an operator up by username.
func (r *Repository) GetOperatorByUsername(ctx context.Context, username string) (*auth.Operator, error) {
	return r.getOperator(ctx,
		`SELECT id, username, password_hash, is_admin, created_at, last_login_at
		 FROM operators WHERE username = $1`, username)
}

// GetOperatorByID looks an operator up by ID.
func (r *Repository) GetOperatorByID(ctx context.Context, operatorID string) (*auth.Operator, error) {
	return r.getOperator(ctx,
		`SELECT id, username, password_hash, is_admin, created_at, last_login_at
		 FROM operators WHERE id = $1`, operatorID)
}

func (r *Repository) getOperator(ctx context.Context, query, arg string) (*auth.Operator, error) {
	var op auth.Operator
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&op.ID, &op.Username, &op.PasswordHash, &op.IsAdmin, &op.CreatedAt, &op.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrOperatorNotFound
		}
		return nil, fmt.Errorf("failed to query operator: %w", err)
	}
	return &op, nil
}

// CreateOperator inserts a new operator.
func (r *Repository) CreateOperator(ctx context.Context, op *auth.Operator) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO operators (id, username, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		op.ID, op.Username, op.PasswordHash, op.IsAdmin, op.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

// UpdateLastLogin records a successful login time.
func (r *Repository) UpdateLastLogin(ctx context.Context, operatorID string, at time.Time) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE operators SET last_login_at = $2 WHERE id = $1`, operatorID, at)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// CountOperators returns the number of registered operators.
func (r *Repository) CountOperators(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM operators`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count operators: %w", err)
	}
	return count, nil
}

// AuditEvent is one recorded operator command: who did what to which
// instance, when.
type AuditEvent struct {
	ID           string    `json:"id"`
	OperatorID   string    `json:"operator_id,omitempty"`
	OperatorName string    `json:"operator_name,omitempty"`
	Action       string    `json:"action"`
	InstanceID   string    `json:"instance_id,omitempty"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Audit actions recorded by the API layer.
const (
	AuditActionStart           = "instance_start"
	AuditActionStop            = "instance_stop"
	AuditActionDelete          = "instance_delete"
	AuditActionSaveParameters  = "parameters_save"
	AuditActionAutoTradeEnable = "auto_trade_enable"
	AuditActionAutoTradeOff    = "auto_trade_disable"
)

// RecordAuditEvent appends one event to the audit trail.
func (r *Repository) RecordAuditEvent(ctx context.Context, event AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var operatorID interface{}
	if event.OperatorID != "" {
		operatorID = event.OperatorID
	}

	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO audit_events (id, operator_id, operator_name, action, instance_id, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID, operatorID, event.OperatorName, event.Action, event.InstanceID, event.Detail, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit event: %w", err)
	}
	return nil
}

// ListAuditEvents returns the most recent events, optionally filtered by
// instance.
func (r *Repository) ListAuditEvents(ctx context.Context, instanceID string, limit int) ([]AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT id, COALESCE(operator_id::text, ''), operator_name, action,
	                 COALESCE(instance_id, ''), COALESCE(detail, ''), created_at
	          FROM audit_events`
	args := []interface{}{}
	if instanceID != "" {
		query += ` WHERE instance_id = $1`
		args = append(args, instanceID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d`, limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		if err := rows.Scan(&e.ID, &e.OperatorID, &e.OperatorName, &e.Action,
			&e.InstanceID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
