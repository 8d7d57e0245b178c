package middleware

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const auditWriteTimeout = 2 * time.Second

// PGAuditRecorder writes audit entries to the form_access_log table.
type PGAuditRecorder struct {
	pool *pgxpool.Pool
}

func NewPGAuditRecorder(pool *pgxpool.Pool) *PGAuditRecorder {
	return &PGAuditRecorder{pool: pool}
}

func (r *PGAuditRecorder) RecordAccess(e AuditEntry) error {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO form_access_log (user_id, roles, form, record_key, action, method,
			path, remote_ip, request_id, status_code, accessed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		e.UserID, e.Roles, e.Form, e.RecordKey, e.Action, e.Method,
		e.Path, e.RemoteIP, e.RequestID, e.StatusCode, e.Timestamp)
	return err
}
