package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/flourish/flourish-prn/internal/platform/auth"
)

// AuditEntry records who touched which form and how.
type AuditEntry struct {
	UserID     string
	Roles      []string
	Form       string
	RecordKey  string
	Action     string
	Method     string
	Path       string
	RemoteIP   string
	RequestID  string
	StatusCode int
	Timestamp  time.Time
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error { return f(entry) }

// Audit logs every request under /api/v1/ after the handler ran. When a
// recorder is given it also receives the entry; recorder failures are logged
// and never fail the request.
func Audit(logger zerolog.Logger, recorder AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if !strings.HasPrefix(req.URL.Path, "/api/v1/") {
				return next(c)
			}

			err := next(c)

			ctx := req.Context()
			form, key := formAndKey(req.URL.Path)
			rid, _ := c.Get("request_id").(string)
			entry := AuditEntry{
				UserID:     auth.UserIDFromContext(ctx),
				Roles:      auth.RolesFromContext(ctx),
				Form:       form,
				RecordKey:  key,
				Action:     actionFor(req.Method),
				Method:     req.Method,
				Path:       req.URL.Path,
				RemoteIP:   c.RealIP(),
				RequestID:  rid,
				StatusCode: c.Response().Status,
				Timestamp:  time.Now().UTC(),
			}

			if recorder != nil {
				if recErr := recorder.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).Str("request_id", rid).Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "audit").
				Str("request_id", rid).
				Str("user_id", entry.UserID).
				Strs("roles", entry.Roles).
				Str("form", entry.Form).
				Str("record", entry.RecordKey).
				Str("action", entry.Action).
				Int("status", entry.StatusCode).
				Msg("form_access")

			return err
		}
	}
}

func actionFor(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}

// formAndKey splits /api/v1/<form>/<key>/... into its first two segments.
func formAndKey(path string) (string, string) {
	seg := strings.Split(strings.Trim(strings.TrimPrefix(path, "/api/v1/"), "/"), "/")
	form, key := "unknown", ""
	if len(seg) > 0 && seg[0] != "" {
		form = seg[0]
	}
	if len(seg) > 1 {
		key = seg[1]
	}
	return form, key
}
