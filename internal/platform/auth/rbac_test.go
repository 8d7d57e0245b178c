package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		held    []string
		require []string
		allowed bool
	}{
		{"matching role", []string{RoleResearchAssistant}, []string{RoleResearchAssistant, RoleInvestigator}, true},
		{"data manager passes", []string{RoleDataManager}, []string{RoleInvestigator}, true},
		{"monitor cannot write", []string{RoleMonitor}, []string{RoleResearchAssistant}, false},
		{"no roles", nil, []string{RoleMonitor}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(WithUser(context.Background(), "u", tt.held, ""))
			c := e.NewContext(req, httptest.NewRecorder())

			called := false
			err := RequireRole(tt.require...)(func(c echo.Context) error {
				called = true
				return nil
			})(c)

			if called != tt.allowed {
				t.Errorf("called = %v, want %v (err=%v)", called, tt.allowed, err)
			}
			if !tt.allowed {
				he, ok := err.(*echo.HTTPError)
				if !ok || he.Code != http.StatusForbidden {
					t.Errorf("expected 403, got %v", err)
				}
			}
		})
	}
}
