package httpjson

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newContext(body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.JSONSerializer = Serializer{}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSerializer_RoundTrip(t *testing.T) {
	c, rec := newContext(`{"name":"autopsy","count":2}`)
	var p payload
	if err := c.Bind(&p); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if p.Name != "autopsy" || p.Count != 2 {
		t.Errorf("unexpected payload %+v", p)
	}
	if err := c.JSON(http.StatusOK, p); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"name":"autopsy","count":2}` {
		t.Errorf("unexpected body %s", got)
	}
}

func TestSerializer_TypeErrorNamesJSONKey(t *testing.T) {
	c, _ := newContext(`{"count":"two"}`)
	var p payload
	err := Serializer{}.Deserialize(c, &p)
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if msg := he.Message.(string); !strings.Contains(msg, "count") || strings.Contains(msg, "Count") {
		t.Errorf("expected message to name the json key, got %q", msg)
	}
}

func TestJSONKey(t *testing.T) {
	tests := []struct {
		v     interface{}
		field string
		want  string
	}{
		{&payload{}, "Count", "count"},
		{payload{}, "Name", "name"},
		{&payload{}, "Missing", "Missing"},
		{map[string]int{}, "Count", "Count"},
		{&payload{}, "", ""},
	}
	for _, tt := range tests {
		if got := jsonKey(tt.v, tt.field); got != tt.want {
			t.Errorf("jsonKey(%T, %q) = %q, want %q", tt.v, tt.field, got, tt.want)
		}
	}
}

func TestSerializer_BadRequest(t *testing.T) {
	tests := map[string]string{
		"type error":   `{"count":"two"}`,
		"syntax error": `{"name" "x"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			c, _ := newContext(body)
			var p payload
			err := Serializer{}.Deserialize(c, &p)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Errorf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}
