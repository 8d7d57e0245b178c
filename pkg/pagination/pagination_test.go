package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/"+query, nil)
	return FromContext(e.NewContext(req, httptest.NewRecorder()))
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		limit  int
		offset int
	}{
		{"defaults", "", DefaultLimit, 0},
		{"custom", "?limit=50&offset=10", 50, 10},
		{"max limit", "?limit=1000", MaxLimit, 0},
		{"negative limit", "?limit=-5", DefaultLimit, 0},
		{"negative offset", "?offset=-3", DefaultLimit, 0},
		{"garbage", "?limit=abc&offset=xyz", DefaultLimit, 0},
		{"page", "?limit=10&page=3", 10, 20},
		{"offset wins over page", "?limit=10&offset=5&page=3", 10, 5},
		{"first page", "?page=1", DefaultLimit, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paramsFor(t, tt.query)
			if p.Limit != tt.limit || p.Offset != tt.offset {
				t.Errorf("got limit=%d offset=%d, want limit=%d offset=%d", p.Limit, p.Offset, tt.limit, tt.offset)
			}
		})
	}
}

func TestParams_Navigation(t *testing.T) {
	p := Params{Limit: 10, Offset: 5}
	if !p.HasNext(20) {
		t.Error("expected a next page at offset 5 of 20")
	}
	if p.HasNext(15) {
		t.Error("expected no next page at offset 5 of 15")
	}
	if !p.HasPrevious() {
		t.Error("expected a previous page")
	}
	if p.NextOffset() != 15 {
		t.Errorf("expected next offset 15, got %d", p.NextOffset())
	}
	if p.PreviousOffset() != 0 {
		t.Errorf("expected previous offset clamped to 0, got %d", p.PreviousOffset())
	}
}

func TestParams_Links(t *testing.T) {
	p := Params{Limit: 10, Offset: 10}
	l := p.Links("/api/v1/death-reports", 25)
	if l.Self != "/api/v1/death-reports?limit=10&offset=10" {
		t.Errorf("unexpected self link %q", l.Self)
	}
	if l.Next != "/api/v1/death-reports?limit=10&offset=20" {
		t.Errorf("unexpected next link %q", l.Next)
	}
	if l.Previous != "/api/v1/death-reports?limit=10&offset=0" {
		t.Errorf("unexpected previous link %q", l.Previous)
	}

	last := Params{Limit: 10, Offset: 0}.Links("/x", 5)
	if last.Next != "" || last.Previous != "" {
		t.Errorf("expected only a self link, got %+v", last)
	}
}

func TestNewResponse(t *testing.T) {
	items := []string{"a", "b"}
	resp := NewResponse(items, 5, Params{Limit: 2, Offset: 2})
	if resp.Total != 5 || resp.Limit != 2 || resp.Offset != 2 {
		t.Errorf("unexpected metadata %+v", resp)
	}
	if !resp.HasMore {
		t.Error("expected has_more with 5 total at offset 2")
	}

	resp = NewResponse(items, 4, Params{Limit: 2, Offset: 2})
	if resp.HasMore {
		t.Error("expected no more results on the last page")
	}
}

func TestResponse_WithLinks(t *testing.T) {
	p := Params{Limit: 2, Offset: 0}
	resp := NewResponse([]int{1, 2}, 3, p).WithLinks("/items", p)
	if resp.Links == nil || resp.Links.Next != "/items?limit=2&offset=2" {
		t.Errorf("unexpected links %+v", resp.Links)
	}
}
