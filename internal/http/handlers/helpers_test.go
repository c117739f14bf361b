package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"admitdesk/internal/common"
)

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/departments", strings.NewReader(`{"name":"Science","bogus":1}`))
	var target struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(req, &target); !common.Is(err, common.CodeValidation) {
		t.Fatalf("error = %v, want validation_error", err)
	}
}

func TestDecodeJSONEmptyBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/departments", strings.NewReader(""))
	var target struct{}
	err := decodeJSON(req, &target)
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("error = %v, want validation_error", err)
	}
}

func TestIDFromPath(t *testing.T) {
	id := common.NewUUID()
	req := httptest.NewRequest("GET", "/applications/"+id.String(), nil)
	parsed, err := idFromPath(req, 1)
	if err != nil {
		t.Fatalf("idFromPath: %v", err)
	}
	if parsed != id {
		t.Fatalf("parsed = %s, want %s", parsed, id)
	}

	req = httptest.NewRequest("GET", "/applications/not-a-uuid", nil)
	if _, err := idFromPath(req, 1); !common.Is(err, common.CodeValidation) {
		t.Fatalf("error = %v, want validation_error", err)
	}

	req = httptest.NewRequest("GET", "/applications", nil)
	if _, err := idFromPath(req, 1); !common.Is(err, common.CodeValidation) {
		t.Fatalf("error = %v, want validation_error for missing segment", err)
	}
}

func TestNewPagedResponseRoundsPagesUp(t *testing.T) {
	resp := newPagedResponse([]int{}, 2, 10, 25)
	if resp.Pagination.TotalPages != 3 {
		t.Fatalf("totalPages = %d, want 3", resp.Pagination.TotalPages)
	}
	if resp.Pagination.Page != 2 || resp.Pagination.Limit != 10 || resp.Pagination.Total != 25 {
		t.Fatalf("pagination = %+v", resp.Pagination)
	}

	resp = newPagedResponse([]int{}, 1, 10, 0)
	if resp.Pagination.TotalPages != 0 {
		t.Fatalf("totalPages = %d, want 0 for empty set", resp.Pagination.TotalPages)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/applications?page=3&limit=abc", nil)
	if got := queryInt(req, "page", 1); got != 3 {
		t.Fatalf("page = %d, want 3", got)
	}
	if got := queryInt(req, "limit", 10); got != 10 {
		t.Fatalf("limit = %d, want fallback 10", got)
	}
	if got := queryInt(req, "missing", 7); got != 7 {
		t.Fatalf("missing = %d, want fallback 7", got)
	}
}
