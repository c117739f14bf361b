package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"admitdesk/internal/app"
	"admitdesk/internal/common"
	"admitdesk/internal/domain/user"
	"admitdesk/internal/http/middleware"
)

func errUnauthorized() error {
	return common.NewError(common.CodeUnauthorized, "authentication required", nil)
}

func decodeJSON(r *http.Request, target interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, io.EOF) {
			return common.NewError(common.CodeValidation, "request body is required", nil)
		}
		return common.NewError(common.CodeValidation, "invalid request body", err)
	}
	return nil
}

// idFromPath pulls the path segment at index (zero-based, leading slash
// stripped) and parses it as a uuid.
func idFromPath(r *http.Request, index int) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if index >= len(parts) || parts[index] == "" {
		return "", common.NewError(common.CodeValidation, "missing id in path", nil)
	}
	parsed, err := common.ParseUUID(parts[index])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return parsed, nil
}

func actorFromContext(r *http.Request) (app.Actor, bool) {
	uid, ok := middleware.UIDFromContext(r.Context())
	if !ok {
		return app.Actor{}, false
	}
	role, _ := middleware.RoleFromContext(r.Context())
	return app.Actor{UID: uid, Admin: role == user.RoleAdmin}, true
}

type paginationMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type pagedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination paginationMeta `json:"pagination"`
}

func newPagedResponse(data interface{}, page, limit, total int) pagedResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return pagedResponse{
		Data:       data,
		Pagination: paginationMeta{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
