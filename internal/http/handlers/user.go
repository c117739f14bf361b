package handlers

import (
	"net/http"
	"time"

	"admitdesk/internal/app"
	"admitdesk/internal/common"
	"admitdesk/internal/domain/user"
	"admitdesk/internal/http/middleware"
	"admitdesk/internal/http/response"
)

type UserHandler struct {
	users       *app.UserService
	limiter     middleware.Limiter
	internalKey string
}

func NewUserHandler(users *app.UserService, limiter middleware.Limiter, internalKey string) *UserHandler {
	return &UserHandler{users: users, limiter: limiter, internalKey: internalKey}
}

// Token exchanges a verifier-confirmed identity for a session token. Only the
// verifier gateway holds the internal key, so a uid here is trusted as
// already phone-verified.
func (h *UserHandler) Token(w http.ResponseWriter, r *http.Request) {
	if !requireInternalAuth(w, r, h.internalKey) {
		return
	}
	if h.limiter != nil {
		if !h.limiter.Allow("token:"+middleware.ClientIP(r), 30, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "token rate limit exceeded", nil))
			return
		}
	}
	var req app.ProvisionInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	session, err := h.users.Provision(r.Context(), req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, session)
}

// Get looks an account up by uid. Admins may look up anyone; everyone else
// only themselves.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		uid = actor.UID
	}
	if uid != actor.UID && !actor.Admin {
		response.Error(w, common.NewError(common.CodeForbidden, "not your account", nil))
		return
	}
	account, err := h.users.GetByUID(r.Context(), uid)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	account, err := h.users.GetByUID(r.Context(), uid)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

type setRoleRequest struct {
	UID  string `json:"uid"`
	Role string `json:"role"`
}

func (h *UserHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	adminUID, ok := middleware.UIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req setRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if req.UID == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"uid": "required"}))
		return
	}
	if err := h.users.SetRole(r.Context(), adminUID, req.UID, user.Role(req.Role)); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"updated": true})
}
