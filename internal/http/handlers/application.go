package handlers

import (
	"net/http"
	"strings"
	"time"

	"admitdesk/internal/app"
	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
	"admitdesk/internal/http/middleware"
	"admitdesk/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if h.limiter != nil {
		if !h.limiter.Allow("submit:"+actor.UID, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "submit rate limit exceeded", nil))
			return
		}
	}
	var req app.SubmitInput
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.applications.Submit(r.Context(), actor.UID, req)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

// List is role dependent: admins get the filtered, paginated index; everyone
// else gets their own applications with filters ignored.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if !actor.Admin {
		items, err := h.applications.ListOwn(r.Context(), actor.UID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, map[string]interface{}{"data": items})
		return
	}

	filter := application.ListFilter{
		State:        application.State(strings.TrimSpace(r.URL.Query().Get("status"))),
		DepartmentID: strings.TrimSpace(r.URL.Query().Get("departmentId")),
		Search:       strings.TrimSpace(r.URL.Query().Get("search")),
	}
	page, limit := app.NormalizePagination(queryInt(r, "page", 1), queryInt(r, "limit", 10))
	items, total, err := h.applications.List(r.Context(), filter, page, limit)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, newPagedResponse(items, page, limit, total))
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), id, actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	number := parts[len(parts)-1]
	if number == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"application_no": "required"}))
		return
	}
	item, err := h.applications.GetByNumber(r.Context(), number, actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.applications.Stats(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

type updateStatusSection struct {
	IsApproved   *bool   `json:"is_approved"`
	IsQualified  *bool   `json:"is_qualified"`
	DepartmentID *string `json:"department_id"`
}

type updateExamSection struct {
	CenterName       *string `json:"center_name"`
	ExamDate         *string `json:"exam_date"`
	ExamTime         *string `json:"exam_time"`
	HallTicketIssued *bool   `json:"hall_ticket_issued"`
}

type updateApplicationRequest struct {
	PersonalInfo    *application.PersonalInfo    `json:"personal_info"`
	AddressInfo     *application.AddressInfo     `json:"address_info"`
	ContactInfo     *application.ContactInfo     `json:"contact_info"`
	EducationalInfo *application.EducationalInfo `json:"educational_info"`
	Status          *updateStatusSection         `json:"status"`
	ExamInfo        *updateExamSection           `json:"exam_info"`
}

func (req updateApplicationRequest) hasContent() bool {
	return req.PersonalInfo != nil || req.AddressInfo != nil || req.ContactInfo != nil || req.EducationalInfo != nil
}

// Update is the partial-update endpoint. Content blocks are open to the owner
// while unapproved and to admins always; the status and exam sections are
// lifecycle transitions and admin only. Sections apply in a fixed order, each
// as its own transition.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req updateApplicationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if !req.hasContent() && req.Status == nil && req.ExamInfo == nil {
		response.Error(w, common.NewError(common.CodeValidation, "empty update", nil))
		return
	}
	if (req.Status != nil || req.ExamInfo != nil) && !actor.Admin {
		response.Error(w, common.NewError(common.CodeForbidden, "admin only", nil))
		return
	}

	var updated *application.Application
	if req.hasContent() {
		updated, err = h.applications.UpdateContent(r.Context(), id, actor, app.ContentUpdate{
			PersonalInfo:    req.PersonalInfo,
			AddressInfo:     req.AddressInfo,
			ContactInfo:     req.ContactInfo,
			EducationalInfo: req.EducationalInfo,
		})
		if err != nil {
			response.Error(w, err)
			return
		}
	}
	if req.Status != nil {
		if req.Status.IsApproved != nil {
			updated, err = h.applications.Review(r.Context(), id, actor.UID, *req.Status.IsApproved)
			if err != nil {
				response.Error(w, err)
				return
			}
		}
		if req.Status.IsQualified != nil {
			updated, err = h.applications.Qualify(r.Context(), id, actor.UID, *req.Status.IsQualified)
			if err != nil {
				response.Error(w, err)
				return
			}
		}
		if req.Status.DepartmentID != nil {
			departmentID, parseErr := common.ParseUUID(*req.Status.DepartmentID)
			if parseErr != nil {
				response.Error(w, common.NewValidationError("invalid request", map[string]string{"status.department_id": "invalid uuid"}))
				return
			}
			updated, err = h.applications.AssignDepartment(r.Context(), id, actor.UID, departmentID)
			if err != nil {
				response.Error(w, err)
				return
			}
		}
	}
	if req.ExamInfo != nil {
		if req.ExamInfo.CenterName != nil || req.ExamInfo.ExamDate != nil || req.ExamInfo.ExamTime != nil {
			updated, err = h.applications.ScheduleExam(r.Context(), id, actor.UID, app.ExamScheduleUpdate{
				CenterName: req.ExamInfo.CenterName,
				ExamDate:   req.ExamInfo.ExamDate,
				ExamTime:   req.ExamInfo.ExamTime,
			})
			if err != nil {
				response.Error(w, err)
				return
			}
		}
		if req.ExamInfo.HallTicketIssued != nil {
			updated, err = h.applications.IssueHallTicket(r.Context(), id, actor.UID, *req.ExamInfo.HallTicketIssued)
			if err != nil {
				response.Error(w, err)
				return
			}
		}
	}

	response.JSON(w, http.StatusOK, updated)
}
