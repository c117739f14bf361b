package handlers

import (
	"net/http"

	"admitdesk/internal/app"
	"admitdesk/internal/common"
	"admitdesk/internal/http/response"
	"admitdesk/internal/pdf"
)

type PDFHandler struct {
	applications *app.ApplicationService
	renderer     *pdf.Renderer
}

func NewPDFHandler(applications *app.ApplicationService, renderer *pdf.Renderer) *PDFHandler {
	return &PDFHandler{applications: applications, renderer: renderer}
}

func (h *PDFHandler) ApplicationForm(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.ApplicationDocument(r.Context(), id, actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	document, err := h.renderer.ApplicationForm(item)
	if err != nil {
		response.Error(w, common.NewError(common.CodeInternal, "failed to render application form", err))
		return
	}
	writePDF(w, "application_"+item.ApplicationNo+".pdf", document)
}

func (h *PDFHandler) HallTicket(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r)
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.HallTicketDocument(r.Context(), id, actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	document, err := h.renderer.HallTicket(item)
	if err != nil {
		response.Error(w, common.NewError(common.CodeInternal, "failed to render hall ticket", err))
		return
	}
	writePDF(w, "hall_ticket_"+item.ApplicationNo+".pdf", document)
}

func writePDF(w http.ResponseWriter, filename string, document []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(document)
}
