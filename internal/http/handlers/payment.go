package handlers

import (
	"net/http"
	"time"

	"admitdesk/internal/app"
	"admitdesk/internal/common"
	"admitdesk/internal/http/middleware"
	"admitdesk/internal/http/response"
)

type PaymentHandler struct {
	payments *app.PaymentService
	limiter  middleware.Limiter
}

func NewPaymentHandler(payments *app.PaymentService, limiter middleware.Limiter) *PaymentHandler {
	return &PaymentHandler{payments: payments, limiter: limiter}
}

type createOrderRequest struct {
	Amount int64 `json:"amount"`
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UIDFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	if h.limiter != nil {
		if !h.limiter.Allow("order:"+uid, 5, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "order rate limit exceeded", nil))
			return
		}
	}
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	order, err := h.payments.CreateOrder(r.Context(), uid, req.Amount)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, order)
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if err := h.payments.VerifyPayment(r.Context(), req.OrderID, req.PaymentID, req.Signature); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"verified": true})
}
