package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/audit"
	"admitdesk/internal/integration/razorpay"
)

type Order struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type PaymentService struct {
	gateway razorpay.Client
	audit   audit.Repository
	keyID   string
	secret  []byte
	fee     int64
	logger  Logger
}

func NewPaymentService(gateway razorpay.Client, auditRepo audit.Repository, keyID, keySecret string, fee int64, logger Logger) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		audit:   auditRepo,
		keyID:   keyID,
		secret:  []byte(keySecret),
		fee:     fee,
		logger:  logger,
	}
}

// CreateOrder opens a gateway order for the application fee. The amount is
// rupees and must match the configured fee exactly.
func (s *PaymentService) CreateOrder(ctx context.Context, userID string, amount int64) (*Order, error) {
	if amount <= 0 {
		return nil, common.NewValidationError("invalid payment payload", map[string]string{"amount": "must be positive"})
	}
	if amount != s.fee {
		return nil, common.NewValidationError("invalid payment payload", map[string]string{"amount": fmt.Sprintf("application fee is %d", s.fee)})
	}

	receipt := fmt.Sprintf("receipt_%d", time.Now().UnixMilli())
	order, err := s.gateway.CreateOrder(ctx, amount*100, receipt, map[string]string{
		"user_id": userID,
		"purpose": "application_fee",
	})
	if err != nil {
		if errors.Is(err, razorpay.ErrBadRequest) {
			return nil, common.NewError(common.CodeValidation, "payment gateway rejected the order", err)
		}
		s.logger.Error("payment: create order failed: " + err.Error())
		return nil, common.NewError(common.CodeInternal, "failed to create payment order", err)
	}

	_ = s.audit.Create(ctx, audit.Event{
		Name:   "payment.order_created",
		UserID: &userID,
		Payload: map[string]string{
			"order_id": order.ID,
			"amount":   fmt.Sprintf("%d", order.Amount),
		},
	})

	return &Order{OrderID: order.ID, Amount: order.Amount, Currency: order.Currency, KeyID: s.keyID}, nil
}

// VerifyPayment checks the gateway callback signature. The signature is the
// hex HMAC-SHA256 of "<orderID>|<paymentID>" under the key secret.
func (s *PaymentService) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error {
	fields := map[string]string{}
	if orderID == "" {
		fields["orderId"] = "required"
	}
	if paymentID == "" {
		fields["paymentId"] = "required"
	}
	if signature == "" {
		fields["signature"] = "required"
	}
	if len(fields) > 0 {
		return common.NewValidationError("missing payment verification fields", fields)
	}

	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return common.NewError(common.CodeValidation, "payment verification failed", nil)
	}

	_ = s.audit.Create(ctx, audit.Event{
		Name:    "payment.verified",
		Payload: map[string]string{"order_id": orderID, "payment_id": paymentID},
	})
	return nil
}
