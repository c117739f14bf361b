package app

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"

	"admitdesk/internal/common"
	"admitdesk/internal/integration/razorpay"
)

type fakeGateway struct {
	mu     sync.Mutex
	err    error
	orders []razorpay.Order
}

func (g *fakeGateway) CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]string) (razorpay.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return razorpay.Order{}, g.err
	}
	order := razorpay.Order{ID: "order_test_1", Amount: amountPaise, Currency: "INR", Status: "created"}
	g.orders = append(g.orders, order)
	return order, nil
}

func newPaymentService(gateway razorpay.Client) *PaymentService {
	return NewPaymentService(gateway, noopAuditRepo{}, "rzp_test_key", "test_secret", 500, noopLogger{})
}

func signPayload(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrderConvertsToPaise(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newPaymentService(gateway)

	order, err := svc.CreateOrder(context.Background(), "user-1", 500)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Amount != 50000 {
		t.Fatalf("amount = %d, want 50000 paise", order.Amount)
	}
	if order.Currency != "INR" {
		t.Fatalf("currency = %q, want INR", order.Currency)
	}
	if order.KeyID != "rzp_test_key" {
		t.Fatalf("keyId = %q, want rzp_test_key", order.KeyID)
	}
}

func TestCreateOrderRejectsWrongAmount(t *testing.T) {
	gateway := &fakeGateway{}
	svc := newPaymentService(gateway)

	for _, amount := range []int64{0, -500, 499, 501} {
		if _, err := svc.CreateOrder(context.Background(), "user-1", amount); !common.Is(err, common.CodeValidation) {
			t.Fatalf("CreateOrder(%d) error = %v, want validation_error", amount, err)
		}
	}
	if len(gateway.orders) != 0 {
		t.Fatalf("gateway received %d orders, want 0", len(gateway.orders))
	}
}

func TestCreateOrderMapsGatewayErrors(t *testing.T) {
	svc := newPaymentService(&fakeGateway{err: razorpay.ErrBadRequest})
	if _, err := svc.CreateOrder(context.Background(), "user-1", 500); !common.Is(err, common.CodeValidation) {
		t.Fatalf("bad request error = %v, want validation_error", err)
	}

	svc = newPaymentService(&fakeGateway{err: razorpay.ErrUnavailable})
	if _, err := svc.CreateOrder(context.Background(), "user-1", 500); !common.Is(err, common.CodeInternal) {
		t.Fatalf("unavailable error = %v, want internal_error", err)
	}
}

func TestVerifyPaymentAcceptsValidSignature(t *testing.T) {
	svc := newPaymentService(&fakeGateway{})
	sig := signPayload("test_secret", "order_1", "pay_1")

	if err := svc.VerifyPayment(context.Background(), "order_1", "pay_1", sig); err != nil {
		t.Fatalf("VerifyPayment: %v", err)
	}
}

func TestVerifyPaymentRejectsTampering(t *testing.T) {
	svc := newPaymentService(&fakeGateway{})
	sig := signPayload("test_secret", "order_1", "pay_1")

	cases := []struct {
		name      string
		orderID   string
		paymentID string
		signature string
	}{
		{"mutated signature", "order_1", "pay_1", "0" + sig[1:]},
		{"different order", "order_2", "pay_1", sig},
		{"different payment", "order_1", "pay_2", sig},
		{"wrong secret", "order_1", "pay_1", signPayload("other_secret", "order_1", "pay_1")},
	}
	for _, tc := range cases {
		if err := svc.VerifyPayment(context.Background(), tc.orderID, tc.paymentID, tc.signature); !common.Is(err, common.CodeValidation) {
			t.Fatalf("%s: error = %v, want validation_error", tc.name, err)
		}
	}
}

func TestVerifyPaymentRequiresAllFields(t *testing.T) {
	svc := newPaymentService(&fakeGateway{})
	if err := svc.VerifyPayment(context.Background(), "", "pay_1", ""); !common.Is(err, common.CodeValidation) {
		t.Fatalf("error = %v, want validation_error", err)
	}
}
