package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrBadRequest  = errors.New("razorpay bad request")
	ErrUnavailable = errors.New("razorpay unavailable")
)

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type Client interface {
	CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]string) (Order, error)
}

type HTTPClient struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

func NewClient(baseURL, keyID, keySecret string, httpClient *http.Client) *HTTPClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:    trimmed,
		keyID:      strings.TrimSpace(keyID),
		keySecret:  strings.TrimSpace(keySecret),
		httpClient: httpClient,
	}
}

type createOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

func (c *HTTPClient) CreateOrder(ctx context.Context, amountPaise int64, receipt string, notes map[string]string) (Order, error) {
	if amountPaise <= 0 {
		return Order{}, ErrBadRequest
	}
	payload := createOrderRequest{Amount: amountPaise, Currency: "INR", Receipt: receipt, Notes: notes}
	body, err := json.Marshal(payload)
	if err != nil {
		return Order{}, fmt.Errorf("encode order request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, fmt.Errorf("create order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Order{}, fmt.Errorf("send order request: %w", err)
	}
	defer resp.Body.Close()
	payloadBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return Order{}, fmt.Errorf("read order response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return Order{}, ErrBadRequest
	default:
		return Order{}, ErrUnavailable
	}
	var order Order
	if err := json.Unmarshal(payloadBytes, &order); err != nil {
		return Order{}, fmt.Errorf("decode order response: %w", err)
	}
	if order.ID == "" {
		return Order{}, ErrUnavailable
	}
	return order, nil
}
