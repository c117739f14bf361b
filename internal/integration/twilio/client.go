package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

var (
	ErrBadRequest  = errors.New("twilio bad request")
	ErrUnavailable = errors.New("twilio unavailable")
)

// Client sends a message through one Twilio channel and returns the delivery
// sid on success.
type Client interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	SendWhatsApp(ctx context.Context, to, body string) (string, error)
}

type HTTPClient struct {
	baseURL        string
	accountSID     string
	authToken      string
	fromNumber     string
	whatsAppNumber string
	httpClient     *http.Client
}

func NewClient(baseURL, accountSID, authToken, fromNumber, whatsAppNumber string, httpClient *http.Client) *HTTPClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{
		baseURL:        trimmed,
		accountSID:     strings.TrimSpace(accountSID),
		authToken:      strings.TrimSpace(authToken),
		fromNumber:     strings.TrimSpace(fromNumber),
		whatsAppNumber: strings.TrimSpace(whatsAppNumber),
		httpClient:     httpClient,
	}
}

type messageResponse struct {
	SID string `json:"sid"`
}

func (c *HTTPClient) SendSMS(ctx context.Context, to, body string) (string, error) {
	return c.send(ctx, c.fromNumber, to, body)
}

func (c *HTTPClient) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	// WhatsApp addresses are the plain number behind a channel prefix.
	formatted := strings.TrimPrefix(strings.TrimSpace(to), "+")
	return c.send(ctx, "whatsapp:"+c.whatsAppNumber, "whatsapp:"+formatted, body)
}

func (c *HTTPClient) send(ctx context.Context, from, to, body string) (string, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(body) == "" {
		return "", ErrBadRequest
	}
	if c.accountSID == "" || c.authToken == "" {
		return "", ErrUnavailable
	}
	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send message request: %w", err)
	}
	defer resp.Body.Close()
	payloadBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read message response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", ErrBadRequest
	default:
		return "", ErrUnavailable
	}
	var parsed messageResponse
	if err := json.Unmarshal(payloadBytes, &parsed); err != nil {
		return "", fmt.Errorf("decode message response: %w", err)
	}
	return parsed.SID, nil
}
