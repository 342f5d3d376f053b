package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/coderun23-cloud/gym-manegement-system/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.chapa.co/v1"

	statusSuccess = "success"
)

// Error is returned for any failed gateway interaction. Body carries the raw
// upstream payload when one was received, for logging and diagnostics.
type Error struct {
	Op   string
	Body json.RawMessage
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("chapa %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("chapa %s failed: %s", e.Op, string(e.Body))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// InitializeRequest carries everything the hosted checkout needs. Amounts are
// in minor units; the wire format uses major units.
type InitializeRequest struct {
	AmountCents int64
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	TxRef       string
	CallbackURL string
	ReturnURL   string
}

type initializePayload struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	TxRef       string `json:"tx_ref"`
	CallbackURL string `json:"callback_url"`
	ReturnURL   string `json:"return_url"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

// VerifyResult is the gateway's authoritative answer for a transaction.
type VerifyResult struct {
	Status string
	Raw    json.RawMessage
}

func (v *VerifyResult) Succeeded() bool {
	return v.Status == statusSuccess
}

// Client talks to the Chapa transaction API with a server-held bearer secret.
type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(baseURL, secretKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   baseURL,
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Initialize starts a hosted checkout and returns the redirect URL.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (string, error) {
	payload := initializePayload{
		Amount:      formatAmount(req.AmountCents),
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Phone:       req.Phone,
		TxRef:       req.TxRef,
		CallbackURL: req.CallbackURL,
		ReturnURL:   req.ReturnURL,
	}

	body, err := c.post(ctx, "/transaction/initialize", payload)
	if err != nil {
		metrics.RecordGatewayRequest("initialize", "error")
		return "", &Error{Op: "initialize", Err: err}
	}

	var resp initializeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		metrics.RecordGatewayRequest("initialize", "error")
		return "", &Error{Op: "initialize", Body: body, Err: fmt.Errorf("malformed response: %w", err)}
	}

	if resp.Status != statusSuccess || resp.Data.CheckoutURL == "" {
		metrics.RecordGatewayRequest("initialize", "rejected")
		return "", &Error{Op: "initialize", Body: body}
	}

	metrics.RecordGatewayRequest("initialize", "ok")
	return resp.Data.CheckoutURL, nil
}

// Verify pulls the outcome for a transaction reference directly from the
// gateway. A returned VerifyResult means the gateway answered; whether the
// payment succeeded is in the result, not the error.
func (c *Client) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	url := c.baseURL + "/transaction/verify/" + txRef
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &Error{Op: "verify", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordGatewayRequest("verify", "error")
		return nil, &Error{Op: "verify", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordGatewayRequest("verify", "error")
		return nil, &Error{Op: "verify", Err: err}
	}

	var parsed struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.RecordGatewayRequest("verify", "error")
		return nil, &Error{Op: "verify", Body: body, Err: fmt.Errorf("malformed response: %w", err)}
	}

	metrics.RecordGatewayRequest("verify", "ok")
	return &VerifyResult{Status: parsed.Status, Raw: body}, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// formatAmount renders minor units as the decimal string Chapa expects.
func formatAmount(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100, 'f', 2, 64)
}
