// Package paystack is a minimal client for the pieces of the Paystack API
// this service uses: transaction initialize, transaction verify, and webhook
// signature validation.
package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.paystack.co"

type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func New(secretKey string) *Client {
	return &Client{
		secretKey: secretKey,
		baseURL:   defaultBaseURL,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

// NewWithBaseURL is used by tests to point the client at a stub server.
func NewWithBaseURL(secretKey, baseURL string) *Client {
	c := New(secretKey)
	c.baseURL = baseURL
	return c
}

type InitializeRequest struct {
	Email       string `json:"email"`
	AmountKobo  int64  `json:"amount"` // Paystack wants the smallest unit
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyData struct {
	Status    string `json:"status"` // success, failed, abandoned
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Channel   string `json:"channel"`
	PaidAt    string `json:"paid_at"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction starts a checkout session. Without a configured
// secret key it returns a mock checkout URL so local development works
// without provider credentials.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	if c.secretKey == "" {
		return &InitializeData{
			AuthorizationURL: "https://checkout.paystack.com/mock/" + req.Reference,
			AccessCode:       "mock_" + req.Reference,
			Reference:        req.Reference,
		}, nil
	}

	var data InitializeData
	if err := c.post(ctx, "/transaction/initialize", req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// VerifyTransaction asks the provider for the final state of a charge. In
// mock mode every reference verifies as successful.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyData, error) {
	if c.secretKey == "" {
		return &VerifyData{Status: "success", Reference: reference, Channel: "mock"}, nil
	}

	var data VerifyData
	if err := c.get(ctx, "/transaction/verify/"+reference, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("paystack: decoding response: %w", err)
	}
	if !env.Status {
		return fmt.Errorf("paystack: %s", env.Message)
	}
	return json.Unmarshal(env.Data, out)
}

// ValidateSignature checks the x-paystack-signature header: an HMAC-SHA512
// hex digest of the raw request body keyed with the secret.
func ValidateSignature(payload []byte, signature, secret string) bool {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
