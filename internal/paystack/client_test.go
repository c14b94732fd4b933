package paystack

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sign(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	payload := []byte(`{"event":"charge.success","data":{"reference":"PSK-1"}}`)
	secret := "sk_test_secret"

	if !ValidateSignature(payload, sign(payload, secret), secret) {
		t.Error("valid signature rejected")
	}
	if ValidateSignature(payload, sign(payload, "wrong-secret"), secret) {
		t.Error("signature from wrong secret accepted")
	}
	if ValidateSignature([]byte(`tampered`), sign(payload, secret), secret) {
		t.Error("signature over different payload accepted")
	}
	if ValidateSignature(payload, "", secret) {
		t.Error("empty signature accepted")
	}
}

func TestMockModeWithoutSecretKey(t *testing.T) {
	c := New("")

	init, err := c.InitializeTransaction(context.Background(), InitializeRequest{
		Email: "a@b.com", AmountKobo: 500000, Reference: "PSK-mock",
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if !strings.Contains(init.AuthorizationURL, "PSK-mock") {
		t.Errorf("mock url = %q, want reference embedded", init.AuthorizationURL)
	}

	verify, err := c.VerifyTransaction(context.Background(), "PSK-mock")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verify.Status != "success" {
		t.Errorf("mock verify status = %q, want success", verify.Status)
	}
}

func TestInitializeTransactionAgainstStub(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout.test/abc","access_code":"ac_abc","reference":"PSK-9"}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk_test_key", srv.URL)
	data, err := c.InitializeTransaction(context.Background(), InitializeRequest{
		Email: "a@b.com", AmountKobo: 100000, Reference: "PSK-9",
	})
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if gotAuth != "Bearer sk_test_key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if data.AuthorizationURL != "https://checkout.test/abc" || data.AccessCode != "ac_abc" {
		t.Errorf("data = %+v", data)
	}
}

func TestVerifyTransactionAgainstStub(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/PSK-9" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"status":true,"message":"ok","data":{"status":"success","reference":"PSK-9","amount":100000,"channel":"card"}}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk_test_key", srv.URL)
	data, err := c.VerifyTransaction(context.Background(), "PSK-9")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if data.Status != "success" || data.Amount != 100000 {
		t.Errorf("data = %+v", data)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	c := NewWithBaseURL("sk_bad", srv.URL)
	if _, err := c.VerifyTransaction(context.Background(), "PSK-9"); err == nil || !strings.Contains(err.Error(), "Invalid key") {
		t.Fatalf("err = %v, want provider message surfaced", err)
	}
}

func TestParseWebhookChargeData(t *testing.T) {
	event, err := ParseWebhook([]byte(`{"event":"charge.success","data":{"reference":"PSK-7","amount":250000,"status":"success"}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Event != EventChargeSuccess {
		t.Errorf("event = %q", event.Event)
	}

	charge, err := event.ChargeData()
	if err != nil {
		t.Fatalf("charge data: %v", err)
	}
	if charge.Reference != "PSK-7" || charge.Amount != 250000 {
		t.Errorf("charge = %+v", charge)
	}

	if _, err := ParseWebhook([]byte(`not json`)); err == nil {
		t.Error("malformed payload parsed without error")
	}
}
