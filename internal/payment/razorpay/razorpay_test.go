package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
)

func signForTest(content, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(content))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyPaymentSignature(t *testing.T) {
	cfg := &Config{KeyID: "rzp_test_key", KeySecret: "secret123"}
	sig := signForTest("order_abc|pay_xyz", "secret123")

	if err := VerifyPaymentSignature(cfg, "order_abc", "pay_xyz", sig); err != nil {
		t.Fatalf("valid signature rejected: %v", err)
	}
	if err := VerifyPaymentSignature(cfg, "order_abc", "pay_xyz", "deadbeef"); err == nil {
		t.Fatalf("invalid signature accepted")
	}
	if err := VerifyPaymentSignature(cfg, "order_abc", "pay_other", sig); err == nil {
		t.Fatalf("signature for different payment accepted")
	}
}

func TestVerifyWebhookSignature(t *testing.T) {
	cfg := &Config{KeyID: "k", KeySecret: "s", WebhookSecret: "hook-secret"}
	body := []byte(`{"event":"payment.captured"}`)
	sig := signForTest(string(body), "hook-secret")

	if err := VerifyWebhookSignature(cfg, body, sig); err != nil {
		t.Fatalf("valid webhook signature rejected: %v", err)
	}
	if err := VerifyWebhookSignature(cfg, []byte(`{"event":"tampered"}`), sig); err == nil {
		t.Fatalf("tampered body accepted")
	}
}

func TestCreateOrderSendsSubunitsAndParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ordersAPIPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_key" || pass != "secret123" {
			t.Errorf("basic auth not forwarded")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_live_1","amount":12550,"currency":"INR","status":"created"}`))
	}))
	defer server.Close()

	cfg := &Config{BaseURL: server.URL, KeyID: "rzp_test_key", KeySecret: "secret123"}
	cfg.normalize()

	result, err := CreateOrder(context.Background(), cfg, CreateOrderInput{
		OrderNo:  "KM-20260831-0001",
		Amount:   "125.50",
		Currency: "INR",
	})
	if err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	if result.ProviderOrderID != "order_live_1" {
		t.Fatalf("provider order id want order_live_1 got %s", result.ProviderOrderID)
	}
	if result.Amount != 12550 {
		t.Fatalf("amount want 12550 got %d", result.Amount)
	}
}

func TestToSubunits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"125.50", 12550},
		{"125.5", 12550},
		{"125", 12500},
		{"0.05", 5},
	}
	for _, tc := range cases {
		got, err := toSubunits(tc.in)
		if err != nil {
			t.Fatalf("toSubunits(%q) failed: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("toSubunits(%q) want %d got %d", tc.in, tc.want, got)
		}
	}
	if _, err := toSubunits("12a.00"); err == nil {
		t.Fatalf("invalid amount accepted")
	}
}
