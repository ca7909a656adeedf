package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glowmart/storefront-cart/pkg/config"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
)

func testInput() SubmitInput {
	return SubmitInput{
		Name:           "Jamie Doe",
		Address:        "1 Main St",
		Phone:          "555-0100",
		Email:          "jamie@example.com",
		City:           "Springfield",
		Country:        "United States",
		Zip:            "12345",
		ShippingMethod: "standard",
		PaymentInfo:    PaymentInfo{Method: "credit_card"},
		Products:       []ProductRef{{ProductID: "SKU1", Qty: 2}},
	}
}

func TestSubmitSuccess(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/orders" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order":{"orderId":"ORD-42"}}`))
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	orderID, err := client.Submit(context.Background(), testInput(), "token-123")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if orderID != "ORD-42" {
		t.Fatalf("unexpected order id %q", orderID)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("bearer token not forwarded, got %q", gotAuth)
	}

	products, ok := gotBody["products"].([]any)
	if !ok || len(products) != 1 {
		t.Fatalf("unexpected products payload: %v", gotBody["products"])
	}
	first := products[0].(map[string]any)
	if first["productId"] != "SKU1" || first["qty"] != float64(2) {
		t.Fatalf("unexpected product ref: %v", first)
	}
}

func TestSubmitBackendRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"address is required"}`))
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Submit(context.Background(), testInput(), "")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if typed.Message() != "address is required" {
		t.Fatalf("expected backend message to surface, got %q", typed.Message())
	}
}

func TestSubmitUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Submit(context.Background(), testInput(), "expired")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}

func TestSubmitMissingOrderID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order":{}}`))
	}))
	defer server.Close()

	client, err := NewClient(config.BackendConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	_, err = client.Submit(context.Background(), testInput(), "")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
