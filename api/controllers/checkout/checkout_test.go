package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glowmart/storefront-cart/api/middleware"
	cartsvc "github.com/glowmart/storefront-cart/internal/cart"
	checkoutsvc "github.com/glowmart/storefront-cart/internal/checkout"
	"github.com/glowmart/storefront-cart/internal/orders"
	"github.com/glowmart/storefront-cart/pkg/config"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/kv"
)

const owner = "user:shopper-1"

func newTestService(t *testing.T, backendURL string) (*checkoutsvc.Service, *cartsvc.Store) {
	t.Helper()
	store := kv.NewMemory()
	carts, err := cartsvc.NewStore(cartsvc.Params{KV: store, Bus: cartsvc.NewBroadcaster(nil, nil, nil)})
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	var ordersClient *orders.Client
	if backendURL != "" {
		ordersClient, err = orders.NewClient(config.BackendConfig{BaseURL: backendURL, Timeout: 5 * time.Second}, nil)
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
	}

	svc, err := checkoutsvc.NewService(checkoutsvc.Params{KV: store, Cart: carts, Orders: ordersClient, TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc, carts
}

func withOwner(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithCartOwner(req.Context(), owner))
}

func TestBuyNowThenRedeem(t *testing.T) {
	svc, carts := newTestService(t, "")

	body := `{"productId":"SKU1","qty":2,"name":"Serum","price":18}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/buy-now", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	BuyNow(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202 got %d: %s", resp.Code, resp.Body.String())
	}

	req = withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/redeem", nil))
	resp = httptest.NewRecorder()
	Redeem(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			Product *checkoutsvc.StagedProduct `json:"product"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Product == nil || envelope.Data.Product.ProductID != "SKU1" {
		t.Fatalf("unexpected redeemed product %+v", envelope.Data.Product)
	}

	if count := carts.ItemCount(context.Background(), owner); count != 2 {
		t.Fatalf("expected 2 items folded into cart, got %d", count)
	}
}

func TestBuyNowRejectsMissingProduct(t *testing.T) {
	svc, _ := newTestService(t, "")

	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/checkout/buy-now", strings.NewReader(`{"qty":1}`)))
	resp := httptest.NewRecorder()
	BuyNow(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestSubmitOrderSuccess(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"order":{"orderId":"ORD-9"}}`))
	}))
	defer server.Close()

	svc, carts := newTestService(t, server.URL)
	carts.AddOrIncrement(context.Background(), owner, "SKU1", 1, nil)

	body := `{"name":"Jamie Doe","address":"1 Main St","phone":"555-0100","city":"Springfield","country":"United States","zip":"12345","shippingMethod":"standard","paymentInfo":{"method":"credit_card"}}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	req = req.WithContext(middleware.WithBearerToken(req.Context(), "tok-1"))
	resp := httptest.NewRecorder()
	SubmitOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["orderId"] != "ORD-9" {
		t.Fatalf("unexpected order id %q", envelope.Data["orderId"])
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("bearer token not forwarded, got %q", gotAuth)
	}
	if count := carts.ItemCount(context.Background(), owner); count != 0 {
		t.Fatalf("expected cart cleared, %d items remain", count)
	}
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	svc, _ := newTestService(t, "http://localhost:9")

	body := `{"name":"Jamie","address":"1 Main St","phone":"555-0100","city":"Springfield","country":"US","zip":"12345","shippingMethod":"standard","paymentInfo":{"method":"cod"}}`
	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body)))
	resp := httptest.NewRecorder()
	SubmitOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %s", envelope.Error.Code)
	}
}

func TestSubmitOrderRejectsInvalidBody(t *testing.T) {
	svc, _ := newTestService(t, "http://localhost:9")

	req := withOwner(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"name":"Jamie"}`)))
	resp := httptest.NewRecorder()
	SubmitOrder(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
