package orders

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gojson "github.com/goccy/go-json"

	"github.com/glowmart/storefront-cart/pkg/config"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

// ProductRef identifies one ordered cart line.
type ProductRef struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

// PaymentInfo names the payment method chosen at checkout. The backend owns
// actual payment processing.
type PaymentInfo struct {
	Method string `json:"method"`
}

// SubmitInput is the order payload the storefront backend expects.
type SubmitInput struct {
	Name           string       `json:"name"`
	Address        string       `json:"address"`
	Phone          string       `json:"phone"`
	Products       []ProductRef `json:"products"`
	Email          string       `json:"email"`
	City           string       `json:"city"`
	Country        string       `json:"country"`
	Zip            string       `json:"zip"`
	ShippingMethod string       `json:"shippingMethod"`
	PaymentInfo    PaymentInfo  `json:"paymentInfo"`
}

type submitResponse struct {
	Order struct {
		OrderID string `json:"orderId"`
	} `json:"order"`
	Message string `json:"message"`
}

// Client talks to the storefront backend's orders endpoint. It owns no cart
// state; callers clear the cart themselves after a successful submission.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// NewClient builds an orders client from the backend configuration.
func NewClient(cfg config.BackendConfig, logg *logger.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("orders: backend base url required")
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

// Submit posts the order, forwarding the shopper's bearer token, and returns
// the backend's order identifier.
func (c *Client) Submit(ctx context.Context, input SubmitInput, bearerToken string) (string, error) {
	payload, err := gojson.Marshal(input)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode order payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/orders", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read order response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", c.errorFromResponse(resp.StatusCode, body)
	}

	var decoded submitResponse
	if err := gojson.Unmarshal(body, &decoded); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order response")
	}
	if decoded.Order.OrderID == "" {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "order response missing order id")
	}
	return decoded.Order.OrderID, nil
}

func (c *Client) errorFromResponse(status int, body []byte) error {
	message := fmt.Sprintf("order submission failed with status %d", status)
	var decoded submitResponse
	if err := gojson.Unmarshal(body, &decoded); err == nil && decoded.Message != "" {
		message = decoded.Message
	}
	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case status >= 400 && status < 500:
		return pkgerrors.New(pkgerrors.CodeValidation, message)
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, message)
	}
}
