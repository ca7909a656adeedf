// Package checkout stages buy-now purchases and submits orders to the
// backend commerce API on behalf of the cart owner.
package checkout

import (
	"context"
	"errors"
	"time"

	gojson "github.com/goccy/go-json"

	"github.com/glowmart/storefront-cart/internal/cart"
	"github.com/glowmart/storefront-cart/internal/orders"
	pkgerrors "github.com/glowmart/storefront-cart/pkg/errors"
	"github.com/glowmart/storefront-cart/pkg/kv"
	"github.com/glowmart/storefront-cart/pkg/logger"
)

// StagedProduct is the single product held aside by a buy-now click.
// It carries the same pricing snapshot as a cart line so the product
// renders correctly on the checkout page without a catalog round trip.
type StagedProduct struct {
	ProductID     string   `json:"productId"`
	Qty           int      `json:"qty"`
	Name          string   `json:"name,omitempty"`
	Image         string   `json:"image,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	LabelledPrice *float64 `json:"labelledPrice,omitempty"`
}

// Params collects the service dependencies.
type Params struct {
	KV     kv.Store
	Cart   *cart.Store
	Orders *orders.Client
	Logger *logger.Logger

	// KeyFn maps an owner to the buy-now staging key. Defaults to
	// "gm:buynow:" + owner when unset.
	KeyFn func(ownerID string) string

	// TTL bounds how long a staged product survives before the
	// checkout page redeems it.
	TTL time.Duration
}

// Service owns the buy-now staging area and order submission flow.
type Service struct {
	store  kv.Store
	carts  *cart.Store
	orders *orders.Client
	logg   *logger.Logger
	keyFn  func(ownerID string) string
	ttl    time.Duration
}

func NewService(params Params) (*Service, error) {
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service requires a kv store")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout service requires a cart store")
	}
	keyFn := params.KeyFn
	if keyFn == nil {
		keyFn = func(ownerID string) string { return "gm:buynow:" + ownerID }
	}
	return &Service{
		store:  params.KV,
		carts:  params.Cart,
		orders: params.Orders,
		logg:   params.Logger,
		keyFn:  keyFn,
		ttl:    params.TTL,
	}, nil
}

// Stage holds a single product aside for the owner's next checkout
// visit. A second buy-now click overwrites the previous staging.
func (s *Service) Stage(ctx context.Context, ownerID string, product StagedProduct) error {
	if product.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if product.Qty <= 0 {
		product.Qty = 1
	}
	payload, err := gojson.Marshal(product)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode staged product")
	}
	if err := s.store.Set(ctx, s.keyFn(ownerID), payload, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stage buy-now product")
	}
	return nil
}

// Redeem consumes the owner's staged product, if any, and folds it
// into the cart. The staging key is one-shot: it is deleted whether or
// not the fold changed anything, so a refresh of the checkout page
// does not re-add the product. A product already present in the cart
// is left alone.
func (s *Service) Redeem(ctx context.Context, ownerID string) (*StagedProduct, error) {
	key := s.keyFn(ownerID)
	payload, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read buy-now staging")
	}
	if err := s.store.Del(ctx, key); err != nil && s.logg != nil {
		s.logg.Error(ctx, "checkout.redeem.delete_failed", err)
	}

	var product StagedProduct
	if err := gojson.Unmarshal(payload, &product); err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "checkout.redeem.decode_failed", err)
		}
		return nil, nil
	}
	if product.ProductID == "" {
		return nil, nil
	}

	if _, exists := s.carts.Load(ctx, ownerID).Find(product.ProductID); !exists {
		s.carts.AddOrIncrement(ctx, ownerID, product.ProductID, product.Qty, &cart.Snapshot{
			Name:          product.Name,
			Images:        imageList(product.Image),
			Price:         product.Price,
			LabelledPrice: product.LabelledPrice,
		})
	}
	return &product, nil
}

// SubmitOrder sends the owner's cart to the backend order API and
// clears the cart once the backend accepts it.
func (s *Service) SubmitOrder(ctx context.Context, ownerID string, input orders.SubmitInput, bearerToken string) (string, error) {
	if s.orders == nil {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "order submission is not configured")
	}

	lines := s.carts.Load(ctx, ownerID)
	if len(lines) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	input.Products = make([]orders.ProductRef, 0, len(lines))
	for _, line := range lines {
		input.Products = append(input.Products, orders.ProductRef{
			ProductID: line.ProductID,
			Qty:       line.Qty,
		})
	}

	orderID, err := s.orders.Submit(ctx, input, bearerToken)
	if err != nil {
		return "", err
	}
	s.carts.Clear(ctx, ownerID)
	return orderID, nil
}

func imageList(image string) []string {
	if image == "" {
		return nil
	}
	return []string{image}
}
