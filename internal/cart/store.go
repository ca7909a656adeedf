package cart

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/glowmart/storefront-cart/pkg/kv"
	"github.com/glowmart/storefront-cart/pkg/logger"
	"github.com/glowmart/storefront-cart/pkg/metrics"
)

const defaultKeyPrefix = "gm:cart:"

// Params groups the dependencies for the cart store.
type Params struct {
	KV      kv.Store
	Logger  *logger.Logger
	Bus     *Broadcaster
	Metrics *metrics.CartMetrics
	// KeyFn maps an owner to the storage key holding their cart. Defaults
	// to the gm:cart:{owner} layout used by the Redis backend.
	KeyFn func(ownerID string) string
	// TTL applied on every write; zero keeps carts forever.
	TTL time.Duration
}

// Store owns the canonical cart for each owner. All mutations load the
// persisted list, apply the change, write the full list back and broadcast a
// change signal. The caller that mutates sees the result synchronously; every
// other surface converges by reloading from its subscription handler.
//
// Expected conditions never surface as errors: a missing or corrupt persisted
// cart reads as empty, an unknown product is a no-op, and a failed write is
// logged while the in-memory result is still returned.
type Store struct {
	kv      kv.Store
	logg    *logger.Logger
	bus     *Broadcaster
	metrics *metrics.CartMetrics
	keyFn   func(string) string
	ttl     time.Duration
}

// NewStore builds a cart store backed by the provided stack.
func NewStore(params Params) (*Store, error) {
	if params.KV == nil {
		return nil, errors.New("cart: kv store required")
	}
	if params.Bus == nil {
		return nil, errors.New("cart: broadcaster required")
	}
	keyFn := params.KeyFn
	if keyFn == nil {
		keyFn = func(ownerID string) string { return defaultKeyPrefix + ownerID }
	}
	return &Store{
		kv:      params.KV,
		logg:    params.Logger,
		bus:     params.Bus,
		metrics: params.Metrics,
		keyFn:   keyFn,
		ttl:     params.TTL,
	}, nil
}

// Load decodes the persisted cart. A missing key, a read failure and a
// decode failure all read as an empty cart; nothing is raised.
func (s *Store) Load(ctx context.Context, ownerID string) Cart {
	data, err := s.kv.Get(ctx, s.keyFn(ownerID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) && s.logg != nil {
			s.logg.Error(ctx, "cart.load_failed", err)
		}
		return Cart{}
	}
	cart, err := decodeCart(data)
	if err != nil {
		s.metrics.IncDecodeError()
		if s.logg != nil {
			s.logg.Error(ctx, "cart.decode_failed", err)
		}
		return Cart{}
	}
	return cart
}

// Save persists the cart, replacing the prior value, and broadcasts the
// change signal. A failed write is logged and swallowed; the broadcast is
// skipped so subscribers never observe state that was not stored.
func (s *Store) Save(ctx context.Context, ownerID string, cart Cart) {
	data, err := encodeCart(cart)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart.encode_failed", err)
		}
		return
	}
	if err := s.kv.Set(ctx, s.keyFn(ownerID), data, s.ttl); err != nil {
		s.metrics.IncPersistError()
		if s.logg != nil {
			s.logg.Error(ctx, "cart.save_failed", err)
		}
		return
	}
	s.bus.Notify(ctx, ownerID)
}

// AddOrIncrement adds qty to the owner's line for the product, creating the
// line from the snapshot when absent. The quantity is incremental: repeated
// adds accumulate, and an existing line whose sum drops to zero or below is
// removed. A brand-new line is inserted whatever the sign of qty; that
// asymmetry matches the behavior every storefront surface has relied on.
// The snapshot never overwrites fields captured by an earlier add.
func (s *Store) AddOrIncrement(ctx context.Context, ownerID, productID string, qty int, snap *Snapshot) Cart {
	cart := s.Load(ctx, ownerID)

	if i := cart.index(productID); i >= 0 {
		newQty := cart[i].Qty + qty
		if newQty <= 0 {
			cart = append(cart[:i], cart[i+1:]...)
		} else {
			cart[i].Qty = newQty
		}
	} else {
		cart = append(cart, newLine(productID, qty, snap))
	}

	s.metrics.IncMutation("add_or_increment")
	s.Save(ctx, ownerID, cart)
	return cart
}

// SetQuantity replaces the line's quantity, removing the line when qty is
// zero or negative. Unknown products are a no-op and nothing is written.
func (s *Store) SetQuantity(ctx context.Context, ownerID, productID string, qty int) Cart {
	cart := s.Load(ctx, ownerID)

	i := cart.index(productID)
	if i < 0 {
		return cart
	}
	if qty <= 0 {
		cart = append(cart[:i], cart[i+1:]...)
	} else {
		cart[i].Qty = qty
	}

	s.metrics.IncMutation("set_quantity")
	s.Save(ctx, ownerID, cart)
	return cart
}

// RemoveLine deletes the line for the product. When the product is not in
// the cart the write and the broadcast are skipped entirely.
func (s *Store) RemoveLine(ctx context.Context, ownerID, productID string) Cart {
	cart := s.Load(ctx, ownerID)

	i := cart.index(productID)
	if i < 0 {
		return cart
	}
	cart = append(cart[:i], cart[i+1:]...)

	s.metrics.IncMutation("remove_line")
	s.Save(ctx, ownerID, cart)
	return cart
}

// Clear deletes the persisted cart and broadcasts the change signal.
func (s *Store) Clear(ctx context.Context, ownerID string) {
	if err := s.kv.Del(ctx, s.keyFn(ownerID)); err != nil {
		s.metrics.IncPersistError()
		if s.logg != nil {
			s.logg.Error(ctx, "cart.clear_failed", err)
		}
		return
	}
	s.metrics.IncMutation("clear")
	s.bus.Notify(ctx, ownerID)
}

// ItemCount is the owner's total quantity across all lines.
func (s *Store) ItemCount(ctx context.Context, ownerID string) int {
	return s.Load(ctx, ownerID).ItemCount()
}

// Subtotal is the owner's cart total using add-time price snapshots.
func (s *Store) Subtotal(ctx context.Context, ownerID string) decimal.Decimal {
	return s.Load(ctx, ownerID).Subtotal()
}

// TotalSavings is the owner's discount total across discounted lines.
func (s *Store) TotalSavings(ctx context.Context, ownerID string) decimal.Decimal {
	return s.Load(ctx, ownerID).TotalSavings()
}

// Subscribe registers handler for the owner's cart change signals and
// returns the deregistration function.
func (s *Store) Subscribe(ownerID string, handler func()) func() {
	return s.bus.Subscribe(ownerID, handler)
}
