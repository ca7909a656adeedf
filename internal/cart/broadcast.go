package cart

import (
	"context"
	"sync"

	"github.com/glowmart/storefront-cart/pkg/instance"
	"github.com/glowmart/storefront-cart/pkg/logger"
	"github.com/glowmart/storefront-cart/pkg/metrics"
)

// Notice is the wire form of a cart change signal. Handlers never see it;
// the origin field only exists so an instance can skip the echo of its own
// publishes on the shared channel.
type Notice struct {
	Owner  string `json:"owner"`
	Origin string `json:"origin"`
}

// RemoteTransport carries change signals between instances that share the
// same cart storage. Delivery is best-effort and unordered; in-process
// subscribers are always notified directly by the Broadcaster first.
type RemoteTransport interface {
	Publish(ctx context.Context, notice Notice) error
	Listen(ctx context.Context, deliver func(Notice)) error
}

// Broadcaster fans cart change signals out to in-process subscribers and,
// when a remote transport is configured, to other instances. Notifications
// are level-triggered and payload-less: a subscriber reloads the cart itself,
// and there is no replay for handlers subscribed after the fact.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]func()
	nextID uint64

	remote  RemoteTransport
	origin  string
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// NewBroadcaster builds a broadcaster. remote may be nil for single-instance
// deployments and tests.
func NewBroadcaster(remote RemoteTransport, logg *logger.Logger, m *metrics.CartMetrics) *Broadcaster {
	return &Broadcaster{
		subs:    make(map[string]map[uint64]func()),
		remote:  remote,
		origin:  instance.ID(),
		logg:    logg,
		metrics: m,
	}
}

// Subscribe registers handler for the owner's cart change signals and returns
// the function that deregisters it. A new subscriber receives no catch-up
// delivery; it must Load the cart once itself.
func (b *Broadcaster) Subscribe(ownerID string, handler func()) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	handlers, ok := b.subs[ownerID]
	if !ok {
		handlers = make(map[uint64]func())
		b.subs[ownerID] = handlers
	}
	handlers[id] = handler
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		if handlers, ok := b.subs[ownerID]; ok {
			delete(handlers, id)
			if len(handlers) == 0 {
				delete(b.subs, ownerID)
			}
		}
		b.mu.Unlock()
	}
}

// Notify delivers the change signal to in-process subscribers synchronously,
// then publishes it for other instances. The local fan-out must not depend on
// the remote transport: the shared channel does not echo reliably enough to
// carry a writer's own notification.
func (b *Broadcaster) Notify(ctx context.Context, ownerID string) {
	b.deliverLocal(ownerID, "local")

	if b.remote == nil {
		return
	}
	if err := b.remote.Publish(ctx, Notice{Owner: ownerID, Origin: b.origin}); err != nil && b.logg != nil {
		b.logg.Error(ctx, "cart.notify.remote_publish_failed", err)
	}
}

// Run consumes the remote transport until ctx is done. Notices published by
// this instance are dropped: their local delivery already happened in Notify.
func (b *Broadcaster) Run(ctx context.Context) error {
	if b.remote == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.remote.Listen(ctx, func(notice Notice) {
		if notice.Origin == b.origin {
			return
		}
		b.deliverLocal(notice.Owner, "remote")
	})
}

func (b *Broadcaster) deliverLocal(ownerID, transport string) {
	b.mu.RLock()
	handlers := make([]func(), 0, len(b.subs[ownerID]))
	for _, handler := range b.subs[ownerID] {
		handlers = append(handlers, handler)
	}
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler()
		b.metrics.IncNotification(transport)
	}
}
