package cart

import (
	"context"
	"testing"

	"github.com/glowmart/storefront-cart/pkg/instance"
)

type stubTransport struct {
	published []Notice
	incoming  chan Notice
}

func (s *stubTransport) Publish(_ context.Context, notice Notice) error {
	s.published = append(s.published, notice)
	return nil
}

func (s *stubTransport) Listen(ctx context.Context, deliver func(Notice)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notice, ok := <-s.incoming:
			if !ok {
				return nil
			}
			deliver(notice)
		}
	}
}

func TestNotifyPublishesWithOrigin(t *testing.T) {
	transport := &stubTransport{}
	bus := NewBroadcaster(transport, nil, nil)

	bus.Notify(context.Background(), "owner-1")

	if len(transport.published) != 1 {
		t.Fatalf("expected one published notice, got %d", len(transport.published))
	}
	notice := transport.published[0]
	if notice.Owner != "owner-1" {
		t.Fatalf("unexpected owner %q", notice.Owner)
	}
	if notice.Origin != instance.ID() {
		t.Fatalf("notice must carry this instance's origin, got %q", notice.Origin)
	}
}

func TestRunDropsOwnEchoAndDeliversForeignNotices(t *testing.T) {
	transport := &stubTransport{incoming: make(chan Notice)}
	bus := NewBroadcaster(transport, nil, nil)

	delivered := make(chan struct{}, 2)
	defer bus.Subscribe("owner-1", func() { delivered <- struct{}{} })()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bus.Run(ctx) }()

	// The echo of this instance's own publish must be skipped; its local
	// delivery already happened synchronously in Notify.
	transport.incoming <- Notice{Owner: "owner-1", Origin: instance.ID()}
	transport.incoming <- Notice{Owner: "owner-1", Origin: "other-instance"}

	<-delivered
	select {
	case <-delivered:
		t.Fatalf("own echo must not be re-delivered")
	default:
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSubscribeUnsubscribeIsIdempotent(t *testing.T) {
	bus := NewBroadcaster(nil, nil, nil)

	calls := 0
	unsubscribe := bus.Subscribe("owner-1", func() { calls++ })

	bus.Notify(context.Background(), "owner-1")
	unsubscribe()
	unsubscribe()
	bus.Notify(context.Background(), "owner-1")

	if calls != 1 {
		t.Fatalf("expected exactly one delivery, got %d", calls)
	}
}

func TestMultipleSubscribersEachNotified(t *testing.T) {
	bus := NewBroadcaster(nil, nil, nil)

	first, second := 0, 0
	defer bus.Subscribe("owner-1", func() { first++ })()
	defer bus.Subscribe("owner-1", func() { second++ })()

	bus.Notify(context.Background(), "owner-1")

	if first != 1 || second != 1 {
		t.Fatalf("expected both handlers to fire once, got %d and %d", first, second)
	}
}
