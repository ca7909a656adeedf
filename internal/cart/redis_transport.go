package cart

import (
	"context"
	"errors"

	gojson "github.com/goccy/go-json"

	pkgredis "github.com/glowmart/storefront-cart/pkg/redis"
)

// RedisTransport carries change notices over a shared Redis pub/sub channel.
// Delivery to other instances is best-effort: Redis pub/sub keeps no backlog,
// which matches the no-replay contract of the broadcaster.
type RedisTransport struct {
	client  *pkgredis.Client
	channel string
}

func NewRedisTransport(client *pkgredis.Client, channel string) (*RedisTransport, error) {
	if client == nil {
		return nil, errors.New("cart: redis client required")
	}
	if channel == "" {
		return nil, errors.New("cart: channel name required")
	}
	return &RedisTransport{client: client, channel: channel}, nil
}

func (t *RedisTransport) Publish(ctx context.Context, notice Notice) error {
	payload, err := gojson.Marshal(notice)
	if err != nil {
		return err
	}
	return t.client.Publish(ctx, t.channel, payload)
}

// Listen blocks consuming the channel until ctx is done. Messages that fail
// to decode are dropped; a malformed notice is not worth killing the
// subscription over.
func (t *RedisTransport) Listen(ctx context.Context, deliver func(Notice)) error {
	sub, err := t.client.Subscribe(ctx, t.channel)
	if err != nil {
		return err
	}
	defer sub.Close()

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("cart: subscription channel closed")
			}
			var notice Notice
			if err := gojson.Unmarshal([]byte(msg.Payload), &notice); err != nil {
				continue
			}
			deliver(notice)
		}
	}
}
