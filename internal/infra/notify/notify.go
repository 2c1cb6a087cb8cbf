// Package notify implements the best-effort change-notification channel.
//
// Each client broadcasts "a database change occurred" after a successful
// write and refreshes when it hears the same from the partner's client.
// The channel is optional: losing it degrades to polling, never to a
// correctness failure, so every error here is logged and swallowed.
package notify

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel matches the broadcast channel name the clients share.
const DefaultChannel = "database-changes"

// Notifier is the broadcast collaborator.
type Notifier interface {
	// Publish announces that a refresh should occur. Best-effort.
	Publish(ctx context.Context)
	// Wake returns a channel that fires when a remote change is
	// announced. May be nil for implementations that cannot listen.
	Wake() <-chan struct{}
	// Close releases the underlying resources.
	Close() error
}

// ─── Redis Notifier ─────────────────────────────────────────────────────────

// Redis broadcasts over a pub/sub channel.
type Redis struct {
	rdb     *redis.Client
	channel string
	sub     *redis.PubSub
	wake    chan struct{}
}

// NewRedis connects to addr and starts listening. An empty channel name
// falls back to DefaultChannel.
func NewRedis(ctx context.Context, addr string, db int, channel string) (*Redis, error) {
	if channel == "" {
		channel = DefaultChannel
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	n := &Redis{
		rdb:     rdb,
		channel: channel,
		sub:     rdb.Subscribe(ctx, channel),
		wake:    make(chan struct{}, 1),
	}
	go n.listen()
	return n, nil
}

func (n *Redis) listen() {
	forward(n.sub.Channel(), n.wake)
}

// forward coalesces pub/sub messages into wake: one pending signal is
// enough. It never closes wake; when the subscription ends the notifier
// simply goes silent and the store falls back to its polling interval.
// A closed wake channel would make the refresh loop's select fire
// continuously.
func forward(msgs <-chan *redis.Message, wake chan<- struct{}) {
	for range msgs {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// Publish announces a change. Failures are logged and dropped.
func (n *Redis) Publish(ctx context.Context) {
	if err := n.rdb.Publish(ctx, n.channel, "refresh").Err(); err != nil {
		log.Printf("notify: publish: %v", err)
	}
}

// Wake returns the coalesced remote-change channel.
func (n *Redis) Wake() <-chan struct{} { return n.wake }

// Close stops the subscription and closes the connection.
func (n *Redis) Close() error {
	n.sub.Close()
	return n.rdb.Close()
}

// ─── Noop Notifier ──────────────────────────────────────────────────────────

// Noop is the notifier used when no channel is configured; clients then
// rely on the polling interval alone.
type Noop struct{}

func (Noop) Publish(context.Context) {}
func (Noop) Wake() <-chan struct{}   { return nil }
func (Noop) Close() error            { return nil }
