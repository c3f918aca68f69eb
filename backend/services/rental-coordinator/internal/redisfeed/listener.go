package redisfeed

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Listener subscribes to the store change feed and triggers a full refresh of
// the active-session cache on every event. It is a cache-invalidation signal
// only; billing decisions never read from it.
type Listener struct {
	client  *redis.Client
	channel string
	refresh func(context.Context) error
	logger  *zap.Logger
}

// NewListener builds listener.
func NewListener(client *redis.Client, channel string, refresh func(context.Context) error, logger *zap.Logger) *Listener {
	return &Listener{
		client:  client,
		channel: channel,
		refresh: refresh,
		logger:  logger,
	}
}

// Run subscribes and blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	pubsub := l.client.Subscribe(ctx, l.channel)
	defer pubsub.Close()

	l.logger.Info("change feed subscribed", zap.String("channel", l.channel))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("change feed subscription closed")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := l.refresh(ctx); err != nil {
				l.logger.Warn("cache refresh after change event failed",
					zap.String("payload", msg.Payload),
					zap.Error(err),
				)
			}
		}
	}
}
