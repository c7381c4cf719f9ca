package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

type mockSubscriber struct {
	publishFunc   func(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	subscribeFunc func(ctx context.Context, channels ...string) *redis.PubSub
}

func (m mockSubscriber) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	return m.publishFunc(ctx, channel, message)
}

func (m mockSubscriber) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return m.subscribeFunc(ctx, channels...)
}
