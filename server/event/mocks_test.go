package event

import "context"

type mockPublisher struct {
	publishFunc func(ctx context.Context, e Event) error
}

func (m mockPublisher) Publish(ctx context.Context, e Event) error {
	return m.publishFunc(ctx, e)
}
