package game

import "context"

type mockBackend struct {
	setupFunc func(ctx context.Context) error
	saveFunc  func(ctx context.Context, r Record) error
	readFunc  func(ctx context.Context, id string) (*Record, error)
	listFunc  func(ctx context.Context, f Filter) ([]Record, error)
	countFunc func(ctx context.Context, f Filter) (int, error)
}

func (m mockBackend) Setup(ctx context.Context) error {
	return m.setupFunc(ctx)
}

func (m mockBackend) Save(ctx context.Context, r Record) error {
	return m.saveFunc(ctx, r)
}

func (m mockBackend) Read(ctx context.Context, id string) (*Record, error) {
	return m.readFunc(ctx, id)
}

func (m mockBackend) List(ctx context.Context, f Filter) ([]Record, error) {
	return m.listFunc(ctx, f)
}

func (m mockBackend) Count(ctx context.Context, f Filter) (int, error) {
	return m.countFunc(ctx, f)
}
