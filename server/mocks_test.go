package server

import (
	"context"
	"net/http"
	"sync"

	"github.com/jacobpatterson1549/tennis-scorer/game"
	"github.com/jacobpatterson1549/tennis-scorer/server/metrics"

	servergame "github.com/jacobpatterson1549/tennis-scorer/server/game"
)

type mockGameService struct {
	playFunc func(ctx context.Context, r servergame.Request) (*servergame.Response, error)
}

func (m mockGameService) Play(ctx context.Context, r servergame.Request) (*servergame.Response, error) {
	return m.playFunc(ctx, r)
}

type mockGameDao struct {
	readFunc          func(ctx context.Context, id string) (*game.State, error)
	listFunc          func(ctx context.Context) ([]game.State, error)
	listFinishedFunc  func(ctx context.Context) ([]game.State, error)
	countTotalFunc    func(ctx context.Context) (int, error)
	countFinishedFunc func(ctx context.Context) (int, error)
	countByWinnerFunc func(ctx context.Context, side game.Side) (int, error)
}

func (m mockGameDao) Read(ctx context.Context, id string) (*game.State, error) {
	return m.readFunc(ctx, id)
}

func (m mockGameDao) List(ctx context.Context) ([]game.State, error) {
	return m.listFunc(ctx)
}

func (m mockGameDao) ListFinished(ctx context.Context) ([]game.State, error) {
	return m.listFinishedFunc(ctx)
}

func (m mockGameDao) CountTotal(ctx context.Context) (int, error) {
	return m.countTotalFunc(ctx)
}

func (m mockGameDao) CountFinished(ctx context.Context) (int, error) {
	return m.countFinishedFunc(ctx)
}

func (m mockGameDao) CountByWinner(ctx context.Context, side game.Side) (int, error) {
	return m.countByWinnerFunc(ctx, side)
}

type mockStats struct {
	snapshotFunc func() (*metrics.Snapshot, error)
}

func (m mockStats) Snapshot() (*metrics.Snapshot, error) {
	return m.snapshotFunc()
}

type mockLive struct {
	serveHTTPFunc       func(w http.ResponseWriter, r *http.Request)
	closeFunc           func()
	subscriberCountFunc func() int
}

func (m mockLive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.serveHTTPFunc(w, r)
}

func (m mockLive) Close() {
	m.closeFunc()
}

func (m mockLive) SubscriberCount() int {
	return m.subscriberCountFunc()
}

type mockWorker struct {
	runFunc func(ctx context.Context, wg *sync.WaitGroup) error
}

func (m mockWorker) Run(ctx context.Context, wg *sync.WaitGroup) error {
	return m.runFunc(ctx, wg)
}
