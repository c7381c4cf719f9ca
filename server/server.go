// Package server runs the http server that plays tennis games and reports on them.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/game"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
	"github.com/jacobpatterson1549/tennis-scorer/server/metrics"

	servergame "github.com/jacobpatterson1549/tennis-scorer/server/game"
)

type (
	// Server runs the site.
	Server struct {
		wg         sync.WaitGroup
		log        log.Logger
		workers    []Worker
		live       Live
		HTTPServer *http.Server
		Config
	}

	// Config contains fields which describe the server.
	Config struct {
		// Port is the TCP port for server http requests.
		Port int
		// StopDur is the maximum duration the server should take to shutdown gracefully.
		StopDur time.Duration
	}

	// Parameters contains the interfaces needed to create a new server.
	Parameters struct {
		// Debug is a flag that causes the ball sequence of each game request to be logged.
		Debug bool
		log.Logger
		// Service plays games that are posted.
		Service GameService
		// Dao reads the saved states of games.
		Dao GameDao
		// Stats reads the counts of games, points, and wins.
		Stats Stats
		// Metrics serves the metrics in the prometheus format.
		Metrics http.Handler
		// Live streams events to websockets.
		Live Live
		// Workers run in the background while the server is running.
		Workers []Worker
		// TimeFunc supplies the timestamps of error responses.
		TimeFunc func() time.Time
	}

	// GameService plays games.
	GameService interface {
		Play(ctx context.Context, r servergame.Request) (*servergame.Response, error)
	}

	// GameDao reads saved game states.
	GameDao interface {
		Read(ctx context.Context, id string) (*game.State, error)
		List(ctx context.Context) ([]game.State, error)
		ListFinished(ctx context.Context) ([]game.State, error)
		CountTotal(ctx context.Context) (int, error)
		CountFinished(ctx context.Context) (int, error)
		CountByWinner(ctx context.Context, side game.Side) (int, error)
	}

	// Stats reads the game counters.
	Stats interface {
		Snapshot() (*metrics.Snapshot, error)
	}

	// Live handles websocket subscriptions to game events.
	Live interface {
		http.Handler
		// Close disconnects all subscribers.
		Close()
		// SubscriberCount is the number of connected websockets.
		SubscriberCount() int
	}

	// Worker runs on its own goroutines until the context is done, calling Done on the WaitGroup when it stops.
	Worker interface {
		Run(ctx context.Context, wg *sync.WaitGroup) error
	}
)

// NewServer creates a Server from the Config.
func (cfg Config) NewServer(p Parameters) (*Server, error) {
	if err := cfg.validate(p); err != nil {
		return nil, fmt.Errorf("creating server: validation: %w", err)
	}
	monitor := runtimeMonitor{
		workers: len(p.Workers),
		live:    p.Live,
	}
	addr := fmt.Sprintf(":%d", cfg.Port)
	s := Server{
		log:     p.Logger,
		workers: p.Workers,
		live:    p.Live,
		HTTPServer: &http.Server{
			Addr:         addr,
			Handler:      p.handler(monitor),
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Config: cfg,
	}
	return &s, nil
}

// validate ensures the configuration and parameters have no errors.
func (cfg Config) validate(p Parameters) error {
	if err := p.validate(); err != nil {
		return err
	}
	switch {
	case cfg.Port <= 0:
		return fmt.Errorf("positive port required")
	case cfg.StopDur <= 0:
		return fmt.Errorf("stop timeout duration required")
	}
	return nil
}

// validate ensures that all of the parameters are present.
func (p Parameters) validate() error {
	switch {
	case p.Logger == nil:
		return fmt.Errorf("log required")
	case p.Service == nil:
		return fmt.Errorf("game service required")
	case p.Dao == nil:
		return fmt.Errorf("game dao required")
	case p.Stats == nil:
		return fmt.Errorf("stats required")
	case p.Metrics == nil:
		return fmt.Errorf("metrics handler required")
	case p.Live == nil:
		return fmt.Errorf("live handler required")
	case p.TimeFunc == nil:
		return fmt.Errorf("time func required")
	}
	for i, w := range p.Workers {
		if w == nil {
			return fmt.Errorf("worker %v is nil", i)
		}
	}
	return nil
}

// Run the server asynchronously until it receives a shutdown signal.
// Errors from starting workers and from the http server stopping are sent on the returned channel.
func (s *Server) Run(ctx context.Context) <-chan error {
	errC := make(chan error, 1+len(s.workers))
	ctx, cancelFunc := context.WithCancel(ctx)
	s.HTTPServer.RegisterOnShutdown(cancelFunc)
	s.HTTPServer.RegisterOnShutdown(s.live.Close)
	for _, w := range s.workers {
		if err := w.Run(ctx, &s.wg); err != nil {
			errC <- fmt.Errorf("running worker: %w", err)
		}
	}
	s.log.Printf("starting http server at http://127.0.0.1%v", s.HTTPServer.Addr)
	go func() {
		errC <- s.HTTPServer.ListenAndServe()
	}()
	return errC
}

// Stop asks the server to shutdown and waits for the shutdown to complete.
// Workers are stopped after the http server stops accepting requests so they can finish work for the last requests.
// An error is returned if the context times out.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancelFunc := context.WithTimeout(ctx, s.StopDur)
	defer cancelFunc()
	if err := s.HTTPServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down http server: %w", err)
	}
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for workers to stop: %w", ctx.Err())
	}
}
