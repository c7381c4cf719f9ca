package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/tennis-scorer/db"
	"github.com/jacobpatterson1549/tennis-scorer/db/firestore"
	"github.com/jacobpatterson1549/tennis-scorer/db/mongo"
	"github.com/jacobpatterson1549/tennis-scorer/db/sql"
	"github.com/jacobpatterson1549/tennis-scorer/db/sql/postgres"
	"github.com/jacobpatterson1549/tennis-scorer/db/sql/sqlite"
	"github.com/jacobpatterson1549/tennis-scorer/server"
	"github.com/jacobpatterson1549/tennis-scorer/server/event"
	"github.com/jacobpatterson1549/tennis-scorer/server/event/nats"
	"github.com/jacobpatterson1549/tennis-scorer/server/event/redis"
	"github.com/jacobpatterson1549/tennis-scorer/server/live"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
	"github.com/jacobpatterson1549/tennis-scorer/server/metrics"
	"github.com/jacobpatterson1549/tennis-scorer/server/telemetry"
	_ "github.com/lib/pq" // register "postgres" database driver from package init() function

	gamedb "github.com/jacobpatterson1549/tennis-scorer/db/game"
	servergame "github.com/jacobpatterson1549/tennis-scorer/server/game"
)

// serviceName identifies the server to brokers and trace collectors.
const serviceName = log.ServiceName

// resources are the connections to close when the server stops, in the reverse order they were opened.
type resources struct {
	closers []func(ctx context.Context) error
}

// add registers the function to be called when the resources are closed.
func (r *resources) add(closeFunc func(ctx context.Context) error) {
	r.closers = append(r.closers, closeFunc)
}

// close calls the close functions, logging any errors.  Each function is only called once.
func (r *resources) close(ctx context.Context, log log.Logger) {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			log.Printf("closing resource: %v", err)
		}
	}
	r.closers = nil
}

// timeFunc is the time of the server.
func timeFunc() time.Time {
	return time.Now().UTC()
}

// dbConfig creates the common database config.
func (m mainFlags) dbConfig() db.Config {
	cfg := db.Config{
		QueryPeriod: time.Duration(m.queryPeriodSec) * time.Second,
	}
	return cfg
}

// gameBackend creates the storage of games.  The first configured database is used, in the order: postgres, sqlite, mongo, firestore.
// Games are kept in memory if no database is configured.
func (m mainFlags) gameBackend(ctx context.Context, r *resources) (gamedb.Backend, error) {
	cfg := m.dbConfig()
	switch {
	case len(m.databaseURL) != 0:
		d, err := sql.Open("postgres", m.databaseURL, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating postgres database: %w", err)
		}
		r.add(func(ctx context.Context) error {
			return d.Close()
		})
		b := postgres.GameBackend{
			Database: d,
		}
		return b, nil
	case len(m.sqliteFile) != 0:
		b, err := sqlite.Open(m.sqliteFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("creating sqlite database: %w", err)
		}
		r.add(func(ctx context.Context) error {
			return b.Close()
		})
		return b, nil
	case len(m.mongoURL) != 0:
		b, err := mongo.NewGameBackend(ctx, cfg, m.mongoURL)
		if err != nil {
			return nil, fmt.Errorf("creating mongo database: %w", err)
		}
		r.add(b.Close)
		return b, nil
	case len(m.firestoreProjectID) != 0:
		b, err := firestore.NewGameBackend(ctx, cfg, m.firestoreProjectID)
		if err != nil {
			return nil, fmt.Errorf("creating firestore database: %w", err)
		}
		r.add(func(ctx context.Context) error {
			return b.Close()
		})
		return b, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating memory database: %w", err)
	}
	return gamedb.NewMemoryBackend(), nil
}

// createServer creates the server and the collaborators that play games and publish their events.
func (m mainFlags) createServer(ctx context.Context, log log.Logger, backend gamedb.Backend, r *resources) (*server.Server, error) {
	dao, err := gamedb.NewDao(backend, timeFunc)
	if err != nil {
		return nil, err
	}
	if err := dao.Setup(ctx); err != nil {
		return nil, fmt.Errorf("setting up game dao: %w", err)
	}
	gameMetrics, err := metrics.NewGameMetrics()
	if err != nil {
		return nil, fmt.Errorf("creating metrics: %w", err)
	}
	tel, err := m.telemetryConfig().Setup(ctx)
	if err != nil {
		return nil, err
	}
	r.add(tel.Shutdown)
	hub, err := m.hubConfig(log).NewHub()
	if err != nil {
		return nil, err
	}
	publishers, workers, err := m.eventPublishers(ctx, log, r)
	if err != nil {
		return nil, err
	}
	publishers = append(publishers, hub)
	outboxCfg := event.OutboxConfig{
		Log:          log,
		Publisher:    publishers,
		Size:         m.outboxSize,
		FlushTimeout: 4 * time.Second, // less than the server stop duration
	}
	outbox, err := outboxCfg.NewOutbox()
	if err != nil {
		return nil, err
	}
	workers = append(workers, outbox)
	notifierCfg := event.NotifierConfig{
		Log:       log,
		Publisher: outbox,
		TimeFunc:  timeFunc,
	}
	notifier, err := notifierCfg.NewNotifier()
	if err != nil {
		return nil, err
	}
	serviceCfg := servergame.Config{
		Debug:     m.debug,
		Log:       log,
		Dao:       dao,
		Publisher: notifier,
		Metrics:   gameMetrics,
		Tracer:    tel.Tracer,
		IDFunc:    uuid.NewString,
		TimeFunc:  timeFunc,
	}
	service, err := serviceCfg.NewService()
	if err != nil {
		return nil, err
	}
	p := server.Parameters{
		Debug:    m.debug,
		Logger:   log,
		Service:  service,
		Dao:      dao,
		Stats:    gameMetrics,
		Metrics:  gameMetrics.Handler(),
		Live:     hub,
		Workers:  workers,
		TimeFunc: timeFunc,
	}
	cfg := server.Config{
		Port:    m.port,
		StopDur: 5 * time.Second,
	}
	return cfg.NewServer(p)
}

// eventPublishers connects to the configured message brokers.
// Events published on redis are also routed by a consumer, which is returned as a worker.
func (m mainFlags) eventPublishers(ctx context.Context, log log.Logger, r *resources) (event.MultiPublisher, []server.Worker, error) {
	publishers := event.MultiPublisher{
		event.LogPublisher{
			Log: log,
		},
	}
	var workers []server.Worker
	if len(m.redisAddr) != 0 {
		client, err := redis.NewClient(ctx, m.redisAddr)
		if err != nil {
			return nil, nil, err
		}
		r.add(func(ctx context.Context) error {
			return client.Close()
		})
		p, err := redis.NewPublisher(client)
		if err != nil {
			return nil, nil, err
		}
		consumerCfg := redis.ConsumerConfig{
			Debug:      m.debug,
			Log:        log,
			Subscriber: client,
		}
		c, err := consumerCfg.NewConsumer()
		if err != nil {
			return nil, nil, err
		}
		publishers = append(publishers, p)
		workers = append(workers, c)
	}
	if len(m.natsURL) != 0 {
		conn, err := nats.Connect(m.natsURL, serviceName)
		if err != nil {
			return nil, nil, err
		}
		r.add(func(ctx context.Context) error {
			return conn.Drain()
		})
		p, err := nats.NewPublisher(conn)
		if err != nil {
			return nil, nil, err
		}
		publishers = append(publishers, p)
	}
	return publishers, workers, nil
}

// telemetryConfig creates the configuration to export traces.
func (m mainFlags) telemetryConfig() telemetry.Config {
	cfg := telemetry.Config{
		Endpoint:    m.otelEndpoint,
		ServiceName: serviceName,
	}
	return cfg
}

// hubConfig creates the configuration for streaming events to websockets.
func (m mainFlags) hubConfig(log log.Logger) live.HubConfig {
	cfg := live.HubConfig{
		Debug:      m.debug,
		Log:        log,
		WriteWait:  10 * time.Second,
		PingPeriod: 54 * time.Second,
		BufferSize: 16,
	}
	return cfg
}
