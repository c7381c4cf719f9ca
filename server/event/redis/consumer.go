package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/jacobpatterson1549/tennis-scorer/server/event"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
	"github.com/jacobpatterson1549/tennis-scorer/server/runner"
	"github.com/redis/go-redis/v9"
)

const (
	// FinishedGamesChannel receives events of games that have a winner.
	FinishedGamesChannel = "tennis-finished-games"
	// LiveScoresChannel receives events of games that are still being played.
	LiveScoresChannel = "tennis-live-scores"
)

type (
	// Subscriber is the part of a redis client used to receive and route messages.
	Subscriber interface {
		Client
		Subscribe(ctx context.Context, channels ...string) *redis.PubSub
	}

	// Consumer reads game events from the topic, routes them to the finished or live channels, and counts the points of each game.
	Consumer struct {
		ConsumerConfig
		runner runner.Runner
		mu     sync.Mutex
		points map[string]int
	}

	// ConsumerConfig contains the collaborators of a Consumer.
	ConsumerConfig struct {
		// Debug is a flag that causes each received event to be logged.
		Debug bool
		// Log is used to report events and bad messages.
		Log log.Logger
		// Subscriber reads messages from the topic.
		Subscriber Subscriber
	}
)

// NewConsumer creates a Consumer from the config.
func (cfg ConsumerConfig) NewConsumer() (*Consumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating redis consumer: validation: %w", err)
	}
	c := Consumer{
		ConsumerConfig: cfg,
		runner: runner.Runner{
			Name: "redis event consumer",
		},
		points: make(map[string]int),
	}
	return &c, nil
}

func (cfg ConsumerConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Subscriber == nil:
		return fmt.Errorf("subscriber required")
	}
	return nil
}

// Run subscribes to the topic and handles messages until the context is done.
func (c *Consumer) Run(ctx context.Context, wg *sync.WaitGroup) error {
	if err := c.runner.Start(); err != nil {
		return fmt.Errorf("running consumer: %w", err)
	}
	pubSub := c.Subscriber.Subscribe(ctx, event.Topic)
	if _, err := pubSub.Receive(ctx); err != nil {
		pubSub.Close()
		c.runner.Stop()
		return fmt.Errorf("subscribing to redis channel %v: %w", event.Topic, err)
	}
	wg.Add(1)
	go func() {
		defer pubSub.Close()
		c.consume(ctx, wg, pubSub.Channel())
	}()
	return nil
}

func (c *Consumer) consume(ctx context.Context, wg *sync.WaitGroup, messages <-chan *redis.Message) {
	defer wg.Done()
	defer c.runner.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-messages:
			if !ok {
				return
			}
			if err := c.Handle(ctx, m.Payload); err != nil {
				c.Log.Printf("handling message from redis channel %v: %v", m.Channel, err)
			}
		}
	}
}

// Handle processes one message from the topic.
func (c *Consumer) Handle(ctx context.Context, payload string) error {
	e, err := event.Decode([]byte(payload))
	if err != nil {
		return err
	}
	if c.Debug {
		c.Log.Printf("received event: game %v, type %v, player %v", e.GameID, e.Type, e.Player)
	}
	switch e.Type {
	case event.PointScored:
		n := c.addPoint(e.GameID)
		if c.Debug {
			c.Log.Printf("game %v has %v points scored", e.GameID, n)
		}
	case event.GameFinished:
		n := c.removePoints(e.GameID)
		if c.Debug {
			c.Log.Printf("game %v finished after %v points", e.GameID, n)
		}
	}
	channel := LiveScoresChannel
	if e.Finished {
		channel = FinishedGamesChannel
	}
	if err := c.Subscriber.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("routing event for game %v to %v: %w", e.GameID, channel, err)
	}
	return nil
}

func (c *Consumer) addPoint(gameID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.points[gameID]++
	return c.points[gameID]
}

// removePoints stops counting the points of the game, returning the count.
func (c *Consumer) removePoints(gameID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.points[gameID]
	delete(c.points, gameID)
	return n
}

// PointCount is the number of point events received for the game.  Counts are removed when the game finishes.
func (c *Consumer) PointCount(gameID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.points[gameID]
}
