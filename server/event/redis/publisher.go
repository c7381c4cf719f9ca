// Package redis sends and receives game events on redis pub/sub channels.
package redis

import (
	"context"
	"fmt"

	"github.com/jacobpatterson1549/tennis-scorer/server/event"
	"github.com/redis/go-redis/v9"
)

type (
	// Client is the part of a redis client used to publish messages.
	Client interface {
		Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	}

	// Publisher publishes events as json on a redis channel.
	Publisher struct {
		Client  Client
		Channel string
	}
)

// NewPublisher creates a Publisher that sends events to the game event topic.
func NewPublisher(c Client) (*Publisher, error) {
	if c == nil {
		return nil, fmt.Errorf("creating redis publisher: client required")
	}
	p := Publisher{
		Client:  c,
		Channel: event.Topic,
	}
	return &p, nil
}

// Publish sends the event to the channel.
func (p Publisher) Publish(ctx context.Context, e event.Event) error {
	b, err := e.Encode()
	if err != nil {
		return err
	}
	if err := p.Client.Publish(ctx, p.Channel, b).Err(); err != nil {
		return fmt.Errorf("publishing event for game %v to redis channel %v: %w", e.GameID, p.Channel, err)
	}
	return nil
}

// NewClient creates a redis client for the server at the address and checks that it can be reached.
func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	c := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("connecting to redis at %v: %w", addr, err)
	}
	return c, nil
}
