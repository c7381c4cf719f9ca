// Package nats sends game events to a nats subject.
package nats

import (
	"context"
	"fmt"

	"github.com/jacobpatterson1549/tennis-scorer/server/event"
	"github.com/nats-io/nats.go"
)

type (
	// Conn is the part of a nats connection used to publish messages.
	Conn interface {
		Publish(subject string, data []byte) error
	}

	// Publisher publishes events as json on a nats subject.
	Publisher struct {
		Conn    Conn
		Subject string
	}
)

// NewPublisher creates a Publisher that sends events to the game event topic.
func NewPublisher(conn Conn) (*Publisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("creating nats publisher: connection required")
	}
	p := Publisher{
		Conn:    conn,
		Subject: event.Topic,
	}
	return &p, nil
}

// Publish sends the event to the subject.  Messages are fire and forget, so the context is only checked before sending.
func (p Publisher) Publish(ctx context.Context, e event.Event) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publishing event for game %v to nats: %w", e.GameID, err)
	}
	b, err := e.Encode()
	if err != nil {
		return err
	}
	if err := p.Conn.Publish(p.Subject, b); err != nil {
		return fmt.Errorf("publishing event for game %v to nats subject %v: %w", e.GameID, p.Subject, err)
	}
	return nil
}

// Connect opens a connection to the nats server at the url.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("connecting to nats at %v: %w", url, err)
	}
	return conn, nil
}
