// Package live streams game events to browsers over websockets.
package live

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jacobpatterson1549/tennis-scorer/server/event"
	"github.com/jacobpatterson1549/tennis-scorer/server/log"
)

type (
	// Hub sends every published event to each connected websocket.
	Hub struct {
		HubConfig
		upgrader    websocket.Upgrader
		mu          sync.RWMutex
		subscribers map[*subscriber]struct{}
	}

	// HubConfig contains the settings of a Hub.
	HubConfig struct {
		// Debug is a flag that causes the hub to log when subscribers connect, disconnect, or miss events.
		Debug bool
		// Log is used to log errors and other information.
		Log log.Logger
		// WriteWait is the amount of time that a subscriber can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages are sent to keep idle connections open.
		PingPeriod time.Duration
		// BufferSize is the number of events that can wait to be written to a subscriber before new events are dropped for it.
		BufferSize int
	}

	// subscriber is a websocket connection that receives events.
	subscriber struct {
		addr   string
		conn   *websocket.Conn
		events chan event.Event
	}
)

// NewHub creates a Hub from the config.
func (cfg HubConfig) NewHub() (*Hub, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating live hub: validation: %w", err)
	}
	h := Hub{
		HubConfig:   cfg,
		subscribers: make(map[*subscriber]struct{}),
	}
	return &h, nil
}

func (cfg HubConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.BufferSize <= 0:
		return fmt.Errorf("positive buffer size required")
	}
	return nil
}

// Publish queues the event for every subscriber without blocking.
func (h *Hub) Publish(ctx context.Context, e event.Event) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subscribers {
		select {
		case s.events <- e:
		default:
			if h.Debug {
				h.Log.Printf("live subscriber %v is behind, dropping %v event for game %v", s.addr, e.Type, e.GameID)
			}
		}
	}
	return nil
}

// ServeHTTP upgrades the request to a websocket that receives events until it is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Printf("upgrading live connection: %v", err)
		return // the upgrader writes the error response
	}
	s := &subscriber{
		addr:   r.RemoteAddr,
		conn:   conn,
		events: make(chan event.Event, h.BufferSize),
	}
	h.add(s)
	go h.writeEvents(s)
	h.readUntilClosed(s)
	h.remove(s)
}

// SubscriberCount is the number of connected websockets.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects all subscribers.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subscribers {
		s.conn.Close()
	}
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[s] = struct{}{}
	if h.Debug {
		h.Log.Printf("live subscriber %v connected", s.addr)
	}
}

// remove stops the subscriber from receiving events.  The events channel is closed while the lock is held so Publish never sends on it.
func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[s]; !ok {
		return
	}
	delete(h.subscribers, s)
	close(s.events)
	if h.Debug {
		h.Log.Printf("live subscriber %v disconnected", s.addr)
	}
}

// readUntilClosed discards messages from the subscriber until its connection fails.
func (h *Hub) readUntilClosed(s *subscriber) {
	for { // BLOCKING
		if _, _, err := s.conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				h.Log.Printf("reading from live subscriber %v: %v", s.addr, err)
			}
			return
		}
	}
}

// writeEvents writes the events of the subscriber and periodic pings until the events channel is closed or a write fails.
func (h *Hub) writeEvents(s *subscriber) {
	pingTicker := time.NewTicker(h.PingPeriod)
	defer pingTicker.Stop()
	defer s.conn.Close()
	for {
		var err error
		select {
		case e, ok := <-s.events:
			if !ok {
				data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				s.conn.WriteControl(websocket.CloseMessage, data, time.Now().Add(h.WriteWait))
				return
			}
			s.conn.SetWriteDeadline(time.Now().Add(h.WriteWait))
			err = s.conn.WriteJSON(e)
		case <-pingTicker.C:
			err = s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.WriteWait))
		}
		if err != nil {
			if h.Debug {
				h.Log.Printf("writing to live subscriber %v: %v", s.addr, err)
			}
			return
		}
	}
}
