package connectivity

import (
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// ConnSignal adapts a NATS connection's disconnect/reconnect callbacks
// into a Signal. The broker connection doubles as the platform
// reachability signal: losing the broker is how this process perceives
// going offline.
type ConnSignal struct {
	nc *nats.Conn

	mu     sync.Mutex
	subs   map[int]subscriber
	nextID int
}

type subscriber struct {
	onUp   func()
	onDown func()
}

// Dial connects to NATS with handlers that fan transition events out to
// subscribers. Reconnects are unlimited; the signal reports the
// connection's live status.
func Dial(natsURL string) (*ConnSignal, error) {
	s := &ConnSignal{subs: make(map[int]subscriber)}

	opts := []nats.Option{
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn().Err(err).Msg("NATS disconnected")
			s.fanout(func(sub subscriber) { sub.onDown() })
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
			s.fanout(func(sub subscriber) { sub.onUp() })
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	s.nc = nc
	return s, nil
}

// Online reports the live connection status. ok is always true once
// dialed.
func (s *ConnSignal) Online() (bool, bool) {
	if s.nc == nil {
		return false, false
	}
	return s.nc.IsConnected(), true
}

// Subscribe registers transition callbacks. The returned function
// removes them and is safe to call more than once.
func (s *ConnSignal) Subscribe(onUp, onDown func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.subs[id] = subscriber{onUp: onUp, onDown: onDown}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close closes the underlying NATS connection.
func (s *ConnSignal) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}

func (s *ConnSignal) fanout(notify func(subscriber)) {
	s.mu.Lock()
	targets := make([]subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		targets = append(targets, sub)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		notify(sub)
	}
}
