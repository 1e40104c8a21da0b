/*
Package live fans newly persisted room messages out to WebSocket subscribers.

Rooms are rows in the database, not in-memory sessions: the hub only tracks
who is currently listening to which room id. A subscriber that cannot keep up
is dropped rather than allowed to stall the broadcast.
*/
package live

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roomhub/internal/pkg/logx"
)

// subscriberBuffer is the per-subscriber queue size; overflow drops the subscriber.
const subscriberBuffer = 256

// EventTypeMessage marks a frame carrying a newly posted message.
const EventTypeMessage = "MESSAGE"

// MessageEvent is the JSON frame pushed to room subscribers.
type MessageEvent struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Body       string `json:"body"`
	Timestamp  int64  `json:"timestamp"`
}

// Subscription is one listener on one room.
type Subscription struct {
	hub    *Hub
	roomID uuid.UUID
	ch     chan []byte
	once   sync.Once
}

// C returns the channel delivering marshaled events. It is closed when the
// subscription ends.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

// Close detaches the subscription from the hub and closes its channel.
// Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
		close(s.ch)
	})
}

// Hub tracks the live subscribers of every room.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Subscription]struct{}
	closed bool
	logger zerolog.Logger
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*Subscription]struct{}),
		logger: logx.Logger().With().Str("component", "live").Logger(),
	}
}

// Subscribe registers a new listener for roomID. It returns nil after
// Shutdown.
func (h *Hub) Subscribe(roomID uuid.UUID) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}

	sub := &Subscription{
		hub:    h,
		roomID: roomID,
		ch:     make(chan []byte, subscriberBuffer),
	}

	subs, ok := h.rooms[roomID]
	if !ok {
		subs = make(map[*Subscription]struct{})
		h.rooms[roomID] = subs
	}
	subs[sub] = struct{}{}

	h.logger.Debug().
		Str("room_id", roomID.String()).
		Int("subscribers", len(subs)).
		Msg("subscriber joined")

	return sub
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.rooms[sub.roomID]
	if !ok {
		return
	}

	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.rooms, sub.roomID)
	}
}

// Broadcast marshals event and queues it to every subscriber of roomID.
// Subscribers with a full queue are dropped.
func (h *Hub) Broadcast(roomID uuid.UUID, event MessageEvent) {
	frame, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("room_id", roomID.String()).Msg("failed to marshal event")
		return
	}

	var stalled []*Subscription

	h.mu.RLock()
	for sub := range h.rooms[roomID] {
		select {
		case sub.ch <- frame:
		default:
			stalled = append(stalled, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range stalled {
		h.logger.Warn().
			Str("room_id", roomID.String()).
			Msg("subscriber queue full, dropping subscriber")
		sub.Close()
	}
}

// Subscribers reports how many listeners roomID currently has.
func (h *Hub) Subscribers(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Shutdown closes every subscription and rejects new ones.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	h.closed = true
	var all []*Subscription
	for _, subs := range h.rooms {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}

	h.logger.Info().Msg("live hub shut down")
}
