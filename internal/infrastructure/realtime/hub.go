package realtime

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
)

const subscriptionBuffer = 128

// Subscription is one live registration of interest in a user's change
// events. Delivery runs on a dedicated goroutine per subscription so a slow
// callback never blocks publishers or sibling subscribers.
type Subscription struct {
	ID     string
	UserID string

	events  chan messaging.ChangeEvent
	done    chan struct{}
	onEvent func(messaging.ChangeEvent)

	mu     sync.Mutex
	closed bool
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.deliver(ev)
		}
	}
}

// deliver invokes the callback under the subscription mutex. Unsubscribe
// takes the same mutex, which gives it a synchronous cutoff: once it holds
// the lock and flips closed, no further callback can start, and any callback
// already running has finished.
func (s *Subscription) deliver(ev messaging.ChangeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.onEvent(ev)
}

// Hub fans committed change events out to live per-user subscriptions.
// Delivery is best-effort: a subscriber whose buffer is full has that event
// dropped and is expected to reconcile with an explicit read after
// reconnecting. The registry is the one process-local shared structure and
// is guarded by a RWMutex since subscribe, unsubscribe, and publish run
// concurrently from many requests.
type Hub struct {
	log *slog.Logger

	mu   sync.RWMutex
	subs map[string]map[string]*Subscription // userID -> subscriptionID -> subscription
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:  log,
		subs: make(map[string]map[string]*Subscription),
	}
}

// Subscribe registers onEvent for every event addressed to userID and starts
// its delivery loop. Registration itself never blocks.
func (h *Hub) Subscribe(userID string, onEvent func(messaging.ChangeEvent)) *Subscription {
	sub := &Subscription{
		ID:      uuid.NewString(),
		UserID:  userID,
		events:  make(chan messaging.ChangeEvent, subscriptionBuffer),
		done:    make(chan struct{}),
		onEvent: onEvent,
	}

	h.mu.Lock()
	perUser := h.subs[userID]
	if perUser == nil {
		perUser = make(map[string]*Subscription)
		h.subs[userID] = perUser
	}
	perUser[sub.ID] = sub
	h.mu.Unlock()

	go sub.run()
	return sub
}

// Unsubscribe removes the subscription and guarantees that no event is
// delivered through it after the call returns, even if a publish is in
// flight. Safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	if perUser, ok := h.subs[sub.UserID]; ok {
		delete(perUser, sub.ID)
		if len(perUser) == 0 {
			delete(h.subs, sub.UserID)
		}
	}
	h.mu.Unlock()

	sub.mu.Lock()
	if !sub.closed {
		sub.closed = true
		close(sub.done)
	}
	sub.mu.Unlock()
}

// Publish queues ev for every live subscription of userID. A full buffer
// drops the event for that subscription only; the publisher is never blocked
// by a stalled subscriber.
func (h *Hub) Publish(userID string, ev messaging.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs[userID] {
		select {
		case sub.events <- ev:
		default:
			h.log.Warn("fanout event dropped: subscriber buffer full",
				"user_id", userID,
				"subscription_id", sub.ID,
				"entity", ev.Entity,
			)
		}
	}
}

// Close drops every subscription; used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	all := make([]*Subscription, 0, len(h.subs))
	for _, perUser := range h.subs {
		for _, sub := range perUser {
			all = append(all, sub)
		}
	}
	h.subs = make(map[string]map[string]*Subscription)
	h.mu.Unlock()

	for _, sub := range all {
		sub.mu.Lock()
		if !sub.closed {
			sub.closed = true
			close(sub.done)
		}
		sub.mu.Unlock()
	}
}
