// Package kds fans lifecycle events out to kitchen and staff displays.
// Delivery is at-least-once as a wakeup: subscribers are told that
// something changed and refetch from the store.
package kds

import (
	"context"
	"sync"
	"time"

	"github.com/yeremiapane/tableorder/utils"
)

// DefaultQueueSize is the per-subscriber backlog before events coalesce
// into a resync.
const DefaultQueueSize = 64

type Handler func(Event)

type Hub struct {
	mu        sync.RWMutex
	subs      map[uint]map[*Subscription]struct{}
	queueSize int
}

func NewHub(queueSize int) *Hub {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Hub{
		subs:      make(map[uint]map[*Subscription]struct{}),
		queueSize: queueSize,
	}
}

// Subscription is one registered handler. Its handler runs on a dedicated
// goroutine, one event at a time.
type Subscription struct {
	hub          *Hub
	restaurantID uint
	handler      Handler

	events chan Event
	resync chan struct{}
	done   chan struct{}
	once   sync.Once
}

// Subscribe registers fn for events of restaurantID until Unsubscribe.
func (h *Hub) Subscribe(restaurantID uint, fn Handler) *Subscription {
	s := &Subscription{
		hub:          h,
		restaurantID: restaurantID,
		handler:      fn,
		events:       make(chan Event, h.queueSize),
		resync:       make(chan struct{}, 1),
		done:         make(chan struct{}),
	}

	h.mu.Lock()
	set, ok := h.subs[restaurantID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[restaurantID] = set
	}
	set[s] = struct{}{}
	h.mu.Unlock()

	go s.run()
	return s
}

// Publish hands ev to every subscriber of its restaurant without waiting
// for any of them.
func (h *Hub) Publish(_ context.Context, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.subs[ev.RestaurantID] {
		select {
		case s.events <- ev:
		default:
			select {
			case s.resync <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of live subscriptions for restaurantID.
func (h *Hub) Subscribers(restaurantID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[restaurantID])
}

// Close unsubscribes everybody.
func (h *Hub) Close() {
	h.mu.RLock()
	var all []*Subscription
	for _, set := range h.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range all {
		s.Unsubscribe()
	}
}

// Unsubscribe stops delivery. Calling it more than once is harmless.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		if set, ok := h.subs[s.restaurantID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.subs, s.restaurantID)
			}
		}
		h.mu.Unlock()
		close(s.done)
	})
}

func (s *Subscription) run() {
	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			s.deliver(ev)
		case <-s.resync:
			s.deliver(Event{Kind: EventResync, RestaurantID: s.restaurantID, At: time.Now().UTC()})
		}
	}
}

func (s *Subscription) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Printf("kds subscriber for restaurant %d panicked on %s: %v", s.restaurantID, ev.Kind, r)
		}
	}()
	s.handler(ev)
}
