package events

import (
	"sync"
	"time"

	"renthub_backend/internal/models"
)

// ReservationEvent announces a reservation lifecycle change. Subscribers
// use it for cache invalidation; no consumer may depend on delivery for
// correctness.
type ReservationEvent struct {
	ReservationID string
	ItemID        string
	From          models.ReservationStatus
	To            models.ReservationStatus
	At            time.Time
}

// Bus is a small in-process pub/sub hub for reservation events.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan ReservationEvent
	next int
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan ReservationEvent),
	}
}

// Subscribe registers a buffered subscriber channel. The returned id is
// used to unsubscribe.
func (b *Bus) Subscribe() (int, <-chan ReservationEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan ReservationEvent, 64)
	b.subs[id] = ch
	return id, ch
}

func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[id]; ok {
		close(ch)
		delete(b.subs, id)
	}
}

// Publish fans the event out to all subscribers. Slow subscribers are
// skipped rather than blocking the publisher.
func (b *Bus) Publish(event ReservationEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
