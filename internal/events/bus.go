package events

import (
	"fmt"
	"sync"

	"github.com/avstrong/wandernest/internal/logger"
)

type Event interface {
	EventName() string
}

type Handler func(ev Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus is an in-process publish/subscribe channel. Delivery is synchronous and
// best-effort: an event published with no subscribers is dropped.
type Bus struct {
	mu     sync.RWMutex
	l      *logger.Logger
	subs   map[string][]subscription
	nextID int
}

func New(l *logger.Logger) *Bus {
	//nolint:exhaustruct
	return &Bus{
		l:    l,
		subs: make(map[string][]subscription),
	}
}

// Subscribe registers handler for events named name. The returned func removes it
// and is safe to call more than once.
func (b *Bus) Subscribe(name string, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, handler: handler})

	var once sync.Once

	return func() {
		once.Do(func() { b.unsubscribe(name, id) })
	}
}

func (b *Bus) unsubscribe(name string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[name]
	for i, s := range subs {
		if s.id == id {
			b.subs[name] = append(subs[:i:i], subs[i+1:]...)

			break
		}
	}

	if len(b.subs[name]) == 0 {
		delete(b.subs, name)
	}
}

// Publish calls every handler subscribed at the time of the call. A panicking
// handler is logged and does not stop delivery to the rest.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	subs := append([]subscription(nil), b.subs[ev.EventName()]...)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ev, s.handler)
	}
}

func (b *Bus) deliver(ev Event, handler Handler) {
	defer func() {
		if p := recover(); p != nil {
			b.l.LogErrorf("Subscriber of %q panicked: %v", ev.EventName(), fmt.Sprint(p))
		}
	}()

	handler(ev)
}

func (b *Bus) Subscribers(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs[name])
}
