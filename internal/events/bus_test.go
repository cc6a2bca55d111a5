package events

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avstrong/wandernest/internal/logger"
)

type pingEvent struct{ n int }

func (pingEvent) EventName() string { return "ping" }

func newBus() *Bus {
	return New(logger.New(log.New(io.Discard, "", 0)))
}

func TestBus_PublishDeliversToSubscribers(t *testing.T) {
	bus := newBus()

	var got []int

	bus.Subscribe("ping", func(ev Event) { got = append(got, ev.(pingEvent).n) })
	bus.Subscribe("ping", func(ev Event) { got = append(got, ev.(pingEvent).n*10) })
	bus.Subscribe("other", func(Event) { t.Fatal("wrong topic") })

	bus.Publish(pingEvent{n: 2})

	assert.Equal(t, []int{2, 20}, got)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := newBus()
	calls := 0

	unsubscribe := bus.Subscribe("ping", func(Event) { calls++ })
	bus.Publish(pingEvent{})

	unsubscribe()
	unsubscribe()
	bus.Publish(pingEvent{})

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.Subscribers("ping"))
}

func TestBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := newBus()
	delivered := false

	bus.Subscribe("ping", func(Event) { panic("boom") })
	bus.Subscribe("ping", func(Event) { delivered = true })

	assert.NotPanics(t, func() { bus.Publish(pingEvent{}) })
	assert.True(t, delivered)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	assert.NotPanics(t, func() { newBus().Publish(pingEvent{}) })
}
