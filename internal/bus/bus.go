// Package bus is the hand-off point between the background polling loop
// and every consumer (HTTP clients, the MQTT bridge, the reading store).
// Consumers only ever react to delivered events; nothing reaches into
// foreground state from the polling goroutine.
package bus

import (
	"sync"

	"github.com/google/uuid"

	"grovepi-hub/pkg/types"
)

// EventKind names the published event types.
type EventKind string

const (
	EventReading EventKind = "reading_published"
	EventRelay   EventKind = "actuator_relay_changed"
	EventLEDBar  EventKind = "actuator_led_bar_changed"
	EventSetting EventKind = "setting_changed"
)

// Event is one published notification. Exactly one payload field is
// meaningful depending on Kind. The actuator fields stay in the JSON even
// at their zero values: off and level 0 are real payloads.
type Event struct {
	Kind        EventKind            `json:"kind"`
	Reading     *types.SensorReading `json:"reading,omitempty"`
	RelayOn     bool                 `json:"relay_on"`
	LEDBarLevel int                  `json:"led_bar_level"`
	SettingKey  string               `json:"setting_key,omitempty"`
}

// Bus fans events out to registered subscribers. Delivery per subscriber is
// in publish order; a subscriber whose channel buffer is full misses that
// event rather than blocking the publisher.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	buffer      int
}

// BusFactory creates a bus whose subscriber channels hold buffer events.
func BusFactory(buffer int) *Bus {
	if buffer < 1 {
		buffer = 1
	}
	return &Bus{
		subscribers: make(map[string]chan Event),
		buffer:      buffer,
	}
}

// Subscribe registers a new subscriber and returns its id and channel.
func (b *Bus) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, b.buffer)
	b.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// SubscriberCount returns the number of registered subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Publish delivers an event to all subscribers without blocking.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			//subscriber is not keeping up, skip it for this event
		}
	}
}

// PublishReading publishes one sensor reading.
func (b *Bus) PublishReading(reading types.SensorReading) {
	b.Publish(Event{Kind: EventReading, Reading: &reading})
}

// PublishRelay publishes a relay state change.
func (b *Bus) PublishRelay(on bool) {
	b.Publish(Event{Kind: EventRelay, RelayOn: on})
}

// PublishLEDBar publishes an LED bar level change.
func (b *Bus) PublishLEDBar(level int) {
	b.Publish(Event{Kind: EventLEDBar, LEDBarLevel: level})
}

// PublishSetting publishes a settings store change.
func (b *Bus) PublishSetting(key string) {
	b.Publish(Event{Kind: EventSetting, SettingKey: key})
}
