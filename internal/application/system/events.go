package system

import "github.com/younwookim/shine/internal/domain/entity"

// EventType names a notification emitted by the physics core
type EventType string

const (
	// EventBumpBottom fires on the mover when it lands on something
	// Payload: Collision with Impact = fall speed
	EventBumpBottom EventType = "bump.bottom"
	// EventBumpTop fires on the mover when it hits a ceiling
	EventBumpTop EventType = "bump.top"
	// EventBumpLeft fires on the mover when it runs into something on its left
	EventBumpLeft EventType = "bump.left"
	// EventBumpRight fires on the mover when it runs into something on its right
	EventBumpRight EventType = "bump.right"
	// EventHitParticle fires on a body struck by a projectile
	// Payload: Other = the projectile
	EventHitParticle EventType = "hit.particle"
	// EventHitLiquidGround fires on a body touching water or quicksand
	// Payload: Liquid
	EventHitLiquidGround EventType = "hit.liquid_ground"
	// EventSqueezedTop fires on a body a heavy body lands on
	// Payload: Other = the squeezer
	EventSqueezedTop EventType = "squeezed.top"
	// EventReachedExit fires for the level when a body touches an exit tile
	EventReachedExit EventType = "reached_exit"
)

// Event is one notification
type Event struct {
	Type      EventType
	Body      *entity.Body // the body the event happened to
	Other     *entity.Body // the other body, nil for tiles
	Collision Collision
	Liquid    entity.LiquidKind
}

// Handler receives events
type Handler func(ev Event)

// EventBus delivers events synchronously
//
//   - Single-threaded dispatch
//   - Handlers are invoked in registration order
//   - Catch-all handlers run after the typed ones
type EventBus struct {
	handlers map[EventType][]Handler
	all      []Handler
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventType][]Handler)}
}

// Subscribe registers a handler for one event type
func (b *EventBus) Subscribe(t EventType, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type
func (b *EventBus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Emit delivers ev to its subscribers. A nil bus drops everything.
func (b *EventBus) Emit(ev Event) {
	if b == nil {
		return
	}
	for _, h := range b.handlers[ev.Type] {
		h(ev)
	}
	for _, h := range b.all {
		h(ev)
	}
}

// HandlerCount returns the number of handlers registered for the given type
func (b *EventBus) HandlerCount(t EventType) int {
	return len(b.handlers[t])
}
