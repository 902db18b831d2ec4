package game

type EventType int

const (
	EventScore EventType = iota
	EventBoost
	EventGameOver
	EventMapChanged
)

type Event struct {
	Type     EventType
	EntityID uint32
	Value    int // score total for EventScore, map id for EventMapChanged
}

type EventHandler func(Event)

type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
