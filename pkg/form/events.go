package form

import "sync"

// EventType names a form lifecycle event.
type EventType string

const (
	EventValidate  EventType = "form:validate"
	EventValidated EventType = "form:validated"
	EventSuccess   EventType = "form:success"
	EventError     EventType = "form:error"
)

// Event is passed to form handlers. Result is empty for
// form:validate.
type Event struct {
	Type   EventType
	Form   *Form
	PassID string
	Result Result
}

// Handler receives form events.
type Handler func(e *Event)

type emitter struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func (em *emitter) emit(e *Event) {
	em.mu.RLock()
	handlers := append([]Handler(nil), em.handlers[e.Type]...)
	em.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}

// On registers h for events of type t.
func (f *Form) On(t EventType, h Handler) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	if f.events.handlers == nil {
		f.events.handlers = make(map[EventType][]Handler)
	}
	f.events.handlers[t] = append(f.events.handlers[t], h)
}

// Off removes every handler registered for t.
func (f *Form) Off(t EventType) {
	f.events.mu.Lock()
	defer f.events.mu.Unlock()
	delete(f.events.handlers, t)
}
