package converter

import (
	"github.com/tsreflect/tsreflect/internal/model"
	"github.com/tsreflect/tsreflect/internal/oracle"
)

// Event names a reflection creation notification.
type Event int

const (
	EventCreateDeclaration Event = iota
	EventCreateSignature
	EventCreateParameter
	EventCreateTypeParameter
)

func (e Event) String() string {
	switch e {
	case EventCreateDeclaration:
		return "createDeclaration"
	case EventCreateSignature:
		return "createSignature"
	case EventCreateParameter:
		return "createParameter"
	case EventCreateTypeParameter:
		return "createTypeParameter"
	}
	return "unknown"
}

// Listener observes a created reflection. Listeners may read the tree but are
// given no access to the pass state.
type Listener func(r model.Reflection, anchor oracle.Node)

// Events dispatches creation notifications to listeners in subscription order.
type Events struct {
	listeners map[Event][]Listener
}

func NewEvents() *Events {
	return &Events{listeners: make(map[Event][]Listener)}
}

// On subscribes l to ev.
func (e *Events) On(ev Event, l Listener) {
	e.listeners[ev] = append(e.listeners[ev], l)
}

func (e *Events) emit(ev Event, r model.Reflection, anchor oracle.Node) {
	for _, l := range e.listeners[ev] {
		l(r, anchor)
	}
}
