package room

import (
	"sync"

	"github.com/typerace/typerace-go/internal/model"
)

// sentEvent is one captured delivery
type sentEvent struct {
	To    model.ConnectionID
	Event model.Event
}

// fakeSender records every delivery for assertions
type fakeSender struct {
	mu   sync.Mutex
	sent []sentEvent
}

var _ Sender = (*fakeSender)(nil)

func newFakeSender() *fakeSender {
	return &fakeSender{}
}

func (f *fakeSender) Send(id model.ConnectionID, event model.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentEvent{To: id, Event: event})
}

// All returns every captured delivery in order
func (f *fakeSender) All() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentEvent, len(f.sent))
	copy(out, f.sent)
	return out
}

// OfType returns all deliveries of the given event type in order
func (f *fakeSender) OfType(t model.EventType) []sentEvent {
	var out []sentEvent
	for _, s := range f.All() {
		if s.Event.Type == t {
			out = append(out, s)
		}
	}
	return out
}

// For returns all deliveries addressed to the given connection in order
func (f *fakeSender) For(id model.ConnectionID) []sentEvent {
	var out []sentEvent
	for _, s := range f.All() {
		if s.To == id {
			out = append(out, s)
		}
	}
	return out
}

// Reset clears the capture log
func (f *fakeSender) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
}
