package sink

import (
	"fmt"
	"sync"
)

// MemSink is an in-process Sink for headless runs and tests: displayed
// content and element values live in maps, and Trigger simulates a UI event.
type MemSink struct {
	mu        sync.Mutex
	listeners map[string]EventHandler // selector+"\x00"+event
	display   map[string]interface{}
	values    map[string]interface{}
}

func NewMemSink() *MemSink {
	return &MemSink{
		listeners: make(map[string]EventHandler),
		display:   make(map[string]interface{}),
		values:    make(map[string]interface{}),
	}
}

func key(selector, event string) string { return selector + "\x00" + event }

func (s *MemSink) On(selector, event string, handler EventHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[key(selector, event)] = handler
	return nil
}

func (s *MemSink) Off(selector, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listeners[key(selector, event)]; !ok {
		return fmt.Errorf("no listener for %s/%s", selector, event)
	}
	delete(s.listeners, key(selector, event))
	return nil
}

func (s *MemSink) SetHTML(selector string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.display[selector] = value
	return nil
}

func (s *MemSink) Value(selector string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[selector]
	if !ok {
		return nil, fmt.Errorf("no value for selector %q", selector)
	}
	return v, nil
}

// SetValue stores the element's current value, as if the user edited it.
func (s *MemSink) SetValue(selector string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[selector] = value
}

// Display returns what SetHTML last pushed to the selector.
func (s *MemSink) Display(selector string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.display[selector]
	return v, ok
}

// Trigger fires the listener attached to the selector/event pair with the
// element's current value, mimicking a user interaction.
func (s *MemSink) Trigger(selector, event string) bool {
	s.mu.Lock()
	h, ok := s.listeners[key(selector, event)]
	v := s.values[selector]
	s.mu.Unlock()
	if !ok {
		return false
	}
	h(v)
	return true
}

// ListenerCount reports how many listeners are currently attached.
func (s *MemSink) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
