// Package sink abstracts the presentation surface the binding engine talks
// to: something that can attach listeners to named UI elements, mutate what
// an element displays, and report an element's current value.
package sink

// EventHandler receives the element's current value when the subscribed UI
// event fires.
type EventHandler func(value interface{})

// Sink is the listener-attachment and value-mutation surface. The engine
// never interprets selectors; they are opaque element identifiers.
type Sink interface {
	// On attaches handler to the selector/event pair, replacing any
	// handler previously attached to the same pair.
	On(selector, event string, handler EventHandler) error
	// Off detaches the handler for the selector/event pair.
	Off(selector, event string) error
	// SetHTML replaces the displayed content of the selected element.
	SetHTML(selector string, value interface{}) error
	// Value returns the current value of the selected element.
	Value(selector string) (interface{}, error)
}
