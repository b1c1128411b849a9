package framework

import "fmt"

// Lifecycle event slots. The registry is closed: only these names can carry
// a handler, and each slot holds at most one subscriber.
const (
	EventModuleLoaded     = "moduleLoaded"
	EventTemplateLoaded   = "templateLoaded"
	EventDeviceSelection  = "deviceSelection"
	EventConfigureDevice  = "configureDevice"
	EventDeviceConfigured = "deviceConfigured"
	EventRefresh          = "refresh"
	EventCloseDevice      = "closeDevice"
	EventUnloadModule     = "unloadModule"
	EventLoadError        = "loadError"
	EventConfigError      = "configError"
	EventRefreshError     = "refreshError"
	EventExecutionError   = "executionError"
)

// Handler receives the payload passed to Fire.
type Handler func(payload interface{})

// eventRegistry maps each known event slot to its current subscriber.
// Registration replaces any previous handler; there is no fan-out.
type eventRegistry struct {
	handlers map[string]Handler
}

func newEventRegistry() *eventRegistry {
	r := &eventRegistry{
		handlers: map[string]Handler{
			EventModuleLoaded:     nil,
			EventTemplateLoaded:   nil,
			EventDeviceSelection:  nil,
			EventConfigureDevice:  nil,
			EventDeviceConfigured: nil,
			EventRefresh:          nil,
			EventCloseDevice:      nil,
			EventUnloadModule:     nil,
			EventLoadError:        nil,
			EventConfigError:      nil,
			EventRefreshError:     nil,
			EventExecutionError:   nil,
		},
	}
	// Execution errors mean the handler graph itself is broken. Unless the
	// caller overrides this slot, escalate instead of swallowing.
	r.handlers[EventExecutionError] = func(payload interface{}) {
		panic(fmt.Sprintf("unhandled execution error: %v", payload))
	}
	return r
}

// on registers handler for name. Unknown names are a configuration mistake
// and are reported on the loadError slot rather than to the caller.
func (r *eventRegistry) on(name string, handler Handler) {
	if _, ok := r.handlers[name]; !ok {
		r.fire(EventLoadError, fmt.Sprintf("on: unknown event %q", name))
		return
	}
	r.handlers[name] = handler
}

// fire invokes the current subscriber of name, if any. Unknown names are
// ignored so that firing a lifecycle hook nobody declared stays harmless.
func (r *eventRegistry) fire(name string, payload interface{}) {
	h, ok := r.handlers[name]
	if !ok || h == nil {
		return
	}
	h(payload)
}
