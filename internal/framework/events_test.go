package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFireInvokesHandler(t *testing.T) {
	r := newEventRegistry()
	var got interface{}
	r.on(EventRefresh, func(payload interface{}) { got = payload })
	r.fire(EventRefresh, "tick")
	assert.Equal(t, "tick", got)
}

func TestFireUnknownEventIsNoop(t *testing.T) {
	r := newEventRegistry()
	assert.NotPanics(t, func() { r.fire("definitelyNotAnEvent", 42) })
}

func TestFireWithoutHandlerIsNoop(t *testing.T) {
	r := newEventRegistry()
	assert.NotPanics(t, func() { r.fire(EventModuleLoaded, "m") })
}

func TestOnUnknownEventFiresLoadErrorOnce(t *testing.T) {
	r := newEventRegistry()
	var loadErrors []interface{}
	r.on(EventLoadError, func(payload interface{}) { loadErrors = append(loadErrors, payload) })

	r.on("notAnEvent", func(interface{}) {})

	require.Len(t, loadErrors, 1)
	assert.Contains(t, loadErrors[0], "notAnEvent")
	// Nothing was registered under the bogus name.
	assert.NotPanics(t, func() { r.fire("notAnEvent", nil) })
}

func TestLastRegistrationWins(t *testing.T) {
	r := newEventRegistry()
	var calls []string
	r.on(EventDeviceConfigured, func(interface{}) { calls = append(calls, "first") })
	r.on(EventDeviceConfigured, func(interface{}) { calls = append(calls, "second") })
	r.fire(EventDeviceConfigured, nil)
	assert.Equal(t, []string{"second"}, calls)
}

func TestExecutionErrorEscalatesByDefault(t *testing.T) {
	r := newEventRegistry()
	assert.Panics(t, func() { r.fire(EventExecutionError, "broken handler graph") })
}

func TestExecutionErrorOverride(t *testing.T) {
	r := newEventRegistry()
	var got interface{}
	r.on(EventExecutionError, func(payload interface{}) { got = payload })
	assert.NotPanics(t, func() { r.fire(EventExecutionError, "caught") })
	assert.Equal(t, "caught", got)
}
