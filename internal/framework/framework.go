// Package framework implements the binding-expansion and event-dispatch
// engine: it owns the binding table, the lifecycle event registry, and the
// wiring between UI-element events and device register writes.
package framework

import (
	"fmt"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"

	"github.com/marekvales/device_panel_go/internal/device"
	"github.com/marekvales/device_panel_go/internal/notation"
	"github.com/marekvales/device_panel_go/internal/sink"
)

// ConfigControl subscribes a set of UI elements to a generic "reconfigure"
// pulse, independent of any register binding.
type ConfigControl struct {
	Selector string `yaml:"selector"`
	Event    string `yaml:"event"`
}

// Framework orchestrates binding registration, listener wiring and read-cycle
// value delivery for one loaded module. It is single-owner state: all calls
// run to completion on the caller's goroutine.
type Framework struct {
	lc       logger.LoggingClient
	sink     sink.Sink
	events   *eventRegistry
	bindings *bindingTable
	controls []ConfigControl
	devices  []device.Device
}

func New(lc logger.LoggingClient, snk sink.Sink) *Framework {
	return &Framework{
		lc:       lc,
		sink:     snk,
		events:   newEventRegistry(),
		bindings: newBindingTable(),
	}
}

// On subscribes handler to the named lifecycle event. Unknown event names are
// reported on the loadError slot.
func (f *Framework) On(event string, handler Handler) {
	f.events.on(event, handler)
}

// Fire raises the named lifecycle event with payload. Unknown names are a
// silent no-op.
func (f *Framework) Fire(event string, payload interface{}) {
	f.events.fire(event, payload)
}

// loadError reports a configuration mistake on the event channel. Such
// mistakes abort the operation in progress but never propagate as Go errors.
func (f *Framework) loadError(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	f.lc.Errorf("config binding: %s", msg)
	f.events.fire(EventLoadError, msg)
}

// PutConfigBinding validates rec, expands any range notation in its Binding
// and Template fields, and registers every resulting concrete record.
// Writable records additionally get a live listener on the presentation
// sink. Any validation or expansion failure fires loadError and registers
// nothing.
func (f *Framework) PutConfigBinding(rec BindingRecord) {
	switch {
	case rec.Class == "":
		f.loadError("binding for template %q has no class", rec.Template)
		return
	case rec.Template == "":
		f.loadError("binding for register %q has no template", rec.Binding)
		return
	case rec.Binding == "":
		f.loadError("binding for template %q has no register", rec.Template)
		return
	case rec.Direction == "":
		f.loadError("binding for template %q has no direction", rec.Template)
		return
	}
	switch rec.Direction {
	case DirectionRead:
	case DirectionWrite, DirectionHybrid:
		if rec.Event == "" {
			f.loadError("%s binding for template %q has no event", rec.Direction, rec.Template)
			return
		}
	default:
		f.loadError("binding for template %q has invalid direction %q", rec.Template, rec.Direction)
		return
	}

	pairs, err := notation.ExpandPair(rec.Binding, rec.Template)
	if err != nil {
		f.loadError("expanding binding %q / template %q: %v", rec.Binding, rec.Template, err)
		return
	}
	for _, p := range pairs {
		concrete := rec
		concrete.Binding = p.Binding
		concrete.Template = p.Template
		f.wireBinding(concrete)
	}
}

// wireBinding stores one fully-resolved record and attaches its listener if
// the direction is writable. A listener exists iff the record is in the
// write view; re-registration detaches the old listener first.
func (f *Framework) wireBinding(rec BindingRecord) {
	if prev, ok := f.bindings.get(rec.Template); ok && prev.Direction.writable() {
		if err := f.sink.Off(prev.Template, prev.Event); err != nil {
			f.events.fire(EventConfigError, fmt.Sprintf("detaching stale listener for %q: %v", prev.Template, err))
		}
	}
	if rec.Direction.writable() {
		if err := f.sink.On(rec.Template, rec.Event, f.writeHandler(rec)); err != nil {
			// The old listener is already gone; drop the stale entry so no
			// record sits in the write view without a live listener.
			f.bindings.delete(rec.Template)
			f.events.fire(EventConfigError, fmt.Sprintf("attaching listener for %q: %v", rec.Template, err))
			return
		}
	}
	f.bindings.put(rec)
	f.lc.Debugf("registered %s binding %s -> %s", rec.Direction, rec.Binding, rec.Template)
}

// writeHandler builds the UI-event handler for a writable record: signal that
// configuration is starting, push the element value to the register on the
// active device, signal completion.
func (f *Framework) writeHandler(rec BindingRecord) sink.EventHandler {
	return func(value interface{}) {
		f.events.fire(EventConfigureDevice, rec.Template)
		dev, ok := f.ActiveDevice()
		if !ok {
			f.events.fire(EventConfigError, fmt.Sprintf("write to %s: no device selected", rec.Binding))
			return
		}
		if err := dev.WriteRegister(rec.Binding, value); err != nil {
			f.events.fire(EventConfigError, fmt.Sprintf("write to %s: %v", rec.Binding, err))
			return
		}
		f.events.fire(EventDeviceConfigured, rec.Template)
	}
}

// DeleteConfigBinding removes the binding registered under the given template
// name, expanding range notation on the template axis first. Each concrete
// name is handled independently: an unknown name fires loadError and the rest
// still proceed.
func (f *Framework) DeleteConfigBinding(templatePattern string) {
	names, err := notation.Expand(templatePattern)
	if err != nil {
		f.loadError("expanding template %q for delete: %v", templatePattern, err)
		return
	}
	for _, name := range names {
		rec, ok := f.bindings.get(name)
		if !ok {
			f.loadError("no binding registered under template %q", name)
			continue
		}
		switch rec.Direction {
		case DirectionRead:
		case DirectionWrite, DirectionHybrid:
			if err := f.sink.Off(rec.Template, rec.Event); err != nil {
				f.events.fire(EventConfigError, fmt.Sprintf("detaching listener for %q: %v", rec.Template, err))
			}
		default:
			f.loadError("binding %q has invalid stored direction %q", name, rec.Direction)
			continue
		}
		f.bindings.delete(name)
		f.lc.Debugf("removed binding for template %s", name)
	}
}

// Binding returns the record stored under the given fully-resolved template
// name.
func (f *Framework) Binding(template string) (BindingRecord, bool) {
	return f.bindings.get(template)
}

// BindingCount returns the number of registered bindings.
func (f *Framework) BindingCount() int { return f.bindings.len() }

// ReadBindings returns a snapshot of the read view.
func (f *Framework) ReadBindings() []BindingRecord {
	out := make([]BindingRecord, 0)
	f.bindings.forEachReadBinding(func(rec BindingRecord) { out = append(out, rec) })
	return out
}

// WriteBindings returns a snapshot of the write view.
func (f *Framework) WriteBindings() []BindingRecord {
	return f.bindings.writeBindings()
}

// AddConfigControl records a generic reconfigure control; listeners are not
// attached until EstablishConfigControlBindings runs.
func (f *Framework) AddConfigControl(ctrl ConfigControl) {
	f.controls = append(f.controls, ctrl)
}

// EstablishConfigControlBindings attaches a listener for every registered
// config control whose handler pulses configureDevice / deviceConfigured.
func (f *Framework) EstablishConfigControlBindings() {
	for _, ctrl := range f.controls {
		ctrl := ctrl
		err := f.sink.On(ctrl.Selector, ctrl.Event, func(interface{}) {
			f.events.fire(EventConfigureDevice, ctrl.Selector)
			f.events.fire(EventDeviceConfigured, ctrl.Selector)
		})
		if err != nil {
			f.events.fire(EventConfigError, fmt.Sprintf("attaching control %q: %v", ctrl.Selector, err))
		}
	}
}

// ReleaseConfigControlBindings detaches every config-control listener.
func (f *Framework) ReleaseConfigControlBindings() {
	for _, ctrl := range f.controls {
		if err := f.sink.Off(ctrl.Selector, ctrl.Event); err != nil {
			f.events.fire(EventConfigError, fmt.Sprintf("detaching control %q: %v", ctrl.Selector, err))
		}
	}
}

// OnRead routes one read-cycle snapshot to the read view. Registers absent
// from the snapshot are skipped; delivery is display-only and never touches
// the write path, including for hybrid bindings.
func (f *Framework) OnRead(values map[string]interface{}) {
	f.bindings.forEachReadBinding(func(rec BindingRecord) {
		v, ok := values[rec.Binding]
		if !ok {
			return
		}
		if err := f.sink.SetHTML(rec.Template, v); err != nil {
			f.events.fire(EventRefreshError, fmt.Sprintf("updating %q: %v", rec.Template, err))
		}
	})
}

// SelectDevices replaces the selected-device sequence. The head of the
// sequence becomes the active device all writes route to.
func (f *Framework) SelectDevices(devs []device.Device) {
	f.devices = devs
	if dev, ok := f.ActiveDevice(); ok {
		f.events.fire(EventDeviceSelection, dev.Name())
	} else {
		f.events.fire(EventDeviceSelection, nil)
	}
}

// ActiveDevice returns the head of the selected-device sequence. An empty
// selection yields ok=false, not an error.
func (f *Framework) ActiveDevice() (device.Device, bool) {
	if len(f.devices) == 0 {
		return nil, false
	}
	return f.devices[0], true
}

// CloseDevices closes every selected device and clears the selection.
func (f *Framework) CloseDevices() {
	for _, dev := range f.devices {
		if err := dev.Close(); err != nil {
			f.events.fire(EventConfigError, fmt.Sprintf("closing device %s: %v", dev.Name(), err))
		}
		f.events.fire(EventCloseDevice, dev.Name())
	}
	f.devices = nil
}
