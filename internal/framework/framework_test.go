package framework

import (
	"fmt"
	"testing"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/clients/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marekvales/device_panel_go/internal/device"
	"github.com/marekvales/device_panel_go/internal/sink"
)

type registerWrite struct {
	register string
	value    interface{}
}

type fakeDevice struct {
	name    string
	regs    map[string]interface{}
	writes  []registerWrite
	readErr error
	closed  bool
}

func (d *fakeDevice) Name() string { return d.name }

func (d *fakeDevice) WriteRegister(register string, value interface{}) error {
	d.writes = append(d.writes, registerWrite{register: register, value: value})
	return nil
}

func (d *fakeDevice) ReadRegisters() (map[string]interface{}, error) {
	if d.readErr != nil {
		return nil, d.readErr
	}
	return d.regs, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func newTestFramework(t *testing.T) (*Framework, *sink.MemSink, *fakeDevice) {
	t.Helper()
	snk := sink.NewMemSink()
	f := New(logger.NewMockClient(), snk)
	dev := &fakeDevice{name: "sim0", regs: map[string]interface{}{}}
	f.SelectDevices([]device.Device{dev})
	return f, snk, dev
}

func collectEvents(f *Framework, names ...string) *[]string {
	var fired []string
	for _, name := range names {
		name := name
		f.On(name, func(interface{}) { fired = append(fired, name) })
	}
	return &fired
}

func TestPutConfigBindingExpandsRange(t *testing.T) {
	f, _, _ := newTestFramework(t)
	loadErrors := collectEvents(f, EventLoadError)

	f.PutConfigBinding(BindingRecord{
		Class:     "x",
		Template:  "ain-#(0:1)-display",
		Binding:   "AIN#(0:1)",
		Direction: DirectionRead,
	})

	assert.Empty(t, *loadErrors)
	require.Equal(t, 2, f.BindingCount())

	rec0, ok := f.Binding("ain-0-display")
	require.True(t, ok)
	assert.Equal(t, "AIN0", rec0.Binding)
	rec1, ok := f.Binding("ain-1-display")
	require.True(t, ok)
	assert.Equal(t, "AIN1", rec1.Binding)

	assert.Len(t, f.ReadBindings(), 2)
	assert.Empty(t, f.WriteBindings())
}

func TestPutConfigBindingCardinalityMismatch(t *testing.T) {
	f, _, _ := newTestFramework(t)
	loadErrors := collectEvents(f, EventLoadError)

	f.PutConfigBinding(BindingRecord{
		Class:     "x",
		Template:  "ain-#(0:2)-display",
		Binding:   "AIN#(0:1)",
		Direction: DirectionRead,
	})

	assert.Len(t, *loadErrors, 1)
	assert.Zero(t, f.BindingCount(), "no partial bindings may be registered")
}

func TestPutConfigBindingValidation(t *testing.T) {
	tests := []struct {
		name string
		rec  BindingRecord
	}{
		{name: "missing class", rec: BindingRecord{Template: "t", Binding: "R", Direction: DirectionRead}},
		{name: "missing template", rec: BindingRecord{Class: "c", Binding: "R", Direction: DirectionRead}},
		{name: "missing binding", rec: BindingRecord{Class: "c", Template: "t", Direction: DirectionRead}},
		{name: "missing direction", rec: BindingRecord{Class: "c", Template: "t", Binding: "R"}},
		{name: "write without event", rec: BindingRecord{Class: "c", Template: "t", Binding: "R", Direction: DirectionWrite}},
		{name: "hybrid without event", rec: BindingRecord{Class: "c", Template: "t", Binding: "R", Direction: DirectionHybrid}},
		{name: "invalid direction", rec: BindingRecord{Class: "c", Template: "t", Binding: "R", Direction: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, snk, _ := newTestFramework(t)
			loadErrors := collectEvents(f, EventLoadError)

			f.PutConfigBinding(tt.rec)

			assert.Len(t, *loadErrors, 1)
			assert.Zero(t, f.BindingCount())
			assert.Zero(t, snk.ListenerCount())
		})
	}
}

func TestWriteBindingAttachesSingleListener(t *testing.T) {
	f, snk, dev := newTestFramework(t)
	events := collectEvents(f, EventConfigureDevice, EventDeviceConfigured)

	f.PutConfigBinding(BindingRecord{
		Class:     "dac",
		Template:  "dac-0-input",
		Binding:   "DAC0",
		Direction: DirectionWrite,
		Event:     "change",
	})

	assert.Equal(t, 1, snk.ListenerCount())
	assert.Empty(t, f.ReadBindings())
	assert.Len(t, f.WriteBindings(), 1)

	// User edits the element and the change event fires.
	snk.SetValue("dac-0-input", 2.5)
	require.True(t, snk.Trigger("dac-0-input", "change"))

	require.Len(t, dev.writes, 1)
	assert.Equal(t, registerWrite{register: "DAC0", value: 2.5}, dev.writes[0])
	assert.Equal(t, []string{EventConfigureDevice, EventDeviceConfigured}, *events)
}

func TestWriteWithoutActiveDeviceFiresConfigError(t *testing.T) {
	f, snk, _ := newTestFramework(t)
	f.SelectDevices(nil)
	configErrors := collectEvents(f, EventConfigError)

	f.PutConfigBinding(BindingRecord{
		Class: "dac", Template: "dac-0-input", Binding: "DAC0",
		Direction: DirectionWrite, Event: "change",
	})
	snk.SetValue("dac-0-input", 1)
	require.True(t, snk.Trigger("dac-0-input", "change"))

	assert.Len(t, *configErrors, 1)
}

func TestDeleteConfigBinding(t *testing.T) {
	f, snk, _ := newTestFramework(t)
	loadErrors := collectEvents(f, EventLoadError)

	f.PutConfigBinding(BindingRecord{
		Class: "dac", Template: "dac-0-input", Binding: "DAC0",
		Direction: DirectionWrite, Event: "change",
	})
	require.Equal(t, 1, snk.ListenerCount())

	f.DeleteConfigBinding("dac-0-input")

	assert.Empty(t, *loadErrors)
	assert.Zero(t, f.BindingCount())
	assert.Zero(t, snk.ListenerCount(), "listener must be detached with the binding")
	assert.Empty(t, f.WriteBindings())
}

func TestDeleteUnknownBindingFiresLoadError(t *testing.T) {
	f, _, _ := newTestFramework(t)
	loadErrors := collectEvents(f, EventLoadError)

	f.PutConfigBinding(BindingRecord{Class: "x", Template: "keep", Binding: "REG", Direction: DirectionRead})
	f.DeleteConfigBinding("never-registered")

	assert.Len(t, *loadErrors, 1)
	assert.Equal(t, 1, f.BindingCount(), "table must be unchanged")
}

func TestDeleteConfigBindingExpandsRange(t *testing.T) {
	f, _, _ := newTestFramework(t)

	f.PutConfigBinding(BindingRecord{
		Class: "x", Template: "ain-#(0:3)-display", Binding: "AIN#(0:3)", Direction: DirectionRead,
	})
	require.Equal(t, 4, f.BindingCount())

	f.DeleteConfigBinding("ain-#(0:3)-display")
	assert.Zero(t, f.BindingCount())
}

func TestOnReadUpdatesOnlyReportedRegisters(t *testing.T) {
	f, snk, _ := newTestFramework(t)

	f.PutConfigBinding(BindingRecord{
		Class: "x", Template: "ain-#(0:1)-display", Binding: "AIN#(0:1)", Direction: DirectionRead,
	})

	f.OnRead(map[string]interface{}{"AIN0": 1.23})

	v, ok := snk.Display("ain-0-display")
	require.True(t, ok)
	assert.Equal(t, 1.23, v)

	_, ok = snk.Display("ain-1-display")
	assert.False(t, ok, "register absent from snapshot must leave element untouched")
}

func TestOnReadNeverTriggersWrites(t *testing.T) {
	f, snk, dev := newTestFramework(t)

	f.PutConfigBinding(BindingRecord{
		Class: "x", Template: "dio-0", Binding: "DIO0",
		Direction: DirectionHybrid, Event: "change",
	})

	f.OnRead(map[string]interface{}{"DIO0": 1})

	v, ok := snk.Display("dio-0")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Empty(t, dev.writes, "read delivery must not hit the write path")
}

func TestHybridBindingStillWritesOnUserEvent(t *testing.T) {
	f, snk, dev := newTestFramework(t)

	f.PutConfigBinding(BindingRecord{
		Class: "x", Template: "dio-0", Binding: "DIO0",
		Direction: DirectionHybrid, Event: "change",
	})

	snk.SetValue("dio-0", 0)
	require.True(t, snk.Trigger("dio-0", "change"))
	require.Len(t, dev.writes, 1)
	assert.Equal(t, "DIO0", dev.writes[0].register)
}

func TestReregisterIsIdempotent(t *testing.T) {
	f, snk, dev := newTestFramework(t)

	rec := BindingRecord{
		Class: "dac", Template: "dac-0-input", Binding: "DAC0",
		Direction: DirectionWrite, Event: "change",
	}
	f.PutConfigBinding(rec)
	f.PutConfigBinding(rec)

	assert.Equal(t, 1, f.BindingCount())
	assert.Equal(t, 1, snk.ListenerCount(), "no listener leak on re-registration")

	snk.SetValue("dac-0-input", 3)
	require.True(t, snk.Trigger("dac-0-input", "change"))
	assert.Len(t, dev.writes, 1, "exactly one handler may be attached")
}

func TestConfigControls(t *testing.T) {
	f, snk, _ := newTestFramework(t)
	events := collectEvents(f, EventConfigureDevice, EventDeviceConfigured)

	f.AddConfigControl(ConfigControl{Selector: "refresh-button", Event: "click"})
	f.EstablishConfigControlBindings()
	require.Equal(t, 1, snk.ListenerCount())

	require.True(t, snk.Trigger("refresh-button", "click"))
	assert.Equal(t, []string{EventConfigureDevice, EventDeviceConfigured}, *events)

	f.ReleaseConfigControlBindings()
	assert.Zero(t, snk.ListenerCount())
}

func TestActiveDeviceIsHeadOfSelection(t *testing.T) {
	f, _, _ := newTestFramework(t)

	first := &fakeDevice{name: "first"}
	second := &fakeDevice{name: "second"}
	f.SelectDevices([]device.Device{first, second})

	dev, ok := f.ActiveDevice()
	require.True(t, ok)
	assert.Equal(t, "first", dev.Name())
}

func TestActiveDeviceEmptySelection(t *testing.T) {
	f, _, _ := newTestFramework(t)
	f.SelectDevices(nil)

	dev, ok := f.ActiveDevice()
	assert.False(t, ok)
	assert.Nil(t, dev)
}

func TestSelectDevicesFiresSelectionEvent(t *testing.T) {
	f, _, _ := newTestFramework(t)
	var payloads []interface{}
	f.On(EventDeviceSelection, func(p interface{}) { payloads = append(payloads, p) })

	f.SelectDevices([]device.Device{&fakeDevice{name: "sim1"}})
	f.SelectDevices(nil)

	require.Len(t, payloads, 2)
	assert.Equal(t, "sim1", payloads[0])
	assert.Nil(t, payloads[1])
}

func TestCloseDevices(t *testing.T) {
	f, _, dev := newTestFramework(t)
	closed := collectEvents(f, EventCloseDevice)

	f.CloseDevices()

	assert.True(t, dev.closed)
	assert.Len(t, *closed, 1)
	_, ok := f.ActiveDevice()
	assert.False(t, ok)
}

func TestRunnerRunOnce(t *testing.T) {
	f, snk, dev := newTestFramework(t)
	dev.regs = map[string]interface{}{"AIN0": "0.5"}

	f.PutConfigBinding(BindingRecord{
		Class: "x", Template: "ain-0-display", Binding: "AIN0", Direction: DirectionRead,
	})

	var refreshed []interface{}
	f.On(EventRefresh, func(p interface{}) { refreshed = append(refreshed, p) })

	r := NewRunner(f, 0)
	r.RunOnce()

	v, ok := snk.Display("ain-0-display")
	require.True(t, ok)
	assert.Equal(t, "0.5", v)
	assert.Len(t, refreshed, 1)
}

func TestRunnerReadErrorFiresRefreshError(t *testing.T) {
	f, _, dev := newTestFramework(t)
	dev.readErr = fmt.Errorf("bus stuck")
	refreshErrors := collectEvents(f, EventRefreshError)

	r := NewRunner(f, 0)
	r.RunOnce()

	assert.Len(t, *refreshErrors, 1)
}

func TestRunnerNoDeviceSkipsCycle(t *testing.T) {
	f, _, _ := newTestFramework(t)
	f.SelectDevices(nil)
	refreshErrors := collectEvents(f, EventRefreshError)

	r := NewRunner(f, 0)
	r.RunOnce()

	assert.Empty(t, *refreshErrors)
}
