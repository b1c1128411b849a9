package device

// VirtualDevice is a register store with no hardware behind it, used for
// development and tests just like a simulated instrument.
type VirtualDevice struct {
	name  string
	store *RegisterStore
}

// NewVirtualDevice seeds a virtual device with the given initial registers.
func NewVirtualDevice(name string, initial map[string]string) *VirtualDevice {
	d := &VirtualDevice{name: name, store: NewRegisterStore()}
	for reg, val := range initial {
		d.store.Set(reg, "string", val)
	}
	return d
}

func (d *VirtualDevice) Name() string { return d.name }

// WriteRegister updates an existing register; writing to a register the
// device never declared is an error, matching real hardware.
func (d *VirtualDevice) WriteRegister(register string, value interface{}) error {
	return d.store.Update(register, value)
}

func (d *VirtualDevice) ReadRegisters() (map[string]interface{}, error) {
	return d.store.Snapshot(), nil
}

func (d *VirtualDevice) Close() error {
	d.store.Clear()
	return nil
}

// SetRegister lets simulations push fresh readings into the device between
// read cycles.
func (d *VirtualDevice) SetRegister(register, dataType string, value interface{}) {
	d.store.Set(register, dataType, value)
}

// Register exposes the stored entry, including its data type hint.
func (d *VirtualDevice) Register(name string) (Register, error) {
	return d.store.Get(name)
}
