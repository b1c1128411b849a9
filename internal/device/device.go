// Package device provides the register-level device layer: a common Device
// interface, a virtual in-memory implementation, a serial-attached
// implementation, and the periodic read-cycle runner.
package device

import "fmt"

// Device is one addressable hardware unit exposing named registers.
type Device interface {
	Name() string
	// WriteRegister writes value to the named register.
	WriteRegister(register string, value interface{}) error
	// ReadRegisters returns a snapshot of the current register values.
	// Registers the device cannot report right now are simply absent.
	ReadRegisters() (map[string]interface{}, error)
	Close() error
}

// New creates a device for the given connection type.
func New(cfg Config) (Device, error) {
	switch cfg.Type {
	case "virtual":
		return NewVirtualDevice(cfg.Name, cfg.Registers), nil
	case "serial":
		return NewSerialDevice(cfg)
	default:
		return nil, fmt.Errorf("unknown device type %s", cfg.Type)
	}
}

// Config describes one device attachment.
type Config struct {
	Name      string            `yaml:"name"`
	Type      string            `yaml:"type"`      // virtual / serial
	Port      string            `yaml:"port"`      // serial device node
	Baudrate  int               `yaml:"baudrate"`  // serial baud rate
	TimeoutMs int               `yaml:"timeoutMs"` // serial read timeout
	Registers map[string]string `yaml:"registers"` // virtual: initial register values
}
