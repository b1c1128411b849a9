package device

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/tarm/serial"
)

// SerialDevice talks to an instrument over a serial line speaking a
// line-oriented register protocol: the instrument streams "NAME=VALUE"
// lines, and writes are sent in the same form. A background loop keeps the
// latest value per register in a local store; ReadRegisters snapshots it.
type SerialDevice struct {
	cfg   Config
	port  *serial.Port
	store *RegisterStore
	done  chan struct{}
}

func NewSerialDevice(cfg Config) (*SerialDevice, error) {
	sc := &serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baudrate,
		ReadTimeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}
	p, err := serial.OpenPort(sc)
	if err != nil {
		return nil, fmt.Errorf("open serial %s failed: %w", cfg.Port, err)
	}
	d := &SerialDevice{
		cfg:   cfg,
		port:  p,
		store: NewRegisterStore(),
		done:  make(chan struct{}),
	}
	go d.readLoop()
	return d, nil
}

func (d *SerialDevice) Name() string { return d.cfg.Name }

func (d *SerialDevice) WriteRegister(register string, value interface{}) error {
	frame := fmt.Sprintf("%s=%v\n", register, value)
	if _, err := d.port.Write([]byte(frame)); err != nil {
		return fmt.Errorf("serial write %s failed: %w", register, err)
	}
	return nil
}

func (d *SerialDevice) ReadRegisters() (map[string]interface{}, error) {
	return d.store.Snapshot(), nil
}

func (d *SerialDevice) Close() error {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
	return d.port.Close()
}

// readLoop accumulates bytes from the port and folds every complete line
// into the register store.
func (d *SerialDevice) readLoop() {
	var buf []byte
	tmp := make([]byte, 256)
	for {
		select {
		case <-d.done:
			return
		default:
		}
		n, err := d.port.Read(tmp)
		if err != nil {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		buf = append(buf, tmp[:n]...)
		for {
			frame, rest := NextFrame(buf)
			if frame == nil {
				break
			}
			buf = rest
			if name, value, ok := ParseRegisterFrame(frame); ok {
				d.store.Set(name, "string", value)
			}
		}
	}
}

// NextFrame extracts one newline-terminated frame from buf. It returns a nil
// frame when no complete line has accumulated yet; rest carries the
// unconsumed bytes for the next call.
func NextFrame(buf []byte) (frame, rest []byte) {
	i := bytes.IndexByte(buf, '\n')
	if i < 0 {
		return nil, buf
	}
	return buf[:i], buf[i+1:]
}

// ParseRegisterFrame splits a "NAME=VALUE" frame. Frames without '=' or with
// an empty name are noise and are dropped.
func ParseRegisterFrame(frame []byte) (name, value string, ok bool) {
	line := strings.TrimRight(string(frame), "\r")
	name, value, ok = strings.Cut(line, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}
