package device

import (
	"sync"

	"github.com/edgexfoundry/go-mod-core-contracts/v4/errors"
)

// Register holds the latest known value for one named register. DataType is
// a hint for the command layer; the store itself does not interpret values.
type Register struct {
	Name     string
	DataType string
	Value    interface{}
}

// RegisterStore is an in-memory register table shared between a device's
// read loop and the callers snapshotting it.
type RegisterStore struct {
	mu    sync.RWMutex
	store map[string]Register
}

func NewRegisterStore() *RegisterStore {
	return &RegisterStore{store: make(map[string]Register)}
}

// Set adds or replaces a register unconditionally.
func (s *RegisterStore) Set(name, dataType string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store[name] = Register{Name: name, DataType: dataType, Value: value}
}

// Get returns the current register entry.
func (s *RegisterStore) Get(name string) (Register, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.store[name]
	if !ok {
		return Register{}, errors.NewCommonEdgeX(errors.KindEntityDoesNotExist,
			"register "+name+" not found", nil)
	}
	return reg, nil
}

// Update replaces the value of an existing register, keeping its data type.
func (s *RegisterStore) Update(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.store[name]
	if !ok {
		return errors.NewCommonEdgeX(errors.KindEntityDoesNotExist,
			"register "+name+" not found", nil)
	}
	reg.Value = value
	s.store[name] = reg
	return nil
}

// Snapshot copies the current value of every register.
func (s *RegisterStore) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]interface{}, len(s.store))
	for name, reg := range s.store {
		out[name] = reg.Value
	}
	return out
}

// Clear drops all registers.
func (s *RegisterStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = make(map[string]Register)
}
