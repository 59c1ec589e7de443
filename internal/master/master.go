package master

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/Ormared/ethercat-driver-ros2/internal/slave"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyBound is returned when slaves are attached or Bind is
	// called again after interface binding completed.
	ErrAlreadyBound = errors.New("interfaces already bound")
	// ErrNotBound is returned by cyclic operations before Bind.
	ErrNotBound = errors.New("interfaces not bound yet")
)

// Master owns one process-data image per attached slave plus the host-facing
// state and command vectors, and binds interface names to vector slots once
// all slaves are attached. It stands in for the fieldbus master stack at the
// boundary the channel managers are written against.
type Master struct {
	registry registryView
	logger   *zap.Logger

	mu     sync.RWMutex
	slaves []*attachedSlave
	byID   map[uuid.UUID]*attachedSlave

	state        []float64
	command      []float64
	stateSlots   map[string]int
	commandSlots map[string]int
	bound        bool
}

// registryView is the part of pdo.InterfaceRegistry the master needs; kept
// as an interface so tests can observe interning without exporting more.
type registryView interface {
	StateNames() []string
	CommandNames() []string
}

type attachedSlave struct {
	id    uuid.UUID
	slave *slave.Slave
	image []byte
}

func New(registry registryView, logger *zap.Logger) *Master {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Master{
		registry:     registry,
		logger:       logger,
		byID:         make(map[uuid.UUID]*attachedSlave),
		stateSlots:   make(map[string]int),
		commandSlots: make(map[string]int),
	}
}

// Attach registers a slave's PDO entries and allocates its process image.
// Attaching after Bind is an error: slot assignment is deferred until every
// channel in the system is known.
func (m *Master) Attach(s *slave.Slave) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bound {
		return uuid.Nil, fmt.Errorf("attach %s: %w", s.Name(), ErrAlreadyBound)
	}

	as := &attachedSlave{
		id:    uuid.New(),
		slave: s,
		image: make([]byte, s.ImageSize()),
	}
	m.slaves = append(m.slaves, as)
	m.byID[as.id] = as

	for _, e := range s.EntryInfos() {
		m.logger.Info("PDO entry registered",
			zap.String("slave", s.Name()),
			zap.String("index", fmt.Sprintf("0x%04x", e.Index)),
			zap.Uint8("sub_index", e.SubIndex),
			zap.Uint8("bits", e.Bits))
	}

	return as.id, nil
}

// Bind assigns every distinct bound interface name a slot in the state and
// command vectors, then pushes the slots and vectors into the channel
// managers. Must be called once, after all slaves are attached and before
// the first cycle. Command slots start at NaN so channels without a
// commanded value fall back to their defaults.
func (m *Master) Bind() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.bound {
		return ErrAlreadyBound
	}

	for _, as := range m.slaves {
		for _, cm := range as.slave.Channels() {
			for i := 0; i < cm.NumberOfInterfaces(); i++ {
				if name, ok := cm.StateInterfaceName(i); ok {
					if _, seen := m.stateSlots[name]; !seen {
						m.stateSlots[name] = len(m.stateSlots)
					}
				}
				if name, ok := cm.CommandInterfaceName(i); ok {
					if _, seen := m.commandSlots[name]; !seen {
						m.commandSlots[name] = len(m.commandSlots)
					}
				}
			}
		}
	}

	m.state = make([]float64, len(m.stateSlots))
	m.command = make([]float64, len(m.commandSlots))
	for i := range m.command {
		m.command[i] = math.NaN()
	}

	for _, as := range m.slaves {
		as.slave.Bind(m.state, m.command)
		for _, cm := range as.slave.Channels() {
			for i := 0; i < cm.NumberOfInterfaces(); i++ {
				if name, ok := cm.StateInterfaceName(i); ok {
					cm.SetStateInterfaceIndex(name, m.stateSlots[name])
				}
				if name, ok := cm.CommandInterfaceName(i); ok {
					cm.SetCommandInterfaceIndex(name, m.commandSlots[name])
				}
			}
		}
	}

	m.bound = true
	m.logger.Info("Interfaces bound",
		zap.Int("state_interfaces", len(m.stateSlots)),
		zap.Int("command_interfaces", len(m.commandSlots)))
	return nil
}

// Cycle runs one two-phase exchange over every attached slave: phase 1
// decodes the images into the state vector, phase 2 encodes the command
// vector back into the images.
func (m *Master) Cycle() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.bound {
		return ErrNotBound
	}
	for _, as := range m.slaves {
		as.slave.Update(as.image)
	}
	return nil
}

// StateValue returns the last published value of a state interface.
func (m *Master) StateValue(name string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	slot, ok := m.stateSlots[name]
	if !ok {
		return math.NaN(), false
	}
	return m.state[slot], true
}

// SetCommand sets the commanded value of a command interface.
func (m *Master) SetCommand(name string, value float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.commandSlots[name]
	if !ok {
		return false
	}
	m.command[slot] = value
	return true
}

// Image returns the process image of an attached slave. A real bus backend
// would swap this buffer with the wire each cycle; tests and diagnostics
// poke it directly.
func (m *Master) Image(id uuid.UUID) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	as, ok := m.byID[id]
	if !ok {
		return nil, false
	}
	return as.image, true
}

// StateInterfaceNames lists the bound state interface names known to the
// registry, sentinel row excluded.
func (m *Master) StateInterfaceNames() []string {
	return m.registry.StateNames()[1:]
}

// CommandInterfaceNames lists the bound command interface names known to the
// registry, sentinel row excluded.
func (m *Master) CommandInterfaceNames() []string {
	return m.registry.CommandNames()[1:]
}
