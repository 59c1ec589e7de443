package pdo

import (
	"fmt"
	"math"

	"github.com/Ormared/ethercat-driver-ros2/internal/types"
	"go.uber.org/zap"
)

// SingleChannelManager maps one PDO register to at most one logical
// interface. It is the common case: one joint command or state value per
// register.
type SingleChannelManager struct {
	channelCore
	InterfaceData

	readFn  ReadFunc
	writeFn WriteFunc

	// Name ids in the registry tables; 0 means no name bound.
	stateNameID   int
	commandNameID int

	// Slots in the host vectors; -1 until the binder assigns them.
	stateIndex   int
	commandIndex int
}

func NewSingleChannelManager(pdoType types.PdoType, reg *InterfaceRegistry, logger *zap.Logger) *SingleChannelManager {
	return &SingleChannelManager{
		channelCore:   newChannelCore(pdoType, reg, logger),
		InterfaceData: NewInterfaceData(),
		stateIndex:    -1,
		commandIndex:  -1,
	}
}

// Load parses the channel configuration, resolves the codec pair and records
// the optional interface names. It fails on an unknown type or a mask that
// does not fit the declared width.
func (m *SingleChannelManager) Load(cfg *types.ChannelConfig) error {
	if err := m.loadHeader(cfg); err != nil {
		return err
	}

	if cfg.CommandInterface != "" {
		m.commandNameID = m.registry.InternCommand(cfg.CommandInterface)
	}
	// A default applies with or without a command binding: unbound writable
	// channels are held at the default every cycle.
	if d := cfg.DefaultCommand(); d != nil {
		m.DefaultValue = *d
	}
	if cfg.StateInterface != "" {
		m.stateNameID = m.registry.InternState(cfg.StateInterface)
	}

	if cfg.Factor != nil {
		m.Factor = *cfg.Factor
	}
	if cfg.Offset != nil {
		m.Offset = *cfg.Offset
	}
	if cfg.Mask != nil {
		m.Mask = *cfg.Mask
	}

	if !CheckType(cfg.Type, m.Mask) {
		return fmt.Errorf("channel 0x%04x: %w: type %q mask %#02x",
			m.index, types.ErrMaskWidth, cfg.Type, m.Mask)
	}

	m.readFn = readFuncs[m.dataTypeIdx]
	m.writeFn = writeFuncs[m.dataTypeIdx]
	return nil
}

// Read decodes the register, applies factor and offset, caches the result as
// LastValue and publishes it to the bound state slot.
func (m *SingleChannelManager) Read(domain []byte, _ int) float64 {
	raw := m.readFn(domain, m.Mask)
	m.LastValue = m.Factor*raw + m.Offset
	if m.stateIndex >= 0 {
		m.state[m.stateIndex] = m.LastValue
	}
	return m.LastValue
}

// Write encodes value into the register. It is a no-op unless the channel is
// a writable RPDO; a NaN or overridden value falls back to the configured
// default, and without a default the hardware byte is left unchanged.
func (m *SingleChannelManager) Write(domain []byte, value float64, _ int) {
	if m.pdoType != types.RPDO || !m.allowWrite {
		return
	}
	switch {
	case !math.IsNaN(value) && !m.OverrideCommand:
		m.LastValue = m.Factor*value + m.Offset
		m.writeFn(domain, m.LastValue, m.Mask)
	case !math.IsNaN(m.DefaultValue):
		m.LastValue = m.DefaultValue
		m.writeFn(domain, m.LastValue, m.Mask)
	}
}

func (m *SingleChannelManager) ReadToInterface(domain []byte) {
	m.Read(domain, 0)
}

func (m *SingleChannelManager) WriteFromInterface(domain []byte) {
	if m.commandIndex >= 0 {
		m.Write(domain, m.command[m.commandIndex], 0)
		return
	}
	if m.pdoType == types.RPDO && m.allowWrite && !math.IsNaN(m.DefaultValue) {
		m.LastValue = m.DefaultValue
		m.writeFn(domain, m.LastValue, m.Mask)
	}
}

func (m *SingleChannelManager) Update(domain []byte) {
	m.ReadToInterface(domain)
	m.WriteFromInterface(domain)
}

func (m *SingleChannelManager) NumberOfInterfaces() int { return 1 }

func (m *SingleChannelManager) NumberOfManagedInterfaces() int {
	if m.stateNameID != 0 || m.commandNameID != 0 {
		return 1
	}
	return 0
}

// InterfaceName returns the bound name of the channel's only field, the
// command name taking precedence, or "null" when nothing is bound.
func (m *SingleChannelManager) InterfaceName(i int) (string, error) {
	if i != 0 {
		return "", fmt.Errorf("single channel 0x%04x: %w: %d (must be 0)",
			m.index, types.ErrIndexOutOfRange, i)
	}
	switch {
	case m.commandNameID != 0:
		return m.registry.CommandName(m.commandNameID), nil
	case m.stateNameID != 0:
		return m.registry.StateName(m.stateNameID), nil
	}
	return "null", nil
}

func (m *SingleChannelManager) DataType(i int) (string, error) {
	if i != 0 {
		return "", fmt.Errorf("single channel 0x%04x: %w: %d (must be 0)",
			m.index, types.ErrIndexOutOfRange, i)
	}
	return TypeNameFromID(m.dataTypeIdx, m.bits)
}

func (m *SingleChannelManager) Data(i int) (*InterfaceData, error) {
	if i != 0 {
		return nil, fmt.Errorf("single channel 0x%04x: %w: %d (must be 0)",
			m.index, types.ErrIndexOutOfRange, i)
	}
	return &m.InterfaceData, nil
}

func (m *SingleChannelManager) StateInterfaceName(i int) (string, bool) {
	if i != 0 || m.stateNameID == 0 {
		return "", false
	}
	return m.registry.StateName(m.stateNameID), true
}

func (m *SingleChannelManager) CommandInterfaceName(i int) (string, bool) {
	if i != 0 || m.commandNameID == 0 {
		return "", false
	}
	return m.registry.CommandName(m.commandNameID), true
}

func (m *SingleChannelManager) IsInterfaceManaged(name string) (int, bool) {
	n, err := m.InterfaceName(0)
	if err == nil && n != "null" && n == name {
		return 0, true
	}
	return -1, false
}

func (m *SingleChannelManager) SetStateInterfaceIndex(_ string, index int) {
	m.stateIndex = index
}

func (m *SingleChannelManager) SetCommandInterfaceIndex(_ string, index int) {
	m.commandIndex = index
}

func (m *SingleChannelManager) StateInterfaceIndex(_ int) int   { return m.stateIndex }
func (m *SingleChannelManager) CommandInterfaceIndex(_ int) int { return m.commandIndex }
