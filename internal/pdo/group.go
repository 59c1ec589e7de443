package pdo

import (
	"fmt"
	"math"

	"github.com/Ormared/ethercat-driver-ros2/internal/types"
	"go.uber.org/zap"
)

// GroupField is one independently addressed field inside a group channel's
// register window. A field may carry a state binding, a command binding,
// both, or neither (a pure byte/offset reservation).
type GroupField struct {
	InterfaceData

	// AddrOffset is the field's byte offset from the channel's own window
	// in the process image.
	AddrOffset int

	bits        uint8
	dataTypeIdx int

	readFn  ReadFunc
	writeFn WriteFunc

	stateNameID   int
	commandNameID int
	stateIndex    int
	commandIndex  int
}

func newGroupField() *GroupField {
	return &GroupField{
		InterfaceData: NewInterfaceData(),
		stateIndex:    -1,
		commandIndex:  -1,
	}
}

func (f *GroupField) managed() bool {
	return f.stateNameID != 0 || f.commandNameID != 0
}

// GroupChannelManager maps one multi-byte PDO register containing an ordered
// list of independently addressed sub-fields. Field 0 describes the whole
// register; data_mapping entries occupy fields 1..n in declaration order.
type GroupChannelManager struct {
	channelCore
	fields []*GroupField
}

func NewGroupChannelManager(pdoType types.PdoType, reg *InterfaceRegistry, logger *zap.Logger) *GroupChannelManager {
	return &GroupChannelManager{
		channelCore: newChannelCore(pdoType, reg, logger),
	}
}

// Load parses the group configuration. A channel-level command_interface is
// rejected; a channel-level state_interface turns field 0 into a real mapped
// field with the register's own type, mask, factor and offset. Each
// data_mapping entry allocates one field whether or not it binds a name; a
// mask/width violation aborts loading with no further entries processed.
func (m *GroupChannelManager) Load(cfg *types.ChannelConfig) error {
	if err := m.loadHeader(cfg); err != nil {
		return err
	}

	if cfg.CommandInterface != "" {
		return fmt.Errorf("channel 0x%04x: %w", m.index, types.ErrGroupLevelCommand)
	}

	root := newGroupField()
	root.dataTypeIdx = m.dataTypeIdx
	root.bits = m.bits
	if cfg.StateInterface != "" {
		root.stateNameID = m.registry.InternState(cfg.StateInterface)
		if cfg.Factor != nil {
			root.Factor = *cfg.Factor
		}
		if cfg.Offset != nil {
			root.Offset = *cfg.Offset
		}
		if cfg.Mask != nil {
			root.Mask = *cfg.Mask
		}
		if !CheckType(cfg.Type, root.Mask) {
			return fmt.Errorf("channel 0x%04x: %w: type %q mask %#02x",
				m.index, types.ErrMaskWidth, cfg.Type, root.Mask)
		}
		root.readFn = readFuncs[m.dataTypeIdx]
	}
	m.fields = append(m.fields, root)

	for n := range cfg.DataMapping {
		entry := &cfg.DataMapping[n]
		f := newGroupField()
		f.AddrOffset = entry.AddrOffset

		if entry.CommandInterface != "" {
			f.commandNameID = m.registry.InternCommand(entry.CommandInterface)
		}
		// A default applies with or without a command binding: it holds
		// unbound bits at a known value every cycle.
		if entry.DefaultValue != nil {
			f.DefaultValue = *entry.DefaultValue
		}
		if entry.StateInterface != "" {
			f.stateNameID = m.registry.InternState(entry.StateInterface)
		}

		if entry.Factor != nil {
			f.Factor = *entry.Factor
		}
		if entry.Offset != nil {
			f.Offset = *entry.Offset
		}
		if entry.Mask != nil {
			f.Mask = *entry.Mask
		}

		if entry.Type != "" {
			id := TypeIndex(entry.Type)
			if id == typeUnknown {
				return fmt.Errorf("channel 0x%04x mapping %d: %w: %q",
					m.index, n+1, types.ErrUnknownType, entry.Type)
			}
			if !CheckType(entry.Type, f.Mask) {
				return fmt.Errorf("channel 0x%04x mapping %d: %w: type %q mask %#02x",
					m.index, n+1, types.ErrMaskWidth, entry.Type, f.Mask)
			}
			f.dataTypeIdx = id
			f.bits = TypeBits(entry.Type)
			f.readFn = readFuncs[id]
			f.writeFn = writeFuncs[id]
		}

		m.fields = append(m.fields, f)
	}

	return nil
}

// Read decodes field i at its byte offset, applies factor and offset and
// publishes to its bound state slot. Fields without a codec (pure
// reservations, the unmapped field 0) keep their LastValue.
func (m *GroupChannelManager) Read(domain []byte, i int) float64 {
	f := m.fields[i]
	if f.readFn == nil {
		return f.LastValue
	}
	raw := f.readFn(domain[f.AddrOffset:], f.Mask)
	f.LastValue = f.Factor*raw + f.Offset
	if f.stateIndex >= 0 {
		m.state[f.stateIndex] = f.LastValue
	}
	return f.LastValue
}

// Write encodes value into field i, following the same direction, override
// and default rules as the single channel manager.
func (m *GroupChannelManager) Write(domain []byte, value float64, i int) {
	if m.pdoType != types.RPDO || !m.allowWrite {
		return
	}
	f := m.fields[i]
	if f.writeFn == nil {
		return
	}
	sub := domain[f.AddrOffset:]
	switch {
	case !math.IsNaN(value) && !f.OverrideCommand:
		f.LastValue = f.Factor*value + f.Offset
		f.writeFn(sub, f.LastValue, f.Mask)
	case !math.IsNaN(f.DefaultValue):
		f.LastValue = f.DefaultValue
		f.writeFn(sub, f.LastValue, f.Mask)
	}
}

// ReadToInterface decodes every name-bound field in declaration order.
func (m *GroupChannelManager) ReadToInterface(domain []byte) {
	for i, f := range m.fields {
		if f.managed() {
			m.Read(domain, i)
		}
	}
}

// WriteFromInterface encodes every command-bound field from the command
// vector. Writable fields without a command binding still receive their
// configured default so unbound bits stay at a known value every cycle.
func (m *GroupChannelManager) WriteFromInterface(domain []byte) {
	for i, f := range m.fields {
		if f.commandIndex >= 0 {
			m.Write(domain, m.command[f.commandIndex], i)
			continue
		}
		if m.pdoType == types.RPDO && m.allowWrite && f.writeFn != nil && !math.IsNaN(f.DefaultValue) {
			f.LastValue = f.DefaultValue
			f.writeFn(domain[f.AddrOffset:], f.LastValue, f.Mask)
		}
	}
}

func (m *GroupChannelManager) Update(domain []byte) {
	m.ReadToInterface(domain)
	m.WriteFromInterface(domain)
}

func (m *GroupChannelManager) NumberOfInterfaces() int { return len(m.fields) }

func (m *GroupChannelManager) NumberOfManagedInterfaces() int {
	n := 0
	for _, f := range m.fields {
		if f.managed() {
			n++
		}
	}
	return n
}

// InterfaceName returns the bound name of field i, the command name taking
// precedence, or "null" for an unbound field.
func (m *GroupChannelManager) InterfaceName(i int) (string, error) {
	if i < 0 || i >= len(m.fields) {
		return "", fmt.Errorf("group channel 0x%04x: %w: %d of %d",
			m.index, types.ErrIndexOutOfRange, i, len(m.fields))
	}
	f := m.fields[i]
	switch {
	case f.commandNameID != 0:
		return m.registry.CommandName(f.commandNameID), nil
	case f.stateNameID != 0:
		return m.registry.StateName(f.stateNameID), nil
	}
	return "null", nil
}

func (m *GroupChannelManager) DataType(i int) (string, error) {
	if i < 0 || i >= len(m.fields) {
		return "", fmt.Errorf("group channel 0x%04x: %w: %d of %d",
			m.index, types.ErrIndexOutOfRange, i, len(m.fields))
	}
	return TypeNameFromID(m.fields[i].dataTypeIdx, m.fields[i].bits)
}

func (m *GroupChannelManager) Data(i int) (*InterfaceData, error) {
	if i < 0 || i >= len(m.fields) {
		return nil, fmt.Errorf("group channel 0x%04x: %w: %d of %d",
			m.index, types.ErrIndexOutOfRange, i, len(m.fields))
	}
	return &m.fields[i].InterfaceData, nil
}

func (m *GroupChannelManager) StateInterfaceName(i int) (string, bool) {
	if i < 0 || i >= len(m.fields) || m.fields[i].stateNameID == 0 {
		return "", false
	}
	return m.registry.StateName(m.fields[i].stateNameID), true
}

func (m *GroupChannelManager) CommandInterfaceName(i int) (string, bool) {
	if i < 0 || i >= len(m.fields) || m.fields[i].commandNameID == 0 {
		return "", false
	}
	return m.registry.CommandName(m.fields[i].commandNameID), true
}

func (m *GroupChannelManager) IsInterfaceManaged(name string) (int, bool) {
	for i := range m.fields {
		n, err := m.InterfaceName(i)
		if err == nil && n != "null" && n == name {
			return i, true
		}
	}
	return -1, false
}

// SetStateInterfaceIndex assigns the host vector slot to every field bound
// to the named state interface.
func (m *GroupChannelManager) SetStateInterfaceIndex(name string, index int) {
	for _, f := range m.fields {
		if f.stateNameID != 0 && m.registry.StateName(f.stateNameID) == name {
			f.stateIndex = index
		}
	}
}

// SetCommandInterfaceIndex assigns the host vector slot to every field bound
// to the named command interface.
func (m *GroupChannelManager) SetCommandInterfaceIndex(name string, index int) {
	for _, f := range m.fields {
		if f.commandNameID != 0 && m.registry.CommandName(f.commandNameID) == name {
			f.commandIndex = index
		}
	}
}

func (m *GroupChannelManager) StateInterfaceIndex(i int) int {
	if i < 0 || i >= len(m.fields) {
		return -1
	}
	return m.fields[i].stateIndex
}

func (m *GroupChannelManager) CommandInterfaceIndex(i int) int {
	if i < 0 || i >= len(m.fields) {
		return -1
	}
	return m.fields[i].commandIndex
}
