package pdo

import (
	"fmt"

	"github.com/Ormared/ethercat-driver-ros2/internal/types"
	"go.uber.org/zap"
)

// PdoEntryInfo is the descriptor triple the master registers with the
// fieldbus stack for one channel. It is emitted once at setup and is not
// part of the cyclic path.
type PdoEntryInfo struct {
	Index    uint16
	SubIndex uint8
	Bits     uint8
}

// ChannelManager maps one PDO register to logical interface values. It has
// exactly two implementations: SingleChannelManager for a register bound to
// at most one interface, and GroupChannelManager for a register packing
// several independently addressed fields.
//
// The cyclic methods assume exclusive, non-reentrant access during each
// update; the channel performs no internal locking. Read and Write take a
// pre-validated field index and never allocate.
type ChannelManager interface {
	// Load parses the channel configuration. It must be called exactly
	// once, before any exchange; failure leaves the channel unusable.
	Load(cfg *types.ChannelConfig) error

	// Read decodes field i from domain, applies factor and offset,
	// publishes to the bound state slot and returns the scaled value.
	Read(domain []byte, i int) float64
	// Write encodes value into field i of domain, honoring direction,
	// write permission, override and default rules. A write with neither a
	// resolvable value nor a default is a defined no-op.
	Write(domain []byte, value float64, i int)
	// ReadToInterface runs phase 1 of the cyclic exchange.
	ReadToInterface(domain []byte)
	// WriteFromInterface runs phase 2 of the cyclic exchange.
	WriteFromInterface(domain []byte)
	// Update runs both phases; it is the canonical per-cycle entry point.
	Update(domain []byte)

	// Bind hands the channel the host-owned state and command vectors.
	Bind(state, command []float64)

	EntryInfo() PdoEntryInfo
	PdoType() types.PdoType
	PdoDataType() (string, error)
	Skip() bool
	SetAllowWrite(allow bool)

	// NumberOfInterfaces counts all fields, bound or not.
	NumberOfInterfaces() int
	// NumberOfManagedInterfaces counts only fields bound to a name.
	NumberOfManagedInterfaces() int

	InterfaceName(i int) (string, error)
	DataType(i int) (string, error)
	Data(i int) (*InterfaceData, error)

	// StateInterfaceName reports the state name bound to field i, if any.
	StateInterfaceName(i int) (string, bool)
	// CommandInterfaceName reports the command name bound to field i, if any.
	CommandInterfaceName(i int) (string, bool)

	IsInterfaceManaged(name string) (int, bool)
	SetStateInterfaceIndex(name string, index int)
	SetCommandInterfaceIndex(name string, index int)
	StateInterfaceIndex(i int) int
	CommandInterfaceIndex(i int) int
}

// NewChannelManager builds and loads the manager kind matching the
// configuration: a group manager when data_mapping entries are present, a
// single manager otherwise.
func NewChannelManager(pdoType types.PdoType, reg *InterfaceRegistry, logger *zap.Logger, cfg *types.ChannelConfig) (ChannelManager, error) {
	var cm ChannelManager
	if cfg.IsGroup() {
		cm = NewGroupChannelManager(pdoType, reg, logger)
	} else {
		cm = NewSingleChannelManager(pdoType, reg, logger)
	}
	if err := cm.Load(cfg); err != nil {
		return nil, err
	}
	return cm, nil
}

// channelCore carries the register identity and host bindings shared by both
// channel manager kinds.
type channelCore struct {
	pdoType  types.PdoType
	index    uint16
	subIndex uint8

	bits        uint8
	dataTypeIdx int

	allowWrite bool
	skip       bool

	registry *InterfaceRegistry
	logger   *zap.Logger

	state   []float64
	command []float64
}

func newChannelCore(pdoType types.PdoType, reg *InterfaceRegistry, logger *zap.Logger) channelCore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return channelCore{
		pdoType:    pdoType,
		allowWrite: true,
		registry:   reg,
		logger:     logger,
	}
}

// loadHeader parses the register identity and data type common to both
// channel kinds. Missing index or sub_index is tolerated with a warning, a
// missing or unknown type is a configuration error.
func (c *channelCore) loadHeader(cfg *types.ChannelConfig) error {
	if cfg.Index != nil {
		c.index = *cfg.Index
	} else {
		c.logger.Warn("Channel config missing index")
	}

	if cfg.SubIndex != nil {
		c.subIndex = *cfg.SubIndex
	} else {
		c.logger.Warn("Channel config missing sub_index",
			zap.String("index", fmt.Sprintf("0x%04x", c.index)))
	}

	if cfg.Type == "" {
		return fmt.Errorf("channel 0x%04x: missing data type: %w", c.index, types.ErrUnknownType)
	}
	id := TypeIndex(cfg.Type)
	if id == typeUnknown {
		return fmt.Errorf("channel 0x%04x: %w: %q", c.index, types.ErrUnknownType, cfg.Type)
	}
	c.dataTypeIdx = id
	c.bits = TypeBits(cfg.Type)

	if cfg.Skip != nil {
		c.skip = *cfg.Skip
	}
	return nil
}

func (c *channelCore) EntryInfo() PdoEntryInfo {
	return PdoEntryInfo{Index: c.index, SubIndex: c.subIndex, Bits: c.bits}
}

func (c *channelCore) PdoType() types.PdoType { return c.pdoType }

// PdoDataType returns the type name declared for the whole register.
func (c *channelCore) PdoDataType() (string, error) {
	return TypeNameFromID(c.dataTypeIdx, c.bits)
}

func (c *channelCore) Skip() bool { return c.skip }

func (c *channelCore) SetAllowWrite(allow bool) { c.allowWrite = allow }

func (c *channelCore) Bind(state, command []float64) {
	c.state = state
	c.command = command
}
