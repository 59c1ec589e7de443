package types

import "fmt"

// PdoType is the direction of a PDO seen from the master.
type PdoType int

const (
	// RPDO carries data from master to slave; its channels are writable.
	RPDO PdoType = iota
	// TPDO carries data from slave to master; its channels are read-only.
	TPDO
)

func (t PdoType) String() string {
	switch t {
	case RPDO:
		return "rpdo"
	case TPDO:
		return "tpdo"
	}
	return fmt.Sprintf("PdoType(%d)", int(t))
}

// ChannelConfig is one channel entry of a slave's rpdo/tpdo list. Optional
// scalars are pointers so an absent key is distinguishable from a zero value.
type ChannelConfig struct {
	Index            *uint16             `yaml:"index"`
	SubIndex         *uint8              `yaml:"sub_index"`
	Type             string              `yaml:"type"`
	CommandInterface string              `yaml:"command_interface"`
	StateInterface   string              `yaml:"state_interface"`
	Default          *float64            `yaml:"default"`
	DefaultValue     *float64            `yaml:"default_value"`
	Factor           *float64            `yaml:"factor"`
	Offset           *float64            `yaml:"offset"`
	Mask             *uint8              `yaml:"mask"`
	Skip             *bool               `yaml:"skip"`
	DataMapping      []DataMappingConfig `yaml:"data_mapping"`
}

// IsGroup reports whether the channel declares per-field sub-mappings.
func (c *ChannelConfig) IsGroup() bool { return len(c.DataMapping) > 0 }

// DefaultCommand returns the configured default value, accepting both the
// "default" and "default_value" spellings.
func (c *ChannelConfig) DefaultCommand() *float64 {
	if c.Default != nil {
		return c.Default
	}
	return c.DefaultValue
}

// DataMappingConfig is one sub-field of a group channel. AddrOffset is in
// bytes, relative to the channel's own window in the process image.
type DataMappingConfig struct {
	AddrOffset       int      `yaml:"addr_offset"`
	Type             string   `yaml:"type"`
	CommandInterface string   `yaml:"command_interface"`
	StateInterface   string   `yaml:"state_interface"`
	DefaultValue     *float64 `yaml:"default_value"`
	Factor           *float64 `yaml:"factor"`
	Offset           *float64 `yaml:"offset"`
	Mask             *uint8   `yaml:"mask"`
}
