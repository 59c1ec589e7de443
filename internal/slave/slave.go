package slave

import (
	"fmt"

	"github.com/Ormared/ethercat-driver-ros2/internal/pdo"
	"github.com/Ormared/ethercat-driver-ros2/internal/types"
	"go.uber.org/zap"
)

// Config is one slave's declarative description, loaded from a YAML file.
type Config struct {
	VendorID       uint32      `yaml:"vendor_id"`
	ProductID      uint32      `yaml:"product_id"`
	AssignActivate uint32      `yaml:"assign_activate"`
	RPDO           []PdoConfig `yaml:"rpdo"`
	TPDO           []PdoConfig `yaml:"tpdo"`
}

// PdoConfig is one PDO of a slave: its assignment index and the channels it
// maps.
type PdoConfig struct {
	Index    uint16                `yaml:"index"`
	Channels []types.ChannelConfig `yaml:"channels"`
}

// Slave owns the channel managers of one device and the byte layout of its
// process-data image. RPDO channels come first, then TPDO channels, each
// occupying ceil(bits/8) bytes in declaration order.
type Slave struct {
	name      string
	config    *Config
	channels  []pdo.ChannelManager
	offsets   []int
	imageSize int
	logger    *zap.Logger
}

// New builds every channel manager of the slave against the shared interface
// registry. Any channel load error aborts the build.
func New(name string, cfg *Config, reg *pdo.InterfaceRegistry, logger *zap.Logger) (*Slave, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Slave{name: name, config: cfg, logger: logger}

	build := func(pdoType types.PdoType, pdos []PdoConfig) error {
		for pi := range pdos {
			for ci := range pdos[pi].Channels {
				cm, err := pdo.NewChannelManager(pdoType, reg, logger, &pdos[pi].Channels[ci])
				if err != nil {
					return fmt.Errorf("slave %s %s 0x%04x: %w", name, pdoType, pdos[pi].Index, err)
				}
				s.channels = append(s.channels, cm)
			}
		}
		return nil
	}
	if err := build(types.RPDO, cfg.RPDO); err != nil {
		return nil, err
	}
	if err := build(types.TPDO, cfg.TPDO); err != nil {
		return nil, err
	}

	s.layout()
	logger.Info("Slave channels loaded",
		zap.String("slave", name),
		zap.Int("channels", len(s.channels)),
		zap.Int("image_bytes", s.imageSize))
	return s, nil
}

// layout assigns byte-granular image offsets from the cumulative entry
// widths. Channels narrower than a byte still reserve one byte.
func (s *Slave) layout() {
	s.offsets = make([]int, len(s.channels))
	off := 0
	for i, cm := range s.channels {
		s.offsets[i] = off
		off += channelBytes(cm.EntryInfo().Bits)
	}
	s.imageSize = off
}

func channelBytes(bits uint8) int {
	n := (int(bits) + 7) / 8
	if n == 0 {
		n = 1
	}
	return n
}

func (s *Slave) Name() string { return s.name }

func (s *Slave) Config() *Config { return s.config }

// ImageSize is the byte length of the slave's process-data image.
func (s *Slave) ImageSize() int { return s.imageSize }

func (s *Slave) Channels() []pdo.ChannelManager { return s.channels }

// ChannelOffset is the byte offset of channel i in the image.
func (s *Slave) ChannelOffset(i int) int { return s.offsets[i] }

// EntryInfos returns the descriptor triples the master registers with the
// fieldbus stack, in channel order.
func (s *Slave) EntryInfos() []pdo.PdoEntryInfo {
	infos := make([]pdo.PdoEntryInfo, len(s.channels))
	for i, cm := range s.channels {
		infos[i] = cm.EntryInfo()
	}
	return infos
}

// Bind hands the host-owned state and command vectors to every channel.
func (s *Slave) Bind(state, command []float64) {
	for _, cm := range s.channels {
		cm.Bind(state, command)
	}
}

// Update runs the two-phase exchange over the slave's image. Skipped
// channels keep their reserved bytes but are not exchanged.
func (s *Slave) Update(image []byte) {
	for i, cm := range s.channels {
		if cm.Skip() {
			continue
		}
		cm.Update(image[s.offsets[i]:])
	}
}
