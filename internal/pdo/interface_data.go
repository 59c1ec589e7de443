package pdo

import "math"

// InterfaceData is the per-field channel descriptor: bit mask, linear
// scaling, default value and the last value that crossed the boundary in
// either direction. LastValue is NaN until the first read or write completes
// and always holds the most recent post-scaling value afterwards.
type InterfaceData struct {
	OverrideCommand bool
	Mask            uint8
	DefaultValue    float64
	LastValue       float64
	Factor          float64
	Offset          float64
}

// NewInterfaceData returns a descriptor with the documented defaults: full
// mask, identity scaling, no default value, nothing computed yet.
func NewInterfaceData() InterfaceData {
	return InterfaceData{
		Mask:         0xFF,
		DefaultValue: math.NaN(),
		LastValue:    math.NaN(),
		Factor:       1,
	}
}
