package pdo

import "encoding/binary"

// ReadFunc decodes a raw value from the head of b, honoring mask for the
// sub-byte codecs. Multi-byte values are little-endian, the EtherCAT wire
// order.
type ReadFunc func(b []byte, mask uint8) float64

// WriteFunc encodes value at the head of b.
type WriteFunc func(b []byte, value float64, mask uint8)

func uint8Read(b []byte, _ uint8) float64  { return float64(b[0]) }
func int8Read(b []byte, _ uint8) float64   { return float64(int8(b[0])) }
func uint16Read(b []byte, _ uint8) float64 { return float64(binary.LittleEndian.Uint16(b)) }
func int16Read(b []byte, _ uint8) float64  { return float64(int16(binary.LittleEndian.Uint16(b))) }
func uint32Read(b []byte, _ uint8) float64 { return float64(binary.LittleEndian.Uint32(b)) }
func int32Read(b []byte, _ uint8) float64  { return float64(int32(binary.LittleEndian.Uint32(b))) }
func uint64Read(b []byte, _ uint8) float64 { return float64(binary.LittleEndian.Uint64(b)) }
func int64Read(b []byte, _ uint8) float64  { return float64(int64(binary.LittleEndian.Uint64(b))) }

// boolRead reports 1 if any mask bit is set in the addressed byte.
func boolRead(b []byte, mask uint8) float64 {
	if b[0]&mask != 0 {
		return 1
	}
	return 0
}

// octetRead returns the masked byte as an integer-valued float.
func octetRead(b []byte, mask uint8) float64 { return float64(b[0] & mask) }

// Integer writes truncate toward zero through int64 so negative and
// out-of-range values convert deterministically before wrapping.
func uint8Write(b []byte, v float64, _ uint8) { b[0] = uint8(int64(v)) }
func int8Write(b []byte, v float64, _ uint8)  { b[0] = uint8(int8(int64(v))) }
func uint16Write(b []byte, v float64, _ uint8) {
	binary.LittleEndian.PutUint16(b, uint16(int64(v)))
}
func int16Write(b []byte, v float64, _ uint8) {
	binary.LittleEndian.PutUint16(b, uint16(int16(int64(v))))
}
func uint32Write(b []byte, v float64, _ uint8) {
	binary.LittleEndian.PutUint32(b, uint32(int64(v)))
}
func int32Write(b []byte, v float64, _ uint8) {
	binary.LittleEndian.PutUint32(b, uint32(int32(int64(v))))
}
func uint64Write(b []byte, v float64, _ uint8) {
	binary.LittleEndian.PutUint64(b, uint64(int64(v)))
}
func int64Write(b []byte, v float64, _ uint8) {
	binary.LittleEndian.PutUint64(b, uint64(int64(v)))
}

// boolCompose clears the mask bits, then sets them all if value is truthy.
// Bits outside the mask keep their current state.
func boolCompose(b []byte, v float64, mask uint8) {
	cur := b[0] &^ mask
	if v != 0 {
		cur |= mask
	}
	b[0] = cur
}

// octetCompose merges the masked value bits into the byte, leaving bits
// outside the mask untouched (read-modify-write).
func octetCompose(b []byte, v float64, mask uint8) {
	b[0] = b[0]&^mask | uint8(int64(v))&mask
}

// octetOverride replaces the whole byte with the masked value.
func octetOverride(b []byte, v float64, mask uint8) {
	b[0] = uint8(int64(v)) & mask
}

// readFuncs and writeFuncs are the codec dispatch tables, indexed by type id.
// Row 0 is nil: an unknown type is rejected at load time and never reaches
// dispatch. The last row is the opt-in octet_override codec.
var readFuncs = []ReadFunc{
	nil,
	octetRead,
	boolRead,
	int8Read, uint8Read,
	int16Read, uint16Read,
	int32Read, uint32Read,
	int64Read, uint64Read,
	octetRead,
}

var writeFuncs = []WriteFunc{
	nil,
	octetCompose,
	boolCompose,
	int8Write, uint8Write,
	int16Write, uint16Write,
	int32Write, uint32Write,
	int64Write, uint64Write,
	octetOverride,
}
