package pdo

import (
	"fmt"
	"strconv"
	"strings"
)

// channelDataTypes is the ordered catalogue of channel data type names. The
// position of a name is its type id, used to index the codec dispatch tables.
var channelDataTypes = []string{
	"unknown",
	"bit",
	"bool",
	"int8", "uint8",
	"int16", "uint16",
	"int32", "uint32",
	"int64", "uint64",
}

// channelDataBits holds the bit width of each catalogue entry. The bit row is
// 0 here because bitN widths are parsed from the name suffix.
var channelDataBits = []uint8{
	0,
	0,
	1,
	8, 8,
	16, 16,
	32, 32,
	64, 64,
}

// Type ids the code refers to directly.
const (
	typeUnknown = 0
	typeBit     = 1
	typeBool    = 2
)

// OctetOverrideType selects the whole-byte overwrite write codec. It is a
// distinct opt-in name occupying the dispatch row past the primitive
// catalogue; no primitive or bitN name ever resolves to it.
const OctetOverrideType = "octet_override"

const typeOctetOverride = 11

// TypeIndex returns the id of a data type name. Any name containing "bit"
// (bit, bit1, bit240, ...) maps to the single bit row; the width is recovered
// separately by TypeBits. Unknown names map to id 0.
func TypeIndex(name string) int {
	if name == OctetOverrideType {
		return typeOctetOverride
	}
	if strings.Contains(name, "bit") {
		return typeBit
	}
	for i, t := range channelDataTypes {
		if t == name {
			return i
		}
	}
	return typeUnknown
}

// TypeBits returns the bit width of a data type name. For bitN names the
// width is parsed from the numeric suffix; a missing or non-numeric suffix
// yields 0, which load-time validation treats as a configuration error.
func TypeBits(name string) uint8 {
	switch TypeIndex(name) {
	case typeBit:
		suffix := name[strings.Index(name, "bit")+3:]
		n, err := strconv.Atoi(suffix)
		if err != nil || n < 0 || n > 255 {
			return 0
		}
		return uint8(n)
	case typeOctetOverride:
		return 8
	default:
		return channelDataBits[TypeIndex(name)]
	}
}

// TypeNameFromID reconstructs the type name of an id, "bit"+width for the
// bit row.
func TypeNameFromID(id int, bits uint8) (string, error) {
	switch {
	case id == typeOctetOverride:
		return OctetOverrideType, nil
	case id < 0 || id >= len(channelDataTypes):
		return "", fmt.Errorf("pdo: type id %d out of range (%d known types)", id, len(channelDataTypes))
	case id == typeBit:
		return "bit" + strconv.Itoa(int(bits)), nil
	}
	return channelDataTypes[id], nil
}

// CheckType reports whether a type name and mask form a valid pairing: the
// type must be known with a non-zero width, and the highest set bit of the
// mask must fall inside that width. Byte-wide and larger types accept any
// mask value. A bool field accepts any single-bit mask, wherever that bit
// sits in the byte, so several bools can pack into one register byte; a
// multi-bit bool mask is rejected because its read and write semantics
// disagree.
func CheckType(name string, mask uint8) bool {
	id := TypeIndex(name)
	bits := TypeBits(name)
	if id == typeUnknown || bits == 0 {
		return false
	}
	if id == typeBool {
		return mask&(mask-1) == 0
	}
	if bits >= 8 {
		return true
	}
	return uint16(mask) < 1<<uint16(bits)
}
