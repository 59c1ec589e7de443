package pdo

import "testing"

func TestTypeIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"unknown", 0},
		{"bit", 1},
		{"bit2", 1},
		{"bit240", 1},
		{"bool", 2},
		{"int8", 3},
		{"uint8", 4},
		{"int16", 5},
		{"uint16", 6},
		{"int32", 7},
		{"uint32", 8},
		{"int64", 9},
		{"uint64", 10},
		{"octet_override", 11},
		{"float32", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := TypeIndex(tt.name); got != tt.want {
			t.Errorf("TypeIndex(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestTypeBits(t *testing.T) {
	tests := []struct {
		name string
		want uint8
	}{
		{"bool", 1},
		{"bit2", 2},
		{"bit8", 8},
		{"bit240", 240},
		{"bit", 0},
		{"bitxyz", 0},
		{"int8", 8},
		{"uint16", 16},
		{"int32", 32},
		{"uint64", 64},
		{"octet_override", 8},
		{"unknown", 0},
		{"no-such-type", 0},
	}
	for _, tt := range tests {
		if got := TypeBits(tt.name); got != tt.want {
			t.Errorf("TypeBits(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestTypeNameFromID(t *testing.T) {
	name, err := TypeNameFromID(typeBit, 2)
	if err != nil || name != "bit2" {
		t.Errorf("TypeNameFromID(bit, 2) = %q, %v, want bit2", name, err)
	}

	name, err = TypeNameFromID(5, 16)
	if err != nil || name != "int16" {
		t.Errorf("TypeNameFromID(5, 16) = %q, %v, want int16", name, err)
	}

	name, err = TypeNameFromID(typeOctetOverride, 8)
	if err != nil || name != OctetOverrideType {
		t.Errorf("TypeNameFromID(octet_override, 8) = %q, %v", name, err)
	}

	if _, err := TypeNameFromID(42, 0); err == nil {
		t.Error("TypeNameFromID(42, 0) should fail")
	}
	if _, err := TypeNameFromID(-1, 0); err == nil {
		t.Error("TypeNameFromID(-1, 0) should fail")
	}
}

func TestCheckType(t *testing.T) {
	tests := []struct {
		typ  string
		mask uint8
		want bool
	}{
		{"bool", 1, true},
		{"bool", 5, false}, // two mask bits, read/write semantics diverge
		{"bool", 2, true},
		{"bool", 32, true}, // single bit anywhere in the byte
		{"bit2", 3, true},
		{"bit2", 4, false},
		{"bit8", 5, true},
		{"bit8", 255, true},
		{"int16", 255, true}, // mask ignored by integer codecs
		{"uint64", 255, true},
		{"octet_override", 0x0F, true},
		{"unknown", 1, false},
		{"bitxyz", 0, false}, // unparsable width
		{"float64", 255, false},
	}
	for _, tt := range tests {
		if got := CheckType(tt.typ, tt.mask); got != tt.want {
			t.Errorf("CheckType(%q, %#02x) = %v, want %v", tt.typ, tt.mask, got, tt.want)
		}
	}
}
