package pdo

import (
	"encoding/binary"
	"testing"
)

func TestOctetCodec(t *testing.T) {
	buf := []byte{0b00000111}

	// Only the mask bits are visible on read.
	if got := octetRead(buf, 0b00000101); got != 5 {
		t.Errorf("octetRead(0b111, mask 0b101) = %v, want 5", got)
	}

	// Read-modify-write: bits outside the mask survive.
	buf[0] = 0b11110010
	octetCompose(buf, 7, 0b00000101)
	if buf[0] != 0b11110111 {
		t.Errorf("octetCompose merged to %#08b, want 0b11110111", buf[0])
	}
	if got := octetRead(buf, 0b00000101); got != 5 {
		t.Errorf("read-back after masked write = %v, want 5", got)
	}

	octetCompose(buf, 0, 0b00000101)
	if buf[0] != 0b11110010 {
		t.Errorf("octetCompose(0) cleared to %#08b, want 0b11110010", buf[0])
	}
}

func TestBoolCodec(t *testing.T) {
	buf := []byte{0}

	if got := boolRead(buf, 1); got != 0 {
		t.Errorf("boolRead of clear byte = %v, want 0", got)
	}
	buf[0] = 0b00000011
	if got := boolRead(buf, 1); got != 1 {
		t.Errorf("boolRead with mask bit set = %v, want 1", got)
	}

	// Writes touch exactly the mask bits.
	buf[0] = 0b10100000
	boolCompose(buf, 1, 0b00000001)
	if buf[0] != 0b10100001 {
		t.Errorf("boolCompose(1) = %#08b, want 0b10100001", buf[0])
	}
	boolCompose(buf, 0, 0b00000001)
	if buf[0] != 0b10100000 {
		t.Errorf("boolCompose(0) = %#08b, want 0b10100000", buf[0])
	}
}

// A bool mask selecting several bits is rejected at load time, but the codec
// itself keeps the historical behavior: any set bit reads as 1, writes clear
// or set the whole mask pattern.
func TestBoolCodecMultiBitMask(t *testing.T) {
	buf := []byte{0b00000100}
	if got := boolRead(buf, 0b00000101); got != 1 {
		t.Errorf("boolRead multi-bit mask = %v, want 1", got)
	}

	buf[0] = 0b00000010
	boolCompose(buf, 1, 0b00000101)
	if buf[0] != 0b00000111 {
		t.Errorf("boolCompose(1) multi-bit mask = %#08b, want 0b00000111", buf[0])
	}
	boolCompose(buf, 0, 0b00000101)
	if buf[0] != 0b00000010 {
		t.Errorf("boolCompose(0) multi-bit mask = %#08b, want 0b00000010", buf[0])
	}
}

func TestOctetOverride(t *testing.T) {
	buf := []byte{0b11110000}
	octetOverride(buf, 0xAB, 0x0F)
	if buf[0] != 0x0B {
		t.Errorf("octetOverride = %#02x, want 0x0b (whole byte replaced)", buf[0])
	}
}

func TestIntegerCodecs(t *testing.T) {
	buf := make([]byte, 8)

	int16Write(buf, -123, 0)
	if got := int16Read(buf, 0); got != -123 {
		t.Errorf("int16 round trip = %v, want -123", got)
	}
	if raw := binary.LittleEndian.Uint16(buf); raw != 0xFF85 {
		t.Errorf("int16 wire value = %#04x, want 0xff85", raw)
	}

	uint32Write(buf, 3_000_000_000, 0)
	if got := uint32Read(buf, 0); got != 3_000_000_000 {
		t.Errorf("uint32 round trip = %v, want 3000000000", got)
	}

	int64Write(buf, -1, 0)
	if got := int64Read(buf, 0); got != -1 {
		t.Errorf("int64 round trip = %v, want -1", got)
	}

	// Values truncate toward zero, matching the reference behavior.
	int8Write(buf, -5.9, 0)
	if got := int8Read(buf, 0); got != -5 {
		t.Errorf("int8 write of -5.9 reads %v, want -5", got)
	}
}

func TestDispatchTablesAligned(t *testing.T) {
	if len(readFuncs) != len(channelDataTypes)+1 {
		t.Errorf("readFuncs has %d rows, want %d", len(readFuncs), len(channelDataTypes)+1)
	}
	if len(writeFuncs) != len(readFuncs) {
		t.Errorf("writeFuncs has %d rows, readFuncs %d", len(writeFuncs), len(readFuncs))
	}
	if readFuncs[typeUnknown] != nil || writeFuncs[typeUnknown] != nil {
		t.Error("unknown type must have no codec")
	}
}
