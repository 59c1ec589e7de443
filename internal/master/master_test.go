package master

import (
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/Ormared/ethercat-driver-ros2/internal/pdo"
	"github.com/Ormared/ethercat-driver-ros2/internal/slave"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const driveConfigDoc = `
rpdo:
  - index: 0x1600
    channels:
      - {index: 0x6040, sub_index: 0, type: uint16, command_interface: control_word, default: 6}
      - {index: 0x6071, sub_index: 0, type: int16, command_interface: effort, factor: 2, offset: 10}
tpdo:
  - index: 0x1a00
    channels:
      - {index: 0x6041, sub_index: 0, type: uint16, state_interface: status_word}
      - {index: 0x6064, sub_index: 0, type: int32, state_interface: position}
`

func mustSlave(t *testing.T, name string, reg *pdo.InterfaceRegistry) *slave.Slave {
	t.Helper()
	var cfg slave.Config
	if err := yaml.Unmarshal([]byte(driveConfigDoc), &cfg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s, err := slave.New(name, &cfg, reg, nil)
	if err != nil {
		t.Fatalf("build slave: %v", err)
	}
	return s
}

func TestMasterCycleEndToEnd(t *testing.T) {
	reg := pdo.NewInterfaceRegistry()
	m := New(reg, nil)

	id, err := m.Attach(mustSlave(t, "drive_1", reg))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}

	if err := m.Cycle(); !errors.Is(err, ErrNotBound) {
		t.Fatalf("cycle before bind = %v, want ErrNotBound", err)
	}

	if err := m.Bind(); err != nil {
		t.Fatalf("bind: %v", err)
	}

	image, ok := m.Image(id)
	if !ok {
		t.Fatal("image lookup failed")
	}
	// Layout: control_word@0, effort@2, status_word@4, position@6.
	binary.LittleEndian.PutUint16(image[4:], 0x0237)
	binary.LittleEndian.PutUint32(image[6:], uint32(90000))

	// First cycle: no command set, control_word falls back to its default
	// and effort (no default) leaves its bytes alone.
	if err := m.Cycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if v, ok := m.StateValue("status_word"); !ok || v != 0x0237 {
		t.Errorf("status_word = %v, %v, want 567", v, ok)
	}
	if v, ok := m.StateValue("position"); !ok || v != 90000 {
		t.Errorf("position = %v, %v, want 90000", v, ok)
	}
	if got := binary.LittleEndian.Uint16(image[0:]); got != 6 {
		t.Errorf("control_word after default cycle = %d, want 6", got)
	}
	if got := binary.LittleEndian.Uint16(image[2:]); got != 0 {
		t.Errorf("effort without command or default = %d, want 0", got)
	}

	if !m.SetCommand("control_word", 15) {
		t.Fatal("SetCommand(control_word) rejected")
	}
	if !m.SetCommand("effort", 3) {
		t.Fatal("SetCommand(effort) rejected")
	}
	if err := m.Cycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if got := binary.LittleEndian.Uint16(image[0:]); got != 15 {
		t.Errorf("control_word = %d, want 15", got)
	}
	if got := int16(binary.LittleEndian.Uint16(image[2:])); got != 2*3+10 {
		t.Errorf("effort register = %d, want 16", got)
	}
}

func TestMasterSharedInterfaceAcrossSlaves(t *testing.T) {
	reg := pdo.NewInterfaceRegistry()
	m := New(reg, nil)

	idA, _ := m.Attach(mustSlave(t, "drive_1", reg))
	idB, _ := m.Attach(mustSlave(t, "drive_2", reg))

	if err := m.Bind(); err != nil {
		t.Fatalf("bind: %v", err)
	}

	// Both slaves declare the same interface names, so one command feeds
	// the matching register of each.
	m.SetCommand("effort", 1)
	if err := m.Cycle(); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	for _, id := range []uuid.UUID{idA, idB} {
		image, ok := m.Image(id)
		if !ok {
			t.Fatalf("image lookup failed for %s", id)
		}
		if got := int16(binary.LittleEndian.Uint16(image[2:])); got != 2*1+10 {
			t.Errorf("slave %s effort register = %d, want 12", id, got)
		}
	}
}

func TestMasterBindOnce(t *testing.T) {
	reg := pdo.NewInterfaceRegistry()
	m := New(reg, nil)
	if _, err := m.Attach(mustSlave(t, "drive_1", reg)); err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := m.Bind(); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if err := m.Bind(); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("second bind = %v, want ErrAlreadyBound", err)
	}
	if _, err := m.Attach(mustSlave(t, "drive_2", reg)); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("attach after bind = %v, want ErrAlreadyBound", err)
	}
}

func TestMasterInterfaceNames(t *testing.T) {
	reg := pdo.NewInterfaceRegistry()
	m := New(reg, nil)
	if _, err := m.Attach(mustSlave(t, "drive_1", reg)); err != nil {
		t.Fatalf("attach: %v", err)
	}

	states := m.StateInterfaceNames()
	commands := m.CommandInterfaceNames()
	wantStates := []string{"status_word", "position"}
	wantCommands := []string{"control_word", "effort"}
	if len(states) != len(wantStates) || len(commands) != len(wantCommands) {
		t.Fatalf("names = %v / %v", states, commands)
	}
	for i := range wantStates {
		if states[i] != wantStates[i] {
			t.Errorf("state[%d] = %q, want %q", i, states[i], wantStates[i])
		}
	}
	for i := range wantCommands {
		if commands[i] != wantCommands[i] {
			t.Errorf("command[%d] = %q, want %q", i, commands[i], wantCommands[i])
		}
	}

	if _, ok := m.StateValue("no_such"); ok {
		t.Error("unknown state name must not resolve")
	}
	if m.SetCommand("no_such", 1) {
		t.Error("unknown command name must not resolve")
	}
}

func TestCycleRunnerStartStop(t *testing.T) {
	reg := pdo.NewInterfaceRegistry()
	m := New(reg, nil)
	id, err := m.Attach(mustSlave(t, "drive_1", reg))
	if err != nil {
		t.Fatalf("attach: %v", err)
	}
	if err := m.Bind(); err != nil {
		t.Fatalf("bind: %v", err)
	}
	image, _ := m.Image(id)
	binary.LittleEndian.PutUint16(image[4:], 0x21)

	runner := NewCycleRunner(m, time.Millisecond, nil)
	if runner.IsRunning() {
		t.Fatal("runner must start stopped")
	}
	if err := runner.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !runner.IsRunning() {
		t.Fatal("runner should report running")
	}

	deadline := time.After(time.Second)
	for {
		if v, ok := m.StateValue("status_word"); ok && v == 0x21 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no cycle observed within deadline")
		case <-time.After(time.Millisecond):
		}
	}

	runner.Stop()
	if runner.IsRunning() {
		t.Error("runner should report stopped")
	}
	runner.Stop() // second stop is a no-op
}
