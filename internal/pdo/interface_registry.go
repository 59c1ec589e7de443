package pdo

// UnknownName occupies row 0 of both name tables; name id 0 always means "no
// name bound".
const UnknownName = "unknown"

// InterfaceRegistry interns state and command interface names, giving each
// distinct name a stable small id shared across every channel manager built
// against it. The tables only grow, and only while channels load; the host
// must serialize the load phase, after which the registry is read-only.
type InterfaceRegistry struct {
	stateNames   []string
	commandNames []string
}

func NewInterfaceRegistry() *InterfaceRegistry {
	return &InterfaceRegistry{
		stateNames:   []string{UnknownName},
		commandNames: []string{UnknownName},
	}
}

// InternState returns the id of a state interface name, appending the name on
// first use. Re-declaring a name anywhere in the system yields the same id,
// so one logical interface can be fed by several PDO registers.
func (r *InterfaceRegistry) InternState(name string) int {
	for i, n := range r.stateNames {
		if n == name {
			return i
		}
	}
	r.stateNames = append(r.stateNames, name)
	return len(r.stateNames) - 1
}

// InternCommand is InternState for the command name table.
func (r *InterfaceRegistry) InternCommand(name string) int {
	for i, n := range r.commandNames {
		if n == name {
			return i
		}
	}
	r.commandNames = append(r.commandNames, name)
	return len(r.commandNames) - 1
}

// StateName returns the name of a state id; out-of-range ids resolve to the
// unknown sentinel.
func (r *InterfaceRegistry) StateName(id int) string {
	if id < 0 || id >= len(r.stateNames) {
		return UnknownName
	}
	return r.stateNames[id]
}

// CommandName returns the name of a command id; out-of-range ids resolve to
// the unknown sentinel.
func (r *InterfaceRegistry) CommandName(id int) string {
	if id < 0 || id >= len(r.commandNames) {
		return UnknownName
	}
	return r.commandNames[id]
}

// StateNames returns a copy of the state name table in id order, sentinel
// included.
func (r *InterfaceRegistry) StateNames() []string {
	out := make([]string, len(r.stateNames))
	copy(out, r.stateNames)
	return out
}

// CommandNames returns a copy of the command name table in id order, sentinel
// included.
func (r *InterfaceRegistry) CommandNames() []string {
	out := make([]string, len(r.commandNames))
	copy(out, r.commandNames)
	return out
}
