package types

import "errors"

var (
	// ErrUnknownType is returned when a channel declares a data type that is
	// not in the type catalogue and is not a parsable bitN name.
	ErrUnknownType = errors.New("unknown channel data type")

	// ErrMaskWidth is returned when a mask selects bits outside the declared
	// data type width.
	ErrMaskWidth = errors.New("mask incompatible with data type width")

	// ErrGroupLevelCommand is returned when a group channel declares a
	// command_interface at channel level instead of per data_mapping entry.
	ErrGroupLevelCommand = errors.New("command_interface must be declared per data_mapping entry in a group channel")

	// ErrIndexOutOfRange is returned by metadata accessors for a sub-field
	// index beyond the loaded count.
	ErrIndexOutOfRange = errors.New("interface index out of range")
)
