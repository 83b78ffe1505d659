package orabind

import (
	"errors"
	"fmt"
)

func getError(errCore error, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", driverErrMsg, errCore)
	}
	return fmt.Errorf("%s: %w: %s", driverErrMsg, errCore, err.Error())
}

func bindNameError(err error, name string) error {
	return fmt.Errorf("%w: %s", err, name)
}

func positionError(pos int, count int) error {
	return fmt.Errorf("%w: position %d not in [1, %d]", ErrOutOfBounds, pos, count)
}

func allocError(what string) error {
	return fmt.Errorf("%w: %s", ErrAllocation, what)
}

func bindArraySizeError(init, cur, requested int) error {
	return fmt.Errorf("%w: initial %d, current %d, requested %d",
		ErrBindArraySize, init, cur, requested)
}

func wireCallError(call string) error {
	return fmt.Errorf("%w: %s", errWire, call)
}

const driverErrMsg = "orabind"

var (
	// ErrTooManyBinds is returned when a statement holds the maximum bind
	// count and another slot is requested.
	ErrTooManyBinds = errors.New("maximum number of binds reached")

	// ErrBindAlreadyUsed is returned when a name collides and rebinding is
	// disabled on the statement.
	ErrBindAlreadyUsed = errors.New("bind name already used")

	// ErrRebindBadType is returned when rebinding is enabled but the new
	// bind's category differs from the existing one.
	ErrRebindBadType = errors.New("rebind with incompatible data type")

	// ErrOutOfBounds is returned for malformed or out-of-range positional
	// names and for accessor positions outside the bind's cardinality.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrAllocation is returned when a buffer or value-object allocation
	// fails; the bind attempt releases everything it allocated.
	ErrAllocation = errors.New("allocation failed")

	// ErrBindArraySize is returned when a statement already holds binds and
	// the requested iteration count exceeds the allocation they were sized
	// for.
	ErrBindArraySize = errors.New("bind array size exceeds initial allocation")

	errWire          = errors.New("wire call failed")
	errNilBind       = errors.New("nil bind")
	errClosedStmt    = errors.New("statement already closed")
	errBadDirection  = errors.New("invalid bind direction")
	errBadCharset    = errors.New("invalid charset form")
	errNoLengthArray = errors.New("bind carries no length array")
	errMinDataSize   = errors.New("data size must be at least 1")
	errNoTypeInfo    = errors.New("object bind without type information")
)
