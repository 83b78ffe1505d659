package orabind

import (
	"fmt"

	"github.com/google/uuid"
)

const uuidLength = 16

// UUID is a 16-byte identifier bound and stored as RAW(16).
type UUID [uuidLength]byte

// Scan fills the UUID from RAW(16) bytes or the canonical string form.
func (u *UUID) Scan(v any) error {
	switch val := v.(type) {
	case []byte:
		if len(val) != uuidLength {
			return u.Scan(string(val))
		}
		copy(u[:], val)
	case string:
		id, err := uuid.Parse(val)
		if err != nil {
			return err
		}
		copy(u[:], id[:])
	default:
		return fmt.Errorf("cannot scan %T into a RAW(16) uuid", v)
	}
	return nil
}

// String renders the canonical hyphenated form.
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// NewUUID returns a random UUID.
func NewUUID() UUID {
	return UUID(uuid.New())
}

// BindUUID binds a caller-owned UUID as a 16-byte RAW element.
func (s *Statement) BindUUID(name string, u *UUID) (*Bind, error) {
	if u == nil {
		return s.BindRaw(name, nil, uuidLength)
	}
	return s.BindRaw(name, u[:], uuidLength)
}
