package orabind

import (
	"github.com/orasdk/go-orabind/wire"
)

// Post-bind operations on a descriptor. Positional operations take 1-based
// positions inside the bind's cardinality.

func (b *Bind) checkPosition(pos int) error {
	if b == nil {
		return getError(errNilBind, nil)
	}
	if pos < 1 || pos > b.buffer.count {
		return getError(positionError(pos, b.buffer.count), nil)
	}
	return nil
}

func (b *Bind) setNullIndicator(pos int, value int16) {
	if b.buffer.inds != nil {
		b.buffer.inds[pos-1] = value
	}
}

// SetNullAtPos marks the element at pos as SQL null.
func (b *Bind) SetNullAtPos(pos int) error {
	if err := b.checkPosition(pos); err != nil {
		return err
	}
	b.setNullIndicator(pos, wire.IndNull)
	return nil
}

// SetNull marks the scalar value as SQL null.
func (b *Bind) SetNull() error {
	return b.SetNullAtPos(1)
}

// SetNotNullAtPos clears the null state of the element at pos.
func (b *Bind) SetNotNullAtPos(pos int) error {
	if err := b.checkPosition(pos); err != nil {
		return err
	}
	b.setNullIndicator(pos, wire.IndNotNull)
	return nil
}

// SetNotNull clears the scalar null state.
func (b *Bind) SetNotNull() error {
	return b.SetNotNullAtPos(1)
}

// IsNullAtPos reports whether the element at pos is SQL null.
func (b *Bind) IsNullAtPos(pos int) (bool, error) {
	if err := b.checkPosition(pos); err != nil {
		return true, err
	}
	if b.buffer.inds == nil {
		return true, nil
	}
	return b.buffer.inds[pos-1] == wire.IndNull, nil
}

// IsNull reports whether the scalar value is SQL null.
func (b *Bind) IsNull() (bool, error) {
	return b.IsNullAtPos(1)
}

// SetDataSizeAtPos sets the dynamic data size of the element at pos. Text
// sizes are given in characters and stored rescaled to wire bytes; a size
// still at the declared maximum gets one extra wire character of headroom
// for the terminator.
func (b *Bind) SetDataSizeAtPos(pos, size int) error {
	if err := b.checkPosition(pos); err != nil {
		return err
	}
	if size < 1 {
		return getError(errMinDataSize, nil)
	}
	if b.buffer.lens == nil {
		return getError(errNoLengthArray, nil)
	}
	if b.spec.dataType() == TYPE_TEXT {
		w := b.stmt.conn.charWidth.Wire
		if b.size == size {
			size += w
		}
		size *= w
	}
	b.buffer.lens[pos-1] = uint16(size)
	return nil
}

// SetDataSize sets the scalar dynamic data size.
func (b *Bind) SetDataSize(size int) error {
	return b.SetDataSizeAtPos(1, size)
}

// DataSizeAtPos returns the dynamic data size of the element at pos,
// inverse-rescaled for text.
func (b *Bind) DataSizeAtPos(pos int) (int, error) {
	if err := b.checkPosition(pos); err != nil {
		return 0, err
	}
	if b.buffer.lens == nil {
		return 0, getError(errNoLengthArray, nil)
	}
	size := int(b.buffer.lens[pos-1])
	if b.spec.dataType() == TYPE_TEXT {
		w := b.stmt.conn.charWidth.Wire
		if b.size == size {
			size -= w
		}
		size /= w
	}
	return size, nil
}

// DataSize returns the scalar dynamic data size.
func (b *Bind) DataSize() (int, error) {
	return b.DataSizeAtPos(1)
}

// SetDirection sets the bind's logical direction.
func (b *Bind) SetDirection(d Direction) error {
	if b == nil {
		return getError(errNilBind, nil)
	}
	switch d {
	case DIRECTION_IN, DIRECTION_OUT, DIRECTION_IN_OUT:
		b.direction = d
		return nil
	}
	return getError(errBadDirection, nil)
}

// Direction returns the bind's logical direction.
func (b *Bind) Direction() Direction {
	if b == nil {
		return 0
	}
	return b.direction
}

// SetCharsetForm selects the character set family. Only text and long
// binds carry one; the change is applied to the live wire attribute when a
// bound handle exists.
func (b *Bind) SetCharsetForm(form CharsetForm) error {
	if b == nil {
		return getError(errNilBind, nil)
	}
	switch form {
	case CHARSET_FORM_DEFAULT, CHARSET_FORM_NATIONAL:
	default:
		return getError(errBadCharset, nil)
	}

	switch b.spec.dataType() {
	case TYPE_TEXT, TYPE_LONG:
		b.csfrm = form
		if b.buffer.handle != nil {
			value := wire.CharsetFormImplicit
			if form == CHARSET_FORM_NATIONAL {
				value = wire.CharsetFormNChar
			}
			if st := b.stmt.conn.caller.AttrSet(b.buffer.handle, wire.AttrCharsetForm, value); st != wire.StateSuccess {
				return getError(wireCallError("AttrSet"), nil)
			}
		}
	}
	return nil
}

// CharsetForm returns the bind's character set family.
func (b *Bind) CharsetForm() CharsetForm {
	if b == nil {
		return CHARSET_FORM_NONE
	}
	return b.csfrm
}

// Name returns the normalized placeholder name.
func (b *Bind) Name() string {
	if b == nil {
		return ""
	}
	return b.name
}

// Type returns the bind's data-type category.
func (b *Bind) Type() DataType {
	if b == nil {
		return TYPE_UNKNOWN
	}
	return b.spec.dataType()
}

// Subtype returns the category refinement for the categories that carry
// one (numeric, long, lob, file, timestamp, interval), zero otherwise.
func (b *Bind) Subtype() int {
	if b == nil {
		return 0
	}
	switch b.spec.dataType() {
	case TYPE_NUMERIC, TYPE_LONG, TYPE_LOB, TYPE_FILE, TYPE_TIMESTAMP, TYPE_INTERVAL:
		return int(b.spec.subtype())
	}
	return 0
}

// DataCount returns the bind's cardinality.
func (b *Bind) DataCount() int {
	if b == nil {
		return 0
	}
	return b.buffer.count
}

// Data returns the caller view of the bound value.
func (b *Bind) Data() any {
	if b == nil {
		return nil
	}
	return b.input
}

// Statement returns the owning statement.
func (b *Bind) Statement() *Statement {
	if b == nil {
		return nil
	}
	return b.stmt
}

// AllocationMode reports who owns the bind's backing storage.
func (b *Bind) AllocationMode() AllocMode {
	if b == nil {
		return 0
	}
	return b.allocMode
}

// IsTableBind reports whether the bind has dynamic table cardinality.
func (b *Bind) IsTableBind() bool {
	if b == nil {
		return false
	}
	return b.plsqlTable
}

// IsArrayBind reports whether the bind carries more than one element per
// execution.
func (b *Bind) IsArrayBind() bool {
	if b == nil {
		return false
	}
	return b.isArray
}
