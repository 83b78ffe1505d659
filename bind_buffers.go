package orabind

import (
	"unsafe"

	"github.com/orasdk/go-orabind/wire"
)

// allocateBindBuffers sizes and allocates a bind's indicator, length,
// status-code, and data arrays. Allocation is fail-fast: the first failure
// aborts the remaining steps.
func (s *Statement) allocateBindBuffers(b *Bind, mode bindKind, reused bool, nballoc, nbelem int, plsqlTable bool) error {
	// Indicator arrays survive a rebind when they already cover the
	// allocation, so null state set on the previous bind carries over.
	if len(b.buffer.inds) < nballoc {
		b.buffer.inds = make([]int16, nballoc)
	}
	if b.code == wire.CodeNamedType && len(b.buffer.objInds) < nballoc {
		b.buffer.objInds = make([]int16, nballoc)
	}

	// Table binds record their cardinality for later growth by the call
	// layer and carry a per-element status-code array.
	if plsqlTable {
		b.nbelem = uint32(nbelem)
		b.rcodes = make([]uint16, nballoc)
	}

	// Allocation mode is fixed before any data allocation.
	b.allocMode = s.bindAllocMode

	// For caller-owned input binds of handle-based or convertible
	// categories, the wire view is an owned array the execute path fills
	// from the caller's values. Exempted categories alias the caller's
	// memory directly.
	if mode == bindInput && b.allocMode == ALLOC_CALLER {
		if b.exemptFromCopy(s.conn.charWidth) {
			if cur, ok := b.input.(*Cursor); ok {
				// A cursor's payload is its statement handle.
				b.buffer.handles = []wire.Handle{cur.wireHandle()}
			} else {
				b.buffer.data = byteView(b.input)
			}
		} else {
			if reused {
				b.buffer.data = nil
				b.buffer.handles = nil
			}
			if b.handleBased() {
				b.buffer.handles = make([]wire.Handle, nballoc)
				b.fillHandlesFromInput()
			} else {
				b.buffer.data = make([]byte, b.size*nballoc)
			}
			b.alloc = true
		}
	}

	// Variable-length categories carry a length array, pre-filled with the
	// declared element size as the initial capacity.
	switch b.spec.dataType() {
	case TYPE_RAW, TYPE_TEXT:
		if len(b.buffer.lens) < nballoc {
			b.buffer.lens = make([]uint16, nballoc)
		}
		for i := 0; i < nbelem; i++ {
			b.buffer.lens[i] = uint16(b.size)
		}
	}

	// No caller data and internal ownership: materialize the backing value.
	if b.input == nil && b.allocMode == ALLOC_INTERNAL {
		return b.allocData()
	}
	return nil
}

// exemptFromCopy reports whether a caller-owned input buffer is handed to
// the wire layer as-is. Raw, long, cursor and boolean buffers already match
// the wire layout; so do native numerics outside the VARNUM path and text
// when no width conversion is active.
func (b *Bind) exemptFromCopy(width CharWidth) bool {
	switch sp := b.spec.(type) {
	case rawSpec, longSpec, cursorSpec, booleanSpec:
		return true
	case numericSpec:
		return sp.wireCode() != wire.CodeVarnum
	case textSpec:
		return !width.conversion()
	}
	return false
}

// handleBased reports whether the wire view is a descriptor table rather
// than byte-addressed memory.
func (b *Bind) handleBased() bool {
	switch b.spec.dataType() {
	case TYPE_DATETIME, TYPE_LOB, TYPE_FILE, TYPE_TIMESTAMP, TYPE_INTERVAL,
		TYPE_OBJECT, TYPE_COLLECTION, TYPE_REF:
		return true
	}
	return false
}

// fillHandlesFromInput seeds the descriptor table from a caller-supplied
// value object or slice of value objects.
func (b *Bind) fillHandlesFromInput() {
	switch v := b.input.(type) {
	case wireValued:
		if len(b.buffer.handles) > 0 {
			b.buffer.handles[0] = v.wireHandle()
		}
	case []wireValued:
		for i, wv := range v {
			if i >= len(b.buffer.handles) {
				break
			}
			b.buffer.handles[i] = wv.wireHandle()
		}
	}
}

// byteView returns caller memory as the byte slice the wire layer reads and
// writes in place. Native numerics are reinterpreted without copying.
func byteView(data any) []byte {
	switch v := data.(type) {
	case []byte:
		return v
	case *int64:
		return unsafe.Slice((*byte)(unsafe.Pointer(v)), 8)
	case []int64:
		if len(v) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 8*len(v))
	case *float64:
		return unsafe.Slice((*byte)(unsafe.Pointer(v)), 8)
	case []float64:
		if len(v) == 0 {
			return nil
		}
		return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), 8*len(v))
	case *float32:
		return unsafe.Slice((*byte)(unsafe.Pointer(v)), 4)
	case *bool:
		return unsafe.Slice((*byte)(unsafe.Pointer(v)), 1)
	case *Long:
		if v == nil {
			return nil
		}
		return v.buf
	}
	return nil
}

// performBinding attaches the bind's buffers to the statement handle, by
// position or by name per statement configuration, then issues the
// secondary object bind and the data-at-execute registration when needed.
func (s *Statement) performBinding(b *Bind, mode bindKind, index int, execMode wire.ExecMode, plsqlTable bool) error {
	spec := &wire.BindSpec{
		Data:        b.buffer.data,
		Handles:     b.buffer.handles,
		Size:        b.size,
		Code:        b.code,
		Indicators:  b.buffer.inds,
		Lengths:     b.buffer.lens,
		ReturnCodes: b.rcodes,
		Mode:        execMode,
	}
	if plsqlTable {
		spec.MaxTableElems = int(b.nbelem)
		spec.CurTableElems = &b.nbelem
	}

	var st wire.State
	if s.bindMode == BIND_BY_POS {
		b.buffer.handle, st = s.conn.caller.BindByPos(s.handle, index, spec)
	} else {
		b.buffer.handle, st = s.conn.caller.BindByName(s.handle, b.name, spec)
	}
	if st != wire.StateSuccess {
		return getError(wireCallError("Bind"), nil)
	}

	if b.code == wire.CodeNamedType || b.code == wire.CodeRef {
		ti := typeInfoOf(b.spec)
		if ti == nil {
			return getError(errNoTypeInfo, nil)
		}
		if st = s.conn.caller.BindObject(b.buffer.handle, ti.tdo, b.buffer.handles, b.buffer.objInds); st != wire.StateSuccess {
			return getError(wireCallError("BindObject"), nil)
		}
	}

	if mode == bindOutput {
		// The descriptor itself is the callback context; the call layer
		// writes straight into its buffers at execute time.
		if st = s.conn.caller.BindDynamic(b.buffer.handle, b, bindDynamicIn, bindDynamicOut); st != wire.StateSuccess {
			return getError(wireCallError("BindDynamic"), nil)
		}
	}
	return nil
}

// bindDynamicIn supplies one input element during a data-at-execute run.
func bindDynamicIn(ctx any, iter, index int) ([]byte, *int16) {
	b := ctx.(*Bind)
	if index < 0 || index >= b.buffer.count {
		return nil, nil
	}
	return b.elementData(index), &b.buffer.inds[index]
}

// bindDynamicOut hands the call layer an output element plus the transfer
// metadata slots. This is the only path that mutates output lengths and
// element counts after binding.
func bindDynamicOut(ctx any, iter, index int) ([]byte, *uint32, *int16, *uint16) {
	b := ctx.(*Bind)
	if index < 0 || index >= b.buffer.count {
		return nil, nil, nil, nil
	}
	if b.buffer.data == nil && b.buffer.handles == nil {
		b.buffer.data = make([]byte, b.size*b.buffer.count)
		b.alloc = true
	}
	if b.dynLens == nil {
		b.dynLens = make([]uint32, b.buffer.count)
	}
	if b.dynRcodes == nil {
		b.dynRcodes = make([]uint16, b.buffer.count)
	}
	b.dynLens[index] = uint32(b.size)
	if b.plsqlTable && uint32(index) >= b.nbelem {
		b.nbelem = uint32(index) + 1
	}
	return b.elementData(index), &b.dynLens[index], &b.buffer.inds[index], &b.dynRcodes[index]
}

// elementData returns the wire bytes of one element of the data buffer.
func (b *Bind) elementData(index int) []byte {
	if b.buffer.data == nil || b.size <= 0 {
		return nil
	}
	off := index * b.size
	if off+b.size > len(b.buffer.data) {
		return nil
	}
	return b.buffer.data[off : off+b.size]
}
