package orabind

import (
	"unsafe"

	"github.com/orasdk/go-orabind/wire"
)

// Statement hosts the binds of one prepared statement. Preparation and
// execution belong to the wire call layer; this side owns the bind slots,
// their buffers, and the binding configuration.
type Statement struct {
	conn     *Conn
	handle   wire.StatementHandle
	stmtType StmtType
	closed   bool

	bindMode      BindMode
	bindReuse     bool
	bindAllocMode AllocMode

	// Bulk execution sizing. nbIters is the current iteration count,
	// nbItersInit the count configured before the first bind; allocation
	// always covers the larger of the two.
	bindArray   bool
	nbIters     int
	nbItersInit int

	ubinds  []*Bind
	rbinds  []*Bind
	bindMap map[string]bindIndex
}

func newStatement(c *Conn, handle wire.StatementHandle, stmtType StmtType) *Statement {
	return &Statement{
		conn:          c,
		handle:        handle,
		stmtType:      stmtType,
		bindMode:      BIND_BY_NAME,
		bindAllocMode: ALLOC_CALLER,
		nbIters:       1,
		nbItersInit:   1,
	}
}

// StatementType returns the statement class reported at prepare time.
func (s *Statement) StatementType() StmtType {
	return s.stmtType
}

// SetBindMode switches between positional and named placeholder addressing.
func (s *Statement) SetBindMode(mode BindMode) {
	s.bindMode = mode
}

// BindMode returns the current placeholder addressing mode.
func (s *Statement) BindMode() BindMode {
	return s.bindMode
}

// SetBindReuse permits rebinding an already bound name, replacing the slot
// after a type-compatibility check.
func (s *Statement) SetBindReuse(reuse bool) {
	s.bindReuse = reuse
}

// BindReuse reports whether rebinding is permitted.
func (s *Statement) BindReuse() bool {
	return s.bindReuse
}

// SetBindAllocation selects who owns the backing storage of future binds.
func (s *Statement) SetBindAllocation(mode AllocMode) {
	s.bindAllocMode = mode
}

// BindAllocation returns the allocation mode applied to future binds.
func (s *Statement) BindAllocation() AllocMode {
	return s.bindAllocMode
}

// SetBindArraySize configures bulk execution with size iterations per
// execute. Binds created afterwards inherit this cardinality.
func (s *Statement) SetBindArraySize(size int) error {
	if size < 1 {
		return getError(errMinDataSize, nil)
	}
	// Existing binds were sized to the initial iteration count; growing
	// past it would overrun their indicator and length arrays.
	if len(s.ubinds) > 0 && size > s.nbItersInit {
		return getError(bindArraySizeError(s.nbItersInit, s.nbIters, size), nil)
	}
	s.nbIters = size
	s.bindArray = size > 1
	if s.nbItersInit < size && len(s.ubinds) == 0 {
		s.nbItersInit = size
	}
	return nil
}

// BindArraySize returns the configured bulk iteration count.
func (s *Statement) BindArraySize() int {
	return s.nbIters
}

// BindCount returns the number of input binds on the statement.
func (s *Statement) BindCount() int {
	return len(s.ubinds)
}

// RegisterCount returns the number of output (register) binds.
func (s *Statement) RegisterCount() int {
	return len(s.rbinds)
}

// GetBind returns the input bind at the 1-based index.
func (s *Statement) GetBind(index int) (*Bind, error) {
	if index < 1 || index > len(s.ubinds) {
		return nil, getError(positionError(index, len(s.ubinds)), nil)
	}
	return s.ubinds[index-1], nil
}

// GetBindByName returns the bind registered under name, input or output.
func (s *Statement) GetBindByName(name string) *Bind {
	idx, ok := s.bindIndexFor(normalizeBindName(name))
	if !ok {
		return nil
	}
	if idx.kind == bindInput {
		return s.ubinds[idx.pos-1]
	}
	return s.rbinds[idx.pos-1]
}

// GetBindIndex returns the 1-based input slot of name, or 0 when the name
// is absent or names an output bind.
func (s *Statement) GetBindIndex(name string) int {
	idx, ok := s.bindIndexFor(normalizeBindName(name))
	if !ok || idx.kind != bindInput {
		return 0
	}
	return idx.pos
}

// Close frees every bind and marks the statement unusable. The wire-level
// statement handle is released by the call layer, not here.
func (s *Statement) Close() error {
	if s.closed {
		return getError(errClosedStmt, nil)
	}
	s.closed = true
	for _, b := range s.ubinds {
		b.Free()
	}
	for _, b := range s.rbinds {
		b.Free()
	}
	s.ubinds = nil
	s.rbinds = nil
	s.bindMap = nil
	return nil
}

// ------------------------------------------------------------------ //
// Typed input binds
// ------------------------------------------------------------------ //

// BindInt64 binds a caller-owned int64 through the wire NUMBER format.
func (s *Statement) BindInt64(name string, v *int64) (*Bind, error) {
	return s.createBind(callerValue(v), name, bindInput, wire.NumberSize,
		numericSpec{repr: NUM_BIGINT, wide: true}, 0)
}

// BindFloat64 binds a caller-owned float64 as BINARY_DOUBLE.
func (s *Statement) BindFloat64(name string, v *float64) (*Bind, error) {
	return s.createBind(callerValue(v), name, bindInput, 8, numericSpec{repr: NUM_FLOAT64}, 0)
}

// BindNumber binds a Number value object.
func (s *Statement) BindNumber(name string, n *Number) (*Bind, error) {
	return s.createBind(callerValue(n), name, bindInput, wire.NumberSize,
		numericSpec{repr: NUM_NUMBER}, 0)
}

// BindString binds a caller-owned text buffer holding up to maxChars
// characters. The wire element size reserves one terminator slot.
func (s *Statement) BindString(name string, data []byte, maxChars int) (*Bind, error) {
	size := (maxChars + 1) * s.conn.charWidth.Wire
	return s.createBind(callerBytes(data), name, bindInput, size, textSpec{}, 0)
}

// BindRaw binds a caller-owned byte buffer of size bytes per element.
func (s *Statement) BindRaw(name string, data []byte, size int) (*Bind, error) {
	return s.createBind(callerBytes(data), name, bindInput, size, rawSpec{}, 0)
}

// BindDate binds a Date value object.
func (s *Statement) BindDate(name string, d *Date) (*Bind, error) {
	return s.createBind(callerValue(d), name, bindInput, wire.DateSize, dateTimeSpec{}, 0)
}

// BindTimestamp binds a Timestamp value object.
func (s *Statement) BindTimestamp(name string, ts *Timestamp) (*Bind, error) {
	var kind TimestampKind
	if ts != nil {
		kind = ts.kind
	} else {
		kind = TIMESTAMP_PLAIN
	}
	return s.createBind(callerValue(ts), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		timestampSpec{kind: kind}, 0)
}

// BindInterval binds an Interval value object.
func (s *Statement) BindInterval(name string, iv *Interval) (*Bind, error) {
	var kind IntervalKind
	if iv != nil {
		kind = iv.kind
	} else {
		kind = INTERVAL_DS
	}
	return s.createBind(callerValue(iv), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		intervalSpec{kind: kind}, 0)
}

// BindLob binds a Lob value object.
func (s *Statement) BindLob(name string, l *Lob) (*Bind, error) {
	kind := LOB_CLOB
	if l != nil {
		kind = l.kind
	}
	return s.createBind(callerValue(l), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		lobSpec{kind: kind}, 0)
}

// BindFile binds a File value object.
func (s *Statement) BindFile(name string, f *File) (*Bind, error) {
	return s.createBind(callerValue(f), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		fileSpec{}, 0)
}

// BindObject binds an Object value of the given named type.
func (s *Statement) BindObject(name string, o *Object) (*Bind, error) {
	if o == nil || o.typeInfo == nil {
		return nil, getError(errNoTypeInfo, nil)
	}
	return s.createBind(callerValue(o), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		objectSpec{typeInfo: o.typeInfo}, 0)
}

// BindCollection binds a Collection value of the given named type.
func (s *Statement) BindCollection(name string, c *Collection) (*Bind, error) {
	if c == nil || c.typeInfo == nil {
		return nil, getError(errNoTypeInfo, nil)
	}
	return s.createBind(callerValue(c), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		collectionSpec{typeInfo: c.typeInfo}, 0)
}

// BindRef binds a Ref value of the given named type.
func (s *Statement) BindRef(name string, r *Ref) (*Bind, error) {
	if r == nil || r.typeInfo == nil {
		return nil, getError(errNoTypeInfo, nil)
	}
	return s.createBind(callerValue(r), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		refSpec{typeInfo: r.typeInfo}, 0)
}

// BindCursor binds a Cursor for a returned statement handle.
func (s *Statement) BindCursor(name string, c *Cursor) (*Bind, error) {
	return s.createBind(callerValue(c), name, bindInput, int(unsafe.Sizeof(uintptr(0))),
		cursorSpec{}, 0)
}

// BindBoolean binds a caller-owned PL/SQL boolean.
func (s *Statement) BindBoolean(name string, v *bool) (*Bind, error) {
	return s.createBind(callerValue(v), name, bindInput, 1, booleanSpec{}, 0)
}

// BindLong binds a Long streamed with the data-at-execute protocol.
// size is the maximum piece size in host characters or bytes.
func (s *Statement) BindLong(name string, lg *Long, size int) (*Bind, error) {
	kind := LONG_CHAR
	if lg != nil {
		kind = lg.kind
	}
	return s.createBind(callerValue(lg), name, bindInput, size, longSpec{kind: kind}, 0)
}

// ------------------------------------------------------------------ //
// Array binds
// ------------------------------------------------------------------ //

// BindInt64Array binds a caller-owned int64 slice. A nonzero nbelem under a
// PL/SQL statement makes this a table bind with dynamic cardinality.
func (s *Statement) BindInt64Array(name string, vs []int64, nbelem int) (*Bind, error) {
	var data any
	if vs != nil {
		data = vs
	}
	return s.createBind(data, name, bindInput, wire.NumberSize,
		numericSpec{repr: NUM_BIGINT, wide: true}, nbelem)
}

// BindFloat64Array binds a caller-owned float64 slice.
func (s *Statement) BindFloat64Array(name string, vs []float64, nbelem int) (*Bind, error) {
	var data any
	if vs != nil {
		data = vs
	}
	return s.createBind(data, name, bindInput, 8, numericSpec{repr: NUM_FLOAT64}, nbelem)
}

// BindStringArray binds a caller-owned packed text buffer of
// nbelem * (maxChars+1) host characters.
func (s *Statement) BindStringArray(name string, data []byte, maxChars, nbelem int) (*Bind, error) {
	size := (maxChars + 1) * s.conn.charWidth.Wire
	return s.createBind(callerBytes(data), name, bindInput, size, textSpec{}, nbelem)
}

// BindRawArray binds a caller-owned packed byte buffer of nbelem elements of
// size bytes each.
func (s *Statement) BindRawArray(name string, data []byte, size, nbelem int) (*Bind, error) {
	return s.createBind(callerBytes(data), name, bindInput, size, rawSpec{}, nbelem)
}

// BindDateArray binds nbelem internally materialized Date elements.
func (s *Statement) BindDateArray(name string, nbelem int) (*Bind, error) {
	return s.createBind(nil, name, bindInput, wire.DateSize, dateTimeSpec{}, nbelem)
}

// ------------------------------------------------------------------ //
// Output (register) binds
// ------------------------------------------------------------------ //

// RegisterInt64 registers an int64 output placeholder.
func (s *Statement) RegisterInt64(name string) (*Bind, error) {
	return s.registerBind(name, wire.NumberSize, numericSpec{repr: NUM_BIGINT, wide: true})
}

// RegisterString registers a text output placeholder of up to maxChars
// characters.
func (s *Statement) RegisterString(name string, maxChars int) (*Bind, error) {
	size := (maxChars + 1) * s.conn.charWidth.Wire
	return s.registerBind(name, size, textSpec{})
}

// RegisterRaw registers a raw output placeholder of size bytes.
func (s *Statement) RegisterRaw(name string, size int) (*Bind, error) {
	return s.registerBind(name, size, rawSpec{})
}

// RegisterDate registers a DATE output placeholder.
func (s *Statement) RegisterDate(name string) (*Bind, error) {
	return s.registerBind(name, wire.DateSize, dateTimeSpec{})
}

// RegisterLob registers a LOB output placeholder of the given kind.
func (s *Statement) RegisterLob(name string, kind LobKind) (*Bind, error) {
	return s.registerBind(name, int(unsafe.Sizeof(uintptr(0))), lobSpec{kind: kind})
}

func (s *Statement) registerBind(name string, size int, spec typeSpec) (*Bind, error) {
	b, err := s.createBind(nil, name, bindOutput, size, spec, 0)
	if err != nil {
		return nil, err
	}
	b.direction = DIRECTION_OUT
	return b, nil
}

// callerBytes boxes a caller byte buffer, keeping nil as "no data supplied".
func callerBytes(data []byte) any {
	if data == nil {
		return nil
	}
	return data
}

// callerValue boxes a caller value object, keeping a typed nil pointer as
// "no data supplied" so the materializer can take over.
func callerValue[T any](v *T) any {
	if v == nil {
		return nil
	}
	return v
}
