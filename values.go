package orabind

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/orasdk/go-orabind/wire"
)

// wireValued is implemented by every value object that exposes a
// wire-compatible handle next to its caller-facing view.
type wireValued interface {
	wireHandle() wire.Handle
}

// ------------------------------------------------------------------ //
// Plain wire-layout values
// ------------------------------------------------------------------ //

// Number wraps an opaque wire-format NUMBER value.
type Number struct {
	value *wire.Number
}

// NewNumber returns an empty NUMBER value.
func NewNumber() *Number {
	return &Number{value: new(wire.Number)}
}

func (n *Number) wireHandle() wire.Handle { return n.value }

// Bytes exposes the wire representation.
func (n *Number) Bytes() []byte { return n.value[:] }

// Date wraps a wire-format DATE value.
type Date struct {
	value *wire.Date
}

// NewDate returns an empty DATE value.
func NewDate() *Date {
	return &Date{value: new(wire.Date)}
}

func (d *Date) wireHandle() wire.Handle { return d.value }

// Bytes exposes the wire representation.
func (d *Date) Bytes() []byte { return d.value[:] }

// ------------------------------------------------------------------ //
// Descriptor-backed values
// ------------------------------------------------------------------ //

// descriptorValue carries one call-layer descriptor plus its release state.
// owned is false for wrappers over storage an array block owns.
type descriptorValue struct {
	conn   *Conn
	handle wire.Handle
	owned  bool
	freed  bool
}

func allocDescriptor(c *Conn, kind wire.HandleKind) (descriptorValue, error) {
	h, st := c.caller.DescriptorAlloc(kind)
	if st != wire.StateSuccess {
		return descriptorValue{}, getError(allocError("descriptor"), nil)
	}
	return descriptorValue{conn: c, handle: h, owned: true}, nil
}

func (d *descriptorValue) wireHandle() wire.Handle { return d.handle }

// release frees the descriptor exactly once; wrappers over array-owned
// storage never free.
func (d *descriptorValue) release() bool {
	if d.freed || !d.owned {
		return true
	}
	d.freed = true
	return d.conn.caller.DescriptorFree(d.handle) == wire.StateSuccess
}

// Lob is a large-object locator value.
type Lob struct {
	descriptorValue
	kind LobKind
}

// NewLob allocates a LOB locator of the given kind.
func NewLob(c *Conn, kind LobKind) (*Lob, error) {
	dv, err := allocDescriptor(c, wire.HandleLob)
	if err != nil {
		return nil, err
	}
	return &Lob{descriptorValue: dv, kind: kind}, nil
}

// Kind returns the LOB kind.
func (l *Lob) Kind() LobKind { return l.kind }

// Free releases the locator.
func (l *Lob) Free() bool { return l.release() }

// File is a BFILE locator value.
type File struct {
	descriptorValue
}

// NewFile allocates a BFILE locator.
func NewFile(c *Conn) (*File, error) {
	dv, err := allocDescriptor(c, wire.HandleFile)
	if err != nil {
		return nil, err
	}
	return &File{descriptorValue: dv}, nil
}

// Free releases the locator.
func (f *File) Free() bool { return f.release() }

// Timestamp is a timestamp descriptor value.
type Timestamp struct {
	descriptorValue
	kind TimestampKind
}

func timestampHandleKind(kind TimestampKind) wire.HandleKind {
	switch kind {
	case TIMESTAMP_TZ:
		return wire.HandleTimestampTZ
	case TIMESTAMP_LTZ:
		return wire.HandleTimestampLTZ
	}
	return wire.HandleTimestamp
}

// NewTimestamp allocates a timestamp descriptor of the given kind.
func NewTimestamp(c *Conn, kind TimestampKind) (*Timestamp, error) {
	dv, err := allocDescriptor(c, timestampHandleKind(kind))
	if err != nil {
		return nil, err
	}
	return &Timestamp{descriptorValue: dv, kind: kind}, nil
}

// Kind returns the timestamp kind.
func (t *Timestamp) Kind() TimestampKind { return t.kind }

// Free releases the descriptor.
func (t *Timestamp) Free() bool { return t.release() }

// Interval is an interval descriptor value.
type Interval struct {
	descriptorValue
	kind IntervalKind
}

func intervalHandleKind(kind IntervalKind) wire.HandleKind {
	if kind == INTERVAL_YM {
		return wire.HandleIntervalYM
	}
	return wire.HandleIntervalDS
}

// NewInterval allocates an interval descriptor of the given kind.
func NewInterval(c *Conn, kind IntervalKind) (*Interval, error) {
	dv, err := allocDescriptor(c, intervalHandleKind(kind))
	if err != nil {
		return nil, err
	}
	return &Interval{descriptorValue: dv, kind: kind}, nil
}

// Kind returns the interval kind.
func (i *Interval) Kind() IntervalKind { return i.kind }

// Free releases the descriptor.
func (i *Interval) Free() bool { return i.release() }

// Object is an instance of a named database object type. Attribute values
// live in a map keyed by attribute name; Set and Get translate between the
// map and caller structs.
type Object struct {
	descriptorValue
	typeInfo *TypeInfo
	attrs    map[string]any
}

// NewObject allocates an instance of the given named type.
func NewObject(c *Conn, ti *TypeInfo) (*Object, error) {
	if ti == nil {
		return nil, getError(errNoTypeInfo, nil)
	}
	dv, err := allocDescriptor(c, wire.HandleObject)
	if err != nil {
		return nil, err
	}
	return &Object{descriptorValue: dv, typeInfo: ti, attrs: map[string]any{}}, nil
}

// TypeInfo returns the object's type descriptor.
func (o *Object) TypeInfo() *TypeInfo { return o.typeInfo }

// Set fills the object's attributes from a struct or map.
func (o *Object) Set(v any) error {
	return mapstructure.Decode(v, &o.attrs)
}

// Get decodes the object's attributes into a struct or map.
func (o *Object) Get(dst any) error {
	return mapstructure.Decode(o.attrs, dst)
}

// SetAttr sets one attribute by name.
func (o *Object) SetAttr(name string, v any) {
	o.attrs[name] = v
}

// Attr returns one attribute by name.
func (o *Object) Attr(name string) any {
	return o.attrs[name]
}

// Free releases the instance.
func (o *Object) Free() bool { return o.release() }

// Collection is an instance of a named collection type.
type Collection struct {
	descriptorValue
	typeInfo *TypeInfo
	elems    []any
}

// NewCollection allocates an instance of the given collection type.
func NewCollection(c *Conn, ti *TypeInfo) (*Collection, error) {
	if ti == nil {
		return nil, getError(errNoTypeInfo, nil)
	}
	dv, err := allocDescriptor(c, wire.HandleCollection)
	if err != nil {
		return nil, err
	}
	return &Collection{descriptorValue: dv, typeInfo: ti}, nil
}

// TypeInfo returns the collection's type descriptor.
func (c *Collection) TypeInfo() *TypeInfo { return c.typeInfo }

// Append adds an element.
func (c *Collection) Append(v any) {
	c.elems = append(c.elems, v)
}

// Len returns the element count.
func (c *Collection) Len() int { return len(c.elems) }

// Free releases the instance.
func (c *Collection) Free() bool { return c.release() }

// Ref is a reference to a persistent object of a named type.
type Ref struct {
	descriptorValue
	typeInfo *TypeInfo
}

// NewRef allocates a reference of the given named type.
func NewRef(c *Conn, ti *TypeInfo) (*Ref, error) {
	if ti == nil {
		return nil, getError(errNoTypeInfo, nil)
	}
	dv, err := allocDescriptor(c, wire.HandleRef)
	if err != nil {
		return nil, err
	}
	return &Ref{descriptorValue: dv, typeInfo: ti}, nil
}

// TypeInfo returns the reference's type descriptor.
func (r *Ref) TypeInfo() *TypeInfo { return r.typeInfo }

// Free releases the reference.
func (r *Ref) Free() bool { return r.release() }

// Cursor is a statement handle returned through a cursor bind.
type Cursor struct {
	descriptorValue
}

// NewCursor allocates a cursor handle.
func NewCursor(c *Conn) (*Cursor, error) {
	dv, err := allocDescriptor(c, wire.HandleCursor)
	if err != nil {
		return nil, err
	}
	return &Cursor{descriptorValue: dv}, nil
}

// Free releases the cursor handle.
func (c *Cursor) Free() bool { return c.release() }

// Long buffers LONG or LONG RAW data streamed piecewise with the
// data-at-execute protocol.
type Long struct {
	kind    LongKind
	maxSize int
	buf     []byte
}

// NewLong returns an empty long-data buffer of the given kind.
func NewLong(kind LongKind) *Long {
	return &Long{kind: kind}
}

// Kind returns the long-data kind.
func (l *Long) Kind() LongKind { return l.kind }

// MaxSize returns the maximum size in wire units, set when the value is
// bound.
func (l *Long) MaxSize() int { return l.maxSize }

// Write appends a piece; it implements io.Writer.
func (l *Long) Write(p []byte) (int, error) {
	l.buf = append(l.buf, p...)
	return len(p), nil
}

// Bytes returns the accumulated content.
func (l *Long) Bytes() []byte { return l.buf }

// Reset drops the accumulated content, keeping capacity.
func (l *Long) Reset() {
	l.buf = l.buf[:0]
}

// freeValue releases an internally materialized scalar value. Plain
// wire-layout values have no descriptor to release.
func freeValue(input any) bool {
	switch v := input.(type) {
	case *Lob:
		return v.Free()
	case *File:
		return v.Free()
	case *Timestamp:
		return v.Free()
	case *Interval:
		return v.Free()
	case *Object:
		return v.Free()
	case *Collection:
		return v.Free()
	case *Ref:
		return v.Free()
	case *Cursor:
		return v.Free()
	}
	return true
}
