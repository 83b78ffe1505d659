package orabind

import (
	"github.com/orasdk/go-orabind/wire"
)

// allocData materializes the backing value of an internally owned bind with
// no caller-supplied data. Per category it creates the right value object
// or raw buffer and points the caller view (input) and the wire view
// (buffer data or handle table) at compatible memory.
func (b *Bind) allocData() error {
	if b.isArray {
		return b.allocArrayData()
	}

	c := b.stmt.conn
	width := c.charWidth

	switch sp := b.spec.(type) {
	case numericSpec:
		switch {
		case sp.repr == NUM_NUMBER:
			n := NewNumber()
			b.input = n
			b.buffer.data = n.Bytes()
		case sp.wide:
			// Native integer caller view plus a separate wire-format
			// NUMBER buffer: two allocations.
			b.input = new(int64)
			b.buffer.data = make([]byte, wire.NumberSize)
			b.alloc = true
		default:
			buf := make([]byte, b.size)
			b.input = buf
			b.buffer.data = buf
		}
	case dateTimeSpec:
		d := NewDate()
		b.input = d
		b.buffer.data = d.Bytes()
	case textSpec:
		if width.conversion() {
			b.buffer.data = make([]byte, b.size)
			b.input = make([]byte, b.size/width.Wire*width.Host)
			b.alloc = true
		} else {
			buf := make([]byte, b.size)
			b.buffer.data = buf
			b.input = buf
		}
	case rawSpec:
		buf := make([]byte, b.size)
		b.input = buf
		b.buffer.data = buf
	case lobSpec:
		l, err := NewLob(c, sp.kind)
		if err != nil {
			return err
		}
		b.input = l
		b.buffer.handles = []wire.Handle{l.wireHandle()}
	case fileSpec:
		f, err := NewFile(c)
		if err != nil {
			return err
		}
		b.input = f
		b.buffer.handles = []wire.Handle{f.wireHandle()}
	case timestampSpec:
		ts, err := NewTimestamp(c, sp.kind)
		if err != nil {
			return err
		}
		b.input = ts
		b.buffer.handles = []wire.Handle{ts.wireHandle()}
	case intervalSpec:
		iv, err := NewInterval(c, sp.kind)
		if err != nil {
			return err
		}
		b.input = iv
		b.buffer.handles = []wire.Handle{iv.wireHandle()}
	case objectSpec:
		o, err := NewObject(c, sp.typeInfo)
		if err != nil {
			return err
		}
		b.input = o
		b.buffer.handles = []wire.Handle{o.wireHandle()}
	case collectionSpec:
		coll, err := NewCollection(c, sp.typeInfo)
		if err != nil {
			return err
		}
		b.input = coll
		b.buffer.handles = []wire.Handle{coll.wireHandle()}
	case refSpec:
		r, err := NewRef(c, sp.typeInfo)
		if err != nil {
			return err
		}
		b.input = r
		b.buffer.handles = []wire.Handle{r.wireHandle()}
	default:
		return getError(allocError("no internal representation for "+b.spec.dataType().String()), nil)
	}
	return nil
}

// allocArrayData materializes the block behind an internally owned array
// bind and selects the caller and wire views per category, following the
// same rules as the scalar path.
func (b *Bind) allocArrayData() error {
	c := b.stmt.conn
	width := c.charWidth
	count := b.buffer.count

	var structSize, elemSize int
	var handleKind wire.HandleKind

	switch sp := b.spec.(type) {
	case numericSpec:
		if sp.repr == NUM_NUMBER {
			elemSize = wire.NumberSize
		} else if sp.wide {
			structSize = 8
			elemSize = wire.NumberSize
		} else {
			structSize = b.size
		}
	case dateTimeSpec:
		elemSize = wire.DateSize
	case textSpec:
		if width.conversion() {
			structSize = b.size / width.Wire * width.Host
			elemSize = b.size
		} else {
			structSize = b.size
		}
	case rawSpec:
		structSize = b.size
	case lobSpec:
		handleKind = wire.HandleLob
	case fileSpec:
		handleKind = wire.HandleFile
	case timestampSpec:
		handleKind = timestampHandleKind(sp.kind)
	case intervalSpec:
		handleKind = intervalHandleKind(sp.kind)
	case objectSpec:
		handleKind = wire.HandleObject
	case collectionSpec:
		handleKind = wire.HandleCollection
	case refSpec:
		handleKind = wire.HandleRef
	default:
		return getError(allocError("no internal representation for "+b.spec.dataType().String()+" array"), nil)
	}

	arr, err := newValueArray(c, count, structSize, elemSize, handleKind)
	if err != nil {
		return err
	}
	b.arr = arr

	switch sp := b.spec.(type) {
	case numericSpec:
		switch {
		case sp.repr == NUM_NUMBER:
			b.buffer.data = arr.wireMem
			b.input = numberWrappers(arr)
		case sp.wide:
			b.buffer.data = arr.wireMem
			b.input = arr.int64s()
			b.alloc = true
		default:
			b.buffer.data = arr.mem
			if sp.repr == NUM_FLOAT64 {
				b.input = arr.float64s()
			} else {
				b.input = arr.mem
			}
		}
	case dateTimeSpec:
		b.buffer.data = arr.wireMem
		b.input = dateWrappers(arr)
	case textSpec:
		if width.conversion() {
			b.buffer.data = arr.wireMem
			b.input = arr.mem
			b.alloc = true
		} else {
			b.buffer.data = arr.mem
			b.input = arr.mem
		}
	case rawSpec:
		b.buffer.data = arr.mem
		b.input = arr.mem
	case lobSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &Lob{descriptorValue: dv, kind: sp.kind}
		})
	case fileSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &File{descriptorValue: dv}
		})
	case timestampSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &Timestamp{descriptorValue: dv, kind: sp.kind}
		})
	case intervalSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &Interval{descriptorValue: dv, kind: sp.kind}
		})
	case objectSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &Object{descriptorValue: dv, typeInfo: sp.typeInfo, attrs: map[string]any{}}
		})
	case collectionSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &Collection{descriptorValue: dv, typeInfo: sp.typeInfo}
		})
	case refSpec:
		b.buffer.handles = arr.handles
		b.input = wrapDescriptors(arr, func(dv descriptorValue) any {
			return &Ref{descriptorValue: dv, typeInfo: sp.typeInfo}
		})
	}
	return nil
}

// numberWrappers exposes the wire-format block as Number value objects
// sharing the block's storage.
func numberWrappers(arr *valueArray) []*Number {
	out := make([]*Number, arr.count)
	for i := range out {
		off := i * wire.NumberSize
		out[i] = &Number{value: (*wire.Number)(arr.wireMem[off : off+wire.NumberSize])}
	}
	arr.objs = anySlice(out)
	return out
}

// dateWrappers exposes the wire-format block as Date value objects sharing
// the block's storage.
func dateWrappers(arr *valueArray) []*Date {
	out := make([]*Date, arr.count)
	for i := range out {
		off := i * wire.DateSize
		out[i] = &Date{value: (*wire.Date)(arr.wireMem[off : off+wire.DateSize])}
	}
	arr.objs = anySlice(out)
	return out
}

// wrapDescriptors builds the wrapper-object table over an array-owned
// descriptor table. The wrappers never free; the block does.
func wrapDescriptors(arr *valueArray, wrap func(descriptorValue) any) []any {
	for i, h := range arr.handles {
		arr.objs[i] = wrap(descriptorValue{conn: arr.conn, handle: h})
	}
	return arr.objs
}

func anySlice[T any](in []*T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
