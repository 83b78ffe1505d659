package orabind

import (
	"unsafe"

	"github.com/orasdk/go-orabind/wire"
)

// valueArray is the homogeneous block backing an internally materialized
// array bind: packed native memory, packed wire-format memory when the two
// layouts differ, and a descriptor table for handle-based categories. The
// materializer exposes either view per category.
type valueArray struct {
	conn  *Conn
	count int

	structSize int
	elemSize   int

	// mem holds the caller-facing native elements, wireMem the wire-format
	// elements. One of them may be absent when the views coincide.
	mem     []byte
	wireMem []byte

	// handles and objs are the descriptor table and its wrapper objects
	// for handle-based element types.
	handles []wire.Handle
	objs    []any

	freed bool
}

func newValueArray(c *Conn, count, structSize, elemSize int, kind wire.HandleKind) (*valueArray, error) {
	arr := &valueArray{
		conn:       c,
		count:      count,
		structSize: structSize,
		elemSize:   elemSize,
	}
	if structSize > 0 {
		arr.mem = make([]byte, structSize*count)
	}
	if elemSize > 0 {
		arr.wireMem = make([]byte, elemSize*count)
	}
	if kind != wire.HandleNone {
		arr.handles = make([]wire.Handle, count)
		arr.objs = make([]any, count)
		for i := 0; i < count; i++ {
			h, st := c.caller.DescriptorAlloc(kind)
			if st != wire.StateSuccess {
				arr.free()
				return nil, getError(allocError("descriptor array"), nil)
			}
			arr.handles[i] = h
		}
	}
	return arr, nil
}

// free releases the block and its descriptor table exactly once.
func (a *valueArray) free() bool {
	if a == nil || a.freed {
		return a != nil
	}
	a.freed = true
	ok := true
	for _, h := range a.handles {
		if h == nil {
			continue
		}
		if a.conn.caller.DescriptorFree(h) != wire.StateSuccess {
			ok = false
		}
	}
	a.handles = nil
	a.objs = nil
	a.mem = nil
	a.wireMem = nil
	return ok
}

// int64s views the native memory as int64 elements.
func (a *valueArray) int64s() []int64 {
	if len(a.mem) == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&a.mem[0])), a.count)
}

// float64s views the native memory as float64 elements.
func (a *valueArray) float64s() []float64 {
	if len(a.mem) == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&a.mem[0])), a.count)
}
