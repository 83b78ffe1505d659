// Package wiretest provides a recording in-memory wire.Caller for tests.
// It captures every bind call with its payload and tracks descriptor
// lifetimes so tests can assert on wire traffic and allocation balance.
package wiretest

import (
	"fmt"

	"github.com/orasdk/go-orabind/wire"
)

// BindCall records one BindByPos or BindByName invocation.
type BindCall struct {
	ByName bool
	Pos    int
	Name   string
	Spec   wire.BindSpec
}

// ObjectCall records one BindObject invocation.
type ObjectCall struct {
	Handle  wire.BindHandle
	TDO     *wire.TypeDescriptor
	Handles []wire.Handle
	ObjInds []int16
}

// DynamicCall records one BindDynamic registration.
type DynamicCall struct {
	Handle wire.BindHandle
	Ctx    any
	In     wire.BindInFunc
	Out    wire.BindOutFunc
}

// AttrCall records one AttrSet invocation.
type AttrCall struct {
	Handle wire.BindHandle
	Attr   wire.Attr
	Value  uint8
}

// Caller is a fake wire.Caller. The zero value is ready to use; every call
// succeeds unless one of the Fail flags is set.
type Caller struct {
	Binds    []BindCall
	Objects  []ObjectCall
	Dynamics []DynamicCall
	Attrs    []AttrCall

	Allocated int
	Freed     int
	live      map[wire.Handle]bool

	FailBind       bool
	FailObject     bool
	FailDynamic    bool
	FailAttr       bool
	FailAlloc      bool
	FailAllocAfter int // fail DescriptorAlloc once Allocated reaches this count; 0 disables
}

// New returns an empty recording caller.
func New() *Caller {
	return &Caller{live: make(map[wire.Handle]bool)}
}

type fakeHandle struct{ id int }

func (c *Caller) BindByPos(_ wire.StatementHandle, pos int, spec *wire.BindSpec) (wire.BindHandle, wire.State) {
	if c.FailBind {
		return nil, wire.StateError
	}
	c.Binds = append(c.Binds, BindCall{Pos: pos, Spec: *spec})
	return &fakeHandle{id: len(c.Binds)}, wire.StateSuccess
}

func (c *Caller) BindByName(_ wire.StatementHandle, name string, spec *wire.BindSpec) (wire.BindHandle, wire.State) {
	if c.FailBind {
		return nil, wire.StateError
	}
	c.Binds = append(c.Binds, BindCall{ByName: true, Name: name, Spec: *spec})
	return &fakeHandle{id: len(c.Binds)}, wire.StateSuccess
}

func (c *Caller) BindObject(h wire.BindHandle, tdo *wire.TypeDescriptor, handles []wire.Handle, objInds []int16) wire.State {
	if c.FailObject {
		return wire.StateError
	}
	c.Objects = append(c.Objects, ObjectCall{Handle: h, TDO: tdo, Handles: handles, ObjInds: objInds})
	return wire.StateSuccess
}

func (c *Caller) BindDynamic(h wire.BindHandle, ctx any, in wire.BindInFunc, out wire.BindOutFunc) wire.State {
	if c.FailDynamic {
		return wire.StateError
	}
	c.Dynamics = append(c.Dynamics, DynamicCall{Handle: h, Ctx: ctx, In: in, Out: out})
	return wire.StateSuccess
}

func (c *Caller) AttrSet(h wire.BindHandle, attr wire.Attr, value uint8) wire.State {
	if c.FailAttr {
		return wire.StateError
	}
	c.Attrs = append(c.Attrs, AttrCall{Handle: h, Attr: attr, Value: value})
	return wire.StateSuccess
}

func (c *Caller) DescriptorAlloc(kind wire.HandleKind) (wire.Handle, wire.State) {
	if c.FailAlloc {
		return nil, wire.StateError
	}
	if c.FailAllocAfter > 0 && c.Allocated >= c.FailAllocAfter {
		return nil, wire.StateError
	}
	c.Allocated++
	h := &liveDescriptor{kind: kind, id: c.Allocated}
	if c.live == nil {
		c.live = make(map[wire.Handle]bool)
	}
	c.live[h] = true
	return h, wire.StateSuccess
}

func (c *Caller) DescriptorFree(h wire.Handle) wire.State {
	if c.live == nil || !c.live[h] {
		panic(fmt.Sprintf("wiretest: free of unknown or already freed descriptor %v", h))
	}
	delete(c.live, h)
	c.Freed++
	return wire.StateSuccess
}

// Live reports the number of descriptors allocated and not yet freed.
func (c *Caller) Live() int {
	return len(c.live)
}

// LastBind returns the most recent bind call, panicking when none was made.
func (c *Caller) LastBind() BindCall {
	if len(c.Binds) == 0 {
		panic("wiretest: no bind calls recorded")
	}
	return c.Binds[len(c.Binds)-1]
}

type liveDescriptor struct {
	kind wire.HandleKind
	id   int
}
