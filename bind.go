package orabind

import (
	"strconv"
	"strings"

	"github.com/orasdk/go-orabind/wire"
)

const (
	// MaxBinds caps the input and output bind counts per statement.
	MaxBinds = 1024

	// bindArrayGrowth is the amortized growth step of the bind arrays.
	bindArrayGrowth = 128
)

// bindBuffer is the wire-facing side of one bind: the arrays the call layer
// reads and writes during execution. Exactly one of data and handles is the
// active wire view.
type bindBuffer struct {
	handle wire.BindHandle

	// data is the byte-addressed wire view, either owned or a zero-copy
	// view over caller memory.
	data []byte

	// handles is the descriptor-table wire view used by handle-based
	// categories (LOB locators, datetime descriptors, object instances).
	handles []wire.Handle

	inds    []int16
	objInds []int16
	lens    []uint16

	count int
}

// Bind is the descriptor of one bound placeholder: its type, buffers, and
// state. It lives until the statement is closed or the slot is rebound.
type Bind struct {
	stmt *Statement
	name string

	spec typeSpec
	code wire.TypeCode
	size int

	direction Direction
	csfrm     CharsetForm

	// allocMode says who owns the backing storage; alloc marks wire views
	// allocated separately from the caller view and freed here.
	allocMode AllocMode
	alloc     bool

	isArray    bool
	plsqlTable bool

	// nbelem is the table-bind element count; the call layer reports the
	// transferred count back through its address.
	nbelem uint32

	// input is the caller view of the data: the caller's memory for
	// caller-owned binds, the materialized value for internal ones.
	input any

	// arr backs internally materialized array binds.
	arr *valueArray

	// rcodes is the per-element wire status-code array of table binds.
	rcodes []uint16

	// dynLens carries per-element transfer lengths during data-at-execute
	// runs; it is only ever touched by the output callback.
	dynLens   []uint32
	dynRcodes []uint16

	buffer bindBuffer
	freed  bool
}

// normalizeBindName canonicalizes a placeholder name: leading colon,
// upper-cased.
func normalizeBindName(name string) string {
	name = strings.TrimPrefix(name, ":")
	return ":" + strings.ToUpper(name)
}

// parseBindPosition extracts the 1-based position from a synthesized
// positional name like ":2".
func parseBindPosition(name string) (int, error) {
	pos, err := strconv.Atoi(name[1:])
	if err != nil || pos <= 0 || pos > MaxBinds {
		return 0, getError(positionError(pos, MaxBinds), err)
	}
	return pos, nil
}

// createBind builds a bind descriptor and attaches it to the statement:
// slot validation and reuse, buffer allocation, internal materialization,
// the wire bind call, and registration. On failure a brand-new descriptor
// is fully destroyed; a reused one is left in place untouched by cleanup.
func (s *Statement) createBind(data any, name string, mode bindKind, size int, spec typeSpec, nbelem int) (*Bind, error) {
	if s.closed {
		return nil, getError(errClosedStmt, nil)
	}
	name = normalizeBindName(name)

	var index int
	if s.bindMode == BIND_BY_POS {
		pos, err := parseBindPosition(name)
		if err != nil {
			return nil, err
		}
		index = pos
	}

	// Name collision and rebinding.
	var prev *Bind
	reused := false
	prevIndex := -1
	if mode == bindInput {
		if idx, ok := s.bindIndexFor(name); ok && idx.kind == bindInput {
			if !s.bindReuse {
				return nil, getError(bindNameError(ErrBindAlreadyUsed, name), nil)
			}
			prev = s.ubinds[idx.pos-1]
			if prev.spec.dataType() != spec.dataType() {
				return nil, getError(bindNameError(ErrRebindBadType, name), nil)
			}
			reused = true
			prevIndex = idx.pos
			index = idx.pos
		}
	}

	if err := s.checkBindAvailability(mode, reused); err != nil {
		return nil, err
	}

	// A nonzero cardinality under a PL/SQL statement is a table bind with
	// dynamic cardinality; otherwise the bind inherits the statement's
	// bulk execution sizing.
	plsqlTable := false
	isArray := false
	if nbelem > 0 && s.stmtType.isPLSQL() {
		plsqlTable = true
		isArray = true
	} else {
		nbelem = s.nbIters
		isArray = s.bindArray
	}

	// Allocation covers the larger of the requested cardinality and the
	// pre-execute iteration count, so later growth avoids reallocation.
	nballoc := nbelem
	if nballoc < s.nbItersInit {
		nballoc = s.nbItersInit
	}

	if s.bindMap == nil {
		s.bindMap = make(map[string]bindIndex)
	}

	b := prev
	if !reused {
		b = &Bind{name: name}
	}
	b.stmt = s
	b.input = data
	b.spec = spec
	b.size = size
	b.code = spec.wireCode()
	b.isArray = isArray
	b.plsqlTable = plsqlTable
	b.csfrm = CHARSET_FORM_NONE
	b.direction = DIRECTION_IN_OUT
	b.freed = false
	b.buffer.count = nbelem

	err := s.allocateBindBuffers(b, mode, reused, nballoc, nbelem, plsqlTable)

	// Long binds and any output bind defer their data to execute time.
	execMode := wire.ExecDefault
	if err == nil {
		switch {
		case b.spec.dataType() == TYPE_LONG:
			if lg, ok := b.input.(*Long); ok && lg != nil {
				lg.maxSize = size
				if lg.kind == LONG_CHAR {
					// Rescale from host to wire character width.
					lg.maxSize /= s.conn.charWidth.Host
					lg.maxSize *= s.conn.charWidth.Wire
				}
			}
			execMode = wire.ExecDataAtExec
		case mode == bindOutput:
			execMode = wire.ExecDataAtExec
		}
	}

	if err == nil {
		err = s.performBinding(b, mode, index, execMode, plsqlTable)
	}

	if err == nil {
		if ls, ok := spec.(lobSpec); ok && ls.kind == LOB_NCLOB {
			st := s.conn.caller.AttrSet(b.buffer.handle, wire.AttrCharsetForm, wire.CharsetFormNChar)
			if st != wire.StateSuccess {
				err = getError(wireCallError("AttrSet"), nil)
			}
		}
	}

	if err == nil {
		s.addBindToStatement(b, mode, reused)
		return b, nil
	}

	if prevIndex == -1 {
		b.Free()
	}
	return nil, err
}

// Free releases a bind's owned buffers and value objects. Caller-owned data
// is never touched. A nil bind is a no-op; releasing twice is too.
func (b *Bind) Free() bool {
	if b == nil {
		return false
	}
	if b.freed {
		return true
	}
	b.freed = true

	released := true
	if b.allocMode == ALLOC_INTERNAL {
		if b.isArray {
			if b.arr != nil {
				released = b.arr.free()
			}
		} else {
			released = freeValue(b.input)
		}
	}

	b.buffer.data = nil
	b.buffer.handles = nil
	b.buffer.inds = nil
	b.buffer.objInds = nil
	b.buffer.lens = nil
	b.rcodes = nil
	b.dynLens = nil
	b.dynRcodes = nil
	b.arr = nil
	b.input = nil
	b.name = ""
	return released
}
