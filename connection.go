package orabind

import (
	"github.com/orasdk/go-orabind/wire"
)

// CharWidth is the host and wire character width configuration of a
// connection. Wide-character conversion is active when the two differ; the
// allocator and the value materializer read it explicitly instead of any
// process-wide state.
type CharWidth struct {
	Host int
	Wire int
}

// conversion reports whether text buffers need a host-width shadow copy.
func (w CharWidth) conversion() bool {
	return w.Host != w.Wire
}

// Conn owns the wire call layer and the settings shared by every statement
// it prepares. The bind core never synchronizes access; one statement is
// driven by one goroutine at a time.
type Conn struct {
	caller    wire.Caller
	charWidth CharWidth
	closed    bool
}

// NewConn wraps a wire call layer. A zero width pair defaults to 1:1
// single-byte characters.
func NewConn(caller wire.Caller, width CharWidth) *Conn {
	if width.Host == 0 {
		width.Host = 1
	}
	if width.Wire == 0 {
		width.Wire = 1
	}
	return &Conn{caller: caller, charWidth: width}
}

// CharWidth returns the connection's character width configuration.
func (c *Conn) CharWidth() CharWidth {
	return c.charWidth
}

// Prepare wraps an already prepared statement handle obtained from the call
// layer. Statement preparation itself belongs to the call layer.
func (c *Conn) Prepare(handle wire.StatementHandle, stmtType StmtType) (*Statement, error) {
	if c.closed {
		return nil, getError(errClosedStmt, nil)
	}
	return newStatement(c, handle, stmtType), nil
}

// Close releases the connection. Statements must be closed first; their
// binds hold buffers registered with the call layer.
func (c *Conn) Close() error {
	c.closed = true
	return nil
}
