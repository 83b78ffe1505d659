// Package orabind implements variable binding for Oracle statements: it
// shapes host buffers, indicator and length arrays for placeholder values,
// issues the bind calls through a wire.Caller, and tracks the resulting
// binds on the statement so they can be inspected, adjusted, and released.
//
// A Conn wraps a wire.Caller and the session's character widths. Statements
// prepared from it accept scalar, array, and PL/SQL table binds through
// typed helpers; output placeholders are registered through the Register
// helpers and serviced with data-at-execute callbacks.
package orabind
