// Package wire defines the call ABI between the bind core and the Oracle
// client call layer. The core never talks to the server itself; it shapes
// buffers and hands them to a Caller implementation, which attaches them to
// the prepared statement and drives them during execution.
package wire

// ------------------------------------------------------------------ //
// Enums
// ------------------------------------------------------------------ //

// TypeCode tags a value's on-the-wire representation.
type TypeCode uint16

const (
	CodeInvalid    TypeCode = 0
	CodeVarchar    TypeCode = 1
	CodeNumber     TypeCode = 2
	CodeInteger    TypeCode = 3
	CodeFloat      TypeCode = 4
	CodeString     TypeCode = 5
	CodeVarnum     TypeCode = 6
	CodeLong       TypeCode = 8
	CodeDate       TypeCode = 12
	CodeRaw        TypeCode = 23
	CodeLongRaw    TypeCode = 24
	CodeNamedType  TypeCode = 108
	CodeRef        TypeCode = 110
	CodeClob       TypeCode = 112
	CodeBlob       TypeCode = 113
	CodeFile       TypeCode = 114
	CodeCursor     TypeCode = 116
	CodeTimestamp  TypeCode = 187
	CodeTimestampTZ  TypeCode = 188
	CodeIntervalYM   TypeCode = 189
	CodeIntervalDS   TypeCode = 190
	CodeTimestampLTZ TypeCode = 232
	CodeBoolean    TypeCode = 252
	CodeBinFloat   TypeCode = 21
	CodeBinDouble  TypeCode = 22
)

// State is the outcome of a wire call.
type State int

const (
	StateSuccess State = iota
	StateError
)

// ExecMode selects how the call layer consumes a bind's buffers.
type ExecMode uint32

const (
	ExecDefault ExecMode = 0
	// ExecDataAtExec defers buffer contents to callbacks during execution.
	ExecDataAtExec ExecMode = 2
)

// Attr identifies a settable attribute on a bound placeholder handle.
type Attr uint32

const (
	AttrCharsetForm Attr = 32
)

// Charset form values as seen by the call layer.
const (
	CharsetFormImplicit uint8 = 1
	CharsetFormNChar    uint8 = 2
)

// Null indicator sentinels.
const (
	IndNull    int16 = -1
	IndNotNull int16 = 0
)

// Element sizes of the fixed-width wire value layouts.
const (
	NumberSize = 22
	DateSize   = 7
)

// HandleKind selects the descriptor type for DescriptorAlloc.
type HandleKind uint8

const (
	HandleNone HandleKind = iota
	HandleLob
	HandleFile
	HandleTimestamp
	HandleTimestampTZ
	HandleTimestampLTZ
	HandleIntervalYM
	HandleIntervalDS
	HandleObject
	HandleCollection
	HandleRef
	HandleCursor
)

// ------------------------------------------------------------------ //
// Value layouts and handles
// ------------------------------------------------------------------ //

// Number is the wire representation of an Oracle NUMBER value.
type Number [NumberSize]byte

// Date is the wire representation of a DATE value.
type Date [DateSize]byte

// Handle is an opaque descriptor reference owned by the call layer, e.g. a
// LOB locator or a datetime descriptor obtained from DescriptorAlloc.
type Handle any

// StatementHandle is the call layer's reference to a prepared statement.
type StatementHandle any

// BindHandle is the call layer's reference to one bound placeholder. It is
// required for attribute changes after the bind call.
type BindHandle any

// TypeDescriptor describes a named object type (TDO) for object binds.
type TypeDescriptor struct {
	Schema string
	Name   string
	Attrs  []string
}

// ------------------------------------------------------------------ //
// Bind call payload
// ------------------------------------------------------------------ //

// BindSpec carries everything a bind call attaches to the statement. Exactly
// one of Data and Handles is set: Data for byte-addressed values, Handles for
// descriptor-based ones.
type BindSpec struct {
	Data    []byte
	Handles []Handle

	Size int
	Code TypeCode

	Indicators  []int16
	Lengths     []uint16
	ReturnCodes []uint16

	// Table binds only: maximum element count and a pointer the call layer
	// uses to report the element count actually transferred.
	MaxTableElems int
	CurTableElems *uint32

	Mode ExecMode
}

// BindInFunc supplies an input element during data-at-execute runs. It
// returns the element's buffer and its indicator.
type BindInFunc func(ctx any, iter, index int) (data []byte, ind *int16)

// BindOutFunc receives an output element during data-at-execute runs. The
// call layer writes the value into data and the transfer metadata through
// the returned pointers.
type BindOutFunc func(ctx any, iter, index int) (data []byte, alen *uint32, ind *int16, rcode *uint16)

// ------------------------------------------------------------------ //
// Caller
// ------------------------------------------------------------------ //

// Caller is the synchronous call surface of the client library. All calls
// return a State the core maps to success or failure.
type Caller interface {
	// BindByPos attaches spec to the 1-based placeholder position.
	BindByPos(stmt StatementHandle, pos int, spec *BindSpec) (BindHandle, State)

	// BindByName attaches spec to the named placeholder.
	BindByName(stmt StatementHandle, name string, spec *BindSpec) (BindHandle, State)

	// BindObject issues the secondary bind call for named object types,
	// attaching the type descriptor and per-element object null indicators.
	BindObject(h BindHandle, tdo *TypeDescriptor, handles []Handle, objInds []int16) State

	// BindDynamic registers the data-at-execute callbacks on a bound
	// placeholder. ctx is handed back verbatim on every callback.
	BindDynamic(h BindHandle, ctx any, in BindInFunc, out BindOutFunc) State

	// AttrSet changes an attribute on a bound placeholder handle.
	AttrSet(h BindHandle, attr Attr, value uint8) State

	// DescriptorAlloc allocates a descriptor of the given kind.
	DescriptorAlloc(kind HandleKind) (Handle, State)

	// DescriptorFree releases a descriptor obtained from DescriptorAlloc.
	DescriptorFree(h Handle) State
}
