package orabind

import (
	"github.com/orasdk/go-orabind/wire"
)

// DataType is the driver-side category of a bound value.
type DataType uint8

const (
	TYPE_UNKNOWN DataType = iota
	TYPE_NUMERIC
	TYPE_TEXT
	TYPE_RAW
	TYPE_DATETIME
	TYPE_LOB
	TYPE_FILE
	TYPE_TIMESTAMP
	TYPE_INTERVAL
	TYPE_OBJECT
	TYPE_COLLECTION
	TYPE_REF
	TYPE_CURSOR
	TYPE_BOOLEAN
	TYPE_LONG
)

var typeToStringMap = map[DataType]string{
	TYPE_UNKNOWN:    "UNKNOWN",
	TYPE_NUMERIC:    "NUMERIC",
	TYPE_TEXT:       "TEXT",
	TYPE_RAW:        "RAW",
	TYPE_DATETIME:   "DATETIME",
	TYPE_LOB:        "LOB",
	TYPE_FILE:       "FILE",
	TYPE_TIMESTAMP:  "TIMESTAMP",
	TYPE_INTERVAL:   "INTERVAL",
	TYPE_OBJECT:     "OBJECT",
	TYPE_COLLECTION: "COLLECTION",
	TYPE_REF:        "REF",
	TYPE_CURSOR:     "CURSOR",
	TYPE_BOOLEAN:    "BOOLEAN",
	TYPE_LONG:       "LONG",
}

func (t DataType) String() string {
	if s, ok := typeToStringMap[t]; ok {
		return s
	}
	return typeToStringMap[TYPE_UNKNOWN]
}

// NumericRepr selects the representation of a NUMERIC bind.
type NumericRepr uint8

const (
	// NUM_NUMBER carries an opaque wire-format NUMBER value object.
	NUM_NUMBER NumericRepr = iota + 1
	// NUM_BIGINT carries a native int64 converted through a separate
	// wire-format NUMBER buffer.
	NUM_BIGINT
	// NUM_FLOAT64 carries a native float64 bound as BINARY_DOUBLE.
	NUM_FLOAT64
	// NUM_FLOAT32 carries a native float32 bound as BINARY_FLOAT.
	NUM_FLOAT32
)

// LobKind refines a LOB bind.
type LobKind uint8

const (
	LOB_CLOB LobKind = iota + 1
	LOB_NCLOB
	LOB_BLOB
)

// TimestampKind refines a TIMESTAMP bind.
type TimestampKind uint8

const (
	TIMESTAMP_PLAIN TimestampKind = iota + 1
	TIMESTAMP_TZ
	TIMESTAMP_LTZ
)

// IntervalKind refines an INTERVAL bind.
type IntervalKind uint8

const (
	INTERVAL_YM IntervalKind = iota + 1
	INTERVAL_DS
)

// LongKind refines a LONG bind.
type LongKind uint8

const (
	LONG_CHAR LongKind = iota + 1
	LONG_RAW
)

// typeSpec is the closed set of bindable categories. Each variant carries
// only the refinement fields that category needs; the allocator and the
// materializer dispatch on the concrete variant.
type typeSpec interface {
	dataType() DataType
	wireCode() wire.TypeCode
	// subtype is the category refinement as an untyped ordinal, zero for
	// categories that carry none.
	subtype() uint8
}

type numericSpec struct {
	repr NumericRepr
	// wide binds the value through the opaque NUMBER wire format even for
	// native representations (the VARNUM path).
	wide bool
}

func (s numericSpec) dataType() DataType { return TYPE_NUMERIC }
func (s numericSpec) subtype() uint8     { return uint8(s.repr) }

func (s numericSpec) wireCode() wire.TypeCode {
	if s.repr == NUM_NUMBER || s.wide {
		return wire.CodeVarnum
	}
	switch s.repr {
	case NUM_FLOAT64:
		return wire.CodeBinDouble
	case NUM_FLOAT32:
		return wire.CodeBinFloat
	}
	return wire.CodeInteger
}

type textSpec struct{}

func (textSpec) dataType() DataType      { return TYPE_TEXT }
func (textSpec) wireCode() wire.TypeCode { return wire.CodeString }
func (textSpec) subtype() uint8          { return 0 }

type rawSpec struct{}

func (rawSpec) dataType() DataType      { return TYPE_RAW }
func (rawSpec) wireCode() wire.TypeCode { return wire.CodeRaw }
func (rawSpec) subtype() uint8          { return 0 }

type dateTimeSpec struct{}

func (dateTimeSpec) dataType() DataType      { return TYPE_DATETIME }
func (dateTimeSpec) wireCode() wire.TypeCode { return wire.CodeDate }
func (dateTimeSpec) subtype() uint8          { return 0 }

type lobSpec struct {
	kind LobKind
}

func (s lobSpec) dataType() DataType { return TYPE_LOB }
func (s lobSpec) subtype() uint8     { return uint8(s.kind) }

func (s lobSpec) wireCode() wire.TypeCode {
	if s.kind == LOB_BLOB {
		return wire.CodeBlob
	}
	return wire.CodeClob
}

type fileSpec struct{}

func (fileSpec) dataType() DataType      { return TYPE_FILE }
func (fileSpec) wireCode() wire.TypeCode { return wire.CodeFile }
func (fileSpec) subtype() uint8          { return 0 }

type timestampSpec struct {
	kind TimestampKind
}

func (s timestampSpec) dataType() DataType { return TYPE_TIMESTAMP }
func (s timestampSpec) subtype() uint8     { return uint8(s.kind) }

func (s timestampSpec) wireCode() wire.TypeCode {
	switch s.kind {
	case TIMESTAMP_TZ:
		return wire.CodeTimestampTZ
	case TIMESTAMP_LTZ:
		return wire.CodeTimestampLTZ
	}
	return wire.CodeTimestamp
}

type intervalSpec struct {
	kind IntervalKind
}

func (s intervalSpec) dataType() DataType { return TYPE_INTERVAL }
func (s intervalSpec) subtype() uint8     { return uint8(s.kind) }

func (s intervalSpec) wireCode() wire.TypeCode {
	if s.kind == INTERVAL_YM {
		return wire.CodeIntervalYM
	}
	return wire.CodeIntervalDS
}

type objectSpec struct {
	typeInfo *TypeInfo
}

func (objectSpec) dataType() DataType      { return TYPE_OBJECT }
func (objectSpec) wireCode() wire.TypeCode { return wire.CodeNamedType }
func (objectSpec) subtype() uint8          { return 0 }

type collectionSpec struct {
	typeInfo *TypeInfo
}

func (collectionSpec) dataType() DataType      { return TYPE_COLLECTION }
func (collectionSpec) wireCode() wire.TypeCode { return wire.CodeNamedType }
func (collectionSpec) subtype() uint8          { return 0 }

type refSpec struct {
	typeInfo *TypeInfo
}

func (refSpec) dataType() DataType      { return TYPE_REF }
func (refSpec) wireCode() wire.TypeCode { return wire.CodeRef }
func (refSpec) subtype() uint8          { return 0 }

type cursorSpec struct{}

func (cursorSpec) dataType() DataType      { return TYPE_CURSOR }
func (cursorSpec) wireCode() wire.TypeCode { return wire.CodeCursor }
func (cursorSpec) subtype() uint8          { return 0 }

type booleanSpec struct{}

func (booleanSpec) dataType() DataType      { return TYPE_BOOLEAN }
func (booleanSpec) wireCode() wire.TypeCode { return wire.CodeBoolean }
func (booleanSpec) subtype() uint8          { return 0 }

type longSpec struct {
	kind LongKind
}

func (s longSpec) dataType() DataType { return TYPE_LONG }
func (s longSpec) subtype() uint8     { return uint8(s.kind) }

func (s longSpec) wireCode() wire.TypeCode {
	if s.kind == LONG_RAW {
		return wire.CodeLongRaw
	}
	return wire.CodeLong
}

// typeInfoOf returns the object type descriptor a spec carries, if any.
func typeInfoOf(spec typeSpec) *TypeInfo {
	switch s := spec.(type) {
	case objectSpec:
		return s.typeInfo
	case collectionSpec:
		return s.typeInfo
	case refSpec:
		return s.typeInfo
	}
	return nil
}

// TypeInfo describes a named database object type.
type TypeInfo struct {
	Schema string
	Name   string
	Attrs  []string

	tdo *wire.TypeDescriptor
}

// NewTypeInfo builds a type descriptor for a named object type.
func NewTypeInfo(schema, name string, attrs ...string) *TypeInfo {
	return &TypeInfo{
		Schema: schema,
		Name:   name,
		Attrs:  attrs,
		tdo:    &wire.TypeDescriptor{Schema: schema, Name: name, Attrs: attrs},
	}
}

// Direction is the logical direction of a bind.
type Direction uint8

const (
	DIRECTION_IN     Direction = 1
	DIRECTION_OUT    Direction = 2
	DIRECTION_IN_OUT Direction = DIRECTION_IN | DIRECTION_OUT
)

// CharsetForm selects the character set family of a text bind.
type CharsetForm uint8

const (
	CHARSET_FORM_NONE CharsetForm = iota
	CHARSET_FORM_DEFAULT
	CHARSET_FORM_NATIONAL
)

// AllocMode says which side owns a bind's data buffer.
type AllocMode uint8

const (
	// ALLOC_CALLER aliases caller-owned memory; the core never frees it.
	ALLOC_CALLER AllocMode = 1
	// ALLOC_INTERNAL makes the core allocate and free the backing storage.
	ALLOC_INTERNAL AllocMode = 2
)

// BindMode selects how placeholders are addressed on the wire.
type BindMode uint8

const (
	BIND_BY_POS BindMode = iota + 1
	BIND_BY_NAME
)

// StmtType is the statement class reported by the call layer at prepare time.
type StmtType uint8

const (
	STATEMENT_TYPE_UNKNOWN StmtType = iota
	STATEMENT_TYPE_SELECT
	STATEMENT_TYPE_UPDATE
	STATEMENT_TYPE_DELETE
	STATEMENT_TYPE_INSERT
	STATEMENT_TYPE_CREATE
	STATEMENT_TYPE_DROP
	STATEMENT_TYPE_ALTER
	STATEMENT_TYPE_BEGIN
	STATEMENT_TYPE_DECLARE
	STATEMENT_TYPE_CALL
	STATEMENT_TYPE_MERGE
)

// isPLSQL reports whether the statement is an anonymous block or a
// procedure call, the statement classes that accept table binds.
func (t StmtType) isPLSQL() bool {
	return t == STATEMENT_TYPE_BEGIN || t == STATEMENT_TYPE_DECLARE || t == STATEMENT_TYPE_CALL
}

// bindKind separates input binds from output (register) binds.
type bindKind uint8

const (
	bindInput bindKind = iota + 1
	bindOutput
)

// bindIndex locates a bind inside the registry: its class plus its 1-based
// position in the matching list.
type bindIndex struct {
	kind bindKind
	pos  int
}
