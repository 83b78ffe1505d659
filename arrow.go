package orabind

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

var errUnsupportedColumn = errors.New("unsupported arrow column type")

// ArrowBinder builds bulk array binds from Arrow record columns, one bind
// per column, for array DML executions.
type ArrowBinder struct {
	stmt *Statement
}

// NewArrowBinder returns an ArrowBinder for the statement.
func NewArrowBinder(s *Statement) (*ArrowBinder, error) {
	if s == nil || s.closed {
		return nil, getError(errClosedStmt, nil)
	}
	return &ArrowBinder{stmt: s}, nil
}

// BindRecord sizes the statement for the record's row count and binds every
// column under its field name.
func (ab *ArrowBinder) BindRecord(rec arrow.Record) ([]*Bind, error) {
	if err := ab.stmt.SetBindArraySize(int(rec.NumRows())); err != nil {
		return nil, err
	}
	binds := make([]*Bind, 0, rec.NumCols())
	for i := 0; i < int(rec.NumCols()); i++ {
		b, err := ab.BindColumn(rec.ColumnName(i), rec.Column(i))
		if err != nil {
			return nil, err
		}
		binds = append(binds, b)
	}
	return binds, nil
}

// BindColumn binds one column as an array bind named name. The column
// length must match the statement's bind array size; column nulls map to
// the bind's null indicators.
func (ab *ArrowBinder) BindColumn(name string, col arrow.Array) (*Bind, error) {
	if col.Len() != ab.stmt.nbIters {
		return nil, getError(fmt.Errorf("column length %d does not match bind array size %d",
			col.Len(), ab.stmt.nbIters), nil)
	}

	var b *Bind
	var err error

	switch c := col.(type) {
	case *array.Int64:
		b, err = ab.stmt.BindInt64Array(name, c.Int64Values(), 0)
	case *array.Float64:
		b, err = ab.stmt.BindFloat64Array(name, c.Float64Values(), 0)
	case *array.String:
		b, err = ab.bindStringColumn(name, c)
	case *array.Binary:
		b, err = ab.bindBinaryColumn(name, c)
	default:
		return nil, getError(errUnsupportedColumn, fmt.Errorf("%s", col.DataType().Name()))
	}
	if err != nil {
		return nil, err
	}

	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			err = b.SetNullAtPos(i + 1)
		} else {
			err = b.SetNotNullAtPos(i + 1)
		}
		if err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (ab *ArrowBinder) bindStringColumn(name string, c *array.String) (*Bind, error) {
	maxChars := 1
	for i := 0; i < c.Len(); i++ {
		if n := len(c.Value(i)); n > maxChars {
			maxChars = n
		}
	}

	width := ab.stmt.conn.charWidth
	stride := (maxChars + 1) * width.Host
	packed := make([]byte, stride*c.Len())
	for i := 0; i < c.Len(); i++ {
		copy(packed[i*stride:], c.Value(i))
	}

	b, err := ab.stmt.BindStringArray(name, packed, maxChars, 0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		size := len(c.Value(i))
		if size == 0 {
			size = 1
		}
		if err = b.SetDataSizeAtPos(i+1, size); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (ab *ArrowBinder) bindBinaryColumn(name string, c *array.Binary) (*Bind, error) {
	maxLen := 1
	for i := 0; i < c.Len(); i++ {
		if n := len(c.Value(i)); n > maxLen {
			maxLen = n
		}
	}

	packed := make([]byte, maxLen*c.Len())
	for i := 0; i < c.Len(); i++ {
		copy(packed[i*maxLen:], c.Value(i))
	}

	b, err := ab.stmt.BindRawArray(name, packed, maxLen, 0)
	if err != nil {
		return nil, err
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) || len(c.Value(i)) == 0 {
			continue
		}
		if err = b.SetDataSizeAtPos(i+1, len(c.Value(i))); err != nil {
			return nil, err
		}
	}
	return b, nil
}
