package orabind

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orasdk/go-orabind/internal/wiretest"
	"github.com/orasdk/go-orabind/wire"
)

func prepare(t *testing.T, stmtType StmtType, width CharWidth) (*wiretest.Caller, *Statement) {
	t.Helper()
	fake := wiretest.New()
	conn := NewConn(fake, width)
	stmt, err := conn.Prepare("stmt-handle", stmtType)
	require.NoError(t, err)
	return fake, stmt
}

func TestNormalizeBindName(t *testing.T) {
	require.Equal(t, ":ID", normalizeBindName("id"))
	require.Equal(t, ":ID", normalizeBindName(":id"))
	require.Equal(t, ":ID", normalizeBindName(":ID"))
	require.Equal(t, ":2", normalizeBindName("2"))
}

func TestBindByName(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

	v := int64(42)
	b, err := stmt.BindInt64("id", &v)
	require.NoError(t, err)
	require.Equal(t, ":ID", b.Name())
	require.Equal(t, 1, stmt.BindCount())

	call := fake.LastBind()
	require.True(t, call.ByName)
	require.Equal(t, ":ID", call.Name)
	require.Equal(t, wire.CodeVarnum, call.Spec.Code)
	require.Equal(t, wire.NumberSize, call.Spec.Size)

	require.Same(t, b, stmt.GetBindByName("id"))
	require.Same(t, b, stmt.GetBindByName(":Id"))
	require.Equal(t, 1, stmt.GetBindIndex("ID"))
}

func TestBindByPosition(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	stmt.SetBindMode(BIND_BY_POS)

	v := int64(7)
	_, err := stmt.BindInt64(":2", &v)
	require.NoError(t, err)

	call := fake.LastBind()
	require.False(t, call.ByName)
	require.Equal(t, 2, call.Pos)

	t.Run("malformed name", func(t *testing.T) {
		_, err := stmt.BindInt64(":abc", &v)
		require.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("position zero", func(t *testing.T) {
		_, err := stmt.BindInt64(":0", &v)
		require.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("position beyond cap", func(t *testing.T) {
		_, err := stmt.BindInt64(fmt.Sprintf(":%d", MaxBinds+1), &v)
		require.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestBindNameCollision(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

	v := int64(1)
	_, err := stmt.BindInt64("id", &v)
	require.NoError(t, err)

	_, err = stmt.BindInt64("id", &v)
	require.ErrorIs(t, err, ErrBindAlreadyUsed)
	require.Equal(t, 1, stmt.BindCount())
}

func TestBindReuse(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	stmt.SetBindReuse(true)

	v1 := int64(1)
	b1, err := stmt.BindInt64("id", &v1)
	require.NoError(t, err)

	t.Run("same category replaces in place", func(t *testing.T) {
		v2 := int64(2)
		b2, err := stmt.BindInt64("id", &v2)
		require.NoError(t, err)
		require.Same(t, b1, b2)
		require.Equal(t, 1, stmt.BindCount())
		require.Same(t, &v2, b2.Data())
	})

	t.Run("category change is rejected", func(t *testing.T) {
		_, err := stmt.BindString("id", make([]byte, 20), 19)
		require.ErrorIs(t, err, ErrRebindBadType)
		require.Equal(t, 1, stmt.BindCount())
	})
}

func TestBindLimit(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

	v := int64(0)
	for i := 1; i <= MaxBinds; i++ {
		_, err := stmt.BindInt64(fmt.Sprintf("v%d", i), &v)
		require.NoError(t, err)
	}
	require.Equal(t, MaxBinds, stmt.BindCount())

	_, err := stmt.BindInt64("overflow", &v)
	require.ErrorIs(t, err, ErrTooManyBinds)
}

func TestPlsqlTableBind(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_BEGIN, CharWidth{})

	vs := make([]int64, 5)
	b, err := stmt.BindInt64Array("tab", vs, 5)
	require.NoError(t, err)
	require.True(t, b.IsTableBind())
	require.True(t, b.IsArrayBind())
	require.Equal(t, 5, b.DataCount())

	call := fake.LastBind()
	require.Equal(t, 5, call.Spec.MaxTableElems)
	require.NotNil(t, call.Spec.CurTableElems)
	require.EqualValues(t, 5, *call.Spec.CurTableElems)
	require.Len(t, call.Spec.ReturnCodes, 5)
}

func TestTableCardinalityIgnoredOutsidePlsql(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

	vs := make([]int64, 5)
	b, err := stmt.BindInt64Array("tab", vs, 5)
	require.NoError(t, err)
	require.False(t, b.IsTableBind())
	require.False(t, b.IsArrayBind())
	require.Equal(t, 1, b.DataCount())
}

func TestArraySizeInheritance(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	require.NoError(t, stmt.SetBindArraySize(10))

	vs := make([]int64, 10)
	b, err := stmt.BindInt64Array("vals", vs, 0)
	require.NoError(t, err)
	require.True(t, b.IsArrayBind())
	require.False(t, b.IsTableBind())
	require.Equal(t, 10, b.DataCount())
	require.Len(t, fake.LastBind().Spec.Indicators, 10)
}

func TestAllocationCoversInitialIterations(t *testing.T) {
	// Shrinking the iteration count after configuring a larger one keeps
	// the larger allocation so a later grow needs no rebinding.
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	require.NoError(t, stmt.SetBindArraySize(10))
	require.NoError(t, stmt.SetBindArraySize(3))

	vs := make([]int64, 10)
	b, err := stmt.BindInt64Array("vals", vs, 0)
	require.NoError(t, err)
	require.Equal(t, 3, b.DataCount())
	require.Len(t, fake.LastBind().Spec.Indicators, 10)
}

func TestBindArraySizeValidation(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	require.Error(t, stmt.SetBindArraySize(0))
	require.NoError(t, stmt.SetBindArraySize(1))
	require.Equal(t, 1, stmt.BindArraySize())
}

func TestBindArraySizeCappedAfterFirstBind(t *testing.T) {
	t.Run("growth past the initial allocation is rejected", func(t *testing.T) {
		_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

		v := int64(1)
		_, err := stmt.BindInt64("id", &v)
		require.NoError(t, err)

		require.ErrorIs(t, stmt.SetBindArraySize(100), ErrBindArraySize)
		require.Equal(t, 1, stmt.BindArraySize())
	})

	t.Run("resizing within the initial allocation stays allowed", func(t *testing.T) {
		_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
		require.NoError(t, stmt.SetBindArraySize(10))

		vs := make([]int64, 10)
		_, err := stmt.BindInt64Array("vals", vs, 0)
		require.NoError(t, err)

		require.NoError(t, stmt.SetBindArraySize(5))
		require.NoError(t, stmt.SetBindArraySize(10))
		require.ErrorIs(t, stmt.SetBindArraySize(11), ErrBindArraySize)
	})
}

func TestReuseKeepsIndicatorState(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	stmt.SetBindReuse(true)

	v1 := int64(1)
	b, err := stmt.BindInt64("id", &v1)
	require.NoError(t, err)
	require.NoError(t, b.SetNull())

	v2 := int64(2)
	b2, err := stmt.BindInt64("id", &v2)
	require.NoError(t, err)

	null, err := b2.IsNull()
	require.NoError(t, err)
	require.True(t, null)
}

func TestLongBind(t *testing.T) {
	t.Run("char long rescales to wire width", func(t *testing.T) {
		fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{Host: 1, Wire: 2})

		lg := NewLong(LONG_CHAR)
		_, err := stmt.BindLong("doc", lg, 100)
		require.NoError(t, err)
		require.Equal(t, 200, lg.MaxSize())
		require.Equal(t, wire.ExecDataAtExec, fake.LastBind().Spec.Mode)
		require.Equal(t, wire.CodeLong, fake.LastBind().Spec.Code)
	})

	t.Run("raw long keeps byte size", func(t *testing.T) {
		fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{Host: 1, Wire: 2})

		lg := NewLong(LONG_RAW)
		_, err := stmt.BindLong("blob", lg, 100)
		require.NoError(t, err)
		require.Equal(t, 100, lg.MaxSize())
		require.Equal(t, wire.CodeLongRaw, fake.LastBind().Spec.Code)
	})
}

func TestNclobBindSetsCharsetAttr(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	conn := stmt.conn

	l, err := NewLob(conn, LOB_NCLOB)
	require.NoError(t, err)
	_, err = stmt.BindLob("note", l)
	require.NoError(t, err)

	require.Len(t, fake.Attrs, 1)
	require.Equal(t, wire.AttrCharsetForm, fake.Attrs[0].Attr)
	require.Equal(t, wire.CharsetFormNChar, fake.Attrs[0].Value)
}

func TestBindFailureCleanup(t *testing.T) {
	t.Run("new bind is fully destroyed", func(t *testing.T) {
		fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
		stmt.SetBindAllocation(ALLOC_INTERNAL)
		fake.FailBind = true

		_, err := stmt.BindLob("doc", nil)
		require.Error(t, err)
		require.Equal(t, 0, stmt.BindCount())
		require.Equal(t, 0, fake.Live())
	})

	t.Run("reused bind survives the failed attempt", func(t *testing.T) {
		fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
		stmt.SetBindReuse(true)

		v := int64(1)
		b, err := stmt.BindInt64("id", &v)
		require.NoError(t, err)

		fake.FailBind = true
		_, err = stmt.BindInt64("id", &v)
		require.Error(t, err)

		require.Equal(t, 1, stmt.BindCount())
		require.Same(t, b, stmt.GetBindByName("id"))
		require.Equal(t, ":ID", b.Name())
	})
}

func TestBindOnClosedStatement(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	require.NoError(t, stmt.Close())

	v := int64(1)
	_, err := stmt.BindInt64("id", &v)
	require.Error(t, err)
	require.Error(t, stmt.Close())
}

func TestBindFree(t *testing.T) {
	t.Run("nil and double free", func(t *testing.T) {
		var b *Bind
		require.False(t, b.Free())

		_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
		v := int64(1)
		b, err := stmt.BindInt64("id", &v)
		require.NoError(t, err)
		require.True(t, b.Free())
		require.True(t, b.Free())
	})

	t.Run("caller memory is never touched", func(t *testing.T) {
		_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
		buf := []byte("payload")
		b, err := stmt.BindRaw("data", buf, len(buf))
		require.NoError(t, err)
		require.True(t, b.Free())
		require.Equal(t, []byte("payload"), buf)
	})

	t.Run("internal descriptors released on close", func(t *testing.T) {
		fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
		stmt.SetBindAllocation(ALLOC_INTERNAL)

		_, err := stmt.BindLob("a", nil)
		require.NoError(t, err)
		_, err = stmt.BindTimestamp("b", nil)
		require.NoError(t, err)
		require.Equal(t, 2, fake.Live())

		require.NoError(t, stmt.Close())
		require.Equal(t, 0, fake.Live())
	})
}

func TestStatementBindSurface(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

	v := int64(1)
	b, err := stmt.BindInt64("id", &v)
	require.NoError(t, err)

	got, err := stmt.GetBind(1)
	require.NoError(t, err)
	require.Same(t, b, got)

	_, err = stmt.GetBind(0)
	require.ErrorIs(t, err, ErrOutOfBounds)
	_, err = stmt.GetBind(2)
	require.ErrorIs(t, err, ErrOutOfBounds)

	require.Nil(t, stmt.GetBindByName("missing"))
	require.Equal(t, 0, stmt.GetBindIndex("missing"))
}
