package orabind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orasdk/go-orabind/internal/wiretest"
	"github.com/orasdk/go-orabind/wire"
)

func prepareInternal(t *testing.T, width CharWidth) (*wiretest.Caller, *Statement) {
	t.Helper()
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, width)
	stmt.SetBindAllocation(ALLOC_INTERNAL)
	return fake, stmt
}

func TestInternalScalarValues(t *testing.T) {
	t.Run("number shares wire storage", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})

		b, err := stmt.BindNumber("n", nil)
		require.NoError(t, err)

		n, ok := b.Data().(*Number)
		require.True(t, ok)
		n.Bytes()[0] = 0xC2
		require.Equal(t, byte(0xC2), fake.LastBind().Spec.Data[0])
		require.False(t, b.alloc)
	})

	t.Run("int64 converts through owned number buffer", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})

		b, err := stmt.BindInt64("id", nil)
		require.NoError(t, err)

		_, ok := b.Data().(*int64)
		require.True(t, ok)
		require.True(t, b.alloc)
		require.Len(t, fake.LastBind().Spec.Data, wire.NumberSize)
	})

	t.Run("float64 shares native storage", func(t *testing.T) {
		_, stmt := prepareInternal(t, CharWidth{})

		b, err := stmt.BindFloat64("v", nil)
		require.NoError(t, err)
		require.False(t, b.alloc)

		buf, ok := b.Data().([]byte)
		require.True(t, ok)
		require.Len(t, buf, 8)
	})

	t.Run("date shares wire storage", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})

		b, err := stmt.BindDate("d", nil)
		require.NoError(t, err)

		d, ok := b.Data().(*Date)
		require.True(t, ok)
		d.Bytes()[0] = 120
		require.Equal(t, byte(120), fake.LastBind().Spec.Data[0])
	})

	t.Run("text without conversion shares one buffer", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{Host: 1, Wire: 1})

		b, err := stmt.BindString("s", nil, 9)
		require.NoError(t, err)
		require.False(t, b.alloc)

		buf := b.Data().([]byte)
		copy(buf, "hi")
		require.Equal(t, []byte("hi"), fake.LastBind().Spec.Data[:2])
	})

	t.Run("text with conversion splits host and wire buffers", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{Host: 1, Wire: 2})

		b, err := stmt.BindString("s", nil, 9)
		require.NoError(t, err)
		require.True(t, b.alloc)

		host := b.Data().([]byte)
		require.Len(t, host, 10)
		require.Len(t, fake.LastBind().Spec.Data, 20)
	})

	t.Run("lob allocates one descriptor", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})

		b, err := stmt.BindLob("l", nil)
		require.NoError(t, err)
		require.Equal(t, 1, fake.Live())

		l, ok := b.Data().(*Lob)
		require.True(t, ok)
		require.Equal(t, LOB_CLOB, l.Kind())
		require.Same(t, l.wireHandle(), fake.LastBind().Spec.Handles[0])

		require.True(t, b.Free())
		require.Equal(t, 0, fake.Live())
	})

	t.Run("cursor has no internal representation", func(t *testing.T) {
		_, stmt := prepareInternal(t, CharWidth{})

		_, err := stmt.BindCursor("c", nil)
		require.ErrorIs(t, err, ErrAllocation)
		require.Equal(t, 0, stmt.BindCount())
	})
}

func TestInternalArrayValues(t *testing.T) {
	t.Run("int64 array views the same block", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})
		require.NoError(t, stmt.SetBindArraySize(4))

		b, err := stmt.BindInt64Array("vals", nil, 0)
		require.NoError(t, err)
		require.True(t, b.alloc)

		vs, ok := b.Data().([]int64)
		require.True(t, ok)
		require.Len(t, vs, 4)
		require.Len(t, fake.LastBind().Spec.Data, 4*wire.NumberSize)
	})

	t.Run("float64 array views native memory", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})
		require.NoError(t, stmt.SetBindArraySize(4))

		b, err := stmt.BindFloat64Array("vals", nil, 0)
		require.NoError(t, err)
		require.False(t, b.alloc)

		vs, ok := b.Data().([]float64)
		require.True(t, ok)
		require.Len(t, vs, 4)

		vs[0] = 1.5
		require.Equal(t, byte(0x3F), fake.LastBind().Spec.Data[7])
	})

	t.Run("date array wrappers share wire storage", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})
		require.NoError(t, stmt.SetBindArraySize(4))

		b, err := stmt.BindDateArray("ds", 0)
		require.NoError(t, err)

		ds, ok := b.Data().([]*Date)
		require.True(t, ok)
		require.Len(t, ds, 4)

		ds[1].Bytes()[0] = 99
		require.Equal(t, byte(99), fake.LastBind().Spec.Data[wire.DateSize])
	})

	t.Run("descriptor array allocates per element", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})
		require.NoError(t, stmt.SetBindArraySize(3))

		b, err := stmt.createBind(nil, "ts", bindInput, 8, timestampSpec{kind: TIMESTAMP_TZ}, 0)
		require.NoError(t, err)
		require.Equal(t, 3, fake.Live())

		objs, ok := b.Data().([]any)
		require.True(t, ok)
		require.Len(t, objs, 3)
		ts, ok := objs[0].(*Timestamp)
		require.True(t, ok)
		require.Equal(t, TIMESTAMP_TZ, ts.Kind())

		// Wrappers over array-owned descriptors never free on their own.
		require.True(t, ts.Free())
		require.Equal(t, 3, fake.Live())

		require.True(t, b.Free())
		require.Equal(t, 0, fake.Live())
	})

	t.Run("failed descriptor allocation rolls back", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{})
		require.NoError(t, stmt.SetBindArraySize(4))
		fake.FailAllocAfter = 2

		_, err := stmt.createBind(nil, "ls", bindInput, 8, lobSpec{kind: LOB_CLOB}, 0)
		require.ErrorIs(t, err, ErrAllocation)
		require.Equal(t, 0, stmt.BindCount())
		require.Equal(t, 0, fake.Live())
	})

	t.Run("text array under conversion", func(t *testing.T) {
		fake, stmt := prepareInternal(t, CharWidth{Host: 1, Wire: 2})
		require.NoError(t, stmt.SetBindArraySize(2))

		b, err := stmt.BindStringArray("ss", nil, 4, 0)
		require.NoError(t, err)
		require.True(t, b.alloc)

		host := b.Data().([]byte)
		require.Len(t, host, 2*5)
		require.Len(t, fake.LastBind().Spec.Data, 2*10)
	})
}

func TestValueArrayLifecycle(t *testing.T) {
	fake := wiretest.New()
	conn := NewConn(fake, CharWidth{})

	arr, err := newValueArray(conn, 3, 8, wire.NumberSize, wire.HandleLob)
	require.NoError(t, err)
	require.Equal(t, 3, fake.Live())
	require.Len(t, arr.int64s(), 3)

	require.True(t, arr.free())
	require.Equal(t, 0, fake.Live())

	// A second free is a no-op, not a double release.
	require.True(t, arr.free())
	require.Equal(t, 0, fake.Live())
}

func TestFreeValue(t *testing.T) {
	fake := wiretest.New()
	conn := NewConn(fake, CharWidth{})

	l, err := NewLob(conn, LOB_BLOB)
	require.NoError(t, err)
	require.True(t, freeValue(l))
	require.Equal(t, 0, fake.Live())

	// Values without descriptors are trivially released.
	require.True(t, freeValue(NewNumber()))
	require.True(t, freeValue(nil))
}
