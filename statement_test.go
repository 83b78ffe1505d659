package orabind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/orasdk/go-orabind/wire"
)

func TestStatementDefaults(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_SELECT, CharWidth{})

	require.Equal(t, STATEMENT_TYPE_SELECT, stmt.StatementType())
	require.Equal(t, BIND_BY_NAME, stmt.BindMode())
	require.False(t, stmt.BindReuse())
	require.Equal(t, ALLOC_CALLER, stmt.BindAllocation())
	require.Equal(t, 1, stmt.BindArraySize())
	require.Equal(t, 0, stmt.BindCount())
	require.Equal(t, 0, stmt.RegisterCount())
}

func TestStatementConfiguration(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_SELECT, CharWidth{})

	stmt.SetBindMode(BIND_BY_POS)
	require.Equal(t, BIND_BY_POS, stmt.BindMode())

	stmt.SetBindReuse(true)
	require.True(t, stmt.BindReuse())

	stmt.SetBindAllocation(ALLOC_INTERNAL)
	require.Equal(t, ALLOC_INTERNAL, stmt.BindAllocation())
}

func TestTypedBindHelpers(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	conn := stmt.conn

	cases := []struct {
		name string
		bind func() (*Bind, error)
		typ  DataType
		code wire.TypeCode
	}{
		{"int64", func() (*Bind, error) {
			v := int64(1)
			return stmt.BindInt64("c_int", &v)
		}, TYPE_NUMERIC, wire.CodeVarnum},
		{"float64", func() (*Bind, error) {
			v := 1.5
			return stmt.BindFloat64("c_dbl", &v)
		}, TYPE_NUMERIC, wire.CodeBinDouble},
		{"number", func() (*Bind, error) {
			return stmt.BindNumber("c_num", NewNumber())
		}, TYPE_NUMERIC, wire.CodeVarnum},
		{"string", func() (*Bind, error) {
			return stmt.BindString("c_str", make([]byte, 21), 20)
		}, TYPE_TEXT, wire.CodeString},
		{"raw", func() (*Bind, error) {
			return stmt.BindRaw("c_raw", make([]byte, 16), 16)
		}, TYPE_RAW, wire.CodeRaw},
		{"date", func() (*Bind, error) {
			return stmt.BindDate("c_date", NewDate())
		}, TYPE_DATETIME, wire.CodeDate},
		{"timestamp", func() (*Bind, error) {
			ts, err := NewTimestamp(conn, TIMESTAMP_TZ)
			require.NoError(t, err)
			return stmt.BindTimestamp("c_ts", ts)
		}, TYPE_TIMESTAMP, wire.CodeTimestampTZ},
		{"interval", func() (*Bind, error) {
			iv, err := NewInterval(conn, INTERVAL_YM)
			require.NoError(t, err)
			return stmt.BindInterval("c_iv", iv)
		}, TYPE_INTERVAL, wire.CodeIntervalYM},
		{"lob", func() (*Bind, error) {
			l, err := NewLob(conn, LOB_BLOB)
			require.NoError(t, err)
			return stmt.BindLob("c_lob", l)
		}, TYPE_LOB, wire.CodeBlob},
		{"file", func() (*Bind, error) {
			f, err := NewFile(conn)
			require.NoError(t, err)
			return stmt.BindFile("c_file", f)
		}, TYPE_FILE, wire.CodeFile},
		{"cursor", func() (*Bind, error) {
			cur, err := NewCursor(conn)
			require.NoError(t, err)
			return stmt.BindCursor("c_cur", cur)
		}, TYPE_CURSOR, wire.CodeCursor},
		{"boolean", func() (*Bind, error) {
			v := true
			return stmt.BindBoolean("c_bool", &v)
		}, TYPE_BOOLEAN, wire.CodeBoolean},
		{"long", func() (*Bind, error) {
			return stmt.BindLong("c_long", NewLong(LONG_CHAR), 64)
		}, TYPE_LONG, wire.CodeLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.bind()
			require.NoError(t, err)
			require.Equal(t, tc.typ, b.Type())
			require.Equal(t, tc.code, fake.LastBind().Spec.Code)
		})
	}

	require.Equal(t, len(cases), stmt.BindCount())
}

func TestObjectBindRequiresTypeInfo(t *testing.T) {
	_, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})

	_, err := stmt.BindObject("o", nil)
	require.Error(t, err)
	_, err = stmt.BindCollection("c", nil)
	require.Error(t, err)
	_, err = stmt.BindRef("r", nil)
	require.Error(t, err)
	require.Equal(t, 0, stmt.BindCount())
}

func TestRegisterHelpers(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_UPDATE, CharWidth{})

	cases := []struct {
		name string
		bind func() (*Bind, error)
		typ  DataType
	}{
		{"int64", func() (*Bind, error) { return stmt.RegisterInt64("r_int") }, TYPE_NUMERIC},
		{"string", func() (*Bind, error) { return stmt.RegisterString("r_str", 30) }, TYPE_TEXT},
		{"raw", func() (*Bind, error) { return stmt.RegisterRaw("r_raw", 16) }, TYPE_RAW},
		{"date", func() (*Bind, error) { return stmt.RegisterDate("r_date") }, TYPE_DATETIME},
		{"lob", func() (*Bind, error) { return stmt.RegisterLob("r_lob", LOB_CLOB) }, TYPE_LOB},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.bind()
			require.NoError(t, err)
			require.Equal(t, tc.typ, b.Type())
			require.Equal(t, DIRECTION_OUT, b.Direction())
			require.Equal(t, wire.ExecDataAtExec, fake.LastBind().Spec.Mode)
		})
	}

	require.Equal(t, len(cases), stmt.RegisterCount())
	require.Equal(t, 0, stmt.BindCount())
	require.Len(t, fake.Dynamics, len(cases))
}

func TestStatementClose(t *testing.T) {
	fake, stmt := prepare(t, STATEMENT_TYPE_INSERT, CharWidth{})
	stmt.SetBindAllocation(ALLOC_INTERNAL)

	_, err := stmt.BindLob("l", nil)
	require.NoError(t, err)
	_, err = stmt.RegisterLob("o", LOB_CLOB)
	require.NoError(t, err)
	require.Equal(t, 2, fake.Live())

	require.NoError(t, stmt.Close())
	require.Equal(t, 0, fake.Live())
	require.Equal(t, 0, stmt.BindCount())
	require.Nil(t, stmt.GetBindByName("l"))
}
