package stmt_store_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gorm.io/oci/internal/stmt_store"
)

func openConn(t *testing.T) (driver.Conn, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.NewWithDSN("stmt_store_"+t.Name(), sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	conn, err := db.Driver().Open("stmt_store_" + t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		db.Close()
	})
	return conn, mock
}

func TestPrepareReusesCachedStatement(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELECT 1 FROM DUAL")

	store := stmt_store.New(0, 0)
	first, err := store.Prepare(context.Background(), conn, "SELECT 1 FROM DUAL", true)
	require.NoError(t, err)
	second, err := store.Prepare(context.Background(), conn, "SELECT 1 FROM DUAL", true)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.True(t, first.Cached())
	assert.Equal(t, []string{"SELECT 1 FROM DUAL"}, store.Keys())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareWithoutCache(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELECT 2 FROM DUAL").WillBeClosed()
	mock.ExpectPrepare("SELECT 2 FROM DUAL")

	store := stmt_store.New(0, 0)
	stmt, err := store.Prepare(context.Background(), conn, "SELECT 2 FROM DUAL", false)
	require.NoError(t, err)
	assert.False(t, stmt.Cached())
	assert.Equal(t, 0, store.Len())
	require.NoError(t, stmt.Release())

	_, err = store.Prepare(context.Background(), conn, "SELECT 2 FROM DUAL", false)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBoundedStoreClosesEvicted(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELECT a FROM t").WillBeClosed()
	mock.ExpectPrepare("SELECT b FROM t")
	mock.ExpectPrepare("SELECT a FROM t")

	var closed []string
	store := stmt_store.New(1, 0)
	store.OnClose = func(sql string, err error) {
		assert.NoError(t, err)
		closed = append(closed, sql)
	}

	for _, query := range []string{"SELECT a FROM t", "SELECT b FROM t", "SELECT a FROM t"} {
		_, err := store.Prepare(context.Background(), conn, query, true)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"SELECT a FROM t", "SELECT b FROM t"}, closed)
	assert.Equal(t, []string{"SELECT a FROM t"}, store.Keys())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareError(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELEC 1").WillReturnError(assert.AnError)

	store := stmt_store.New(0, time.Hour)
	_, err := store.Prepare(context.Background(), conn, "SELEC 1", true)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 0, store.Len())
}

func TestCloseClosesEverything(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELECT a FROM t").WillBeClosed()
	mock.ExpectPrepare("SELECT b FROM t").WillBeClosed()

	store := stmt_store.New(0, 0)
	for _, query := range []string{"SELECT a FROM t", "SELECT b FROM t"} {
		_, err := store.Prepare(context.Background(), conn, query, true)
		require.NoError(t, err)
	}

	_, ok := store.Get("SELECT b FROM t")
	assert.True(t, ok)
	require.NoError(t, store.Close())
	assert.Equal(t, 0, store.Len())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPinnedStatementOutlivesEviction(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELECT a FROM t").WillBeClosed()
	mock.ExpectPrepare("SELECT b FROM t")

	var closed []string
	store := stmt_store.New(1, 0)
	store.OnClose = func(sql string, err error) { closed = append(closed, sql) }

	cursor, err := store.Prepare(context.Background(), conn, "SELECT a FROM t", true)
	require.NoError(t, err)
	cursor.Pin()

	_, err = store.Prepare(context.Background(), conn, "SELECT b FROM t", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"SELECT b FROM t"}, store.Keys())
	assert.Empty(t, closed)
	assert.Error(t, mock.ExpectationsWereMet(), "evicted statement closed while pinned")

	require.NoError(t, cursor.Release())
	assert.False(t, cursor.Pinned())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPinnedStatementIsNotSharedTwice(t *testing.T) {
	conn, mock := openConn(t)
	mock.ExpectPrepare("SELECT a FROM t")
	mock.ExpectPrepare("SELECT a FROM t").WillBeClosed()

	store := stmt_store.New(0, 0)
	first, err := store.Prepare(context.Background(), conn, "SELECT a FROM t", true)
	require.NoError(t, err)
	first.Pin()

	second, err := store.Prepare(context.Background(), conn, "SELECT a FROM t", true)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.False(t, second.Cached())
	require.NoError(t, second.Release())

	require.NoError(t, first.Release())
	third, err := store.Prepare(context.Background(), conn, "SELECT a FROM t", true)
	require.NoError(t, err)
	assert.Same(t, first, third)
	assert.NoError(t, mock.ExpectationsWereMet())
}
