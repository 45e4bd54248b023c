package errtranslator

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOracleErrTranslator(t *testing.T) {
	translator := &OracleErrTranslator{}

	results := []struct {
		Native  string
		Code    int
		Class   error
		Err     error
		Message string
	}{
		{"ORA-00001: unique constraint (APP.USERS_PK) violated", 1, ErrExec, ErrDuplicatedKey, "unique constraint (APP.USERS_PK) violated"},
		{"ORA-01400: cannot insert NULL into (\"APP\".\"USERS\".\"NAME\")", 1400, ErrExec, ErrNotNullViolated, "cannot insert NULL into (\"APP\".\"USERS\".\"NAME\")"},
		{"dpiStmt_execute: ORA-02291: integrity constraint (APP.FK) violated - parent key not found\nHelp: https://docs.oracle.com", 2291, ErrExec, ErrForeignKeyViolated, "integrity constraint (APP.FK) violated - parent key not found"},
		{"ORA-01017: invalid username/password; logon denied", 1017, ErrConnect, ErrInvalidCredentials, "invalid username/password; logon denied"},
		{"ORA-03113: end-of-file on communication channel", 3113, ErrConnect, ErrSessionBroken, "end-of-file on communication channel"},
		{"ORA-00942: table or view does not exist", 942, ErrExec, ErrTableNotFound, "table or view does not exist"},
		{"ORA-20001: custom application error", 20001, ErrExec, nil, "custom application error"},
	}

	for _, result := range results {
		native := errors.New(result.Native)
		err := translator.Translate(native)

		var oraErr *OracleError
		require.True(t, errors.As(err, &oraErr), result.Native)
		assert.Equal(t, result.Code, oraErr.Code)
		assert.Equal(t, result.Message, oraErr.Message)
		assert.True(t, errors.Is(err, result.Class), result.Native)
		assert.True(t, errors.Is(err, native), "native error stays in the chain")
		if result.Err != nil {
			assert.True(t, errors.Is(err, result.Err), result.Native)
		}
		assert.Equal(t, result.Code, Code(err))
		assert.Equal(t, result.Class == ErrConnect, IsConnect(err))
	}
}

func TestTranslatePassThrough(t *testing.T) {
	translator := &OracleErrTranslator{}

	assert.Nil(t, translator.Translate(nil))

	plain := errors.New("something else")
	assert.Equal(t, plain, translator.Translate(plain))
	assert.Equal(t, 0, Code(plain))

	deadline := fmt.Errorf("call: %w", context.DeadlineExceeded)
	assert.Equal(t, deadline, translator.Translate(deadline))

	once := translator.Translate(errors.New("ORA-00060: deadlock detected while waiting for resource"))
	assert.Same(t, once, translator.Translate(once))
	assert.True(t, errors.Is(once, ErrDeadlock))

	bad := translator.Translate(driver.ErrBadConn)
	assert.True(t, errors.Is(bad, ErrSessionBroken))
	assert.True(t, IsConnect(bad))
}

func TestOracleErrorFormat(t *testing.T) {
	err := &OracleError{Code: 1, Message: "unique constraint violated", Class: ErrExec}
	assert.Equal(t, "ORA-00001: unique constraint violated", err.Error())
	assert.Len(t, err.Unwrap(), 1)
}
