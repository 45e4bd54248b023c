package oci

import (
	"errors"
	"fmt"

	"gorm.io/oci/codec"
	"gorm.io/oci/dialect"
	"gorm.io/oci/errtranslator"
)

var (
	// ErrConnect descriptor, authentication or network failure
	ErrConnect = errtranslator.ErrConnect
	// ErrExec the server rejected a statement
	ErrExec = errtranslator.ErrExec
	// ErrUnsupportedConstruct the query cannot be lowered to Oracle SQL
	ErrUnsupportedConstruct = dialect.ErrUnsupportedConstruct
	// ErrBindMismatch bound values do not match the statement's bind slots
	ErrBindMismatch = codec.ErrBindMismatch
	// ErrNullViolation native null decoded into a non-nullable slot
	ErrNullViolation = codec.ErrNullViolation
	// ErrOutOfRange numeric value does not fit the target type
	ErrOutOfRange = codec.ErrOutOfRange
	// ErrIncompatibleType value cannot be represented by the target type
	ErrIncompatibleType = codec.ErrIncompatibleType
	// ErrNoData a single row fetch found nothing
	ErrNoData = errtranslator.ErrNoData
)

var (
	// ErrTransactionAlreadyOpen Begin called inside a transaction
	ErrTransactionAlreadyOpen = errors.New("transaction already open")
	// ErrNoOpenTransaction Commit, Rollback or a savepoint call outside a transaction
	ErrNoOpenTransaction = errors.New("no open transaction")
	// ErrConcurrentUse a session was used by two goroutines at once
	ErrConcurrentUse = errors.New("session used concurrently")
	// ErrSessionClosed the session was closed
	ErrSessionClosed = errors.New("session closed")
	// ErrInvalidDescriptor the connection descriptor is malformed
	ErrInvalidDescriptor = errors.New("invalid connection descriptor")
	// ErrEnvironmentClosed Open called after Shutdown
	ErrEnvironmentClosed = errors.New("oracle environment shut down")
	// ErrReturningNotQueryable a RETURNING statement was passed to Query
	ErrReturningNotQueryable = errors.New("statement with RETURNING must be executed, not queried")
	// ErrReturningManyRows an UPDATE or DELETE with RETURNING changed more than one row
	ErrReturningManyRows = errors.New("RETURNING INTO matched more than one row")
)

// ConnectError is returned by Open. Descriptor never contains the password.
type ConnectError struct {
	Descriptor string
	Err        error
}

func (e *ConnectError) Error() string {
	if e.Descriptor == "" {
		return fmt.Sprintf("oracle: connect: %v", e.Err)
	}
	return fmt.Sprintf("oracle: connect to %s: %v", e.Descriptor, e.Err)
}

func (e *ConnectError) Unwrap() []error {
	return []error{ErrConnect, e.Err}
}

// ExecError is a statement the server rejected
type ExecError struct {
	SQL string
	// Code is the ORA code, 0 when the driver did not report one
	Code int
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("oracle: %v\n\t%s", e.Err, e.SQL)
}

// Unwrap reports ErrExec unless the connection itself failed
func (e *ExecError) Unwrap() []error {
	if errtranslator.IsConnect(e.Err) {
		return []error{e.Err}
	}
	return []error{ErrExec, e.Err}
}

// BatchPartialFailure names the first row of a batch that failed. The
// rows before it were rolled back.
type BatchPartialFailure struct {
	RowIndex int
	Cause    error
}

func (e *BatchPartialFailure) Error() string {
	return fmt.Sprintf("oracle: batch failed at row %d: %v", e.RowIndex, e.Cause)
}

func (e *BatchPartialFailure) Unwrap() error {
	return e.Cause
}
