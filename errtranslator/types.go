package errtranslator

import (
	"errors"
	"fmt"
)

// ErrTranslator maps a native driver error into the error taxonomy
type ErrTranslator interface {
	Translate(err error) error
}

// Classes: every translated error wraps exactly one of them
var (
	// ErrConnect the session could not be established or was lost
	ErrConnect = errors.New("connect error")
	// ErrExec the server rejected a statement
	ErrExec = errors.New("execution error")
)

var (
	ErrDuplicatedKey        = errors.New("duplicated key not allowed")
	ErrForeignKeyViolated   = errors.New("violates foreign key constraint")
	ErrCheckConstraint      = errors.New("violates check constraint")
	ErrNotNullViolated      = errors.New("cannot insert NULL")
	ErrValueTooLarge        = errors.New("value too large for column")
	ErrNoData               = errors.New("no data found")
	ErrTooManyRows          = errors.New("exact fetch returns more than one row")
	ErrResourceBusy         = errors.New("resource busy")
	ErrDeadlock             = errors.New("deadlock detected")
	ErrInvalidIdentifier    = errors.New("invalid identifier")
	ErrTableNotFound        = errors.New("table or view does not exist")
	ErrSyntax               = errors.New("SQL syntax error")
	ErrInvalidNumber        = errors.New("invalid number")
	ErrDivisionByZero       = errors.New("divisor is equal to zero")
	ErrNumericOverflow      = errors.New("numeric overflow")
	ErrCancelled            = errors.New("user requested cancel of current operation")
	ErrInvalidCredentials   = errors.New("invalid username/password")
	ErrAccountLocked        = errors.New("account is locked")
	ErrPasswordExpired      = errors.New("password has expired")
	ErrUnknownService       = errors.New("listener does not know of service")
	ErrNoListener           = errors.New("no listener")
	ErrSessionBroken        = errors.New("session broken")
	ErrSerializationFailure = errors.New("cannot serialize access for this transaction")
)

// OracleError is a translated ORA error. It wraps its class, the specific
// error the code maps to when there is one, and the native error.
type OracleError struct {
	Code    int
	Message string
	Class   error
	Err     error
	Native  error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("ORA-%05d: %s", e.Code, e.Message)
}

func (e *OracleError) Unwrap() []error {
	errs := make([]error, 0, 3)
	for _, err := range []error{e.Class, e.Err, e.Native} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// IsConnect reports whether err was classified as a connection failure
func IsConnect(err error) bool {
	return errors.Is(err, ErrConnect)
}
