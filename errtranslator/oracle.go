package errtranslator

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/godror/godror"
)

type entry struct {
	class error
	err   error
}

// oracleErrCodes is the single translation table; supporting a new code
// means adding one line here
var oracleErrCodes = map[int]entry{
	1:     {ErrExec, ErrDuplicatedKey},
	54:    {ErrExec, ErrResourceBusy},
	60:    {ErrExec, ErrDeadlock},
	900:   {ErrExec, ErrSyntax},
	904:   {ErrExec, ErrInvalidIdentifier},
	907:   {ErrExec, ErrSyntax},
	911:   {ErrExec, ErrSyntax},
	933:   {ErrExec, ErrSyntax},
	936:   {ErrExec, ErrSyntax},
	942:   {ErrExec, ErrTableNotFound},
	1012:  {ErrConnect, ErrSessionBroken},
	1013:  {ErrExec, ErrCancelled},
	1017:  {ErrConnect, ErrInvalidCredentials},
	1400:  {ErrExec, ErrNotNullViolated},
	1403:  {ErrExec, ErrNoData},
	1407:  {ErrExec, ErrNotNullViolated},
	1422:  {ErrExec, ErrTooManyRows},
	1426:  {ErrExec, ErrNumericOverflow},
	1438:  {ErrExec, ErrValueTooLarge},
	1476:  {ErrExec, ErrDivisionByZero},
	1722:  {ErrExec, ErrInvalidNumber},
	2290:  {ErrExec, ErrCheckConstraint},
	2291:  {ErrExec, ErrForeignKeyViolated},
	2292:  {ErrExec, ErrForeignKeyViolated},
	2396:  {ErrConnect, ErrSessionBroken},
	3113:  {ErrConnect, ErrSessionBroken},
	3114:  {ErrConnect, ErrSessionBroken},
	3135:  {ErrConnect, ErrSessionBroken},
	8177:  {ErrExec, ErrSerializationFailure},
	12154: {ErrConnect, ErrUnknownService},
	12170: {ErrConnect, ErrNoListener},
	12514: {ErrConnect, ErrUnknownService},
	12541: {ErrConnect, ErrNoListener},
	12545: {ErrConnect, ErrNoListener},
	12899: {ErrExec, ErrValueTooLarge},
	28000: {ErrConnect, ErrAccountLocked},
	28001: {ErrConnect, ErrPasswordExpired},
	30006: {ErrExec, ErrResourceBusy},
}

var oraCodePattern = regexp.MustCompile(`ORA-(\d{5}):\s*`)

// OracleErrTranslator translates godror errors and ORA-nnnnn messages
type OracleErrTranslator struct{}

// Translate returns an *OracleError for native Oracle errors. Context errors
// and errors without an ORA code are returned unchanged, except
// driver.ErrBadConn which is classified as a broken session.
func (o *OracleErrTranslator) Translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var oraErr *OracleError
	if errors.As(err, &oraErr) {
		return err
	}

	if native, ok := godror.AsOraErr(err); ok {
		return newOracleError(native.Code(), native.Message(), err)
	}

	if match := oraCodePattern.FindStringSubmatchIndex(err.Error()); match != nil {
		msg := err.Error()
		code, _ := strconv.Atoi(msg[match[2]:match[3]])
		return newOracleError(code, strings.TrimSpace(firstLine(msg[match[1]:])), err)
	}

	if errors.Is(err, driver.ErrBadConn) {
		return &OracleError{Code: 3113, Message: err.Error(), Class: ErrConnect, Err: ErrSessionBroken, Native: err}
	}
	return err
}

func newOracleError(code int, message string, native error) *OracleError {
	e := &OracleError{Code: code, Message: message, Class: ErrExec, Native: native}
	if mapped, ok := oracleErrCodes[code]; ok {
		e.Class, e.Err = mapped.class, mapped.err
	}
	return e
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}

// Code returns the ORA code carried by err, 0 when there is none
func Code(err error) int {
	var oraErr *OracleError
	if errors.As(err, &oraErr) {
		return oraErr.Code
	}
	return 0
}
