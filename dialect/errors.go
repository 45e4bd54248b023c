package dialect

import (
	"errors"
	"fmt"
)

// ErrUnsupportedConstruct the query uses a construct Oracle SQL cannot express
var ErrUnsupportedConstruct = errors.New("unsupported construct")

// UnsupportedConstructError names the clause that could not be lowered
type UnsupportedConstructError struct {
	Construct string
	Err       error
}

func (e *UnsupportedConstructError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("oracle: unsupported construct %s", e.Construct)
	}
	return fmt.Sprintf("oracle: unsupported construct %s: %v", e.Construct, e.Err)
}

func (e *UnsupportedConstructError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrUnsupportedConstruct}
	}
	return []error{ErrUnsupportedConstruct, e.Err}
}

func unsupported(construct string, format string, args ...interface{}) error {
	return &UnsupportedConstructError{Construct: construct, Err: fmt.Errorf(format, args...)}
}
