package domain

import "fmt"

// InvalidFormatError reports malformed measurement data: an unsupported JSON
// cell type, a row of the wrong length, an unparseable time tag, or a numeric
// field that fails coercion. The detail string is the whole error; there are
// no codes and no wrapped causes.
type InvalidFormatError struct {
	Detail string
}

func (e *InvalidFormatError) Error() string { return e.Detail }

func invalidFormatf(format string, args ...any) *InvalidFormatError {
	return &InvalidFormatError{Detail: fmt.Sprintf(format, args...)}
}
