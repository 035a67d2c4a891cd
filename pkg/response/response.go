package response

import (
	"errors"
)

// Error is an error that knows how it should be answered over HTTP.
// Kind is the machine readable code sent to clients; Detail is optional
// structured context attached per occurrence.
type Error struct {
	Code   int
	Kind   string
	Err    error
	Detail any
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	var t *Error
	ok := errors.As(target, &t)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

func NewKindError(code int, kind string, err string) error {
	return &Error{Code: code, Kind: kind, Err: errors.New(err)}
}

// WithDetail returns a copy of err carrying detail. Errors that are not a
// *Error are returned unchanged.
func WithDetail(err error, detail any) error {
	var respErr *Error
	if !errors.As(err, &respErr) {
		return err
	}
	cp := *respErr
	cp.Detail = detail
	return &cp
}
