package backend

import "fmt"

// Common backend error types.
var (
	ErrNoBackend          = fmt.Errorf("cannot determine backend for href")
	ErrUnknownKind        = fmt.Errorf("unknown backend kind")
	ErrUnsupportedScheme  = fmt.Errorf("unsupported href scheme")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrUnexpectedStatus   = fmt.Errorf("unexpected status code")
)

// ContentTypeError is returned when the server-reported content type does not
// match the media type the asset declares.
type ContentTypeError struct {
	Actual   string
	Expected string
}

func (e *ContentTypeError) Error() string {
	return fmt.Sprintf("the actual content type does not match the expected: actual=%s, expected=%s", e.Actual, e.Expected)
}
