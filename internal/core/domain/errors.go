package domain

import (
	"errors"
	"strconv"
	"strings"
)

// DomainError is an error with a stable PL-<AREA>-<NNNN> code.
//
// The digits follow HTTP semantics: NNNN/10 is the status a transport
// should answer with. Argument errors use 1xxx and map to 400.
type DomainError struct {
	Code    string
	Message string
	Details string
	Cause   error
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	var b strings.Builder
	b.WriteString("[" + e.Code + "] " + e.Message)
	if e.Details != "" {
		b.WriteString(": " + e.Details)
	}
	return b.String()
}

func (e *DomainError) Unwrap() error { return e.Cause }

// Is matches any DomainError with the same code, so a copy made by
// WithDetails still satisfies errors.Is against the catalog value.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// WithDetails returns a copy carrying details. The receiver is unchanged.
func (e *DomainError) WithDetails(details string) *DomainError {
	c := *e
	c.Details = details
	return &c
}

// WithCause returns a copy wrapping cause. The receiver is unchanged.
func (e *DomainError) WithCause(cause error) *DomainError {
	c := *e
	c.Cause = cause
	return &c
}

// Status returns the HTTP status encoded in the code.
func (e *DomainError) Status() int {
	return HTTPStatus(e.Code)
}

// HTTPStatus derives the HTTP status from a PL code. Unknown or malformed
// codes map to 500.
func HTTPStatus(code string) int {
	i := strings.LastIndexByte(code, '-')
	if i < 0 || !strings.HasPrefix(code, "PL-") {
		return 500
	}
	n, err := strconv.Atoi(code[i+1:])
	switch {
	case err != nil || len(code)-i-1 != 4:
		return 500
	case n < 4000:
		return 400
	case n < 6000:
		return n / 10
	default:
		return 500
	}
}

// IsDomainError reports whether err wraps a DomainError. A non-empty code
// must also match.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	return code == "" || de.Code == code
}

// GetErrorCode returns the code of the DomainError in err's chain, or "".
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Argument errors are reported before any network I/O.
var (
	ErrInvalidArgument = NewDomainError("PL-ARG-1001", "invalid argument")
	ErrMissingArgument = NewDomainError("PL-ARG-1002", "missing required argument")
)

var (
	// ErrConnectionNotFound: the id is not, or no longer, registered.
	ErrConnectionNotFound = NewDomainError("PL-CONN-4040", "connection not found or already closed")
	ErrCapacityExceeded   = NewDomainError("PL-CONN-4290", "connection limit reached")
	ErrConnectFailed      = NewDomainError("PL-CONN-5020", "connection failed")
	ErrConnectTimeout     = NewDomainError("PL-CONN-5040", "connection timeout")
)

var (
	// ErrPayloadDecode leaves the connection registered.
	ErrPayloadDecode = NewDomainError("PL-SEND-4001", "payload decode failed")
	// ErrSendFailed means the connection was removed and closed.
	ErrSendFailed = NewDomainError("PL-SEND-5020", "send failed")
)

var ErrUnauthorized = NewDomainError("PL-AUTH-4010", "authentication required")

var (
	ErrRateLimited    = NewDomainError("PL-SYS-4290", "too many requests")
	ErrInternalServer = NewDomainError("PL-SYS-5000", "internal server error")
	// ErrDuplicateConnectionID is an id generator collision, never a caller mistake.
	ErrDuplicateConnectionID = NewDomainError("PL-SYS-5001", "duplicate connection id")
	// ErrServiceUnavailable is returned while shutting down.
	ErrServiceUnavailable = NewDomainError("PL-SYS-5030", "service unavailable")
)
