package gateway

import (
	"fmt"

	"github.com/jrsteele09/go-admin-console/internal/errors"
)

// Kind classifies a failed request.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindValidation
	KindAuthExpired
	KindPermissionDenied
	KindServer
	KindClient
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindValidation:
		return "validation"
	case KindAuthExpired:
		return "auth_expired"
	case KindPermissionDenied:
		return "permission_denied"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	}
	return "unknown"
}

// User-facing messages.
const (
	MsgSessionExpired   = "Session expired. Please login again."
	MsgUnauthorized     = "Unauthorized access. Please login."
	MsgPermissionDenied = "You do not have permission to perform this action."
	MsgServerError      = "Server error. Please try again later."
	MsgNetworkError     = "Network error. Please check your connection and try again."
	MsgGeneric          = "An error occurred"
	msgValidation       = "The given data was invalid."
)

// Error is returned for every request that did not end in a 2xx response.
type Error struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
	// ServerMessage is the "message" field of the response body, if any.
	ServerMessage string
	// Fields holds the per-field messages of a 422 response.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s: %s", e.Method, e.Path, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a gateway error anywhere in err's chain, or 0.
func KindOf(err error) Kind {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.Kind
	}
	return 0
}

func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// FieldErrors returns the validation messages of a 422 failure, or nil.
func FieldErrors(err error) map[string][]string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Kind == KindValidation {
		return gwErr.Fields
	}
	return nil
}

// ServerMessage returns the server-provided message of a failed response, or "".
func ServerMessage(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.ServerMessage
	}
	return ""
}

// Message returns the user-facing text for err.
func Message(err error) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
