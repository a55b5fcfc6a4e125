package gate

import (
	"net/http"
	"net/url"
)

// ErrorCode is the admission error code returned to API callers.
type ErrorCode string

const (
	CodeInvalidVersion ErrorCode = "INVALID_VERSION"
	CodeInvalidService ErrorCode = "INVALID_SERVICE"
	CodeMissingParams  ErrorCode = "MISSING_PARAMS"
)

// Rejection describes why a request was not admitted.
type Rejection struct {
	Code   ErrorCode
	Status int
	Data   []string // missing parameter paths for CodeMissingParams
}

func (r *Rejection) Error() string { return string(r.Code) }

// Result is the outcome of Evaluate: accepted when Rejection is nil.
type Result struct {
	Rejection *Rejection
}

// Accepted reports whether every check passed.
func (r Result) Accepted() bool { return r.Rejection == nil }

// Input is everything a Check may inspect. Checks never modify it.
type Input struct {
	Version string // raw version segment, without the leading "v"
	Service string // raw service segment, empty when the route has none
	Query   url.Values
	Form    url.Values
	Body    map[string]any
}

// Check is a single admission predicate. It returns nil to accept.
type Check func(in Input) *Rejection

func reject(code ErrorCode, status int, data []string) *Rejection {
	return &Rejection{Code: code, Status: status, Data: data}
}

// statusMissingParams is a server error on purpose: callers of the public API
// have always received 500 for missing parameters.
const statusMissingParams = http.StatusInternalServerError
