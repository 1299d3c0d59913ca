// Package errors provides RFC 7807 Problem Details for the POS HTTP API.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	// Extensions carries problem-specific members such as the upstream terminal API status.
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithExtension returns a copy with an additional extension member.
// The receiver's map is never shared with the copy.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	extensions := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		extensions[k] = v
	}
	extensions[key] = value
	p.Extensions = extensions
	return p
}

const (
	TypeBadRequest    = "/problems/bad-request"
	TypeValidation    = "/problems/validation-error"
	TypeNotFound      = "/problems/not-found"
	TypeConflict      = "/problems/conflict"
	TypePrecondition  = "/problems/precondition-failed"
	TypeUnprocessable = "/problems/unprocessable-entity"
	TypeInternal      = "/problems/internal-error"
	TypeBadGateway    = "/problems/bad-gateway"
	TypeTimeout       = "/problems/gateway-timeout"
)

var (
	// ErrBadRequest covers bodies and path parameters that cannot be parsed.
	ErrBadRequest = ProblemDetail{Type: TypeBadRequest, Title: "Bad Request", Status: http.StatusBadRequest}

	// ErrValidation covers well-formed requests rejected by domain rules.
	ErrValidation = ProblemDetail{Type: TypeValidation, Title: "Validation Failed", Status: http.StatusBadRequest}

	ErrNotFound = ProblemDetail{Type: TypeNotFound, Title: "Resource Not Found", Status: http.StatusNotFound}

	// ErrConflict covers operations not allowed in the register's current state,
	// e.g. editing a cart while a payment is in progress.
	ErrConflict = ProblemDetail{Type: TypeConflict, Title: "Conflict", Status: http.StatusConflict}

	// ErrPreconditionFailed indicates required merchant configuration is missing.
	ErrPreconditionFailed = ProblemDetail{Type: TypePrecondition, Title: "Precondition Failed", Status: http.StatusPreconditionFailed}

	// ErrUnprocessable indicates a well-formed request the domain cannot apply.
	ErrUnprocessable = ProblemDetail{Type: TypeUnprocessable, Title: "Unprocessable Entity", Status: http.StatusUnprocessableEntity}

	ErrInternal = ProblemDetail{Type: TypeInternal, Title: "Internal Server Error", Status: http.StatusInternalServerError}

	// ErrBadGateway indicates the cloud terminal API failed or answered garbage.
	ErrBadGateway = ProblemDetail{Type: TypeBadGateway, Title: "Bad Gateway", Status: http.StatusBadGateway}

	// ErrGatewayTimeout indicates the cloud terminal API did not answer in time.
	ErrGatewayTimeout = ProblemDetail{Type: TypeTimeout, Title: "Gateway Timeout", Status: http.StatusGatewayTimeout}
)

// ForStatus picks the template for a transport-level failure and attaches err as detail.
func ForStatus(status int, err error) ProblemDetail {
	var problem ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = ErrBadRequest
	case http.StatusNotFound:
		problem = ErrNotFound
	case http.StatusConflict:
		problem = ErrConflict
	case http.StatusBadGateway:
		problem = ErrBadGateway
	case http.StatusGatewayTimeout:
		problem = ErrGatewayTimeout
	default:
		problem = ErrInternal
	}
	if err != nil {
		problem = problem.WithDetail(err.Error())
	}
	return problem
}
