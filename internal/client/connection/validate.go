// Package connection provides the network client for famcheck.
package connection

import (
	"net/http"

	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// ClassifyStatus maps an HTTP status code to a domain error.
// It returns nil for 2xx and never panics: codes without a dedicated kind
// become ErrUnexpectedStatus carrying the code.
func ClassifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusBadRequest:
		return domain.ErrBadRequest.WithStatus(code)
	case code == http.StatusUnauthorized:
		return domain.ErrUnauthorized.WithStatus(code)
	case code == http.StatusForbidden:
		return domain.ErrForbidden.WithStatus(code)
	case code == http.StatusNotFound:
		return domain.ErrNotFound.WithStatus(code)
	case code == http.StatusConflict:
		return domain.ErrConflict.WithStatus(code)
	case code >= 500:
		return domain.ErrServerError.WithStatus(code)
	default:
		return domain.ErrUnexpectedStatus.WithStatus(code)
	}
}

// Validate classifies a response. A response without a well-formed
// status (nil, or a code outside 100-999) is ErrInvalidResponse.
func Validate(resp *Response) error {
	if resp == nil || resp.StatusCode < 100 || resp.StatusCode > 999 {
		return domain.ErrInvalidResponse
	}
	return ClassifyStatus(resp.StatusCode)
}
