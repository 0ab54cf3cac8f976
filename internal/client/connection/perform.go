// Package connection provides the network client for famcheck.
package connection

import (
	"context"
	"encoding/json"

	"github.com/yndnr/famcheck-go/internal/client/request"
	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// PerformRequest dispatches d with c, classifies the status and decodes the
// JSON payload into T.
//
// Failures, in order: ErrTransportFailure (no response), the status kind
// (decode skipped), ErrDecodeFailure (payload shape mismatch).
func PerformRequest[T any](ctx context.Context, c Doer, d *request.Descriptor) (T, error) {
	var zero T

	resp, err := c.Do(ctx, d)
	if err != nil {
		if domain.IsDomainError(err, "") {
			return zero, err
		}
		return zero, domain.ErrTransportFailure.WithCause(err)
	}

	if err := Validate(resp); err != nil {
		return zero, err
	}

	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return zero, domain.ErrDecodeFailure.WithStatus(resp.StatusCode).WithCause(err)
	}
	return out, nil
}
