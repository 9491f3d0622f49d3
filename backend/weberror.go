package backend

import (
	"errors"
	"net/http"

	"github.com/pbrandao/varejo/api/weberr"
)

// WebError translates a failed backend call into the storefront's error
// envelope. Field errors and status codes pass through untouched so the
// client sees the same shapes it would get talking to the backend directly.
func WebError(err error) error {
	if errors.Is(err, ErrUnavailable) {
		return weberr.NewError(err, "the store is briefly unavailable, try again shortly", http.StatusServiceUnavailable)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Errors != nil {
			return weberr.FieldErrors(err, apiErr.Errors)
		}
		msg := apiErr.Detail
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return weberr.NewError(err, msg, apiErr.StatusCode)
	}

	return err
}
