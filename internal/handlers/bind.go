package handlers

import (
	"errors"
	"net/http"

	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
)

// bindError classifies a body binding failure. Oversized bodies keep their
// *http.MaxBytesError; anything else is a malformed request.
func bindError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return pkgerrors.InvalidInputError("body", "invalid request body")
}
