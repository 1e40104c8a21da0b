/*
Package req binds and validates HTTP request bodies.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"roomhub/internal/pkg/errs"
)

// MaxJSONBodySize caps JSON request bodies at 64 KB. Nothing in the API
// legitimately sends more; uploads go straight to object storage.
const MaxJSONBodySize int64 = 64 << 10

// BindJSON decodes the request body into dst. It requires an
// application/json Content-Type, rejects unknown fields, and rejects
// trailing content after the document.
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxJSONBodySize))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewError(errs.ErrRequestEntityTooLarge)
		}
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return nil
}
