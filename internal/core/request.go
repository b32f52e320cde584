// AngelaMos | 2026
// request.go

package core

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// DecodeAndValidate reads a JSON body into dst and runs struct validation,
// writing the error response itself when either step fails.
func DecodeAndValidate(
	w http.ResponseWriter,
	r *http.Request,
	v *validator.Validate,
	dst any,
) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		BadRequest(w, "invalid request body")
		return false
	}

	if err := v.Struct(dst); err != nil {
		JSONError(w, ValidationError(ValidationDetails(err)...))
		return false
	}

	return true
}

// IsValidID reports whether id can name a stored row. Malformed ids are
// answered as not found rather than leaking a driver error.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
