package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"boutique-shop/internal/domain"
)

// MaxBodyBytes bounds a JSON request body
const MaxBodyBytes = 1 << 20

// DecodeJSON decodes the request body into v. Malformed or oversized bodies
// come back as a *domain.ValidationError on "body".
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("body", describeDecodeError(err))
	}
	if dec.More() {
		return domain.NewValidationError("body", "Request body must contain a single JSON object")
	}
	return nil
}

// DecodeAndValidate decodes the request body and checks its validate tags
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) error {
	if err := DecodeJSON(w, r, v); err != nil {
		return err
	}
	return domain.Validate(v)
}

func describeDecodeError(err error) string {
	var (
		syntaxErr   *json.SyntaxError
		typeErr     *json.UnmarshalTypeError
		maxBytesErr *http.MaxBytesError
	)

	switch {
	case errors.Is(err, io.EOF):
		return "Request body is empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("Field %s must be %s", typeErr.Field, typeErr.Type)
		}
		return "Request body has the wrong type"
	case errors.As(err, &maxBytesErr):
		return fmt.Sprintf("Request body exceeds %d bytes", maxBytesErr.Limit)
	default:
		return "Malformed JSON: " + err.Error()
	}
}
