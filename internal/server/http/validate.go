// Package http wires the REST and websocket surface of the server.
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/edumentor/learnconnect/pkg/httpx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeJSON parses the request body into dst and runs struct validation.
// On failure it writes the error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			httpx.WriteValidationError(w, "validation failed", flattenFieldErrors(verrs))
			return false
		}
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid request")
		return false
	}
	return true
}

// flattenFieldErrors turns validator errors into the wire's fieldErrors map,
// keyed by the lower-camel field name.
func flattenFieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[lowerCamel(fe.Field())] = messageForTag(fe)
	}
	return out
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be " + fe.Param() + " or more"
	case "lte":
		return "must be " + fe.Param() + " or less"
	default:
		return "is invalid"
	}
}
