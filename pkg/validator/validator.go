package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ghuser/catalog/pkg/errhttp"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]

		// ignore unexported or explicitly ignored
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate runs struct-level validation using go-playground/validator tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FormatValidationErrors converts validator.ValidationErrors into a map of
// field name → human-readable message.
func FormatValidationErrors(err error) map[string]string {
	errs := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return errs
	}
	for _, e := range ve {
		errs[e.Field()] = formatFieldError(e)
	}
	return errs
}

// Summary flattens field messages into one line, sorted by field name:
// "name: This field is required; price_cents: Must be greater than or equal to 0".
func Summary(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}
	return strings.Join(parts, "; ")
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "uuid", "uuid4":
		return "Must be a valid UUID"
	case "min":
		return fmt.Sprintf("Minimum length is %s", e.Param())
	case "max":
		return fmt.Sprintf("Maximum length is %s", e.Param())
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "numeric":
		return "Must be a numeric value"
	case "alpha":
		return "Must contain only letters"
	case "alphanum":
		return "Must contain only letters and numbers"
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", e.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", e.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", e.Param())
	default:
		return fmt.Sprintf("Validation failed on '%s'", e.Tag())
	}
}

// Decode reads the JSON request body into T and validates it. Failures are
// returned as error-layer conditions:
//   - empty, syntactically invalid or unknown-field bodies are malformed requests;
//   - a field of the wrong JSON type and failed validation tags are
//     validation failures; a top-level value of the wrong type is malformed;
//   - an oversized body is returned unwrapped for errhttp to classify.
func Decode[T any](r *http.Request) (*T, error) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &tooLarge):
			return nil, err
		case errors.Is(err, io.EOF):
			return nil, errhttp.BadRequest("Request body is empty")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return nil, errhttp.ValidationFailed(fmt.Sprintf("%s: Must be of type %s", typeErr.Field, typeErr.Type))
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return nil, errhttp.BadRequest(fmt.Sprintf("Unknown field %s", strings.TrimPrefix(err.Error(), "json: unknown field ")))
		default:
			return nil, errhttp.BadRequest("Invalid JSON")
		}
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, errhttp.BadRequest("Invalid JSON")
	}

	if err := Validate(&req); err != nil {
		fields := FormatValidationErrors(err)
		if len(fields) == 0 {
			return nil, errhttp.Internal(fmt.Errorf("validate %T: %w", req, err))
		}
		return nil, errhttp.ValidationFailed(Summary(fields))
	}
	return &req, nil
}
