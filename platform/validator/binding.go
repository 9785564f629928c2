package validator

import (
	"encoding/json"
	"errors"
	"net/url"
	"sort"
	"strconv"

	"user_management_backend/platform/apperr"
)

// BindingError converts a failure to decode a request into the error sent
// to the client. A value of the wrong type is reported against its field.
// Malformed documents carry message and no field list.
func BindingError(err error, message string, query url.Values) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.Validation([]apperr.FieldError{{
			Field:   typeErr.Field,
			Message: Label(typeErr.Field) + " must be a " + jsonKind(typeErr.Type.Kind().String()),
		}})
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		if field := queryKey(query, numErr.Num); field != "" {
			return apperr.Validation([]apperr.FieldError{{
				Field:   field,
				Message: Label(field) + " must be a number",
			}})
		}
	}

	return apperr.BadRequest(apperr.CodeValidation, message)
}

func jsonKind(kind string) string {
	switch kind {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64", "float32", "float64":
		return "number"
	case "bool":
		return "boolean"
	case "slice", "array":
		return "list"
	case "map", "struct":
		return "object"
	default:
		return kind
	}
}

// queryKey finds the parameter holding value. Keys are scanned in sorted
// order so the result is stable.
func queryKey(query url.Values, value string) string {
	keys := make([]string, 0, len(query))
	for key := range query {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		for _, v := range query[key] {
			if v == value {
				return key
			}
		}
	}
	return ""
}
