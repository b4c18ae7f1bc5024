package utils

import (
	"fmt"
	"net/url"
	"strconv"
)

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns 0 and false. An unparsable value is recorded in fieldErrors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, false, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false, fieldErrors
	}
	return f, true, fieldErrors
}

// ParseRequiredFloatParam is ParseFloatParam for parameters the caller cannot default.
func ParseRequiredFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	f, ok, fieldErrors := ParseFloatParam(params, key, fieldErrors)
	if !ok && len(fieldErrors[key]) == 0 {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
	}
	return f, fieldErrors
}

// ParseIntParam retrieves an integer value, falling back to defaultValue when the key is absent.
// Fractional values such as "500.0" are accepted and truncated.
func ParseIntParam(params url.Values, key string, defaultValue int, fieldErrors map[string][]string) (int, map[string][]string) {
	f, ok, fieldErrors := ParseFloatParam(params, key, fieldErrors)
	if !ok {
		return defaultValue, fieldErrors
	}
	return int(f), fieldErrors
}
