package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseStringAs attempts to parse a string into the specified type T.
// For primitive types (string, bool, int, uint, float) it performs direct
// conversion. For complex types (structs, maps, slices) it attempts JSON
// unmarshaling; when that fails the content is repaired with jsonrepair and
// decoding is retried once.
//
// Example:
//
//	type Answer struct {
//	    Winner string `json:"winner"`
//	    Year   int    `json:"year"`
//	}
//
//	a, err := ParseStringAs[Answer](`{winner: 'Brazil', year: 2002}`)
func ParseStringAs[T any](content string) (T, error) {
	var result T
	content = stripCodeFence(content)

	switch reflect.TypeFor[T]().Kind() {
	case reflect.String:
		reflect.ValueOf(&result).Elem().SetString(content)
		return result, nil

	case reflect.Bool:
		val, err := strconv.ParseBool(strings.TrimSpace(content))
		if err != nil {
			return result, fmt.Errorf("failed to parse content as bool: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetBool(val)
		return result, nil

	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as float: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetFloat(val)
		return result, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as int: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetInt(val)
		return result, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		val, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return result, fmt.Errorf("failed to parse content as uint: %w", err)
		}
		reflect.ValueOf(&result).Elem().SetUint(val)
		return result, nil

	default:
		// Structs, slices, maps: JSON unmarshaling with repair fallback.
		err := json.Unmarshal([]byte(content), &result)
		if err == nil {
			return result, nil
		}

		repairedJSON, repairErr := jsonrepair.JSONRepair(content)
		if repairErr != nil {
			return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
		}

		if err = json.Unmarshal([]byte(repairedJSON), &result); err != nil {
			return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (repaired: %s)", result, err, repairedJSON)
		}
		return result, nil
	}
}

// stripCodeFence removes a surrounding Markdown code fence, with or without a
// language tag, returning the inner content unchanged otherwise.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return content
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	// Drop an optional language tag on the opening fence line.
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine == "" || isLanguageTag(firstLine) {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9') {
			return false
		}
	}
	return len(s) > 0
}
