package server

import "fmt"

// Parameter extraction helpers for tool argument maps.

func stringParam(params map[string]interface{}, key, defaultVal string) string {
	if v, ok := params[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		// Handle numeric values passed for string arguments
		return fmt.Sprintf("%v", v)
	}
	return defaultVal
}

// intParam returns the integer argument and whether it was present. JSON
// numbers arrive as float64; fractional values are rejected.
func intParam(params map[string]interface{}, key string) (int, bool, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int:
		return n, true, nil
	case int64:
		return int(n), true, nil
	case float64:
		if n != float64(int(n)) {
			return 0, true, fmt.Errorf("%w: %s must be an integer, got %v", ErrInvalidArgument, key, n)
		}
		return int(n), true, nil
	}
	return 0, true, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidArgument, key, v)
}

func boolParam(params map[string]interface{}, key string, defaultVal bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return defaultVal
}
