package convert

import (
	"encoding/base64"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/arloliu/msyt/errs"
)

// The helpers below read typed values out of a mapping tree. path names the
// value in error messages, e.g. "entries.Foo.contents[2].tag.group".

func asMap(v any, path string) (*OrderedMap, error) {
	switch val := v.(type) {
	case *OrderedMap:
		if val != nil {
			return val, nil
		}
	case map[string]any:
		return FromMap(val), nil
	}

	return nil, fmt.Errorf("%w: %s must be a mapping, got %s", errs.ErrInvalidField, path, describe(v))
}

func asList(v any, path string) ([]any, error) {
	switch val := v.(type) {
	case []any:
		return val, nil
	case []map[string]any:
		list, _ := normalize(val).([]any)
		return list, nil
	}

	return nil, fmt.Errorf("%w: %s must be a list, got %s", errs.ErrInvalidField, path, describe(v))
}

func asString(v any, path string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string, got %s", errs.ErrInvalidField, path, describe(v))
	}

	return s, nil
}

func asBool(v any, path string) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: %s must be a boolean, got %s", errs.ErrInvalidField, path, describe(v))
	}

	return b, nil
}

// asUint reads a non-negative integer no larger than limit.
func asUint(v any, path string, limit uint64) (uint64, error) {
	var (
		n  uint64
		ok bool
	)

	switch val := v.(type) {
	case int:
		n, ok = uint64(val), val >= 0 //nolint:gosec
	case int64:
		n, ok = uint64(val), val >= 0 //nolint:gosec
	case int32:
		n, ok = uint64(val), val >= 0 //nolint:gosec
	case uint:
		n, ok = uint64(val), true
	case uint64:
		n, ok = val, true
	case uint32:
		n, ok = uint64(val), true
	case uint16:
		n, ok = uint64(val), true
	case uint8:
		n, ok = uint64(val), true
	case float64:
		n, ok = uint64(val), val >= 0 && val == math.Trunc(val) && val <= math.MaxUint32
	case json.Number:
		parsed, err := strconv.ParseUint(string(val), 10, 64)
		n, ok = parsed, err == nil
	}

	if !ok {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %s", errs.ErrInvalidField, path, describe(v))
	}
	if n > limit {
		return 0, fmt.Errorf("%w: %s is %d, maximum is %d", errs.ErrInvalidField, path, n, limit)
	}

	return n, nil
}

// asBytes reads a byte field: a []byte or its base64 text form.
func asBytes(v any, path string) ([]byte, error) {
	switch val := v.(type) {
	case []byte:
		return slices.Clone(val), nil
	case string:
		b, err := base64.StdEncoding.DecodeString(val)
		if err != nil {
			return nil, fmt.Errorf("%w: %s is not valid base64: %w", errs.ErrInvalidField, path, err)
		}

		return b, nil
	}

	return nil, fmt.Errorf("%w: %s must be base64 bytes, got %s", errs.ErrInvalidField, path, describe(v))
}

func required(m *OrderedMap, key, path string) (any, error) {
	v, ok := m.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", errs.ErrMissingField, path, key)
	}

	return v, nil
}

func checkKeys(m *OrderedMap, path string, allowed ...string) error {
	for _, key := range m.Keys() {
		if !slices.Contains(allowed, key) {
			return fmt.Errorf("%w: %s.%s", errs.ErrUnknownField, path, key)
		}
	}

	return nil
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case *OrderedMap, map[string]any:
		return "mapping"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
