package convert

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/msbt"
)

// ToJSON converts m into an indented JSON document.
func ToJSON(m *msbt.Model) ([]byte, error) {
	return MarshalJSON(ToMapping(m))
}

// FromJSON builds a model from a JSON document.
func FromJSON(data []byte) (*msbt.Model, error) {
	doc, err := UnmarshalJSON(data)
	if err != nil {
		return nil, err
	}

	return FromMapping(doc)
}

// MarshalJSON renders a mapping tree as indented JSON, keeping key order.
// Byte slices are written as base64 strings.
func MarshalJSON(doc *OrderedMap) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeJSON(&compact, doc); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')

	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case *OrderedMap:
		buf.WriteByte('{')
		for i, key := range val.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, val.values[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		b, err := json.MarshalNoEscape(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	}

	return nil
}

// UnmarshalJSON parses a JSON document into a mapping tree, keeping key
// order. Objects become *OrderedMap, arrays []any and numbers json.Number.
//
// Returns errs.ErrInvalidDocument if data is not valid JSON, holds duplicate
// keys or an unpaired surrogate escape, or is not an object at the top level.
func UnmarshalJSON(data []byte) (*OrderedMap, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: JSON document must be an object", errs.ErrInvalidDocument)
	}

	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		if err == nil {
			err = errors.New("malformed JSON")
		}

		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidDocument, err)
	}

	if err := checkSurrogateEscapes(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}

	doc, _ := v.(*OrderedMap)

	return doc, nil
}

// readJSONValue reads the next value from dec. Scalars are returned as the
// decoder's tokens: nil, bool, json.Number or string.
func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidDocument, err)
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		m := NewOrderedMap()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("%w: %w", errs.ErrInvalidDocument, err)
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("%w: object key %v is not a string", errs.ErrInvalidDocument, keyTok)
			}
			if _, dup := m.Get(key); dup {
				return nil, fmt.Errorf("%w: duplicate key %q", errs.ErrInvalidDocument, key)
			}

			v, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}

		return m, closeJSON(dec, '}')
	case '[':
		list := []any{}
		for dec.More() {
			v, err := readJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}

		return list, closeJSON(dec, ']')
	default:
		return nil, fmt.Errorf("%w: unexpected %v", errs.ErrInvalidDocument, delim)
	}
}

func closeJSON(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrInvalidDocument, err)
	}
	if tok != want {
		return fmt.Errorf("%w: expected %v, got %v", errs.ErrInvalidDocument, want, tok)
	}

	return nil
}

// surrogateEscape matches a \u escape of a UTF-16 surrogate together with
// the backslash run in front of it. An even run is an escaped backslash
// followed by literal text.
var surrogateEscape = regexp.MustCompile(`(\\+)u([dD][89a-fA-F][0-9a-fA-F]{2})`)

// checkSurrogateEscapes rejects \u escapes of surrogates that do not form a
// high/low pair. The decoder would replace them with U+FFFD, which text
// tokens must not silently carry.
func checkSurrogateEscapes(data []byte) error {
	matches := surrogateEscape.FindAllSubmatchIndex(data, -1)
	for i := 0; i < len(matches); i++ {
		m := matches[i]
		if (m[3]-m[2])%2 == 0 {
			continue
		}

		unit, _ := strconv.ParseUint(string(data[m[4]:m[5]]), 16, 16)
		if unit < 0xDC00 && i+1 < len(matches) {
			next := matches[i+1]
			low, _ := strconv.ParseUint(string(data[next[4]:next[5]]), 16, 16)
			if next[0] == m[1] && next[3]-next[2] == 1 && low >= 0xDC00 {
				i++
				continue
			}
		}

		return fmt.Errorf("%w: unpaired surrogate escape \\u%s", errs.ErrInvalidDocument, data[m[4]:m[5]])
	}

	return nil
}
