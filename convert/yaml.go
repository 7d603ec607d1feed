package convert

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/msbt"
)

const yamlIndent = 2

// ToYAML converts m into a YAML document.
func ToYAML(m *msbt.Model) ([]byte, error) {
	return MarshalYAML(ToMapping(m))
}

// FromYAML builds a model from a YAML document.
func FromYAML(data []byte) (*msbt.Model, error) {
	doc, err := UnmarshalYAML(data)
	if err != nil {
		return nil, err
	}

	return FromMapping(doc)
}

// MarshalYAML renders a mapping tree as YAML, keeping key order. Byte slices
// are written as base64 strings.
func MarshalYAML(doc *OrderedMap) ([]byte, error) {
	node, err := yamlNode(doc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func yamlNode(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case *OrderedMap:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.keys {
			child, err := yamlNode(val.values[key])
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, yamlScalar("!!str", key), child)
		}

		return node, nil
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			child, err := yamlNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}

		return node, nil
	case string:
		return yamlScalar("!!str", val), nil
	case []byte:
		return yamlScalar("!!str", base64.StdEncoding.EncodeToString(val)), nil
	case bool:
		return yamlScalar("!!bool", strconv.FormatBool(val)), nil
	case int64:
		return yamlScalar("!!int", strconv.FormatInt(val, 10)), nil
	case int:
		return yamlScalar("!!int", strconv.Itoa(val)), nil
	case uint64:
		return yamlScalar("!!int", strconv.FormatUint(val, 10)), nil
	case nil:
		return yamlScalar("!!null", "null"), nil
	default:
		var node yaml.Node
		if err := node.Encode(val); err != nil {
			return nil, err
		}

		return &node, nil
	}
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// UnmarshalYAML parses a YAML document into a mapping tree, keeping key
// order. Mappings become *OrderedMap, sequences []any; !!binary scalars
// become []byte.
//
// Returns errs.ErrInvalidDocument if data is not valid YAML, holds duplicate
// keys or is not a mapping at the top level.
func UnmarshalYAML(data []byte) (*OrderedMap, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidDocument, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty YAML document", errs.ErrInvalidDocument)
	}

	top := resolveAlias(root.Content[0])
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: YAML document must be a mapping", errs.ErrInvalidDocument)
	}

	v, err := yamlValue(top)
	if err != nil {
		return nil, err
	}

	doc, _ := v.(*OrderedMap)

	return doc, nil
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}

func yamlValue(node *yaml.Node) (any, error) {
	node = resolveAlias(node)

	switch node.Kind {
	case yaml.MappingNode:
		m := NewOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := resolveAlias(node.Content[i])
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: line %d: mapping keys must be scalars", errs.ErrInvalidDocument, keyNode.Line)
			}
			if keyNode.Tag == "!!merge" {
				return nil, fmt.Errorf("%w: line %d: merge keys are not supported", errs.ErrInvalidDocument, keyNode.Line)
			}

			key := keyNode.Value
			if m.Has(key) {
				return nil, fmt.Errorf("%w: line %d: duplicate key %q", errs.ErrInvalidDocument, keyNode.Line, key)
			}

			v, err := yamlValue(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, v)
		}

		return m, nil
	case yaml.SequenceNode:
		list := make([]any, len(node.Content))
		for i, child := range node.Content {
			v, err := yamlValue(child)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}

		return list, nil
	case yaml.ScalarNode:
		if node.ShortTag() == "!!binary" {
			b, err := base64.StdEncoding.DecodeString(node.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", errs.ErrInvalidDocument, node.Line, err)
			}

			return b, nil
		}

		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", errs.ErrInvalidDocument, node.Line, err)
		}

		return v, nil
	default:
		return nil, fmt.Errorf("%w: line %d: unsupported YAML node", errs.ErrInvalidDocument, node.Line)
	}
}
