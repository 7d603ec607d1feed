// Package msyt reads and writes MSBT ("MsgStdBn") game-text containers and
// converts them to and from an editable mapping with JSON and YAML forms.
//
// Binary decoding is lossless: a container decoded with ParseBinary and
// written back with ToBinary is byte-for-byte identical, including header
// fields, block padding and blocks the codec does not interpret.
//
// # Basic Usage
//
// Exporting a container to YAML:
//
//	data, _ := os.ReadFile("ActorMsg/Npc.msbt")
//	m, err := msyt.ParseBinary(data)
//	if err != nil {
//	    log.Fatal(msyt.Describe(err))
//	}
//	text, _ := msyt.ToYAML(m)
//
// Creating a container from an edited document:
//
//	m, _ := msyt.ParseText(text)
//	entry, _ := m.Entry("Npc_Greeting")
//	entry.Contents = []encoding.Token{encoding.Text("Hello!")}
//	_ = m.SetEntry(entry)
//	out, _ := msyt.ToBinary(m, msbt.WithBigEndian())
//
// # Package Structure
//
// This package wraps the msbt and convert packages for the common cases. The
// section package exposes the individual block codecs and the encoding
// package the control-code tokenizer.
package msyt

import (
	"bytes"

	"github.com/arloliu/msyt/convert"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/msbt"
)

// ParseBinary decodes an MSBT container.
//
// Returns an error wrapping errs.ErrFormat when data is not a well-formed container.
func ParseBinary(data []byte) (*msbt.Model, error) {
	return msbt.Decode(data)
}

// ParseJSON builds a model from a JSON document.
//
// Returns an error wrapping errs.ErrSchema when the document is malformed.
func ParseJSON(data []byte) (*msbt.Model, error) {
	return convert.FromJSON(data)
}

// ParseYAML builds a model from a YAML document.
//
// Returns an error wrapping errs.ErrSchema when the document is malformed.
func ParseYAML(data []byte) (*msbt.Model, error) {
	return convert.FromYAML(data)
}

// ParseMapping builds a model from a mapping tree, either a
// *convert.OrderedMap or a map[string]any.
func ParseMapping(doc any) (*msbt.Model, error) {
	return convert.FromMapping(doc)
}

// ParseText builds a model from a YAML or JSON document. YAML is tried
// first; when it fails, the document is read as JSON.
//
// If both fail, the JSON error is returned for documents that start with '{'
// and the YAML error otherwise.
func ParseText(data []byte) (*msbt.Model, error) {
	m, yamlErr := convert.FromYAML(data)
	if yamlErr == nil {
		return m, nil
	}

	m, jsonErr := convert.FromJSON(data)
	if jsonErr == nil {
		return m, nil
	}

	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return nil, jsonErr
	}

	return nil, yamlErr
}

// ToBinary encodes m into an MSBT container. Without options the model's own
// byte order is used.
func ToBinary(m *msbt.Model, opts ...msbt.EncodeOption) ([]byte, error) {
	return m.Encode(opts...)
}

// ToMapping converts m into an order-preserving mapping tree.
func ToMapping(m *msbt.Model) *convert.OrderedMap {
	return convert.ToMapping(m)
}

// ToJSON converts m into an indented JSON document.
func ToJSON(m *msbt.Model) ([]byte, error) {
	return convert.ToJSON(m)
}

// ToYAML converts m into a YAML document.
func ToYAML(m *msbt.Model) ([]byte, error) {
	return convert.ToYAML(m)
}

// Describe returns the human-readable cause of err, prefixed by its kind.
// Errors from outside this module are described by their message alone.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	switch errs.Kind(err) { //nolint:errorlint
	case errs.ErrFormat:
		return "binary: " + err.Error()
	case errs.ErrSchema:
		return "document: " + err.Error()
	case errs.ErrEncode:
		return "encode: " + err.Error()
	default:
		return err.Error()
	}
}
