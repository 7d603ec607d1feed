package msbt

import (
	"slices"

	"github.com/arloliu/msyt/encoding"
)

// Entry is one text entry of a container.
type Entry struct {
	// Label is the unique name of the entry.
	Label string
	// Attributes is the entry's attribute record. Its length must equal the
	// model's AttributeSize when the model has an attribute block, and be
	// zero otherwise.
	Attributes []byte
	// Style is the entry's style index. Only meaningful when the model has a
	// style block.
	Style uint32
	// Contents is the entry's text. An empty sequence is a valid entry.
	Contents []encoding.Token
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := Entry{
		Label:      e.Label,
		Attributes: slices.Clone(e.Attributes),
		Style:      e.Style,
		Contents:   make([]encoding.Token, len(e.Contents)),
	}

	for i, tok := range e.Contents {
		tok.Params = slices.Clone(tok.Params)
		out.Contents[i] = tok
	}

	return out
}

// Equal reports whether e and other hold the same label, attributes, style
// and contents.
func (e Entry) Equal(other Entry) bool {
	if e.Label != other.Label || e.Style != other.Style || !slices.Equal(e.Attributes, other.Attributes) {
		return false
	}

	return slices.EqualFunc(e.Contents, other.Contents, encoding.Token.Equal)
}
