package encoding

import (
	"bytes"
	"fmt"
	"strings"
)

// Kind identifies the variant of a Token.
type Kind uint8

const (
	KindText   Kind = iota // KindText is a run of plain text.
	KindTag                // KindTag is a control code with parameters.
	KindEndTag             // KindEndTag closes the scope of a paired control code.
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTag:
		return "tag"
	case KindEndTag:
		return "end_tag"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token is one element of a text entry's contents.
//
// Only the fields of the token's Kind are meaningful: Text for KindText,
// Group, Type and Params for KindTag, Group and Type for KindEndTag.
type Token struct {
	Kind   Kind
	Text   string
	Group  uint16
	Type   uint16
	Params []byte
}

// Text creates a plain-text token.
func Text(s string) Token {
	return Token{Kind: KindText, Text: s}
}

// Tag creates a control code token. params is not copied.
func Tag(group, typ uint16, params []byte) Token {
	return Token{Kind: KindTag, Group: group, Type: typ, Params: params}
}

// EndTag creates a control code closing token.
func EndTag(group, typ uint16) Token {
	return Token{Kind: KindEndTag, Group: group, Type: typ}
}

// Equal reports whether t and other carry the same kind and payload.
// Params of nil and zero length compare equal.
func (t Token) Equal(other Token) bool {
	if t.Kind != other.Kind {
		return false
	}

	switch t.Kind {
	case KindText:
		return t.Text == other.Text
	case KindTag:
		return t.Group == other.Group && t.Type == other.Type && bytes.Equal(t.Params, other.Params)
	default:
		return t.Group == other.Group && t.Type == other.Type
	}
}

func (t Token) String() string {
	switch t.Kind {
	case KindText:
		return fmt.Sprintf("text(%q)", t.Text)
	case KindTag:
		return fmt.Sprintf("tag(%d, %d, % X)", t.Group, t.Type, t.Params)
	case KindEndTag:
		return fmt.Sprintf("end_tag(%d, %d)", t.Group, t.Type)
	default:
		return t.Kind.String()
	}
}

// PlainText concatenates the text tokens of tokens, dropping every tag.
func PlainText(tokens []Token) string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.Kind == KindText {
			sb.WriteString(tok.Text)
		}
	}

	return sb.String()
}
