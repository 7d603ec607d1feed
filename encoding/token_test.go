package encoding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKind_String(t *testing.T) {
	require.Equal(t, "text", KindText.String())
	require.Equal(t, "tag", KindTag.String())
	require.Equal(t, "end_tag", KindEndTag.String())
	require.Equal(t, "Kind(7)", Kind(7).String())
}

func TestToken_Equal(t *testing.T) {
	require.True(t, Text("a").Equal(Text("a")))
	require.False(t, Text("a").Equal(Text("b")))
	require.False(t, Text("a").Equal(EndTag(0, 0)))

	require.True(t, Tag(1, 2, nil).Equal(Tag(1, 2, []byte{})))
	require.False(t, Tag(1, 2, []byte{1}).Equal(Tag(1, 2, []byte{2})))
	require.False(t, Tag(1, 2, nil).Equal(Tag(1, 3, nil)))

	require.True(t, EndTag(3, 4).Equal(EndTag(3, 4)))
	require.False(t, EndTag(3, 4).Equal(EndTag(4, 3)))
}

func TestToken_String(t *testing.T) {
	require.Equal(t, `text("hi")`, Text("hi").String())
	require.Equal(t, "tag(1, 2, 00 01)", Tag(1, 2, []byte{0, 1}).String())
	require.Equal(t, "end_tag(1, 2)", EndTag(1, 2).String())
}

func TestPlainText(t *testing.T) {
	tokens := []Token{Text("Press "), Tag(0, 3, []byte{0, 0}), Text("A"), EndTag(0, 3), Text(" to jump.")}
	require.Equal(t, "Press A to jump.", PlainText(tokens))
	require.Empty(t, PlainText(nil))
}
