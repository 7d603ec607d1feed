package convert

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/msyt/encoding"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
	"github.com/arloliu/msyt/msbt"
)

func sampleModel(t *testing.T) *msbt.Model {
	t.Helper()

	m, err := msbt.New(msbt.WithAttributes(2), msbt.WithByteOrder(format.BigEndian))
	require.NoError(t, err)

	entries := []msbt.Entry{
		{
			Label:      "Zeta_Talk",
			Attributes: []byte{0x01, 0x02},
			Contents: []encoding.Token{
				encoding.Text("Press "),
				encoding.Tag(0, 3, []byte{0x00, 0x00, 0x02, 0x00}),
				encoding.Text("A"),
				encoding.EndTag(0, 3),
				encoding.Text(" to jump.\nNext line: 100%"),
			},
		},
		{
			Label:      "Alpha_Empty",
			Attributes: []byte{0x00, 0x00},
		},
		{
			Label:      "Mid_Special",
			Attributes: []byte{0xFF, 0xFF},
			Contents: []encoding.Token{
				encoding.Text("true"),
				encoding.Tag(1, 0, nil),
				encoding.Text("~ null 123 \"quoted\" {braces} 💎 \x00"),
			},
		},
	}
	for _, e := range entries {
		require.NoError(t, m.AddEntry(e))
	}

	return m
}

func requireSameModel(t *testing.T, want, got *msbt.Model) {
	t.Helper()

	require.Equal(t, want.Labels(), got.Labels())
	if diff := cmp.Diff(want.Entries(), got.Entries(), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want.Metadata, got.Metadata, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestToMapping(t *testing.T) {
	doc := ToMapping(sampleModel(t))

	require.Equal(t, []string{KeyMsbt, KeyEntries}, doc.Keys())

	metaV, _ := doc.Get(KeyMsbt)
	meta := metaV.(*OrderedMap)
	order, _ := meta.Get("byte_order")
	require.Equal(t, "big", order)
	size, _ := meta.Get("attribute_size")
	require.Equal(t, int64(2), size)
	require.False(t, meta.Has("blocks"), "fresh models have no stored layout")
	require.False(t, meta.Has("header"))

	entriesV, _ := doc.Get(KeyEntries)
	entries := entriesV.(*OrderedMap)
	require.Equal(t, []string{"Zeta_Talk", "Alpha_Empty", "Mid_Special"}, entries.Keys())

	talkV, _ := entries.Get("Zeta_Talk")
	talk := talkV.(*OrderedMap)
	require.Equal(t, []string{"attributes", "contents"}, talk.Keys())

	contentsV, _ := talk.Get("contents")
	contents := contentsV.([]any)
	require.Len(t, contents, 5)
	require.Equal(t, []string{"tag"}, contents[1].(*OrderedMap).Keys())
	tagV, _ := contents[1].(*OrderedMap).Get("tag")
	params, _ := tagV.(*OrderedMap).Get("params")
	require.Equal(t, []byte{0x00, 0x00, 0x02, 0x00}, params)
	require.Equal(t, []string{"end_tag"}, contents[3].(*OrderedMap).Keys())

	emptyV, _ := entries.Get("Alpha_Empty")
	emptyContents, _ := emptyV.(*OrderedMap).Get("contents")
	require.Equal(t, []any{}, emptyContents)
}

func TestMapping_RoundTrip(t *testing.T) {
	m := sampleModel(t)

	got, err := FromMapping(ToMapping(m))
	require.NoError(t, err)
	requireSameModel(t, m, got)
}

func TestMapping_RoundTripDecodedModel(t *testing.T) {
	m := sampleModel(t)
	m.HasStyles = true
	m.Unknown1 = 7
	m.Reserved[9] = 1
	m.AttributeExtra = []byte("extra")
	m.Blocks = []msbt.BlockSlot{
		{Magic: "LBL1", Pad: 0xAB},
		{Magic: "NLI1", Pad: 0x00, Reserved: [8]byte{1}, Data: []byte{1, 2, 3}},
		{Magic: "ATR1", Pad: 0xAB},
		{Magic: "TSY1", Pad: 0xAB},
		{Magic: "TXT2", Pad: 0xAB},
	}

	data, err := m.Encode()
	require.NoError(t, err)
	decoded, err := msbt.Decode(data)
	require.NoError(t, err)

	for _, render := range []struct {
		name string
		to   func(*msbt.Model) ([]byte, error)
		from func([]byte) (*msbt.Model, error)
	}{
		{"json", ToJSON, FromJSON},
		{"yaml", ToYAML, FromYAML},
	} {
		t.Run(render.name, func(t *testing.T) {
			text, err := render.to(decoded)
			require.NoError(t, err)

			back, err := render.from(text)
			require.NoError(t, err)
			requireSameModel(t, decoded, back)

			out, err := back.Encode()
			require.NoError(t, err)
			require.Equal(t, data, out, "labels in entry order re-encode byte for byte")
		})
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	m := sampleModel(t)

	data, err := ToJSON(m)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(string(data), "\n"))

	text := string(data)
	require.Less(t, strings.Index(text, `"Zeta_Talk"`), strings.Index(text, `"Alpha_Empty"`))
	require.Less(t, strings.Index(text, `"Alpha_Empty"`), strings.Index(text, `"Mid_Special"`))
	require.Contains(t, text, `"params": "AAACAA=="`)
	require.Contains(t, text, `{braces}`)

	got, err := FromJSON(data)
	require.NoError(t, err)
	requireSameModel(t, m, got)
}

func TestYAML_RoundTrip(t *testing.T) {
	m := sampleModel(t)

	data, err := ToYAML(m)
	require.NoError(t, err)

	text := string(data)
	require.True(t, strings.HasPrefix(text, "msbt:\n"))
	require.Less(t, strings.Index(text, "Zeta_Talk:"), strings.Index(text, "Alpha_Empty:"))
	require.Contains(t, text, "params: AAACAA==")

	got, err := FromYAML(data)
	require.NoError(t, err)
	requireSameModel(t, m, got)
}

func TestFromYAML_HandWritten(t *testing.T) {
	doc := `
entries:
  Greeting:
    attributes: AAE=
    contents:
      - text: "Hello, "
      - tag: {group: 1, type: 2}
      - text: friend
  Farewell:
    attributes: AAI=
    style: 4
    contents: []
`
	m, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	require.Equal(t, []string{"Greeting", "Farewell"}, m.Labels())
	require.True(t, m.HasAttributes)
	require.Equal(t, uint32(2), m.AttributeSize)
	require.True(t, m.HasStyles)
	require.Equal(t, format.LittleEndian, m.ByteOrder)
	require.Equal(t, format.UTF16, m.Encoding)

	e, _ := m.Entry("Greeting")
	require.Equal(t, "Hello, friend", encoding.PlainText(e.Contents))
	require.True(t, encoding.Tag(1, 2, nil).Equal(e.Contents[1]))

	farewell, _ := m.Entry("Farewell")
	require.Equal(t, uint32(4), farewell.Style)
	require.Empty(t, farewell.Contents)

	_, err = m.Encode()
	require.NoError(t, err)
}

func TestFromYAML_Binary(t *testing.T) {
	doc := `
entries:
  A:
    attributes: !!binary AAE=
    contents: [{text: a}]
`
	m, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	e, _ := m.Entry("A")
	require.Equal(t, []byte{0x00, 0x01}, e.Attributes)
}

func TestMapping_LabelBuckets(t *testing.T) {
	m, err := FromYAML([]byte("msbt:\n  label_buckets: 0\nentries: {}\n"))
	require.NoError(t, err)
	require.NotNil(t, m.LabelBuckets)
	require.Zero(t, *m.LabelBuckets)

	v, ok := ToMapping(m).Get(KeyMsbt)
	require.True(t, ok)
	buckets, ok := v.(*OrderedMap).Get("label_buckets")
	require.True(t, ok)
	require.Equal(t, int64(0), buckets)

	fresh, err := msbt.New()
	require.NoError(t, err)
	v, _ = ToMapping(fresh).Get(KeyMsbt)
	_, ok = v.(*OrderedMap).Get("label_buckets")
	require.False(t, ok, "fresh models leave the bucket count to the encoder")
}

func TestFromMapping_PlainMap(t *testing.T) {
	m, err := FromMapping(map[string]any{
		"msbt": map[string]any{"byte_order": "big", "encoding": "utf-8"},
		"entries": map[string]any{
			"B": map[string]any{"contents": []any{map[string]any{"text": "b"}}},
			"A": map[string]any{"contents": []map[string]any{{"text": "a"}, {"end_tag": map[string]any{"group": 0, "type": 1}}}},
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B"}, m.Labels())
	require.Equal(t, format.BigEndian, m.ByteOrder)
	require.Equal(t, format.UTF8, m.Encoding)
	require.False(t, m.HasAttributes)
}

func TestFromMapping_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"missing entries", `{"msbt": {}}`, errs.ErrMissingField},
		{"unknown top level key", `{"entries": {}, "extra": 1}`, errs.ErrUnknownField},
		{"entries not a mapping", `{"entries": []}`, errs.ErrInvalidField},
		{"missing contents", `{"entries": {"A": {}}}`, errs.ErrMissingField},
		{"null contents", `{"entries": {"A": {"contents": null}}}`, errs.ErrInvalidField},
		{"contents not a list", `{"entries": {"A": {"contents": "hi"}}}`, errs.ErrInvalidField},
		{"empty token", `{"entries": {"A": {"contents": [{}]}}}`, errs.ErrMissingField},
		{"unknown token kind", `{"entries": {"A": {"contents": [{"bold": true}]}}}`, errs.ErrUnknownField},
		{"two token kinds", `{"entries": {"A": {"contents": [{"text": "a", "tag": {}}]}}}`, errs.ErrInvalidField},
		{"text not a string", `{"entries": {"A": {"contents": [{"text": 5}]}}}`, errs.ErrInvalidField},
		{"tag missing group", `{"entries": {"A": {"contents": [{"tag": {"type": 1}}]}}}`, errs.ErrMissingField},
		{"tag group out of range", `{"entries": {"A": {"contents": [{"tag": {"group": 70000, "type": 1}}]}}}`, errs.ErrInvalidField},
		{"negative type", `{"entries": {"A": {"contents": [{"end_tag": {"group": 0, "type": -1}}]}}}`, errs.ErrInvalidField},
		{"end tag with params", `{"entries": {"A": {"contents": [{"end_tag": {"group": 0, "type": 1, "params": ""}}]}}}`, errs.ErrUnknownField},
		{"bad base64", `{"entries": {"A": {"attributes": "!!", "contents": []}}}`, errs.ErrInvalidField},
		{"unknown entry field", `{"entries": {"A": {"contents": [], "color": 1}}}`, errs.ErrUnknownField},
		{"bad byte order", `{"msbt": {"byte_order": "middle"}, "entries": {}}`, errs.ErrInvalidField},
		{"bad encoding", `{"msbt": {"encoding": "latin-1"}, "entries": {}}`, errs.ErrInvalidField},
		{"version out of range", `{"msbt": {"version": 300}, "entries": {}}`, errs.ErrInvalidField},
		{"bad magic", `{"msbt": {"blocks": [{"magic": "TOOLONG"}]}, "entries": {}}`, errs.ErrInvalidField},
		{"missing magic", `{"msbt": {"blocks": [{"pad": 0}]}, "entries": {}}`, errs.ErrMissingField},
		{"data on generated block", `{"msbt": {"blocks": [{"magic": "TXT2", "data": ""}]}, "entries": {}}`, errs.ErrInvalidField},
		{"short header reserved", `{"msbt": {"header": {"reserved": "AAA="}}, "entries": {}}`, errs.ErrInvalidField},
		{"unknown msbt field", `{"msbt": {"colour": "red"}, "entries": {}}`, errs.ErrUnknownField},
		{"empty label", `{"entries": {"": {"contents": []}}}`, errs.ErrInvalidField},
		{"fractional number", `{"msbt": {"version": 1.5}, "entries": {}}`, errs.ErrInvalidField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrSchema)

			_, err = FromYAML([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want, "YAML accepts the JSON form too")
		})
	}
}

func TestUnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `entries: {}`},
		{"top level array", `[1, 2]`},
		{"truncated", `{"entries": {`},
		{"duplicate keys", `{"entries": {"A": {"contents": []}, "A": {"contents": []}}}`},
		{"empty", ``},
		{"lone high surrogate", `{"entries": {"A": {"contents": [{"text": "a\ud800b"}]}}}`},
		{"lone low surrogate", `{"entries": {"A": {"contents": [{"text": "\uDC00"}]}}}`},
		{"reversed surrogate pair", `{"entries": {"A": {"contents": [{"text": "\udc00\ud800"}]}}}`},
		{"surrogate in key", `{"entries": {"\ud83d": {"contents": []}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.doc))
			require.ErrorIs(t, err, errs.ErrInvalidDocument)
			require.ErrorIs(t, err, errs.ErrSchema)
		})
	}
}

func TestUnmarshalJSON_KeyOrder(t *testing.T) {
	doc, err := UnmarshalJSON([]byte(`{"z": {"b": 1, "a": {"y": "}", "x": [1, {"q": 2}]}}, "a\"b": true, "m": null}`))
	require.NoError(t, err)
	require.Equal(t, []string{"z", `a"b`, "m"}, doc.Keys())

	zV, _ := doc.Get("z")
	z := zV.(*OrderedMap)
	require.Equal(t, []string{"b", "a"}, z.Keys())

	aV, _ := z.Get("a")
	require.Equal(t, []string{"y", "x"}, aV.(*OrderedMap).Keys())

	m, ok := doc.Get("m")
	require.True(t, ok)
	require.Nil(t, m)
}

func TestUnmarshalJSON_Escapes(t *testing.T) {
	m, err := FromJSON([]byte(`{"entries": {"Gem": {"contents": [{"text": "\ud83d\udc8e \\ud800 \u00e9"}]}}}`))
	require.NoError(t, err)

	e, ok := m.Entry("Gem")
	require.True(t, ok)
	require.Equal(t, `💎 \ud800 é`, encoding.PlainText(e.Contents))
}

func TestUnmarshalYAML_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ``},
		{"scalar document", `hello`},
		{"sequence document", `- a`},
		{"invalid yaml", "entries: [\n"},
		{"duplicate keys", "entries:\n  A: {contents: []}\n  A: {contents: []}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromYAML([]byte(tt.doc))
			require.ErrorIs(t, err, errs.ErrInvalidDocument)
		})
	}
}

func TestUnmarshalYAML_Anchors(t *testing.T) {
	doc := `
shared: &tokens
  - text: same
entries:
  A: {contents: *tokens}
`
	tree, err := UnmarshalYAML([]byte(doc))
	require.NoError(t, err)

	tree.Delete("shared")
	m, err := FromMapping(tree)
	require.NoError(t, err)

	e, _ := m.Entry("A")
	require.Equal(t, "same", encoding.PlainText(e.Contents))
}
