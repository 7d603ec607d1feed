package convert

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/msyt/encoding"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
	"github.com/arloliu/msyt/msbt"
	"github.com/arloliu/msyt/section"
)

// Document keys.
const (
	KeyMsbt    = "msbt"
	KeyEntries = "entries"

	keyByteOrder      = "byte_order"
	keyEncoding       = "encoding"
	keyVersion        = "version"
	keyLabelBuckets   = "label_buckets"
	keyHasAttributes  = "has_attributes"
	keyAttributeSize  = "attribute_size"
	keyAttributeExtra = "attribute_extra"
	keyHasStyles      = "has_styles"
	keyHeader         = "header"
	keyBlocks         = "blocks"

	keyUnknown1 = "unknown1"
	keyUnknown2 = "unknown2"
	keyReserved = "reserved"
	keyMagic    = "magic"
	keyPad      = "pad"
	keyData     = "data"

	keyAttributes = "attributes"
	keyStyle      = "style"
	keyContents   = "contents"

	keyText   = "text"
	keyTag    = "tag"
	keyEndTag = "end_tag"
	keyGroup  = "group"
	keyType   = "type"
	keyParams = "params"
)

// ToMapping converts m into a mapping tree. The tree does not alias m.
func ToMapping(m *msbt.Model) *OrderedMap {
	root := NewOrderedMap()
	root.Set(KeyMsbt, metadataMapping(m))

	entries := NewOrderedMap()
	for _, e := range m.Entries() {
		entries.Set(e.Label, entryMapping(m, e))
	}
	root.Set(KeyEntries, entries)

	return root
}

func metadataMapping(m *msbt.Model) *OrderedMap {
	meta := NewOrderedMap()
	meta.Set(keyByteOrder, m.ByteOrder.String())
	meta.Set(keyEncoding, m.Encoding.String())
	meta.Set(keyVersion, int64(m.Version))
	if m.LabelBuckets != nil {
		meta.Set(keyLabelBuckets, int64(*m.LabelBuckets))
	}
	meta.Set(keyHasAttributes, m.HasAttributes)
	if m.HasAttributes {
		meta.Set(keyAttributeSize, int64(m.AttributeSize))
	}
	if len(m.AttributeExtra) > 0 {
		meta.Set(keyAttributeExtra, slices.Clone(m.AttributeExtra))
	}
	meta.Set(keyHasStyles, m.HasStyles)

	if m.Unknown1 != 0 || m.Unknown2 != 0 || m.Reserved != [10]byte{} {
		header := NewOrderedMap()
		header.Set(keyUnknown1, int64(m.Unknown1))
		header.Set(keyUnknown2, int64(m.Unknown2))
		header.Set(keyReserved, slices.Clone(m.Reserved[:]))
		meta.Set(keyHeader, header)
	}

	if m.Blocks != nil {
		blocks := make([]any, len(m.Blocks))
		for i, slot := range m.Blocks {
			block := NewOrderedMap()
			block.Set(keyMagic, slot.Magic)
			if slot.Reserved != [8]byte{} {
				block.Set(keyReserved, slices.Clone(slot.Reserved[:]))
			}
			if slot.Pad != section.PadByte {
				block.Set(keyPad, int64(slot.Pad))
			}
			if !slot.IsRecognized() {
				block.Set(keyData, append([]byte{}, slot.Data...))
			}
			blocks[i] = block
		}
		meta.Set(keyBlocks, blocks)
	}

	return meta
}

func entryMapping(m *msbt.Model, e msbt.Entry) *OrderedMap {
	out := NewOrderedMap()
	if m.HasAttributes || len(e.Attributes) > 0 {
		out.Set(keyAttributes, append([]byte{}, e.Attributes...))
	}
	if m.HasStyles {
		out.Set(keyStyle, int64(e.Style))
	}

	contents := make([]any, len(e.Contents))
	for i, tok := range e.Contents {
		contents[i] = tokenMapping(tok)
	}
	out.Set(keyContents, contents)

	return out
}

func tokenMapping(tok encoding.Token) *OrderedMap {
	out := NewOrderedMap()

	switch tok.Kind {
	case encoding.KindTag:
		tag := NewOrderedMap()
		tag.Set(keyGroup, int64(tok.Group))
		tag.Set(keyType, int64(tok.Type))
		tag.Set(keyParams, append([]byte{}, tok.Params...))
		out.Set(keyTag, tag)
	case encoding.KindEndTag:
		tag := NewOrderedMap()
		tag.Set(keyGroup, int64(tok.Group))
		tag.Set(keyType, int64(tok.Type))
		out.Set(keyEndTag, tag)
	default:
		out.Set(keyText, tok.Text)
	}

	return out
}

// FromMapping builds a model from a mapping tree. doc is an *OrderedMap or a
// map[string]any; entries of a plain map are taken in sorted label order.
//
// Returns an error wrapping errs.ErrSchema when a required field is missing,
// a field is unknown or a value has the wrong shape or range.
func FromMapping(doc any) (*msbt.Model, error) {
	root, err := asMap(doc, "document")
	if err != nil {
		return nil, err
	}
	if err := checkKeys(root, "document", KeyMsbt, KeyEntries); err != nil {
		return nil, err
	}

	m, err := msbt.New()
	if err != nil {
		return nil, err
	}

	var meta metadataFlags
	if v, ok := root.Get(KeyMsbt); ok {
		if meta, err = readMetadata(m, v); err != nil {
			return nil, err
		}
	}

	v, err := required(root, KeyEntries, "document")
	if err != nil {
		return nil, err
	}
	entries, err := asMap(v, KeyEntries)
	if err != nil {
		return nil, err
	}

	var (
		withAttributes = -1
		withStyles     bool
	)
	for _, label := range entries.Keys() {
		path := joinPath(KeyEntries, label)
		if label == "" || len(label) > section.MaxLabelLength {
			return nil, fmt.Errorf("%w: %s: label must be 1-%d bytes", errs.ErrInvalidField, path, section.MaxLabelLength)
		}

		v, _ := entries.Get(label)
		e, fields, err := readEntry(label, v, path)
		if err != nil {
			return nil, err
		}
		if fields.attributes && withAttributes < 0 {
			withAttributes = len(e.Attributes)
		}
		withStyles = withStyles || fields.style

		if err := m.AddEntry(e); err != nil {
			return nil, err
		}
	}

	if !meta.hasAttributes {
		m.HasAttributes = withAttributes >= 0
	}
	if m.HasAttributes && !meta.attributeSize && withAttributes >= 0 {
		m.AttributeSize = uint32(withAttributes) //nolint:gosec
	}
	if !meta.hasStyles {
		m.HasStyles = withStyles
	}

	return m, nil
}

// metadataFlags records which inferable fields a document set explicitly.
type metadataFlags struct {
	hasAttributes bool
	attributeSize bool
	hasStyles     bool
}

func readMetadata(m *msbt.Model, v any) (metadataFlags, error) {
	var flags metadataFlags

	meta, err := asMap(v, KeyMsbt)
	if err != nil {
		return flags, err
	}
	if err := checkKeys(meta, KeyMsbt,
		keyByteOrder, keyEncoding, keyVersion, keyLabelBuckets, keyHasAttributes,
		keyAttributeSize, keyAttributeExtra, keyHasStyles, keyHeader, keyBlocks,
	); err != nil {
		return flags, err
	}

	field := func(key string) string { return joinPath(KeyMsbt, key) }

	for _, key := range meta.Keys() {
		v, _ := meta.Get(key)

		switch key {
		case keyByteOrder:
			s, err := asString(v, field(key))
			if err != nil {
				return flags, err
			}
			if m.ByteOrder, err = format.ParseByteOrder(s); err != nil {
				return flags, fmt.Errorf("%w: %s: %w", errs.ErrInvalidField, field(key), err)
			}
		case keyEncoding:
			s, err := asString(v, field(key))
			if err != nil {
				return flags, err
			}
			if m.Encoding, err = format.ParseTextEncoding(s); err != nil {
				return flags, fmt.Errorf("%w: %s: %w", errs.ErrInvalidField, field(key), err)
			}
		case keyVersion:
			n, err := asUint(v, field(key), math.MaxUint8)
			if err != nil {
				return flags, err
			}
			m.Version = uint8(n)
		case keyLabelBuckets:
			n, err := asUint(v, field(key), section.MaxLabelBuckets)
			if err != nil {
				return flags, err
			}
			buckets := uint32(n)
			m.LabelBuckets = &buckets
		case keyHasAttributes:
			if m.HasAttributes, err = asBool(v, field(key)); err != nil {
				return flags, err
			}
			flags.hasAttributes = true
		case keyAttributeSize:
			n, err := asUint(v, field(key), math.MaxUint32)
			if err != nil {
				return flags, err
			}
			m.AttributeSize = uint32(n)
			flags.attributeSize = true
		case keyAttributeExtra:
			if m.AttributeExtra, err = asBytes(v, field(key)); err != nil {
				return flags, err
			}
		case keyHasStyles:
			if m.HasStyles, err = asBool(v, field(key)); err != nil {
				return flags, err
			}
			flags.hasStyles = true
		case keyHeader:
			if err := readHeader(m, v, field(key)); err != nil {
				return flags, err
			}
		case keyBlocks:
			if m.Blocks, err = readBlocks(v, field(key)); err != nil {
				return flags, err
			}
		}
	}

	if flags.attributeSize && !flags.hasAttributes {
		m.HasAttributes = true
		flags.hasAttributes = true
	}

	return flags, nil
}

func readHeader(m *msbt.Model, v any, path string) error {
	header, err := asMap(v, path)
	if err != nil {
		return err
	}
	if err := checkKeys(header, path, keyUnknown1, keyUnknown2, keyReserved); err != nil {
		return err
	}

	if v, ok := header.Get(keyUnknown1); ok {
		n, err := asUint(v, joinPath(path, keyUnknown1), math.MaxUint16)
		if err != nil {
			return err
		}
		m.Unknown1 = uint16(n)
	}
	if v, ok := header.Get(keyUnknown2); ok {
		n, err := asUint(v, joinPath(path, keyUnknown2), math.MaxUint16)
		if err != nil {
			return err
		}
		m.Unknown2 = uint16(n)
	}
	if v, ok := header.Get(keyReserved); ok {
		b, err := asBytes(v, joinPath(path, keyReserved))
		if err != nil {
			return err
		}
		if len(b) != len(m.Reserved) {
			return fmt.Errorf("%w: %s.%s must be %d bytes, got %d",
				errs.ErrInvalidField, path, keyReserved, len(m.Reserved), len(b))
		}
		copy(m.Reserved[:], b)
	}

	return nil
}

func readBlocks(v any, path string) ([]msbt.BlockSlot, error) {
	list, err := asList(v, path)
	if err != nil {
		return nil, err
	}

	slots := make([]msbt.BlockSlot, len(list))
	for i, item := range list {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		block, err := asMap(item, itemPath)
		if err != nil {
			return nil, err
		}
		if err := checkKeys(block, itemPath, keyMagic, keyReserved, keyPad, keyData); err != nil {
			return nil, err
		}

		mv, err := required(block, keyMagic, itemPath)
		if err != nil {
			return nil, err
		}
		magic, err := asString(mv, joinPath(itemPath, keyMagic))
		if err != nil {
			return nil, err
		}
		if len(magic) != section.MagicSize {
			return nil, fmt.Errorf("%w: %s.%s must be %d bytes, got %q",
				errs.ErrInvalidField, itemPath, keyMagic, section.MagicSize, magic)
		}

		slot := msbt.BlockSlot{Magic: magic, Pad: section.PadByte}

		if v, ok := block.Get(keyReserved); ok {
			b, err := asBytes(v, joinPath(itemPath, keyReserved))
			if err != nil {
				return nil, err
			}
			if len(b) != len(slot.Reserved) {
				return nil, fmt.Errorf("%w: %s.%s must be %d bytes, got %d",
					errs.ErrInvalidField, itemPath, keyReserved, len(slot.Reserved), len(b))
			}
			copy(slot.Reserved[:], b)
		}
		if v, ok := block.Get(keyPad); ok {
			n, err := asUint(v, joinPath(itemPath, keyPad), math.MaxUint8)
			if err != nil {
				return nil, err
			}
			slot.Pad = byte(n)
		}
		if v, ok := block.Get(keyData); ok {
			if slot.IsRecognized() {
				return nil, fmt.Errorf("%w: %s: %s blocks are generated and take no data",
					errs.ErrInvalidField, itemPath, magic)
			}
			if slot.Data, err = asBytes(v, joinPath(itemPath, keyData)); err != nil {
				return nil, err
			}
		}

		slots[i] = slot
	}

	return slots, nil
}

// entryFields records which optional fields an entry carried.
type entryFields struct {
	attributes bool
	style      bool
}

func readEntry(label string, v any, path string) (msbt.Entry, entryFields, error) {
	var fields entryFields
	e := msbt.Entry{Label: label}

	item, err := asMap(v, path)
	if err != nil {
		return e, fields, err
	}
	if err := checkKeys(item, path, keyAttributes, keyStyle, keyContents); err != nil {
		return e, fields, err
	}

	if v, ok := item.Get(keyAttributes); ok {
		if e.Attributes, err = asBytes(v, joinPath(path, keyAttributes)); err != nil {
			return e, fields, err
		}
		fields.attributes = true
	}
	if v, ok := item.Get(keyStyle); ok {
		n, err := asUint(v, joinPath(path, keyStyle), math.MaxUint32)
		if err != nil {
			return e, fields, err
		}
		e.Style = uint32(n)
		fields.style = true
	}

	cv, err := required(item, keyContents, path)
	if err != nil {
		return e, fields, err
	}
	contentsPath := joinPath(path, keyContents)
	list, err := asList(cv, contentsPath)
	if err != nil {
		return e, fields, err
	}

	e.Contents = make([]encoding.Token, len(list))
	for i, tv := range list {
		if e.Contents[i], err = readToken(tv, fmt.Sprintf("%s[%d]", contentsPath, i)); err != nil {
			return e, fields, err
		}
	}

	return e, fields, nil
}

func readToken(v any, path string) (encoding.Token, error) {
	item, err := asMap(v, path)
	if err != nil {
		return encoding.Token{}, err
	}

	switch item.Len() {
	case 0:
		return encoding.Token{}, fmt.Errorf("%w: %s needs one of %s, %s or %s",
			errs.ErrMissingField, path, keyText, keyTag, keyEndTag)
	case 1:
	default:
		return encoding.Token{}, fmt.Errorf("%w: %s has more than one of %s, %s and %s",
			errs.ErrInvalidField, path, keyText, keyTag, keyEndTag)
	}

	kind := item.Keys()[0]
	value, _ := item.Get(kind)
	kindPath := joinPath(path, kind)

	switch kind {
	case keyText:
		s, err := asString(value, kindPath)
		if err != nil {
			return encoding.Token{}, err
		}

		return encoding.Text(s), nil
	case keyTag, keyEndTag:
		tag, err := asMap(value, kindPath)
		if err != nil {
			return encoding.Token{}, err
		}

		allowed := []string{keyGroup, keyType}
		if kind == keyTag {
			allowed = append(allowed, keyParams)
		}
		if err := checkKeys(tag, kindPath, allowed...); err != nil {
			return encoding.Token{}, err
		}

		group, err := readUint16(tag, keyGroup, kindPath)
		if err != nil {
			return encoding.Token{}, err
		}
		typ, err := readUint16(tag, keyType, kindPath)
		if err != nil {
			return encoding.Token{}, err
		}

		if kind == keyEndTag {
			return encoding.EndTag(group, typ), nil
		}

		params := []byte{}
		if pv, ok := tag.Get(keyParams); ok {
			if params, err = asBytes(pv, joinPath(kindPath, keyParams)); err != nil {
				return encoding.Token{}, err
			}
		}

		return encoding.Tag(group, typ, params), nil
	default:
		return encoding.Token{}, fmt.Errorf("%w: %s: unknown token kind %q", errs.ErrUnknownField, path, kind)
	}
}

func readUint16(m *OrderedMap, key, path string) (uint16, error) {
	v, err := required(m, key, path)
	if err != nil {
		return 0, err
	}
	n, err := asUint(v, joinPath(path, key), math.MaxUint16)
	if err != nil {
		return 0, err
	}

	return uint16(n), nil
}
