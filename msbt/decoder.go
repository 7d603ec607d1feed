package msbt

import (
	"fmt"
	"slices"

	"github.com/arloliu/msyt/encoding"
	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/section"
)

// Decoder decodes a binary container into a Model.
//
// The decoder handles:
//   - Header parsing and file size validation
//   - Block framing and padding validation
//   - Label, attribute, style and text tables
//   - Control code tokenization of every entry
//
// Note: The Decoder is NOT reusable. After calling Decode, a new decoder must
// be created for further decoding.
type Decoder struct {
	data   []byte
	header section.Header
	engine endian.EndianEngine
}

// NewDecoder creates a Decoder for data and validates its header.
//
// Returns:
//   - *Decoder: New decoder instance ready for decoding
//   - error: Header parsing error (signature, byte-order mark, encoding, file size)
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	return &Decoder{
		data:   data,
		header: header,
		engine: header.GetEndianEngine(),
	}, nil
}

// Decode decodes a container. It is shorthand for NewDecoder followed by
// Decoder.Decode.
func Decode(data []byte) (*Model, error) {
	d, err := NewDecoder(data)
	if err != nil {
		return nil, err
	}

	return d.Decode()
}

// Header returns the parsed container header.
func (d *Decoder) Header() section.Header {
	return d.header
}

// Decode decodes the container into a new Model. The model does not alias the
// decoder's input.
//
// Returns:
//   - errs.ErrMissingBlock if the LBL1 or TXT2 block is absent
//   - errs.ErrDuplicateBlock if a recognized block appears more than once
//   - any error of section.ParseBlocks, the block table parsers and encoding.Tokenize
func (d *Decoder) Decode() (*Model, error) {
	blocks, err := section.ParseBlocks(d.data, d.header)
	if err != nil {
		return nil, err
	}

	found := make(map[string][]byte, 4)
	layout := make([]BlockSlot, len(blocks))
	for i, block := range blocks {
		layout[i] = BlockSlot{Magic: block.Magic, Reserved: block.Reserved, Pad: block.Pad}

		if !section.IsRecognized(block.Magic) {
			layout[i].Data = slices.Clone(block.Payload)
			continue
		}

		if _, dup := found[block.Magic]; dup {
			return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateBlock, block.Magic)
		}
		found[block.Magic] = block.Payload
	}

	for _, magic := range []string{section.MagicLabel, section.MagicText} {
		if _, ok := found[magic]; !ok {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingBlock, magic)
		}
	}

	m := &Model{
		Metadata: Metadata{
			ByteOrder: d.header.ByteOrder,
			Encoding:  d.header.Encoding,
			Version:   d.header.Version,
			Unknown1:  d.header.Unknown1,
			Unknown2:  d.header.Unknown2,
			Reserved:  d.header.Reserved,
			Blocks:    layout,
		},
	}

	text, err := section.ParseTextTable(found[section.MagicText], d.engine, d.header.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%s block: %w", section.MagicText, err)
	}
	count := len(text.Runs)
	entries := make([]Entry, count)

	for i, run := range text.Runs {
		tokens, err := encoding.Tokenize(run, d.engine, d.header.Encoding)
		if err != nil {
			return nil, fmt.Errorf("%s block, entry %d: %w", section.MagicText, i, err)
		}
		entries[i].Contents = tokens
	}

	labels, err := section.ParseLabelTable(found[section.MagicLabel], d.engine, count)
	if err != nil {
		return nil, fmt.Errorf("%s block: %w", section.MagicLabel, err)
	}
	for i, label := range labels.LabelsByIndex(count) {
		entries[i].Label = label
	}
	buckets := labels.BucketCount()
	m.LabelBuckets = &buckets
	m.labelOrder = labels.Names()

	if payload, ok := found[section.MagicAttribute]; ok {
		attrs, err := section.ParseAttributeTable(payload, d.engine, count)
		if err != nil {
			return nil, fmt.Errorf("%s block: %w", section.MagicAttribute, err)
		}
		m.HasAttributes = true
		m.AttributeSize = attrs.RecordSize
		m.AttributeExtra = attrs.Extra
		for i, record := range attrs.Records {
			entries[i].Attributes = record
		}
	}

	if payload, ok := found[section.MagicStyle]; ok {
		styles, err := section.ParseStyleTable(payload, d.engine, count)
		if err != nil {
			return nil, fmt.Errorf("%s block: %w", section.MagicStyle, err)
		}
		m.HasStyles = true
		for i, style := range styles.Styles {
			entries[i].Style = style
		}
	}

	m.entries = entries
	m.index = make(map[string]int, count)
	m.reindex()

	return m, nil
}
