package msbt

import (
	"fmt"
	"slices"

	"github.com/arloliu/msyt/encoding"
	"github.com/arloliu/msyt/endian"
	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/internal/options"
	"github.com/arloliu/msyt/section"
)

// Encode serializes the model into a binary container.
//
// The label hash table, attribute, style and text tables and all offsets are
// derived from the current entries. Opaque blocks are emitted unchanged, even
// when the byte order differs from the one they were decoded with.
//
// Parameters:
//   - opts: Optional settings (byte order, label bucket count)
//
// Returns:
//   - []byte: The encoded container
//   - error: errs.ErrEncode errors for invariants violated by the model
func (m *Model) Encode(opts ...EncodeOption) ([]byte, error) {
	cfg := &encodeConfig{order: m.ByteOrder}
	if m.LabelBuckets != nil {
		cfg.buckets = *m.LabelBuckets
		cfg.bucketsSet = true
	}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}
	if !cfg.bucketsSet || (cfg.buckets == 0 && len(m.entries) > 0) {
		cfg.buckets = section.DefaultLabelBuckets(len(m.entries))
	}
	if !m.Encoding.IsValid() {
		return nil, fmt.Errorf("%w: unsupported text encoding %d", errs.ErrInvalidTextRun, m.Encoding)
	}

	engine := cfg.order.Engine()

	payloads, err := m.encodeTables(engine, cfg.buckets)
	if err != nil {
		return nil, err
	}

	layout, err := m.layout()
	if err != nil {
		return nil, err
	}

	blocks := make([]section.Block, len(layout))
	for i, slot := range layout {
		blocks[i] = section.Block{
			Magic:    slot.Magic,
			Reserved: slot.Reserved,
			Pad:      slot.Pad,
			Payload:  slot.Data,
		}
		if slot.IsRecognized() {
			blocks[i].Payload = payloads[slot.Magic]
		}
	}

	header := section.Header{
		ByteOrder: cfg.order,
		Unknown1:  m.Unknown1,
		Encoding:  m.Encoding,
		Version:   m.Version,
		Unknown2:  m.Unknown2,
		Reserved:  m.Reserved,
	}

	return section.WriteBlocks(header, blocks)
}

// encodeTables builds the payload of every recognized block the model carries.
func (m *Model) encodeTables(engine endian.EndianEngine, buckets uint32) (map[string][]byte, error) {
	payloads := make(map[string][]byte, 4)

	labels, err := section.BuildLabelTable(m.Labels(), buckets, m.labelOrder)
	if err != nil {
		return nil, err
	}
	if payloads[section.MagicLabel], err = labels.Bytes(engine); err != nil {
		return nil, err
	}

	if m.HasAttributes {
		attrs := &section.AttributeTable{
			RecordSize: m.AttributeSize,
			Records:    make([][]byte, len(m.entries)),
			Extra:      m.AttributeExtra,
		}
		for i := range m.entries {
			e := &m.entries[i]
			if int64(len(e.Attributes)) != int64(m.AttributeSize) {
				return nil, fmt.Errorf("%w: entry %q has %d bytes, file uses %d",
					errs.ErrAttributeSizeMismatch, e.Label, len(e.Attributes), m.AttributeSize)
			}
			attrs.Records[i] = e.Attributes
		}
		if payloads[section.MagicAttribute], err = attrs.Bytes(engine); err != nil {
			return nil, err
		}
	} else {
		for i := range m.entries {
			if len(m.entries[i].Attributes) > 0 {
				return nil, fmt.Errorf("%w: entry %q", errs.ErrUnexpectedAttributes, m.entries[i].Label)
			}
		}
	}

	if m.HasStyles {
		styles := &section.StyleTable{Styles: make([]uint32, len(m.entries))}
		for i := range m.entries {
			styles.Styles[i] = m.entries[i].Style
		}
		payloads[section.MagicStyle] = styles.Bytes(engine)
	}

	text := &section.TextTable{Runs: make([][]byte, len(m.entries))}
	for i := range m.entries {
		e := &m.entries[i]
		if text.Runs[i], err = encoding.Detokenize(e.Contents, engine, m.Encoding); err != nil {
			return nil, fmt.Errorf("entry %q: %w", e.Label, err)
		}
	}
	if payloads[section.MagicText], err = text.Bytes(engine, m.Encoding); err != nil {
		return nil, err
	}

	return payloads, nil
}

// layout returns the blocks to emit, in order.
//
// The stored layout is followed. Recognized blocks the model no longer
// carries are dropped. Required or enabled blocks the layout lacks are
// inserted at their conventional position: LBL1 first, ATR1 after LBL1,
// TSY1 right before TXT2, TXT2 last.
func (m *Model) layout() ([]BlockSlot, error) {
	enabled := map[string]bool{
		section.MagicLabel:     true,
		section.MagicAttribute: m.HasAttributes,
		section.MagicStyle:     m.HasStyles,
		section.MagicText:      true,
	}

	seen := make(map[string]bool, 4)
	out := make([]BlockSlot, 0, len(m.Blocks)+4)
	for _, slot := range m.Blocks {
		if !slot.IsRecognized() {
			out = append(out, slot)
			continue
		}
		if seen[slot.Magic] {
			return nil, fmt.Errorf("%w: %s appears twice", errs.ErrInvalidLayout, slot.Magic)
		}
		seen[slot.Magic] = true

		if enabled[slot.Magic] {
			out = append(out, BlockSlot{Magic: slot.Magic, Reserved: slot.Reserved, Pad: slot.Pad})
		}
	}

	position := func(magic string) int {
		return slices.IndexFunc(out, func(s BlockSlot) bool { return s.Magic == magic })
	}
	slot := func(magic string) BlockSlot {
		return BlockSlot{Magic: magic, Pad: section.PadByte}
	}

	if !seen[section.MagicLabel] {
		out = slices.Insert(out, 0, slot(section.MagicLabel))
	}
	if !seen[section.MagicText] {
		out = append(out, slot(section.MagicText))
	}
	if m.HasAttributes && !seen[section.MagicAttribute] {
		out = slices.Insert(out, position(section.MagicLabel)+1, slot(section.MagicAttribute))
	}
	if m.HasStyles && !seen[section.MagicStyle] {
		out = slices.Insert(out, position(section.MagicText), slot(section.MagicStyle))
	}

	return out, nil
}
