package msbt

import (
	"fmt"
	"slices"

	"github.com/arloliu/msyt/errs"
	"github.com/arloliu/msyt/format"
	"github.com/arloliu/msyt/internal/options"
	"github.com/arloliu/msyt/section"
)

// Metadata holds the file-level state of a container that is not part of any
// entry.
type Metadata struct {
	// ByteOrder is the default byte order used by Encode.
	ByteOrder format.ByteOrder
	// Encoding is the text encoding of the text block.
	Encoding format.TextEncoding
	// Version is the container version byte.
	Version uint8
	// Unknown1 and Unknown2 are uninterpreted header fields.
	Unknown1 uint16
	Unknown2 uint16
	// Reserved holds the last ten header bytes.
	Reserved [10]byte

	// HasAttributes reports whether the container carries an ATR1 block.
	HasAttributes bool
	// AttributeSize is the size of every attribute record.
	AttributeSize uint32
	// AttributeExtra holds the bytes following the attribute records.
	AttributeExtra []byte
	// HasStyles reports whether the container carries a TSY1 block.
	HasStyles bool

	// LabelBuckets is the bucket count of the label hash table, set when the
	// model was decoded or the document named one. Nil selects
	// section.DefaultLabelBuckets for the entry count at encode time, as does
	// a zero count once the model has entries.
	LabelBuckets *uint32

	// Blocks is the block layout. A nil layout selects the default order
	// LBL1, ATR1, TSY1, TXT2.
	Blocks []BlockSlot
}

// BlockSlot describes one block of the container layout.
//
// Payloads of the LBL1, ATR1, TSY1 and TXT2 blocks are generated from the
// entries; any other block is emitted with Data as its payload.
type BlockSlot struct {
	Magic    string
	Reserved [8]byte
	Pad      byte
	Data     []byte
}

// IsRecognized reports whether the slot's payload is generated from the entries.
func (s BlockSlot) IsRecognized() bool {
	return section.IsRecognized(s.Magic)
}

// Model is the editable, in-memory form of a container.
type Model struct {
	Metadata

	entries []Entry
	index   map[string]int
	// labelOrder is the label order of the decoded label table. Encode keeps
	// it for labels sharing a bucket so unchanged tables are reproduced.
	labelOrder []string
}

// ModelOption configures a Model created by New.
type ModelOption = options.Option[*Model]

// New creates an empty little-endian UTF-16 model without attribute or style blocks.
//
// Parameters:
//   - opts: Optional configuration (byte order, encoding, attribute size, styles)
//
// Returns:
//   - *Model: The new model
//   - error: Option validation errors
func New(opts ...ModelOption) (*Model, error) {
	m := &Model{
		Metadata: Metadata{
			ByteOrder: format.LittleEndian,
			Encoding:  format.UTF16,
			Version:   section.DefaultVersion,
		},
		index: make(map[string]int),
	}

	if err := options.Apply(m, opts...); err != nil {
		return nil, err
	}

	return m, nil
}

// WithByteOrder sets the model's byte order.
//
// Returns errs.ErrInvalidOption if order is neither format.LittleEndian nor format.BigEndian.
func WithByteOrder(order format.ByteOrder) ModelOption {
	return func(m *Model) error {
		if order != format.LittleEndian && order != format.BigEndian {
			return fmt.Errorf("%w: byte order %d", errs.ErrInvalidOption, order)
		}
		m.ByteOrder = order

		return nil
	}
}

// WithTextEncoding sets the text encoding of the text block.
//
// Returns errs.ErrInvalidOption if enc is not a supported encoding.
func WithTextEncoding(enc format.TextEncoding) ModelOption {
	return func(m *Model) error {
		if !enc.IsValid() {
			return fmt.Errorf("%w: text encoding %d", errs.ErrInvalidOption, enc)
		}
		m.Encoding = enc

		return nil
	}
}

// WithAttributes enables the attribute block with records of size bytes.
func WithAttributes(size uint32) ModelOption {
	return options.NoError(func(m *Model) {
		m.HasAttributes = true
		m.AttributeSize = size
	})
}

// WithStyles enables the style block.
func WithStyles() ModelOption {
	return options.NoError(func(m *Model) {
		m.HasStyles = true
	})
}

// Len returns the number of entries.
func (m *Model) Len() int {
	return len(m.entries)
}

// Entries returns the entries in order. The slice is a copy; the entries
// share their attribute and contents slices with the model.
func (m *Model) Entries() []Entry {
	return slices.Clone(m.entries)
}

// Labels returns the entry labels in order.
func (m *Model) Labels() []string {
	labels := make([]string, len(m.entries))
	for i := range m.entries {
		labels[i] = m.entries[i].Label
	}

	return labels
}

// Entry returns the entry labelled label.
func (m *Model) Entry(label string) (Entry, bool) {
	i, ok := m.index[label]
	if !ok {
		return Entry{}, false
	}

	return m.entries[i], true
}

// AddEntry appends e.
//
// Returns:
//   - errs.ErrInvalidLabel if the label is empty or longer than 255 bytes
//   - errs.ErrDuplicateLabel if an entry with the same label exists
func (m *Model) AddEntry(e Entry) error {
	if err := validateLabel(e.Label); err != nil {
		return err
	}
	if _, exists := m.index[e.Label]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateLabel, e.Label)
	}

	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[e.Label] = len(m.entries)
	m.entries = append(m.entries, e)

	return nil
}

// SetEntry replaces the entry with e's label, or appends e when no entry has
// that label.
func (m *Model) SetEntry(e Entry) error {
	if i, ok := m.index[e.Label]; ok {
		m.entries[i] = e
		return nil
	}

	return m.AddEntry(e)
}

// RemoveEntry deletes the entry labelled label. Later entries move up one index.
func (m *Model) RemoveEntry(label string) error {
	i, ok := m.index[label]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrLabelNotFound, label)
	}

	m.entries = slices.Delete(m.entries, i, i+1)
	m.reindex()

	return nil
}

// RenameEntry changes the label of an entry, keeping its position.
//
// Returns:
//   - errs.ErrLabelNotFound if no entry is labelled from
//   - errs.ErrInvalidLabel if to is not a valid label
//   - errs.ErrDuplicateLabel if another entry is labelled to
func (m *Model) RenameEntry(from, to string) error {
	i, ok := m.index[from]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrLabelNotFound, from)
	}
	if from == to {
		return nil
	}
	if err := validateLabel(to); err != nil {
		return err
	}
	if _, exists := m.index[to]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateLabel, to)
	}

	m.entries[i].Label = to
	delete(m.index, from)
	m.index[to] = i

	if j := slices.Index(m.labelOrder, from); j >= 0 {
		m.labelOrder[j] = to
	}

	return nil
}

// MoveEntry moves the entry labelled label to position to, shifting the
// entries in between.
func (m *Model) MoveEntry(label string, to int) error {
	i, ok := m.index[label]
	if !ok {
		return fmt.Errorf("%w: %q", errs.ErrLabelNotFound, label)
	}
	if to < 0 || to >= len(m.entries) {
		return fmt.Errorf("%w: position %d of %d entries", errs.ErrPositionOutOfRange, to, len(m.entries))
	}

	e := m.entries[i]
	m.entries = slices.Delete(m.entries, i, i+1)
	m.entries = slices.Insert(m.entries, to, e)
	m.reindex()

	return nil
}

func (m *Model) reindex() {
	if m.index == nil {
		m.index = make(map[string]int, len(m.entries))
	}
	clear(m.index)
	for i := range m.entries {
		m.index[m.entries[i].Label] = i
	}
}

func validateLabel(label string) error {
	if label == "" || len(label) > section.MaxLabelLength {
		return fmt.Errorf("%w: %q must be 1-%d bytes", errs.ErrInvalidLabel, label, section.MaxLabelLength)
	}

	return nil
}
