package collision

import (
	"errors"
	"fmt"
)

// Conflict errors. They carry no error kind; callers wrap them in the kind
// that fits their direction (decode or encode).
var (
	ErrInvalidLength = errors.New("label length out of range")
	ErrLabelTaken    = errors.New("label already assigned")
	ErrIndexTaken    = errors.New("entry already labelled")
)

// Tracker tracks label-to-entry assignments and detects conflicts.
//
// A label may be assigned to exactly one entry and an entry index may carry
// exactly one label.
type Tracker struct {
	byLabel map[string]int // label → entry index
	byIndex map[int]string // entry index → label
}

// NewTracker creates a new tracker sized for n labels.
func NewTracker(n int) *Tracker {
	return &Tracker{
		byLabel: make(map[string]int, n),
		byIndex: make(map[int]string, n),
	}
}

// TrackLabel records that label names the entry at index.
//
// Returns:
//   - ErrInvalidLength if the label is empty or longer than 255 bytes
//   - ErrLabelTaken if the label was already tracked
//   - ErrIndexTaken if the index already carries another label
func (t *Tracker) TrackLabel(label string, index int) error {
	if label == "" || len(label) > MaxLabelLength {
		return fmt.Errorf("%w: %q must be 1-%d bytes", ErrInvalidLength, label, MaxLabelLength)
	}

	if prev, exists := t.byLabel[label]; exists {
		return fmt.Errorf("%w: %q used by entries %d and %d", ErrLabelTaken, label, prev, index)
	}

	if prev, exists := t.byIndex[index]; exists {
		return fmt.Errorf("%w: entry %d labelled %q and %q", ErrIndexTaken, index, prev, label)
	}

	t.byLabel[label] = index
	t.byIndex[index] = label

	return nil
}

// Label returns the label of the entry at index.
func (t *Tracker) Label(index int) (string, bool) {
	label, ok := t.byIndex[index]
	return label, ok
}

// Count returns the number of tracked labels.
func (t *Tracker) Count() int {
	return len(t.byLabel)
}

// MaxLabelLength is the longest label the u8 length prefix can describe.
const MaxLabelLength = 255
