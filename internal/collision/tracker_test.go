package collision

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker(4)

	require.NotNil(t, tracker)
	require.Equal(t, 0, tracker.Count())
}

func TestTracker_TrackLabel_Success(t *testing.T) {
	tracker := NewTracker(2)

	require.NoError(t, tracker.TrackLabel("Npc_Greeting", 1))
	require.NoError(t, tracker.TrackLabel("Npc_Farewell", 0))

	require.Equal(t, 2, tracker.Count())

	label, ok := tracker.Label(1)
	require.True(t, ok)
	require.Equal(t, "Npc_Greeting", label)

	_, ok = tracker.Label(5)
	require.False(t, ok)
}

func TestTracker_TrackLabel_Duplicate(t *testing.T) {
	tracker := NewTracker(2)
	require.NoError(t, tracker.TrackLabel("A", 0))

	err := tracker.TrackLabel("A", 1)
	require.ErrorIs(t, err, ErrLabelTaken)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_TrackLabel_IndexReused(t *testing.T) {
	tracker := NewTracker(2)
	require.NoError(t, tracker.TrackLabel("A", 0))

	err := tracker.TrackLabel("B", 0)
	require.ErrorIs(t, err, ErrIndexTaken)
	require.Equal(t, 1, tracker.Count())
}

func TestTracker_TrackLabel_Invalid(t *testing.T) {
	tracker := NewTracker(1)

	require.ErrorIs(t, tracker.TrackLabel("", 0), ErrInvalidLength)
	require.ErrorIs(t, tracker.TrackLabel(strings.Repeat("x", MaxLabelLength+1), 0), ErrInvalidLength)
	require.NoError(t, tracker.TrackLabel(strings.Repeat("x", MaxLabelLength), 0))
}
