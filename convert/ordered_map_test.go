package convert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 4)

	require.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	require.Equal(t, 3, m.Len())

	v, ok := m.Get("zeta")
	require.True(t, ok)
	require.Equal(t, 4, v)
	require.True(t, m.Has("alpha"))

	m.Delete("alpha")
	m.Delete("missing")
	require.Equal(t, []string{"zeta", "mid"}, m.Keys())
	require.False(t, m.Has("alpha"))

	keys := m.Keys()
	keys[0] = "changed"
	require.Equal(t, "zeta", m.Keys()[0], "Keys must return a copy")
}

func TestOrderedMap_ZeroValue(t *testing.T) {
	var m OrderedMap
	m.Set("a", true)
	require.Equal(t, []string{"a"}, m.Keys())
}

func TestFromMap(t *testing.T) {
	m := FromMap(map[string]any{
		"b": map[string]any{"y": 1, "x": 2},
		"a": []any{map[string]any{"k": "v"}},
		"c": []map[string]any{{"n": 1}},
	})

	require.Equal(t, []string{"a", "b", "c"}, m.Keys())

	b, _ := m.Get("b")
	require.Equal(t, []string{"x", "y"}, b.(*OrderedMap).Keys())

	a, _ := m.Get("a")
	require.IsType(t, &OrderedMap{}, a.([]any)[0])

	c, _ := m.Get("c")
	require.IsType(t, &OrderedMap{}, c.([]any)[0])
}
