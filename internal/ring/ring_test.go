package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Empty(t *testing.T) {
	b := New[string]()

	_, ok := b.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())

	// Motion on an empty buffer is a no-op.
	b.Forward()
	b.Back()
	_, ok = b.Current()
	assert.False(t, ok)
	assert.Empty(t, b.Items())
}

func TestBuffer_SingleItemWraps(t *testing.T) {
	b := From([]int{7})

	for i := 0; i < 3; i++ {
		b.Forward()
		v, ok := b.Current()
		require.True(t, ok)
		assert.Equal(t, 7, v)
	}
	b.Back()
	v, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestBuffer_ForwardBackWrap(t *testing.T) {
	b := From([]string{"a", "b", "c"})

	cur := func() string {
		v, ok := b.Current()
		require.True(t, ok)
		return v
	}

	assert.Equal(t, "a", cur())
	b.Forward()
	assert.Equal(t, "b", cur())
	b.Forward()
	b.Forward()
	assert.Equal(t, "a", cur(), "forward wraps past the end")
	b.Back()
	assert.Equal(t, "c", cur(), "back wraps past the start")
	b.Back()
	assert.Equal(t, "b", cur())
}

func TestBuffer_InsertMakesNewestCurrent(t *testing.T) {
	b := New[string]()

	b.Insert("one")
	v, _ := b.Current()
	assert.Equal(t, "one", v)

	b.Insert("two")
	v, _ = b.Current()
	assert.Equal(t, "two", v)
	assert.Equal(t, []string{"two", "one"}, b.Items())

	b.Insert("three")
	v, _ = b.Current()
	assert.Equal(t, "three", v)
	assert.Equal(t, 3, b.Len())
	assert.Equal(t, []string{"three", "one", "two"}, b.Items())
}

func TestBuffer_AllStartsAtCursor(t *testing.T) {
	b := From([]int{1, 2, 3, 4})
	b.Forward()
	b.Forward()

	var got []int
	for v := range b.All() {
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 1, 2}, got)

	// Restartable and does not move the cursor.
	got = got[:0]
	for v := range b.All() {
		got = append(got, v)
	}
	assert.Equal(t, []int{3, 4, 1, 2}, got)
	v, _ := b.Current()
	assert.Equal(t, 3, v)
}

func TestBuffer_AllStopsEarly(t *testing.T) {
	b := From([]int{1, 2, 3})

	var got []int
	for v := range b.All() {
		got = append(got, v)
		if len(got) == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, got)
}
