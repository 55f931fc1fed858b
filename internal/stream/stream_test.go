package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earentir/remend/internal/remend"
)

func TestCutRunes(t *testing.T) {
	tests := []struct {
		s      string
		budget int
		want   string
	}{
		{"hello", 0, ""},
		{"hello", 3, "hel"},
		{"hello", 10, "hello"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
		{"日本", 4, "日"},
		{"", 5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CutRunes(tt.s, tt.budget), "CutRunes(%q, %d)", tt.s, tt.budget)
	}
}

func TestPrefixUnthrottled(t *testing.T) {
	e := New("all at once", 0)
	assert.Zero(t, e.BytesPerSecond())

	prefix, done, grew := e.Prefix(time.Now())
	assert.Equal(t, "all at once", prefix)
	assert.True(t, done)
	assert.True(t, grew)

	_, _, grew = e.Prefix(time.Now())
	assert.False(t, grew)
}

func TestPrefixAtRate(t *testing.T) {
	src := "0123456789abcdefghij"
	e := New(src, 100) // 10 bytes/s
	start := time.Unix(1000, 0)
	e.Restart(start)

	prefix, done, grew := e.Prefix(start)
	assert.Equal(t, "", prefix)
	assert.False(t, done)
	assert.False(t, grew)

	prefix, done, grew = e.Prefix(start.Add(500 * time.Millisecond))
	assert.Equal(t, "01234", prefix)
	assert.False(t, done)
	assert.True(t, grew)

	prefix, done, _ = e.Prefix(start.Add(5 * time.Second))
	assert.Equal(t, src, prefix)
	assert.True(t, done)
}

func TestResetKeepsClockWhenExtended(t *testing.T) {
	start := time.Unix(1000, 0)
	e := New("abcdef", 100)
	e.Restart(start)

	e.Reset("abcdefghij", start.Add(time.Second))
	prefix, _, _ := e.Prefix(start.Add(600 * time.Millisecond))
	assert.Equal(t, "abcdef", prefix)

	e.Reset("something else", start.Add(time.Second))
	prefix, _, _ = e.Prefix(start.Add(time.Second))
	assert.Equal(t, "", prefix)
	assert.Equal(t, "something else", e.Source())
}

func TestStreamedPrefixesRepairToBalancedMath(t *testing.T) {
	src := "Area:\n\\[\n\\pi r^2\n\\]\nand inline \\(r\\)."
	e := New(src, 80) // 8 bytes/s
	start := time.Unix(0, 0)
	e.Restart(start)

	for tick := 0; ; tick++ {
		prefix, done, _ := e.Prefix(start.Add(time.Duration(tick) * 125 * time.Millisecond))
		out := remend.Process(prefix)
		require.Zero(t, remend.CountDollarPairs(out)%2, "prefix %q", prefix)
		if done {
			assert.Equal(t, "Area:\n$$\n\\pi r^2\n$$\nand inline $$r$$.", out)
			break
		}
	}
}

func TestResetAfterFinishedStreamsAppendedText(t *testing.T) {
	start := time.Unix(1000, 0)
	e := New("abcdef", 100) // 10 bytes/s
	e.Restart(start)

	prefix, done, _ := e.Prefix(start.Add(time.Second))
	require.True(t, done)
	require.Equal(t, "abcdef", prefix)

	now := start.Add(5 * time.Second)
	e.Reset("abcdefghij", now)

	prefix, done, _ = e.Prefix(now.Add(50 * time.Millisecond))
	assert.Equal(t, "abcdef", prefix)
	assert.False(t, done)

	prefix, _, _ = e.Prefix(now.Add(250 * time.Millisecond))
	assert.Equal(t, "abcdefgh", prefix)

	prefix, done, _ = e.Prefix(now.Add(time.Second))
	assert.Equal(t, "abcdefghij", prefix)
	assert.True(t, done)
}
