package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripANSI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"\x1b[1mbold\x1b[0m", "bold"},
		{"\x1b[38;5;82mgreen\x1b[22m!", "green!"},
		{"\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\", "link"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripANSI(tt.in))
	}
}

func TestMarkdownNoTTY(t *testing.T) {
	out, err := Markdown("# Title\n\nSome $$x$$ text.", 40, "notty")
	require.NoError(t, err)

	plain := StripANSI(out)
	assert.Contains(t, plain, "Title")
	assert.Contains(t, plain, "$$x$$")
}

func TestMarkdownUnknownStyleFallsBack(t *testing.T) {
	out, err := Markdown("hello", 40, "no-such-style-or-file")
	require.NoError(t, err)
	assert.True(t, strings.Contains(StripANSI(out), "hello"))
}

func TestResolveStyle(t *testing.T) {
	// test binaries write to a pipe, so auto resolves to notty
	assert.Equal(t, "notty", ResolveStyle("auto"))
	assert.Equal(t, "notty", ResolveStyle(""))
	assert.Equal(t, "dracula", ResolveStyle("dracula"))
	assert.Equal(t, "/tmp/style.json", ResolveStyle("/tmp/style.json"))
}

func TestNewRendererReusable(t *testing.T) {
	r, err := NewRenderer(40, "notty")
	require.NoError(t, err)

	for _, in := range []string{"one", "one two", "one two $$x$$"} {
		out, err := r.Render(in)
		require.NoError(t, err)
		assert.Contains(t, StripANSI(out), in)
	}
}

func TestNewRendererBadJSONStyle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	_, err := NewRenderer(40, path)
	assert.Error(t, err)
}
