package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earentir/remend/internal/config"
	"github.com/earentir/remend/internal/render"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootProcessesStdin(t *testing.T) {
	out, err := run(t, `Start \(`)
	require.NoError(t, err)
	assert.Equal(t, "Start $$$$", out)

	out, err = run(t, `This is inline math: \(x = \frac{1}{2}\)`, "-")
	require.NoError(t, err)
	assert.Equal(t, `This is inline math: $$x = \frac{1}{2}$$`, out)
}

func TestRootProcessesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.md")
	require.NoError(t, os.WriteFile(path, []byte("Block:\n\\[\nx"), 0o644))

	out, err := run(t, "", path)
	require.NoError(t, err)
	assert.Equal(t, "Block:\n$$\nx\n$$", out)
}

func TestRootMissingFile(t *testing.T) {
	_, err := run(t, "", filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestRootNoNormalize(t *testing.T) {
	in := `Inline \(x\) and block \[y`
	out, err := run(t, in, "--no-normalize-math")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRootConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "remend.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("normalize_math = false\n"), 0o644))

	out, err := run(t, `\(x\)`, "--config", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, `\(x\)`, out)

	// an explicit flag beats the file
	out, err = run(t, `\(x\)`, "--config", cfgPath, "--no-normalize-math=false")
	require.NoError(t, err)
	assert.Equal(t, "$$x$$", out)
}

func TestRenderCommand(t *testing.T) {
	out, err := run(t, "# Notes\n\nInline \\(x\\)", "render", "--style", "notty", "--wrap", "40")
	require.NoError(t, err)

	plain := render.StripANSI(out)
	assert.Contains(t, plain, "Notes")
	assert.Contains(t, plain, "$$x$$")
}

func TestRenderRejectsNegativeWrap(t *testing.T) {
	_, err := run(t, "x", "render", "--wrap", "-1")
	assert.ErrorIs(t, err, config.ErrInvalidWrap)
}

func TestViewRequiresFile(t *testing.T) {
	_, err := run(t, "", "view")
	assert.Error(t, err)
}
