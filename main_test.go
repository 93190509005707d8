package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/qrgen/qr"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "missing.yaml")

	t.Run("saves a PNG from the argument", func(t *testing.T) {
		path := filepath.Join(dir, "example.png")
		_, err := execute(t, "", "generate", "https://example.com", "-c", cfgPath, "-o", path)
		require.NoError(t, err)

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()
		img, err := png.Decode(f)
		require.NoError(t, err)
		assert.Equal(t, 330, img.Bounds().Dx())
	})

	t.Run("reads text from stdin and applies flags", func(t *testing.T) {
		path := filepath.Join(dir, "stdin.png")
		_, err := execute(t, "https://example.com\n", "generate", "-c", cfgPath, "-o", path,
			"--box-size", "2", "--border", "0", "--level", "M")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 50, img.Bounds().Dx())
	})

	t.Run("format flag overrides the extension", func(t *testing.T) {
		path := filepath.Join(dir, "code.out")
		_, err := execute(t, "", "generate", "svg please", "-c", cfgPath, "-o", path, "--format", "svg")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	})

	t.Run("prints to the terminal", func(t *testing.T) {
		out, err := execute(t, "", "generate", "hello", "-c", cfgPath, "--terminal", "--border", "1")
		require.NoError(t, err)
		assert.Contains(t, out, "█")
		assert.NotEmpty(t, strings.Split(out, "\n"))
	})

	t.Run("terminal output rejects a border past the limit", func(t *testing.T) {
		for _, border := range []string{"100000", "4611686018427387904"} {
			out, err := execute(t, "", "generate", "hello", "-c", cfgPath, "--terminal", "--border", border)
			assert.ErrorIs(t, err, qr.ErrInvalidInput, border)
			assert.Empty(t, out, border)
		}
	})

	t.Run("huge border fails without writing a file", func(t *testing.T) {
		path := filepath.Join(dir, "border.png")
		_, err := execute(t, "", "generate", "hello", "-c", cfgPath, "-o", path, "--border=4611686018427387904")
		assert.ErrorIs(t, err, qr.ErrInvalidInput)
		assert.NoFileExists(t, path)
	})

	t.Run("empty input fails", func(t *testing.T) {
		_, err := execute(t, "", "generate", "-c", cfgPath, "-o", filepath.Join(dir, "empty.png"))
		assert.ErrorIs(t, err, qr.ErrInvalidInput)
	})

	t.Run("bad box size fails", func(t *testing.T) {
		_, err := execute(t, "", "generate", "x", "-c", cfgPath, "-o", filepath.Join(dir, "box.png"), "--box-size=500")
		assert.ErrorIs(t, err, qr.ErrRender)
	})

	t.Run("uses defaults from the config file", func(t *testing.T) {
		custom := filepath.Join(dir, "custom.yaml")
		require.NoError(t, os.WriteFile(custom, []byte("defaults:\n  box_size: 1\n  border: 0\n"), 0o644))
		path := filepath.Join(dir, "custom.png")
		_, err := execute(t, "", "generate", "https://example.com", "-c", custom, "-o", path)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 25, img.Bounds().Dx())
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "qrgen "+version+"\n", out)
}
