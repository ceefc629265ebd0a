package imagepkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetLoader(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, encodePNG(t, 20, 10), 0o644))

	l, err := NewAssetLoader(2)
	require.NoError(t, err)

	first, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, first.Bounds().Dx())

	// served from the cache once decoded
	require.NoError(t, os.Remove(path))
	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssetLoaderErrors(t *testing.T) {
	dir := t.TempDir()
	l, err := NewAssetLoader(0)
	require.NoError(t, err)

	_, err = l.Load(filepath.Join(dir, "absent.png"))
	assert.ErrorIs(t, err, ErrAssetMissing)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0o644))
	_, err = l.Load(junk)
	assert.ErrorIs(t, err, ErrAssetMissing)

	// a fixed file is picked up on the next load
	require.NoError(t, os.WriteFile(junk, encodePNG(t, 3, 3), 0o644))
	_, err = l.Load(junk)
	assert.NoError(t, err)
}
