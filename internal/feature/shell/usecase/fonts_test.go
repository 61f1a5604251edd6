package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFont(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("\x00\x01\x00\x00"), 0o600))
	return path
}

func TestFontRegistry_Register(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	medium := writeFont(t, dir, "Poppins-Medium.ttf")
	semibold := writeFont(t, dir, "Poppins-SemiBold.ttf")

	r := NewFontRegistry()
	require.NoError(t, r.Register("MPoppins", medium))

	p, ok := r.Path("MPoppins")
	require.True(t, ok)
	assert.Equal(t, medium, p)

	// 同じ名前の再登録は後勝ち
	require.NoError(t, r.Register("MPoppins", semibold))
	p, _ = r.Path("MPoppins")
	assert.Equal(t, semibold, p)
	assert.Equal(t, []string{"MPoppins"}, r.Names())
}

func TestFontRegistry_RegisterErrors(t *testing.T) {
	t.Parallel()

	r := NewFontRegistry()

	err := r.Register("Missing", filepath.Join(t.TempDir(), "nope.ttf"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = r.Register("Dir", t.TempDir())
	assert.Error(t, err)

	_, ok := r.Path("Missing")
	assert.False(t, ok)
	assert.Empty(t, r.Names())
}
