package token_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcanvas/pixels/internal/token"
)

func TestLoadMods_MissingFileReturnsEmptySet(t *testing.T) {
	mods, err := token.LoadMods(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Nil(t, err)
	assert.Empty(t, mods)
}

func TestLoadMods_SkipsBlankLinesAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mods.txt")
	contents := "# moderators\n\n42\n\n7\n# trailing comment\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	mods, err := token.LoadMods(path)
	require.Nil(t, err)
	assert.Equal(t, map[int64]struct{}{42: {}, 7: {}}, mods)
}

func TestLoadMods_InvalidLineFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mods.txt")
	require.NoError(t, os.WriteFile(path, []byte("not-an-id\n"), 0o600))

	_, err := token.LoadMods(path)
	assert.NotNil(t, err)
}
