package fileurl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteNewAndChecks(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "config", "config.yaml")

	assert.False(t, IsExist(dst))
	require.NoError(t, WriteNew(dst, []byte("a: 1\n")))
	assert.True(t, IsExist(dst))
	assert.True(t, IsFile(dst))
	assert.True(t, IsDir(filepath.Dir(dst)))
	assert.False(t, IsFile(filepath.Dir(dst)))

	// never overwrites
	assert.Error(t, WriteNew(dst, []byte("b: 2\n")))
	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))
}
