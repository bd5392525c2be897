package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "android"), 0755))

	p, err := Load(root, "", "")
	require.NoError(t, err)

	assert.Equal(t, root, p.RootPath)
	assert.Equal(t, filepath.Join(root, "android"), p.AndroidPath)
	assert.Equal(t, filepath.Join(root, "ios", "App"), p.IOSPath)
	assert.True(t, p.HasAndroid)
	assert.False(t, p.HasIOS)
}

func TestLoad_Overrides(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	abs := filepath.Join(t.TempDir(), "native-ios")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "droid"), 0755))
	require.NoError(t, os.MkdirAll(abs, 0755))

	p, err := Load(root, "droid", abs)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "droid"), p.AndroidPath)
	assert.Equal(t, abs, p.IOSPath)
	assert.True(t, p.HasAndroid)
	assert.True(t, p.HasIOS)
}

func TestLoad_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope"), "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_RootIsFile(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := Load(file, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}
