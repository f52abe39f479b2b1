package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/corpus")
	assert.Equal(t, filepath.Join("/corpus", ".refmap"), p.Root)
	assert.Equal(t, filepath.Join("/corpus", ".refmap", "refmap.db"), p.DB)
	assert.Equal(t, filepath.Join("/corpus", ".refmap", "config.yml"), p.ConfigFile)
	assert.Equal(t, filepath.Join("/corpus", ".refmap", "log"), p.LogDir)
	assert.Equal(t, filepath.Join("/corpus", ".refmap", "log", "daemon.log"), p.DaemonLog)
	assert.Equal(t, filepath.Join("/corpus", ".refmap", "run"), p.RunDir)
	assert.Equal(t, filepath.Join("/corpus", ".refmap", "run", "daemon.pid"), p.PIDFile)
}

func TestEnsureDirs(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent, no error.
	require.NoError(t, p.EnsureDirs())
}

func TestCleanEphemeral(t *testing.T) {
	dir := t.TempDir()
	p := NewPaths(dir)
	require.NoError(t, p.EnsureDirs())

	require.NoError(t, os.WriteFile(p.PIDFile, []byte("12345"), 0644))

	p.CleanEphemeral()
	_, err := os.Stat(p.PIDFile)
	assert.True(t, os.IsNotExist(err))

	// Nothing left to remove, second call is a no-op.
	p.CleanEphemeral()
}
