package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAppliesOverridesOntoDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mount.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mount_point: /mnt/bridge\nmount:\n  debug: true\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "/mnt/bridge", cfg.MountPoint)
	assert.True(t, cfg.Mount.Debug)
	assert.Equal(t, "vfsbridge", cfg.Mount.FSName) // untouched default
}

func TestLoadFileRejectsMissingMountPoint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mount.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mount:\n  debug: true\n"), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestDefaultIsValidOnceMountPointIsSet(t *testing.T) {
	cfg := Default()
	cfg.MountPoint = "/mnt/bridge"
	assert.NoError(t, cfg.Validate())
}
