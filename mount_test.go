package vfsbridge

import (
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMountDoesNotTouchKernel(t *testing.T) {
	dir := t.TempDir()
	m := NewMount(filepath.Join(dir, "mount"), struct{}{})
	assert.False(t, m.IsMounted())
	assert.Equal(t, filepath.Join(dir, "mount"), m.MountPoint())
}

func TestUnmountWithoutMountFails(t *testing.T) {
	m := NewMount(t.TempDir(), struct{}{})
	require.Error(t, m.Unmount())
}

func TestNewMountAcceptsAllOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	dir := t.TempDir()

	m := NewMount(filepath.Join(dir, "mount"), struct{}{},
		WithFSName("testfs"),
		WithAllowOther(true),
		WithDebug(true),
		WithMetrics(reg),
		WithMetricsNamespace("testns", "bridge"),
	)

	assert.NotNil(t, m)
	assert.Equal(t, filepath.Join(dir, "mount"), m.MountPoint())
}

func TestCrashedBeforeMountIsFalse(t *testing.T) {
	m := NewMount(t.TempDir(), struct{}{})
	crashed, err := m.Crashed()
	assert.False(t, crashed)
	assert.NoError(t, err)
}
