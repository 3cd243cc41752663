package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateFailsWithEBUSY(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("/mnt/a", "instance-a"))

	err := r.Register("/mnt/a", "instance-a-again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "busy")
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := New()
	r.Unregister("/mnt/never-registered")

	require.NoError(t, r.Register("/mnt/a", "instance-a"))
	r.Unregister("/mnt/a")
	r.Unregister("/mnt/a")

	_, ok := r.LookupForPath("/mnt/a/file")
	assert.False(t, ok)
}

func TestLookupForPathLongestPrefixWins(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("/mnt", "outer"))
	require.NoError(t, r.Register("/mnt/inner", "inner"))

	inst, ok := r.LookupForPath("/mnt/inner/file.txt")
	require.True(t, ok)
	assert.Equal(t, "inner", inst)

	inst, ok = r.LookupForPath("/mnt/other/file.txt")
	require.True(t, ok)
	assert.Equal(t, "outer", inst)

	_, ok = r.LookupForPath("/not-mounted/file.txt")
	assert.False(t, ok)
}

func TestLookupForPathMatchesMountPointItself(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("/mnt", "outer"))

	inst, ok := r.LookupForPath("/mnt")
	require.True(t, ok)
	assert.Equal(t, "outer", inst)
}

func TestActiveListsRegisteredMountPoints(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("/mnt/a", "a"))
	require.NoError(t, r.Register("/mnt/b", "b"))

	assert.ElementsMatch(t, []string{"/mnt/a", "/mnt/b"}, r.Active())
}
