package errno

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePassesThroughNonPositive(t *testing.T) {
	assert.Equal(t, 0, Normalize(0))
	assert.Equal(t, -EIO, Normalize(-EIO))
}

func TestNormalizeNegatesPositive(t *testing.T) {
	assert.Equal(t, -ENOENT, Normalize(ENOENT))
}

func TestNormalizeOrDefaultCollapsesUnknown(t *testing.T) {
	assert.Equal(t, -EIO, NormalizeOrDefault(123456))
	assert.Equal(t, -EIO, NormalizeOrDefault(-123456))
	assert.Equal(t, -ENOENT, NormalizeOrDefault(ENOENT))
	assert.Equal(t, 0, NormalizeOrDefault(0))
}

func TestClosureIsClosed(t *testing.T) {
	set := Closure()
	require.NotEmpty(t, set)
	for _, e := range set {
		assert.True(t, Known(e))
	}
	assert.False(t, Known(999999))
}

func TestErrorRoundTripsThroughSyscallErrno(t *testing.T) {
	err := Error(ENOENT)
	require.Error(t, err)
	assert.Equal(t, "no such file or directory", err.Error())
}
