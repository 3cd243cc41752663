package vfsbridge

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsConfiguredMatchesPATHProbe(t *testing.T) {
	_, fusermount3Err := exec.LookPath("fusermount3")
	_, fusermountErr := exec.LookPath("fusermount")
	want := fusermount3Err == nil || fusermountErr == nil

	assert.Equal(t, want, IsConfigured())
}

func TestUnmountPathFailsWithoutFusermountConfigured(t *testing.T) {
	if IsConfigured() {
		t.Skip("skipping: fusermount3/fusermount is present on PATH")
	}
	assert.Error(t, UnmountPath(t.TempDir()))
}
