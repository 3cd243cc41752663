package vfsbridge

import (
	"fmt"
	"os/exec"
)

// IsConfigured reports whether a fusermount3 or fusermount binary is
// present on PATH. Embedding programs can call this at startup to fail
// loudly rather than discover it only when the first Mount call fails.
func IsConfigured() bool {
	_, err := lookupFusermount()
	return err == nil
}

// UnmountPath forcibly unmounts path via the external fusermount3/
// fusermount binary, bypassing this process's own mount controller
// entirely. It is for cleaning up a mount point left behind by a
// process that crashed without calling Unmount.
func UnmountPath(path string) error {
	bin, err := lookupFusermount()
	if err != nil {
		return err
	}
	if out, err := exec.Command(bin, "-u", path).CombinedOutput(); err != nil {
		return fmt.Errorf("vfsbridge: %s -u %s: %w: %s", bin, path, err, out)
	}
	return nil
}

func lookupFusermount() (string, error) {
	if bin, err := exec.LookPath("fusermount3"); err == nil {
		return bin, nil
	}
	bin, err := exec.LookPath("fusermount")
	if err != nil {
		return "", fmt.Errorf("vfsbridge: neither fusermount3 nor fusermount found on PATH: %w", err)
	}
	return bin, nil
}
