//go:build !windows

package lifecycle

import (
	"os"
	"syscall"
)

// replaceSelf execs the running binary in place. It only returns on failure.
func replaceSelf() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 1, err
	}

	return 1, syscall.Exec(exe, os.Args, os.Environ())
}
