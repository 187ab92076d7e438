//go:build windows

package lifecycle

import (
	"errors"
	"os"
	"os/exec"
)

// replaceSelf starts a new instance attached to the same console and waits for it.
func replaceSelf() (int, error) {
	exe, err := os.Executable()
	if err != nil {
		return 1, err
	}

	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()

	err = cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return 1, err
	}

	return 0, nil
}
