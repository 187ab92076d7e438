// Package open launches files with the platform's default handler or a chosen program.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/streamscout/streamscout/constant"
)

// Start hands path to the default handler and returns without waiting.
func Start(path string) error {
	cmd, err := command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// RunWith opens path with app attached to the current terminal and waits
// for it to exit. An empty app falls back to Start.
func RunWith(path, app string) error {
	if app == "" {
		return Start(path)
	}

	cmd := exec.Command(app, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", path), nil
	case constant.Darwin:
		return exec.Command("open", path), nil
	case constant.Linux:
		return exec.Command("xdg-open", path), nil
	case constant.Android:
		return exec.Command("termux-open", path), nil
	default:
		return nil, fmt.Errorf("no default handler on %s", goos)
	}
}
