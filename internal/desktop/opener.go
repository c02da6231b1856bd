// Package desktop hands files to the operating system's default application.
package desktop

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// ErrUnsupportedOS is returned on platforms without a known opener command.
var ErrUnsupportedOS = errors.New("opening files is not supported on this platform")

// Runner starts a command without waiting for it to finish.
type Runner func(name string, args ...string) error

func startCommand(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

type Opener struct {
	goos string
	run  Runner
}

// NewOpener returns an opener for the current platform.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS, run: startCommand}
}

// NewOpenerWithRunner is used by tests to capture the launched command.
func NewOpenerWithRunner(goos string, run Runner) *Opener {
	return &Opener{goos: goos, run: run}
}

// Command returns the program and arguments that open path on goos.
func Command(goos, path string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{path}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{path}, nil
	case "windows":
		return "cmd", []string{"/c", "start", "", path}, nil
	default:
		return "", nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}
}

// Open launches the default application for path. The file must exist.
func (o *Opener) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot open %s: %w", path, err)
	}
	name, args, err := Command(o.goos, path)
	if err != nil {
		return err
	}
	if err := o.run(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}
