// Package discovery locates a running `slotbook serve` through the lockfile
// it leaves in the config directory.
package discovery

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

var (
	ErrServerNotRunning  = errors.New("slotbook server is not running")
	ErrMalformedLockfile = errors.New("lockfile is malformed")
)

// LockfilePath returns the lockfile location inside dir.
func LockfilePath(dir string) string {
	return filepath.Join(dir, constants.ServerLockfileName)
}

// WriteLockfile records that this process serves bookings on port.
func WriteLockfile(path string, port int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	content := fmt.Sprintf("%d|%d", port, getpidFunc())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

// RemoveLockfile deletes the lockfile if it still belongs to this process.
func RemoveLockfile(path string) error {
	_, pid, err := readLockfile(path)
	if err != nil {
		if errors.Is(err, ErrServerNotRunning) {
			return nil
		}
		return err
	}
	if pid != getpidFunc() {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

// FindEndpoint returns the save URL of the server recorded in the lockfile,
// after checking that its process is alive and is slotbook.
func FindEndpoint(path string) (string, error) {
	port, pid, err := readLockfile(path)
	if err != nil {
		return "", err
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		logger.Debug("Stale server lockfile", "path", path, "pid", pid)
		return "", fmt.Errorf("%w: process %d not found", ErrServerNotRunning, pid)
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		return "", fmt.Errorf("%w: process with PID %d is not %s (is %s)", ErrServerNotRunning, pid, constants.AppName, process.Executable())
	}

	return fmt.Sprintf("http://127.0.0.1:%d%s", port, constants.SaveEndpointPath), nil
}

func readLockfile(path string) (int, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, ErrServerNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return 0, 0, ErrMalformedLockfile
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid port number", ErrMalformedLockfile)
	}
	if port < 1 || port > 65535 {
		return 0, 0, fmt.Errorf("%w: port number %d is outside valid range (1-65535)", ErrMalformedLockfile, port)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid process ID", ErrMalformedLockfile)
	}
	return port, pid, nil
}
