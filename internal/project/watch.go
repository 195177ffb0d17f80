package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// WatchLock guards <root>/.rocketindex/watch.pid, giving watch mode
// process-wide mutual exclusion: the file is created atomically with
// exclusive-create semantics; on a pre-existing file the holder's
// liveness is probed; if dead, the file is removed and acquisition
// retried.
type WatchLock struct {
	path string
}

// AcquireWatchLock attempts to create root's watch.pid exclusively. If a
// pre-existing lock file names a dead process, it is removed and
// acquisition is retried once. Returns ErrLockContention if a live process
// already holds it.
func AcquireWatchLock(root string) (*WatchLock, error) {
	dir := filepath.Join(root, ".rocketindex")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("project: create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "watch.pid")

	if err := tryCreateLock(path); err == nil {
		return &WatchLock{path: path}, nil
	}

	pid, readErr := readLockPID(path)
	if readErr == nil && pid > 0 && !isProcessAlive(pid) {
		os.Remove(path)
		if err := tryCreateLock(path); err == nil {
			return &WatchLock{path: path}, nil
		}
	}

	return nil, ErrLockContention
}

func tryCreateLock(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%d\n", os.Getpid())
	return err
}

func readLockPID(path string) (int, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(b)))
}

// Release removes the PID file. Safe to call on any exit path; guaranteed
// release is the caller's responsibility via defer.
func (l *WatchLock) Release() error {
	if l == nil {
		return nil
	}
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
