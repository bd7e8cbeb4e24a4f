package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrAlreadyRunning is returned by Acquire when a live session holds the lock.
var ErrAlreadyRunning = errors.New("another nazmara session is using this database")

// Lock is a lockfile next to the database holding "pid|executable".
type Lock struct {
	path string
	pid  int
}

// Acquire takes the lock in dir. A lockfile left by a process that is gone,
// or whose pid now belongs to another program, is treated as stale and
// replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := filepath.Join(dir, constants.LockfileName)

	holder, err := readHolder(path)
	if err == nil && alive(holder) {
		return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyRunning, holder.pid)
	}
	if err == nil || !os.IsNotExist(err) {
		logger.Info("Removing stale lockfile", "path", path, "error", err)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}

	pid := getpidFunc()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("failed to create lockfile: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%d|%s\n", pid, constants.AppName); err != nil {
		return nil, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return &Lock{path: path, pid: pid}, nil
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	holder, err := readHolder(l.path)
	if err != nil {
		return nil
	}
	if holder.pid != l.pid {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

func (l *Lock) Path() string {
	return l.path
}

type holder struct {
	pid int
	exe string
}

func readHolder(path string) (holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return holder{}, err
	}
	pidStr, exe, ok := strings.Cut(strings.TrimSpace(string(content)), "|")
	if !ok {
		return holder{}, errors.New("lockfile is malformed")
	}
	pid, err := strconv.Atoi(pidStr)
	if err != nil {
		return holder{}, errors.New("invalid process ID in lockfile")
	}
	return holder{pid: pid, exe: exe}, nil
}

func alive(h holder) bool {
	if h.pid == getpidFunc() {
		return false
	}
	p, err := findProcessFunc(h.pid)
	if err != nil || p == nil {
		return false
	}
	return strings.HasPrefix(p.Executable(), h.exe)
}
