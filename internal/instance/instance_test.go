package instance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

func stubProcesses(t *testing.T, self int, running map[int]string) {
	t.Helper()
	origFind, origPid := findProcessFunc, getpidFunc
	t.Cleanup(func() {
		findProcessFunc, getpidFunc = origFind, origPid
	})
	getpidFunc = func() int { return self }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := running[pid]
		if !ok {
			return nil, nil
		}
		return &mockProcess{pid: pid, executable: exe}, nil
	}
}

func TestAcquireAndRelease(t *testing.T) {
	stubProcesses(t, 100, nil)
	dir := t.TempDir()

	lock, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	content, err := os.ReadFile(lock.Path())
	if err != nil {
		t.Fatalf("lockfile not written: %v", err)
	}
	if string(content) != "100|nazmara\n" {
		t.Errorf("unexpected lockfile content %q", content)
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(lock.Path()); !os.IsNotExist(err) {
		t.Error("expected lockfile to be removed")
	}
}

func TestAcquireHeldByLiveSession(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "nazmara.lock"), []byte("200|nazmara\n"), 0600); err != nil {
		t.Fatal(err)
	}
	stubProcesses(t, 100, map[int]string{200: "nazmara"})

	if _, err := Acquire(dir); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	tests := []struct {
		name    string
		content string
		running map[int]string
	}{
		{"process gone", "200|nazmara\n", nil},
		{"pid reused by another program", "200|nazmara\n", map[int]string{200: "bash"}},
		{"malformed", "garbage", nil},
		{"bad pid", "abc|nazmara", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, "nazmara.lock"), []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			stubProcesses(t, 100, tt.running)

			lock, err := Acquire(dir)
			if err != nil {
				t.Fatalf("expected stale lock to be replaced, got %v", err)
			}
			defer lock.Release()
		})
	}
}

func TestReleaseLeavesForeignLock(t *testing.T) {
	stubProcesses(t, 100, nil)
	dir := t.TempDir()
	lock, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := os.WriteFile(lock.Path(), []byte("300|nazmara\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if _, err := os.Stat(lock.Path()); err != nil {
		t.Error("lockfile owned by another process should be kept")
	}
}
