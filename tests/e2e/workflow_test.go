package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testCommandTimeout = 30 * time.Second

type harness struct {
	t       *testing.T
	cliPath string
	env     []string
	base    []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	binDir := os.Getenv("NAZMARA_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "nazmara")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s, build it with 'go build -o bin/nazmara ./cmd/nazmara'", cliPath)
	}

	tempDir := t.TempDir()
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "NAZMARA_") {
			env = append(env, e)
		}
	}
	env = append(env, fmt.Sprintf("HOME=%s", tempDir))

	return &harness{
		t:       t,
		cliPath: cliPath,
		env:     env,
		base: []string{
			"--config", filepath.Join(tempDir, "nazmara", "config.yaml"),
			"--db", filepath.Join(tempDir, "nazmara", "nazmara.db"),
		},
	}
}

func (h *harness) run(args ...string) string {
	h.t.Helper()
	out, err := h.exec(args...)
	if err != nil {
		h.t.Fatalf("Command %v failed: %v\nOutput: %s", args, err, out)
	}
	return out
}

func (h *harness) exec(args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), testCommandTimeout)
	defer cancel()
	cmd := exec.CommandContext(ctx, h.cliPath, append(append([]string{}, h.base...), args...)...)
	cmd.Env = h.env
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestEndToEndWorkflow(t *testing.T) {
	h := newHarness(t)

	t.Log("Initializing storage...")
	h.run("init")

	t.Log("Commands need a profile first...")
	if out, err := h.exec("task", "list"); err == nil {
		t.Fatalf("expected task list to fail without a profile, got: %s", out)
	}

	h.run("user", "offline", "--first", "Sara", "--last", "Karimi", "--nickname", "sara_k")
	out := h.run("user", "list")
	if !strings.Contains(out, "sara_k") {
		t.Fatalf("profile missing from list:\n%s", out)
	}

	t.Log("Rejecting invalid input...")
	out, err := h.exec("task", "add", "x")
	if err == nil || !strings.Contains(out, "title must be between") {
		t.Fatalf("expected length error, got %v:\n%s", err, out)
	}

	t.Log("Managing tasks...")
	h.run("tag", "add", "home")
	h.run("task", "add", "Water the plants", "--priority", "High", "--date", "2024-06-01", "--tag", "home")
	h.run("task", "add", "Call mom", "--date", "2024-06-01")

	dump := h.run("debug", "dump", "tasks")
	var tasks []map[string]any
	if err := json.Unmarshal([]byte(dump), &tasks); err != nil {
		t.Fatalf("dump is not JSON: %v\n%s", err, dump)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	id, _ := tasks[0]["local_id"].(string)

	h.run("task", "done", id)
	out = h.run("task", "list", "--date", "2024-06-01", "--status", "done")
	if !strings.Contains(out, "Water the plants") || strings.Contains(out, "Call mom") {
		t.Fatalf("unexpected done list:\n%s", out)
	}

	h.run("task", "delete", id)
	out = h.run("task", "history")
	if !strings.Contains(out, "(deleted)") {
		t.Fatalf("expected deleted task in history:\n%s", out)
	}

	t.Log("Backing up...")
	h.run("backup", "create")
	out = h.run("backup", "list")
	if !strings.Contains(out, "nazmara-") {
		t.Fatalf("expected a snapshot in list:\n%s", out)
	}

	out = h.run("doctor")
	if !strings.Contains(out, "All diagnostics passed!") {
		t.Fatalf("doctor reported problems:\n%s", out)
	}
}
