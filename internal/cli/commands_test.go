package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/nazmara/internal/models"
	"github.com/julianstephens/nazmara/internal/storage"
)

const testDate = "2024-06-01"

func TestInitWritesConfig(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(ctx.ConfigPath); err != nil {
		t.Errorf("expected config file to be written: %v", err)
	}
	if !strings.Contains(out.String(), "Initialized storage") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestUserOfflineRejectsInvalidInput(t *testing.T) {
	ctx, _, cleanup := setupContext(t)
	defer cleanup()

	err := (&UserOfflineCmd{First: "S4ra", Last: "Karimi", Nickname: "ab"}).Run(ctx)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(verr.Result.Errors) != 2 {
		t.Errorf("expected 2 errors, got %v", verr.Result.Errors)
	}

	users, _ := ctx.Store.GetListOfUsers()
	if len(users) != 0 {
		t.Errorf("expected nothing stored, got %d users", len(users))
	}
}

func TestUserSignupAndList(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	signup := &UserSignupCmd{
		First:    "Reza",
		Last:     "Ahmadi",
		Nickname: "reza",
		Email:    "Reza@Example.COM",
		Password: "Tq7#vLp2!xWz9mRk",
		RemoteID: 77,
		Token:    "tok",
	}
	if err := signup.Run(ctx); err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	u, err := ctx.Store.LatestUser()
	if err != nil {
		t.Fatalf("LatestUser failed: %v", err)
	}
	if u.Email == nil || *u.Email != "Reza@example.com" {
		t.Errorf("expected normalized email, got %v", u.Email)
	}

	out.Reset()
	if err := (&UserListCmd{}).Run(ctx); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, want := range []string{"sara_k", "offline", "reza", "Reza@example.com"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, out.String())
		}
	}
}

func TestTaskAddListAndComplete(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	if err := (&TaskAddCmd{Title: "Water the plants", Priority: "High", Date: testDate}).Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	if err := (&TaskAddCmd{Title: "Call mom", Date: testDate}).Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}

	user, _ := ctx.CurrentUser()
	tasks, err := ctx.Store.GetTasksByDate(testDate, user.ID)
	if err != nil {
		t.Fatalf("GetTasksByDate failed: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[1].Priority != models.PriorityMedium {
		t.Errorf("expected configured default priority, got %v", tasks[1].Priority)
	}

	if err := (&TaskDoneCmd{ID: shortID(tasks[0].LocalID)}).Run(ctx); err != nil {
		t.Fatalf("task done failed: %v", err)
	}

	out.Reset()
	if err := (&TaskListCmd{Date: testDate, Status: "open"}).Run(ctx); err != nil {
		t.Fatalf("task list failed: %v", err)
	}
	if strings.Contains(out.String(), "Water the plants") || !strings.Contains(out.String(), "Call mom") {
		t.Errorf("expected only the open task:\n%s", out.String())
	}

	if err := (&TaskUndoCmd{ID: tasks[0].LocalID}).Run(ctx); err != nil {
		t.Fatalf("task undo failed: %v", err)
	}
	got, _ := ctx.Store.GetTask(tasks[0].LocalID)
	if got.IsComplete {
		t.Error("expected task to be reopened")
	}
}

func TestTaskAddRejectsInvalidTitle(t *testing.T) {
	ctx, _, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	err := (&TaskAddCmd{Title: "no!", Date: testDate}).Run(ctx)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestTaskDateValidation(t *testing.T) {
	if err := (&TaskAddCmd{Date: "06/01/2024"}).Validate(); err == nil {
		t.Error("expected invalid date to be rejected")
	}
	if err := (&TaskListCmd{Date: testDate}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	tag := "home"
	if err := (&TaskEditCmd{Tag: &tag, NoTag: true}).Validate(); err == nil {
		t.Error("expected --tag with --no-tag to be rejected")
	}
}

func TestTaskEditAndTags(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	if err := (&TagAddCmd{Name: "  home  "}).Run(ctx); err != nil {
		t.Fatalf("tag add failed: %v", err)
	}
	if err := (&TaskAddCmd{Title: "Fix the sink", Date: testDate, Tag: "home"}).Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}

	user, _ := ctx.CurrentUser()
	tasks, _ := ctx.Store.GetTasksByDate(testDate, user.ID)
	if len(tasks) != 1 || tasks[0].TagID == nil {
		t.Fatalf("expected one tagged task, got %+v", tasks)
	}
	id := tasks[0].LocalID

	title, desc, date := "Fix the kitchen sink", "call a plumber", "2024-06-02"
	edit := &TaskEditCmd{ID: id, Title: &title, Description: &desc, Date: &date, NoTag: true}
	if err := edit.Run(ctx); err != nil {
		t.Fatalf("task edit failed: %v", err)
	}
	got, err := ctx.Store.GetTask(id)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Title != title || got.DateTime == nil || *got.DateTime != date || got.TagID != nil {
		t.Errorf("edit not applied: %+v", got)
	}
	if got.Priority != models.PriorityMedium {
		t.Errorf("expected priority to be kept, got %v", got.Priority)
	}

	if err := (&TagRenameCmd{Tag: "home", Name: "house"}).Run(ctx); err != nil {
		t.Fatalf("tag rename failed: %v", err)
	}
	out.Reset()
	if err := (&TagListCmd{}).Run(ctx); err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	if !strings.Contains(out.String(), "house") {
		t.Errorf("expected renamed tag in output:\n%s", out.String())
	}
	if err := (&TagDeleteCmd{Tag: "house"}).Run(ctx); err != nil {
		t.Fatalf("tag delete failed: %v", err)
	}
	if err := (&TagDeleteCmd{Tag: "house"}).Run(ctx); err == nil {
		t.Error("expected deleting a missing tag to fail")
	}
}

func TestTaskDeleteAndHistory(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	if err := (&TaskAddCmd{Title: "Pay rent", Date: testDate}).Run(ctx); err != nil {
		t.Fatalf("task add failed: %v", err)
	}
	user, _ := ctx.CurrentUser()
	tasks, _ := ctx.Store.GetTasksByDate(testDate, user.ID)
	id := tasks[0].LocalID

	if err := (&TaskDeleteCmd{ID: id}).Run(ctx); err != nil {
		t.Fatalf("task delete failed: %v", err)
	}
	if err := (&TaskDoneCmd{ID: id}).Run(ctx); err == nil {
		t.Error("expected completing a deleted task to fail")
	}

	out.Reset()
	if err := (&TaskHistoryCmd{}).Run(ctx); err != nil {
		t.Fatalf("task history failed: %v", err)
	}
	if !strings.Contains(out.String(), "Pay rent") || !strings.Contains(out.String(), "(deleted)") {
		t.Errorf("expected deleted task in history:\n%s", out.String())
	}

	out.Reset()
	if err := (&TaskDatesCmd{}).Run(ctx); err != nil {
		t.Fatalf("task dates failed: %v", err)
	}
	if !strings.Contains(out.String(), "No tasks found") {
		t.Errorf("expected no active dates:\n%s", out.String())
	}
}

func TestBackupCreateListRestore(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	if err := (&BackupCreateCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup create failed: %v", err)
	}
	snaps, err := ctx.backupManager().List()
	if err != nil || len(snaps) != 1 {
		t.Fatalf("expected 1 snapshot, got %d (%v)", len(snaps), err)
	}

	out.Reset()
	if err := (&BackupListCmd{}).Run(ctx); err != nil {
		t.Fatalf("backup list failed: %v", err)
	}
	if !strings.Contains(out.String(), snaps[0].Name()) {
		t.Errorf("expected snapshot in listing:\n%s", out.String())
	}

	if _, err := ctx.Store.AddOfflineUser("later", "Later", "User"); err != nil {
		t.Fatalf("AddOfflineUser failed: %v", err)
	}
	if err := (&BackupRestoreCmd{File: snaps[0].Name(), Yes: true}).Run(ctx); err != nil {
		t.Fatalf("backup restore failed: %v", err)
	}
	users, err := ctx.Store.GetListOfUsers()
	if err != nil {
		t.Fatalf("GetListOfUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected restored database with 1 profile, got %d", len(users))
	}
}

func TestBackupRestoreCancelled(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()

	path, err := ctx.backupManager().Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ctx.In = strings.NewReader("n\n")
	if err := (&BackupRestoreCmd{File: filepath.Base(path)}).Run(ctx); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if !strings.Contains(out.String(), "Restore cancelled.") {
		t.Errorf("expected cancellation:\n%s", out.String())
	}
}

func TestDoctor(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Fatalf("doctor failed on a fresh store: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Profiles present: WARNING") {
		t.Errorf("expected missing profiles warning:\n%s", out.String())
	}

	ctx.Store = storage.New(filepath.Join(t.TempDir(), "missing.db"))
	out.Reset()
	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail without a database")
	}
}

func TestDebugDump(t *testing.T) {
	ctx, out, cleanup := setupContext(t)
	defer cleanup()
	addProfile(t, ctx)

	if err := (&DebugDumpCmd{Table: "secrets"}).Validate(); err == nil {
		t.Error("expected unknown table to be rejected")
	}

	out.Reset()
	if err := (&DebugDumpCmd{Table: "users"}).Run(ctx); err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(out.Bytes(), &rows); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(rows) != 1 || rows[0]["nickname"] != "sara_k" {
		t.Errorf("unexpected rows: %v", rows)
	}
}
