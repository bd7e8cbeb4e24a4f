package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/nazmara/internal/backup"
	"github.com/julianstephens/nazmara/internal/config"
	"github.com/julianstephens/nazmara/internal/form"
	"github.com/julianstephens/nazmara/internal/logger"
	"github.com/julianstephens/nazmara/internal/models"
	"github.com/julianstephens/nazmara/internal/storage"
)

type Context struct {
	Store      storage.Provider
	Validator  *form.Validator
	Config     *config.Config
	ConfigPath string
	// UserID selects the profile commands act on; 0 means the newest one.
	UserID int64
	Out    io.Writer
	In     io.Reader
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) in() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) backupManager() *backup.Manager {
	keep := 0
	if c.Config != nil {
		keep = c.Config.Backup.Keep
	}
	return backup.NewManager(c.Store.Path(), keep)
}

// PerformAutomaticBackup snapshots the database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if c.Config != nil && !c.Config.Backup.Auto {
		return
	}
	if _, err := c.backupManager().Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

func (c *Context) defaultPriority() string {
	if c.Config != nil && c.Config.Tasks.DefaultPriority != "" {
		return c.Config.Tasks.DefaultPriority
	}
	return models.PriorityMedium.String()
}

// CurrentUser returns the profile selected with --user, or the newest one.
func (c *Context) CurrentUser() (models.User, error) {
	var (
		u   models.User
		err error
	)
	if c.UserID != 0 {
		u, err = c.Store.GetUser(c.UserID)
	} else {
		u, err = c.Store.LatestUser()
	}
	if errors.Is(err, storage.ErrNotFound) {
		if c.UserID != 0 {
			return u, fmt.Errorf("no profile with id %d", c.UserID)
		}
		return u, fmt.Errorf("no profile yet, run 'nazmara user offline' first")
	}
	return u, err
}

// ValidationError carries a failed form check back to the command line.
type ValidationError struct {
	Result form.Result
}

func (e *ValidationError) Error() string {
	return "invalid input:\n  " + strings.Join(e.Result.Errors, "\n  ")
}

// submit runs the form pipeline over flag values: presence of the required
// names, then the format rules, then extraction of the cleaned values.
// Optional values left empty are not checked.
func (c *Context) submit(values map[string]string, required []string, signup bool) (form.Data, error) {
	fields := make(map[string]form.Field, len(values))
	for name, v := range values {
		fields[name] = form.NewValue(v)
	}

	p := form.PresenceCheck(form.Lookup(fields, required))
	if len(p.Empty) > 0 {
		var r form.Result
		for _, name := range required {
			if f, ok := fields[name]; ok && strings.TrimSpace(f.Text()) == "" {
				r.Errors = append(r.Errors, strings.ReplaceAll(name, "_", " ")+" is required")
				r.Invalid = append(r.Invalid, name)
			}
		}
		return nil, &ValidationError{Result: r}
	}

	texts := form.Texts(fields)
	for name, v := range texts {
		if v == "" {
			delete(texts, name)
		}
	}

	data, r := c.Validator.Validate(texts, signup)
	if !r.OK() {
		return nil, &ValidationError{Result: r}
	}
	return data, nil
}

// UserMessage turns err into the text shown on the terminal. Storage faults
// are reduced to a generic message; the details are in the log.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, storage.ErrStorage):
		return "could not save, please try again (details in the log)"
	case errors.Is(err, storage.ErrNotFound):
		return "not found"
	}
	return err.Error()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ago renders a stored RFC3339 timestamp relative to now.
func ago(ts *string) string {
	if ts == nil {
		return "-"
	}
	t, err := time.Parse(time.RFC3339, *ts)
	if err != nil {
		return *ts
	}
	return humanize.Time(t)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// resolveTask finds a task of user by full local id or unique prefix.
func (c *Context) resolveTask(user models.User, ref string) (models.Task, error) {
	if t, err := c.Store.GetTask(ref); err == nil && t.UserID == user.ID && t.DeletedAt == nil {
		return t, nil
	}
	history, err := c.Store.GetTaskHistory(user.ID)
	if err != nil {
		return models.Task{}, err
	}
	var matches []models.Task
	for _, t := range history {
		if t.DeletedAt == nil && strings.HasPrefix(t.LocalID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	}
	return models.Task{}, fmt.Errorf("%q matches %d tasks, use a longer id", ref, len(matches))
}

// resolveTag finds an active tag of user by name, full id or unique prefix.
func (c *Context) resolveTag(user models.User, ref string) (models.Tag, error) {
	tags, err := c.Store.GetTags(user.ID)
	if err != nil {
		return models.Tag{}, err
	}
	var matches []models.Tag
	for _, t := range tags {
		if t.Name == ref || t.LocalID == ref {
			return t, nil
		}
		if strings.HasPrefix(t.LocalID, ref) {
			matches = append(matches, t)
		}
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	return models.Tag{}, fmt.Errorf("no single tag matches %q", ref)
}
