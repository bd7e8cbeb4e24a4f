package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/models"
)

type TaskCmd struct {
	Add     TaskAddCmd     `cmd:"" help:"Add a task."`
	List    TaskListCmd    `cmd:"" help:"List the tasks of a day."`
	Dates   TaskDatesCmd   `cmd:"" help:"List the days that have tasks."`
	Done    TaskDoneCmd    `cmd:"" help:"Mark a task complete."`
	Undo    TaskUndoCmd    `cmd:"" help:"Mark a task incomplete."`
	Edit    TaskEditCmd    `cmd:"" help:"Edit a task."`
	Delete  TaskDeleteCmd  `cmd:"" help:"Delete a task."`
	History TaskHistoryCmd `cmd:"" help:"Show every task ever created, deleted ones included."`
}

func today() string {
	return time.Now().Format(constants.DateFormat)
}

func checkDate(date string) error {
	if _, err := time.Parse(constants.DateFormat, date); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return nil
}

func (c *Context) taskLine(t models.Task, tagNames map[string]string) string {
	mark := "[ ]"
	if t.IsComplete {
		mark = "[x]"
	}
	line := fmt.Sprintf("%s %s  %-6s %s", mark, shortID(t.LocalID), t.Priority, t.Title)
	if t.TagID != nil {
		if name, ok := tagNames[*t.TagID]; ok {
			line += "  #" + name
		}
	}
	return line
}

func (c *Context) tagNames(userID int64) (map[string]string, error) {
	tags, err := c.Store.GetTags(userID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(tags))
	for _, t := range tags {
		names[t.LocalID] = t.Name
	}
	return names, nil
}

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Description string `short:"d" help:"Longer description."`
	Priority    string `short:"p" help:"Priority (Low|Medium|High). Defaults to the configured priority."`
	Date        string `help:"Day of the task (YYYY-MM-DD). Defaults to today."`
	Tag         string `short:"t" help:"Tag name or id."`
}

func (c *TaskAddCmd) Validate() error {
	if c.Date != "" {
		return checkDate(c.Date)
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}

	priority := c.Priority
	if priority == "" {
		priority = ctx.defaultPriority()
	}
	data, err := ctx.submit(map[string]string{
		constants.FieldTitle:       c.Title,
		constants.FieldDescription: c.Description,
		constants.FieldPriority:    priority,
	}, []string{constants.FieldTitle, constants.FieldPriority}, false)
	if err != nil {
		return err
	}

	var tagID *string
	if c.Tag != "" {
		tag, err := ctx.resolveTag(user, c.Tag)
		if err != nil {
			return err
		}
		tagID = &tag.LocalID
	}

	date := c.Date
	if date == "" {
		date = today()
	}
	id, err := ctx.Store.AddTask(
		data.String(constants.FieldTitle),
		user.ID,
		data.String(constants.FieldDescription),
		models.Priority(data.Int(constants.FieldPriority)),
		date,
		tagID,
	)
	if err != nil {
		return err
	}
	ctx.printf("Added task: %s (ID: %s) on %s\n", data.String(constants.FieldTitle), shortID(id), date)
	return nil
}

type TaskListCmd struct {
	Date   string `help:"Day to list (YYYY-MM-DD). Defaults to today."`
	Status string `help:"Which tasks to show." enum:"all,open,done" default:"all"`
}

func (c *TaskListCmd) Validate() error {
	if c.Date != "" {
		return checkDate(c.Date)
	}
	return nil
}

func (c *TaskListCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	date := c.Date
	if date == "" {
		date = today()
	}
	tasks, err := ctx.Store.GetTasksByDate(date, user.ID)
	if err != nil {
		return err
	}
	names, err := ctx.tagNames(user.ID)
	if err != nil {
		return err
	}

	ctx.printf("Tasks for %s:\n", date)
	shown := 0
	for _, t := range tasks {
		if (c.Status == "open" && t.IsComplete) || (c.Status == "done" && !t.IsComplete) {
			continue
		}
		ctx.println("  " + ctx.taskLine(t, names))
		shown++
	}
	if shown == 0 {
		ctx.println("  No tasks found")
	}
	return nil
}

type TaskDatesCmd struct{}

func (c *TaskDatesCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	dates, err := ctx.Store.GetUserTaskDates(user.ID)
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		ctx.println("No tasks found")
		return nil
	}
	for _, d := range dates {
		ctx.println(d)
	}
	return nil
}

type TaskDoneCmd struct {
	ID string `arg:"" help:"Task id or id prefix."`
}

func (c *TaskDoneCmd) Run(ctx *Context) error {
	return setComplete(ctx, c.ID, true)
}

type TaskUndoCmd struct {
	ID string `arg:"" help:"Task id or id prefix."`
}

func (c *TaskUndoCmd) Run(ctx *Context) error {
	return setComplete(ctx, c.ID, false)
}

func setComplete(ctx *Context, ref string, complete bool) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	t, err := ctx.resolveTask(user, ref)
	if err != nil {
		return err
	}
	if err := ctx.Store.SetTaskComplete(t.LocalID, complete); err != nil {
		return err
	}
	if complete {
		ctx.printf("Completed: %s\n", t.Title)
	} else {
		ctx.printf("Reopened: %s\n", t.Title)
	}
	return nil
}

type TaskEditCmd struct {
	ID          string  `arg:"" help:"Task id or id prefix."`
	Title       *string `help:"New title."`
	Description *string `short:"d" help:"New description. Pass an empty string to clear it."`
	Priority    *string `short:"p" help:"New priority (Low|Medium|High)."`
	Date        *string `help:"Move the task to another day (YYYY-MM-DD)."`
	Tag         *string `short:"t" help:"New tag name or id."`
	NoTag       bool    `name:"no-tag" help:"Detach the task from its tag."`
}

func (c *TaskEditCmd) Validate() error {
	if c.Tag != nil && c.NoTag {
		return fmt.Errorf("--tag and --no-tag cannot be combined")
	}
	if c.Date != nil {
		return checkDate(*c.Date)
	}
	return nil
}

func (c *TaskEditCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	t, err := ctx.resolveTask(user, c.ID)
	if err != nil {
		return err
	}

	values := map[string]string{
		constants.FieldTitle:       t.Title,
		constants.FieldDescription: deref(t.Description),
		constants.FieldPriority:    t.Priority.String(),
	}
	if c.Title != nil {
		values[constants.FieldTitle] = *c.Title
	}
	if c.Description != nil {
		values[constants.FieldDescription] = *c.Description
	}
	if c.Priority != nil {
		values[constants.FieldPriority] = *c.Priority
	}
	data, err := ctx.submit(values, []string{constants.FieldTitle, constants.FieldPriority}, false)
	if err != nil {
		return err
	}

	date := deref(t.DateTime)
	if c.Date != nil {
		date = *c.Date
	}
	tagID := t.TagID
	switch {
	case c.NoTag:
		tagID = nil
	case c.Tag != nil:
		tag, err := ctx.resolveTag(user, *c.Tag)
		if err != nil {
			return err
		}
		tagID = &tag.LocalID
	}

	err = ctx.Store.UpdateTask(t.LocalID,
		data.String(constants.FieldTitle),
		data.String(constants.FieldDescription),
		models.Priority(data.Int(constants.FieldPriority)),
		date,
		tagID,
	)
	if err != nil {
		return err
	}
	ctx.printf("Updated task: %s (ID: %s)\n", data.String(constants.FieldTitle), shortID(t.LocalID))
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"Task id or id prefix."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	t, err := ctx.resolveTask(user, c.ID)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteTask(t.LocalID); err != nil {
		return err
	}
	ctx.printf("Deleted task: %s\n", t.Title)
	return nil
}

type TaskHistoryCmd struct{}

func (c *TaskHistoryCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	tasks, err := ctx.Store.GetTaskHistory(user.ID)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		ctx.println("No tasks found")
		return nil
	}
	names, err := ctx.tagNames(user.ID)
	if err != nil {
		return err
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%s  %s  %s", deref(t.DateTime), ctx.taskLine(t, names), ago(t.CreatedAt))
		if t.DeletedAt != nil {
			line += "  (deleted)"
		}
		ctx.println(line)
	}
	return nil
}
