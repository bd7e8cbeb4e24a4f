package cli

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/nazmara/internal/instance"
	"github.com/julianstephens/nazmara/internal/logger"
	"github.com/julianstephens/nazmara/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	lock, err := instance.Acquire(filepath.Dir(ctx.Store.Path()))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release lock", "error", err)
		}
	}()

	ctx.PerformAutomaticBackup()

	opts := tui.Options{DefaultPriority: ctx.defaultPriority(), UserID: ctx.UserID}
	p := tea.NewProgram(tui.NewModel(ctx.Store, ctx.Validator, opts), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
