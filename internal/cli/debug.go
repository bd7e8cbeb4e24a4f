package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/julianstephens/nazmara/internal/storage"
)

type DebugCmd struct {
	DBPath DebugDBPathCmd `cmd:"" name:"db-path" help:"Show database path."`
	Dump   DebugDumpCmd   `cmd:"" help:"Dump every row of a table as JSON, deleted rows included."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	return ctx.printJSON(map[string]string{"path": ctx.Store.Path()})
}

type DebugDumpCmd struct {
	Table string `arg:"" help:"Table to dump (users|tags|tasks|habits|daily_habits)."`
}

func (cmd *DebugDumpCmd) Validate() error {
	for _, t := range storage.Tables {
		if t == cmd.Table {
			return nil
		}
	}
	return fmt.Errorf("unknown table %q, expected one of %s", cmd.Table, strings.Join(storage.Tables, ", "))
}

func (cmd *DebugDumpCmd) Run(ctx *Context) error {
	rows, err := ctx.Store.Rows(cmd.Table)
	if err != nil {
		return err
	}
	return ctx.printJSON(rows)
}

func (c *Context) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(b))
	return nil
}
