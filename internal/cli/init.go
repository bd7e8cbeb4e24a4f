package cli

import (
	"os"

	"github.com/julianstephens/nazmara/internal/config"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized storage at: %s\n", ctx.Store.Path())

	if ctx.ConfigPath == "" || ctx.Config == nil {
		return nil
	}
	path := config.ExpandPath(ctx.ConfigPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := config.Save(path, ctx.Config); err != nil {
			return err
		}
		ctx.printf("Wrote default config to: %s\n", path)
	}
	return nil
}
