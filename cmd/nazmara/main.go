package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/nazmara/internal/cli"
	"github.com/julianstephens/nazmara/internal/config"
	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/errors"
	"github.com/julianstephens/nazmara/internal/form"
	"github.com/julianstephens/nazmara/internal/logger"
	"github.com/julianstephens/nazmara/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." type:"path" default:"${config_path}"`
	DB      string `name:"db" help:"Database file path. Overrides the config file." type:"path"`
	Verbose bool   `short:"v" help:"Log debug output to stderr."`
	UserID  int64  `name:"user" help:"Profile id to act as. Defaults to the newest profile."`

	Init   cli.InitCmd   `cmd:"" help:"Initialize nazmara storage."`
	Tui    cli.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	User   cli.UserCmd   `cmd:"" help:"Manage profiles."`
	Task   cli.TaskCmd   `cmd:"" help:"Manage tasks."`
	Tag    cli.TagCmd    `cmd:"" help:"Manage tags."`
	Backup cli.BackupCmd `cmd:"" help:"Manage database backups."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
	Debug  cli.DebugCmd  `cmd:"" help:"Inspect raw data."`
}

// noLoad lists the commands that run before, or check for, an initialized
// database.
var noLoad = map[string]bool{"init": true, "doctor": true}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local-first tasks and habits"),
		kong.UsageOnError(),
		kong.Vars{
			"version":     constants.Version,
			"config_path": constants.DefaultConfigPath,
		},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.DB != "" {
		cfg.Database.Path = config.ExpandPath(CLI.DB)
	}
	if CLI.Verbose {
		cfg.Log.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:     cfg.Log.Debug,
		ConfigDir: filepath.Dir(config.ExpandPath(CLI.Config)),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store := storage.New(cfg.Database.Path)
	if command := strings.Fields(ctx.Command())[0]; !noLoad[command] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	appCtx := &cli.Context{
		Store:      store,
		Validator:  form.New(),
		Config:     cfg,
		ConfigPath: CLI.Config,
		UserID:     CLI.UserID,
	}

	if err := ctx.Run(appCtx); err != nil {
		logger.Error("Command failed", "command", ctx.Command(), "error", err)
		fmt.Fprintln(os.Stderr, errors.Formatf("%s", cli.UserMessage(err)))
		os.Exit(1)
	}
}
