package cli

import (
	"fmt"
	"strings"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	report := func(name string, err error, warnOnly bool) {
		switch {
		case err == nil:
			ctx.printf("✓ %s: OK\n", name)
		case warnOnly:
			ctx.printf("⚠ %s: WARNING\n   %v\n", name, err)
		default:
			ctx.printf("❌ %s: FAIL\n   Error: %v\n", name, err)
			hasError = true
		}
	}

	loadErr := ctx.Store.Load()
	report("Database reachable", loadErr, false)

	if loadErr == nil {
		report("Schema", checkSchema(ctx), false)
		report("Profiles present", checkProfiles(ctx), true)
	} else {
		ctx.println("⊘ Schema: SKIPPED (database not reachable)")
	}
	report("Backups present", checkBackups(ctx), true)

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.println("All diagnostics passed!")
	return nil
}

func checkSchema(ctx *Context) error {
	h, err := ctx.Store.Check()
	if err != nil {
		return err
	}
	if h.OK() {
		return nil
	}
	var problems []string
	for name, ok := range h.Tables {
		if !ok {
			problems = append(problems, "missing table "+name)
		}
	}
	if !h.ForeignKeys {
		problems = append(problems, "foreign keys are not enforced")
	}
	if h.Integrity != "ok" {
		problems = append(problems, "integrity check: "+h.Integrity)
	}
	if len(problems) == 0 {
		problems = append(problems, fmt.Sprintf("schema version %d", h.SchemaVersion))
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}

func checkProfiles(ctx *Context) error {
	users, err := ctx.Store.GetListOfUsers()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		return fmt.Errorf("no profiles yet, create one with 'nazmara user offline'")
	}
	return nil
}

func checkBackups(ctx *Context) error {
	snaps, err := ctx.backupManager().List()
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		return fmt.Errorf("no backups found in %s", ctx.backupManager().Dir())
	}
	return nil
}
