package cli

import (
	"fmt"
	"strings"
)

type TagCmd struct {
	Add    TagAddCmd    `cmd:"" help:"Add a tag."`
	List   TagListCmd   `cmd:"" help:"List tags."`
	Rename TagRenameCmd `cmd:"" help:"Rename a tag."`
	Delete TagDeleteCmd `cmd:"" help:"Delete a tag and detach it from tasks."`
}

func cleanTagName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", fmt.Errorf("tag name is required")
	}
	return name, nil
}

type TagAddCmd struct {
	Name string `arg:"" help:"Tag name."`
}

func (c *TagAddCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	name, err := cleanTagName(c.Name)
	if err != nil {
		return err
	}
	id, err := ctx.Store.AddTag(name, user.ID)
	if err != nil {
		return err
	}
	ctx.printf("Added tag: %s (ID: %s)\n", name, shortID(id))
	return nil
}

type TagListCmd struct{}

func (c *TagListCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	tags, err := ctx.Store.GetTags(user.ID)
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		ctx.println("No tags found")
		return nil
	}
	for _, t := range tags {
		ctx.printf("  %s  %s\n", shortID(t.LocalID), t.Name)
	}
	return nil
}

type TagRenameCmd struct {
	Tag  string `arg:"" help:"Tag name or id."`
	Name string `arg:"" help:"New name."`
}

func (c *TagRenameCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	tag, err := ctx.resolveTag(user, c.Tag)
	if err != nil {
		return err
	}
	name, err := cleanTagName(c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Store.RenameTag(tag.LocalID, name); err != nil {
		return err
	}
	ctx.printf("Renamed tag %s to %s\n", tag.Name, name)
	return nil
}

type TagDeleteCmd struct {
	Tag string `arg:"" help:"Tag name or id."`
}

func (c *TagDeleteCmd) Run(ctx *Context) error {
	user, err := ctx.CurrentUser()
	if err != nil {
		return err
	}
	tag, err := ctx.resolveTag(user, c.Tag)
	if err != nil {
		return err
	}
	if err := ctx.Store.DeleteTag(tag.LocalID); err != nil {
		return err
	}
	ctx.printf("Deleted tag: %s\n", tag.Name)
	return nil
}
