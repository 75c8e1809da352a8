package get

import (
	"errors"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

type Command struct {
	*base.Command

	flagEntity string
}

func (c *Command) Synopsis() string {
	return "Fetch one object by id"
}

func (c *Command) Help() string {
	return `Usage: amocrm get -entity=<entity> <id>

  Fetch a single object. Exits with status 2 when no object has the id.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("get", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.StringVar(
		&c.flagEntity, "entity", "leads",
		"Entity the object belongs to",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one id is required")
		return 1
	}

	m, err := c.Manager(c.flagEntity)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	rec, err := m.Get(c.Context, base.ParseValue(f.Arg(0)))
	if errors.Is(err, amocrm.ErrNotFound) {
		c.UI.Warn(err.Error())
		return 2
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error getting %s: %v", c.flagEntity, err))
		return 1
	}

	if err := c.Output(rec); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
