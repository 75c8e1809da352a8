package search

import (
	"flag"
	"fmt"
	"strings"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagEntity string
}

func (c *Command) Synopsis() string {
	return "Find the first object matching a query"
}

func (c *Command) Help() string {
	return `Usage: amocrm search -entity=<entity> <query>

  Print the first object matching the query, or null when nothing does.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.StringVar(
		&c.flagEntity, "entity", "contacts",
		"Entity to search",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	query := strings.Join(f.Args(), " ")
	if query == "" {
		c.UI.Error("a query is required")
		return 1
	}

	m, err := c.Manager(c.flagEntity)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	rec, err := m.Search(c.Context, query)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error searching %s: %v", c.flagEntity, err))
		return 1
	}

	if err := c.Output(rec); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
