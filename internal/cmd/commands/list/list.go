package list

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

type Command struct {
	*base.Command

	flagEntity string
	flagLimit  int
	flagOffset int
	flagQuery  string
	flagFilter base.Fields
}

func (c *Command) Synopsis() string {
	return "List objects of an entity"
}

func (c *Command) Help() string {
	return `Usage: amocrm list -entity=<entity> [options]

  List leads, contacts, companies, tasks or notes. Additional filter
  parameters are given with repeated -filter key=value flags.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("list", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.StringVar(
		&c.flagEntity, "entity", "leads",
		"Entity to list",
	)
	f.IntVar(
		&c.flagLimit, "limit", amocrm.DefaultListLimit,
		"Maximum number of rows; -1 lets the API decide",
	)
	f.IntVar(
		&c.flagOffset, "offset", 0,
		"Number of rows to skip",
	)
	f.StringVar(
		&c.flagQuery, "query", "",
		"Full text query",
	)
	f.Var(
		&c.flagFilter, "filter",
		"Filter parameter as key=value; may be repeated",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	m, err := c.Manager(c.flagEntity)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	query := c.flagFilter.Record()
	if c.flagQuery != "" {
		query["query"] = c.flagQuery
	}

	limit := c.flagLimit
	if limit < 0 {
		limit = amocrm.NoLimit
	}

	records, err := m.All(c.Context, amocrm.ListOptions{
		Limit:  limit,
		Offset: c.flagOffset,
		Query:  query,
	})
	if err != nil {
		c.UI.Error(fmt.Sprintf("error listing %s: %v", c.flagEntity, err))
		return 1
	}
	if records == nil {
		records = []amocrm.Record{}
	}

	if err := c.Output(records); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
