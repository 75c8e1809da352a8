package account

import (
	"flag"
	"fmt"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
)

type Command struct {
	*base.Command

	flagShow   string
	flagEntity string
}

func (c *Command) Synopsis() string {
	return "Show account metadata"
}

func (c *Command) Help() string {
	return `Usage: amocrm account [options]

  Fetch the account's metadata: users, lead statuses, note and task types
  and custom field definitions.

  Use -show to print a single section:
    users, statuses, note-types, task-types, custom-fields, responsible-user` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("account", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.StringVar(
		&c.flagShow, "show", "",
		"Section to print instead of the whole account",
	)
	f.StringVar(
		&c.flagEntity, "entity", "leads",
		"Entity whose custom fields are printed with -show=custom-fields",
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

	ctx := c.Context
	var result any
	switch c.flagShow {
	case "":
		result, err = m.AccountInfo(ctx)
	case "users":
		var info map[string]any
		info, err = m.AccountInfo(ctx)
		if err == nil {
			result = info["users"]
		}
	case "statuses":
		result, err = m.LeadsStatuses(ctx)
	case "note-types":
		result, err = m.NoteTypes(ctx)
	case "task-types":
		result, err = m.TaskTypes(ctx)
	case "custom-fields":
		result, err = m.CustomFields(ctx)
	case "responsible-user":
		var id int64
		id, err = m.ResponsibleUserID(ctx)
		result = map[string]int64{"responsible_user_id": id}
	default:
		c.UI.Error(fmt.Sprintf("unknown section %q", c.flagShow))
		return 1
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error fetching account info: %v", err))
		return 1
	}

	if err := c.Output(result); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}
