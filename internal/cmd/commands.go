package cmd

import (
	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/account"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/get"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/importer"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/list"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/login"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/search"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/version"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/write"
)

// Commands is the mapping of all available amocrm commands.
var Commands map[string]cli.CommandFactory

func initCommands(log hclog.Logger, ui cli.Ui) {
	b := base.NewCommand(log, ui)

	Commands = map[string]cli.CommandFactory{
		"account": func() (cli.Command, error) {
			return &account.Command{Command: b}, nil
		},
		"list": func() (cli.Command, error) {
			return &list.Command{Command: b}, nil
		},
		"get": func() (cli.Command, error) {
			return &get.Command{Command: b}, nil
		},
		"search": func() (cli.Command, error) {
			return &search.Command{Command: b}, nil
		},
		"add": func() (cli.Command, error) {
			return &write.AddCommand{Command: b}, nil
		},
		"update": func() (cli.Command, error) {
			return &write.UpdateCommand{Command: b}, nil
		},
		"upsert": func() (cli.Command, error) {
			return &write.UpsertCommand{Command: b}, nil
		},
		"import": func() (cli.Command, error) {
			return &importer.Command{Command: b}, nil
		},
		"login": func() (cli.Command, error) {
			return &login.Command{Command: b}, nil
		},
		"version": func() (cli.Command, error) {
			return &version.Command{Command: b}, nil
		},
	}
}
