package login

import (
	"errors"
	"flag"
	"fmt"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

type Command struct {
	*base.Command
}

func (c *Command) Synopsis() string {
	return "Check the configured credentials"
}

func (c *Command) Help() string {
	return `Usage: amocrm login [options]

  Open a session with the configured user_login and user_hash to check
  that the account accepts them.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("login", flag.ContinueOnError))
	c.AddConfigFlags(f)
	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		c.UI.Error(fmt.Sprintf("error loading config: %v", err))
		return 1
	}
	if cfg.OAuth != nil {
		c.UI.Error("login checks hash credentials; the config uses oauth")
		return 1
	}

	_, transport, err := c.Client(cfg)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error creating client: %v", err))
		return 1
	}

	err = transport.Login(c.Context, cfg.AmoCRM.UserLogin, cfg.AmoCRM.UserHash)
	var authErr *amocrm.AuthenticationError
	if errors.As(err, &authErr) {
		c.UI.Error(fmt.Sprintf("credentials rejected for %s", cfg.AmoCRM.UserLogin))
		return 2
	}
	if err != nil {
		c.UI.Error(fmt.Sprintf("error logging in: %v", err))
		return 1
	}

	c.UI.Info(fmt.Sprintf("Logged in to %s as %s", transport.BaseURL(), cfg.AmoCRM.UserLogin))
	return 0
}
