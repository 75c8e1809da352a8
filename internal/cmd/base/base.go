package base

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/hashicorp-forge/amocrm/internal/config"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm/entities"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm/httptransport"
)

// ConfigEnv names the environment variable consulted when -config is not
// given.
const ConfigEnv = "AMOCRM_CONFIG"

// Command is embedded by every subcommand.
type Command struct {
	Context context.Context
	Log     hclog.Logger
	UI      cli.Ui

	// Fs is the filesystem input files are read from.
	Fs afero.Fs

	flagConfig string
	flagOutput string
}

func NewCommand(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Context: context.Background(),
		Log:     log,
		UI:      ui,
		Fs:      afero.NewOsFs(),
	}
}

// AddConfigFlags registers the flags shared by every command talking to the
// API.
func (c *Command) AddConfigFlags(f *FlagSet) {
	f.StringVar(
		&c.flagConfig, "config", "",
		fmt.Sprintf("[%s] Path to the amocrm config file", ConfigEnv),
	)
	f.StringVar(
		&c.flagOutput, "output", FormatJSON,
		"Output format (json, yaml)",
	)
}

// LoadConfig parses the config file named by -config or AMOCRM_CONFIG and
// applies its log level to the command's logger.
func (c *Command) LoadConfig() (*config.Config, error) {
	path := c.flagConfig
	if val, ok := os.LookupEnv(ConfigEnv); ok && path == "" {
		path = val
	}

	cfg, err := config.NewConfig(path)
	if err != nil {
		return nil, err
	}
	c.Log.SetLevel(cfg.Level())
	return cfg, nil
}

// Client builds the HTTP transport and a client from cfg.
func (c *Command) Client(cfg *config.Config) (*amocrm.Client, *httptransport.Transport, error) {
	tc, err := cfg.TransportConfig()
	if err != nil {
		return nil, nil, err
	}

	auth := cfg.Authenticator(c.Context, tc.URL())
	t, err := httptransport.New(tc, auth, httptransport.WithLogger(c.Log))
	if err != nil {
		return nil, nil, err
	}

	return amocrm.NewClient(t, cfg.ClientOptions(c.Log)...), t, nil
}

// Manager loads the config and returns a manager for the named entity.
func (c *Command) Manager(entity string) (*amocrm.Manager, error) {
	e, ok := entities.ByName(entity)
	if !ok {
		return nil, fmt.Errorf("unknown entity %q, must be one of %v", entity, entities.Names())
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	client, _, err := c.Client(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating client: %w", err)
	}
	return client.Manager(e), nil
}

// Output writes v in the format chosen with -output.
func (c *Command) Output(v any) error {
	out, err := Render(c.flagOutput, v)
	if err != nil {
		return err
	}
	c.UI.Output(out)
	return nil
}
