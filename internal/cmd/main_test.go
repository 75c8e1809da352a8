package cmd

import (
	"sort"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCommands(t *testing.T) {
	initCommands(hclog.NewNullLogger(), cli.NewMockUi())

	names := make([]string, 0, len(Commands))
	for name := range Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"account", "add", "get", "import", "list", "login", "search", "update", "upsert", "version",
	}, names)

	for name, factory := range Commands {
		c, err := factory()
		require.NoError(t, err, name)
		assert.NotEmpty(t, c.Synopsis(), name)
		assert.True(t, strings.HasPrefix(c.Help(), "Usage: amocrm "+name), name)
	}
}
