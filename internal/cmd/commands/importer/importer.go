package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/internal/cmd/commands/write"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

type Command struct {
	*base.Command

	flagEntity string
	flagFile   string
	flagDryRun bool
	flagAssign bool
}

// Summary is printed after an import.
type Summary struct {
	Imported int     `json:"imported" yaml:"imported"`
	Failed   int     `json:"failed" yaml:"failed"`
	IDs      []int64 `json:"ids" yaml:"ids"`
}

func (c *Command) Synopsis() string {
	return "Upsert a list of objects from a JSON or YAML file"
}

func (c *Command) Help() string {
	return `Usage: amocrm import -entity=<entity> -file=<path>

  Read a JSON or YAML list of objects and upsert each one: objects with
  the same natural key as an existing one update it, the rest are
  created. Field names are converted to snake_case.

  Every object is attempted; failures are reported together at the end.` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("import", flag.ContinueOnError))
	c.AddConfigFlags(f)

	f.StringVar(
		&c.flagEntity, "entity", "contacts",
		"Entity to import",
	)
	f.StringVar(
		&c.flagFile, "file", "",
		"(Required) Path to a .json, .yaml or .yml file holding a list of objects",
	)
	f.BoolVar(
		&c.flagDryRun, "dry-run", false,
		"Only print the normalized objects without sending them.",
	)
	f.BoolVar(
		&c.flagAssign, "assign-responsible", false,
		"Set responsible_user_id to the configured responsible user when missing",
	)

	return f
}

func (c *Command) Run(args []string) int {
	logger, ui := c.Log, c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagFile == "" {
		ui.Error("file flag is required")
		return 1
	}

	records, err := ReadRecords(c.Fs, c.flagFile)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if len(records) == 0 {
		ui.Info("Nothing to import")
		return 0
	}

	if c.flagDryRun {
		ui.Warn("DRY RUN mode enabled - no changes will be made")
		if err := c.Output(records); err != nil {
			ui.Error(err.Error())
			return 1
		}
		return 0
	}

	m, err := c.Manager(c.flagEntity)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	logger.Info("importing records", "entity", c.flagEntity, "count", len(records))
	summary, err := Import(c.Context, m, records, c.flagAssign)
	logger.Info("import finished",
		"entity", c.flagEntity,
		"imported", summary.Imported,
		"failed", summary.Failed,
	)

	if outErr := c.Output(summary); outErr != nil {
		ui.Error(outErr.Error())
		return 1
	}
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	return 0
}

// Import upserts every record, continuing past failures. The returned error
// aggregates the failures by record index.
func Import(ctx context.Context, m *amocrm.Manager, records []amocrm.Record, assign bool) (Summary, error) {
	var (
		summary Summary
		result  *multierror.Error
	)
	summary.IDs = []int64{}

	for i, rec := range records {
		if assign {
			if err := write.AssignResponsible(ctx, m, rec); err != nil {
				summary.Failed++
				result = multierror.Append(result, fmt.Errorf("record %d: %w", i, err))
				continue
			}
		}

		v, err := m.CreateOrUpdate(ctx, rec)
		if err != nil {
			summary.Failed++
			result = multierror.Append(result, fmt.Errorf("record %d: %w", i, err))
			continue
		}

		summary.Imported++
		if id, ok := amocrm.IDOf(v); ok {
			summary.IDs = append(summary.IDs, id)
		}
	}

	return summary, result.ErrorOrNil()
}

// ReadRecords reads a JSON or YAML list of objects, chosen by the file
// extension, and normalizes their keys.
func ReadRecords(fs afero.Fs, path string) ([]amocrm.Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	var items []map[string]any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&items)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		return nil, fmt.Errorf("unsupported file extension %q, use .json, .yaml or .yml", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}

	records := make([]amocrm.Record, len(items))
	for i, item := range items {
		records[i] = base.NormalizeRecord(item)
	}
	return records, nil
}
