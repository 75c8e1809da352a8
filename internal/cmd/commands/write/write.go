package write

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/araddon/dateparse"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

// writeFlags are shared by add, update and upsert.
type writeFlags struct {
	entity   string
	fields   base.Fields
	json     string
	assign   bool
	modified string
}

func (w *writeFlags) register(f *base.FlagSet, entityDefault string) {
	f.StringVar(
		&w.entity, "entity", entityDefault,
		"Entity to write",
	)
	f.Var(
		&w.fields, "field",
		"Field as key=value; may be repeated. Keys are converted to snake_case",
	)
	f.StringVar(
		&w.json, "json", "",
		"Fields as a JSON object; -field values override it",
	)
	f.BoolVar(
		&w.assign, "assign-responsible", false,
		"Set responsible_user_id to the configured responsible user when missing",
	)
}

// record merges -json and -field values.
func (w *writeFlags) record() (amocrm.Record, error) {
	rec := amocrm.Record{}
	if w.json != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(w.json)))
		dec.UseNumber()
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("error parsing -json: %w", err)
		}
		rec = base.NormalizeRecord(obj)
	}
	for k, v := range w.fields.Record() {
		rec[k] = v
	}

	if w.modified != "" {
		t, err := dateparse.ParseAny(w.modified)
		if err != nil {
			return nil, fmt.Errorf("error parsing -modified: %w", err)
		}
		rec["last_modified"] = t.Unix()
	}

	if len(rec) == 0 {
		return nil, errors.New("no fields given, use -field or -json")
	}
	return rec, nil
}

type verb func(m *amocrm.Manager, ctx context.Context, fields amocrm.Record) (any, error)

// run is the body shared by the write commands.
func run(c *base.Command, f *base.FlagSet, w *writeFlags, args []string, name string, do verb, check func(amocrm.Record) error) int {
	if err := f.Parse(args); err != nil {
		c.UI.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	rec, err := w.record()
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	if check != nil {
		if err := check(rec); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	m, err := c.Manager(w.entity)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}

	if w.assign {
		if err := AssignResponsible(c.Context, m, rec); err != nil {
			c.UI.Error(err.Error())
			return 1
		}
	}

	result, err := do(m, c.Context, rec)
	if err != nil {
		c.UI.Error(fmt.Sprintf("error running %s on %s: %v", name, w.entity, err))
		return 1
	}

	out := any(result)
	if id, ok := amocrm.IDOf(result); ok {
		out = map[string]int64{"id": id}
	} else {
		c.UI.Warn("response did not contain an id, printing it as received")
	}

	if err := c.Output(out); err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return 0
}

// AssignResponsible sets responsible_user_id from the manager's configured
// responsible user unless rec already carries one.
func AssignResponsible(ctx context.Context, m *amocrm.Manager, rec amocrm.Record) error {
	if rec.Has("responsible_user_id") {
		return nil
	}
	id, err := m.ResponsibleUserID(ctx)
	if err != nil {
		return fmt.Errorf("error resolving responsible user: %w", err)
	}
	rec["responsible_user_id"] = id
	return nil
}

type AddCommand struct {
	*base.Command

	flags writeFlags
}

func (c *AddCommand) Synopsis() string {
	return "Create an object"
}

func (c *AddCommand) Help() string {
	return `Usage: amocrm add -entity=<entity> -field key=value...

  Create an object and print its id.` + c.Flags().Help()
}

func (c *AddCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("add", flag.ContinueOnError))
	c.AddConfigFlags(f)
	c.flags.register(f, "leads")
	return f
}

func (c *AddCommand) Run(args []string) int {
	return run(c.Command, c.Flags(), &c.flags, args, "add", (*amocrm.Manager).Add, nil)
}

type UpdateCommand struct {
	*base.Command

	flags writeFlags
}

func (c *UpdateCommand) Synopsis() string {
	return "Modify an object"
}

func (c *UpdateCommand) Help() string {
	return `Usage: amocrm update -entity=<entity> -field id=<id> -field key=value...

  Modify an existing object. last_modified is set to the current time
  unless -modified or a last_modified field is given. -modified accepts
  most date formats, e.g. "2024-03-01 12:00" or "March 1, 2024".` + c.Flags().Help()
}

func (c *UpdateCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("update", flag.ContinueOnError))
	c.AddConfigFlags(f)
	c.flags.register(f, "leads")
	f.StringVar(
		&c.flags.modified, "modified", "",
		"Modification time sent as last_modified",
	)
	return f
}

func (c *UpdateCommand) Run(args []string) int {
	return run(c.Command, c.Flags(), &c.flags, args, "update", (*amocrm.Manager).Update, requireID)
}

func requireID(rec amocrm.Record) error {
	if !rec.Has("id") {
		return errors.New("update needs the object's id, use -field id=<id>")
	}
	return nil
}

type UpsertCommand struct {
	*base.Command

	flags writeFlags
}

func (c *UpsertCommand) Synopsis() string {
	return "Update the object with the same natural key or create one"
}

func (c *UpsertCommand) Help() string {
	return `Usage: amocrm upsert -entity=<entity> -field key=value...

  Search for an object by the entity's natural key (name for leads,
  contacts and companies). When one exists it is updated, keeping its
  current values for fields present on both; otherwise a new object is
  created.` + c.Flags().Help()
}

func (c *UpsertCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("upsert", flag.ContinueOnError))
	c.AddConfigFlags(f)
	c.flags.register(f, "contacts")
	return f
}

func (c *UpsertCommand) Run(args []string) int {
	return run(c.Command, c.Flags(), &c.flags, args, "upsert", (*amocrm.Manager).CreateOrUpdate, nil)
}
