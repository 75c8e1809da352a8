package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/amocrm/internal/cmd/base"
	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.hcl")
	body := fmt.Sprintf(`
amocrm {
  base_url   = %q
  user_login = "admin@example.com"
  user_hash  = "hash"
}
transport {
  max_retries = 0
  rate_limit  = 0
}
`, baseURL)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// contactsServer answers searches for "Ann" with an existing contact and
// fails searches for "Broken".
type contactsServer struct {
	mu      sync.Mutex
	updates []map[string]any
	adds    []map[string]any
}

func (s *contactsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/private/api/v2/json/contacts/list":
		switch r.URL.Query().Get("query") {
		case "Ann":
			io.WriteString(w, `{"response":{"contacts":[{"id":5,"name":"Ann","company_name":"Old"}]}}`)
		case "Broken":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNoContent)
		}

	case "/private/api/v2/json/contacts/set":
		var body struct {
			Request struct {
				Contacts map[string]map[string]any `json:"contacts"`
			} `json:"request"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if add, ok := body.Request.Contacts["add"]; ok {
			s.adds = append(s.adds, add)
			io.WriteString(w, `{"response":{"contacts":{"add":[{"id":6}]}}}`)
			return
		}
		s.updates = append(s.updates, body.Request.Contacts["update"])
		io.WriteString(w, `{"response":{"contacts":{"update":[{"id":5}]}}}`)

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newCommand(fs afero.Fs) (*Command, *cli.MockUi) {
	ui := cli.NewMockUi()
	b := base.NewCommand(hclog.NewNullLogger(), ui)
	b.Fs = fs
	return &Command{Command: b}, ui
}

func TestCommand_Import(t *testing.T) {
	server := &contactsServer{}
	mockServer := httptest.NewServer(server)
	defer mockServer.Close()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/contacts.yaml", []byte(`
- Name: Ann
  companyName: New
- name: Bob
- name: Broken
`), 0o644))

	c, ui := newCommand(fs)
	code := c.Run([]string{
		"-config", writeConfig(t, mockServer.URL),
		"-entity", "contacts",
		"-file", "/data/contacts.yaml",
	})
	assert.Equal(t, 1, code)

	var summary Summary
	require.NoError(t, json.Unmarshal([]byte(ui.OutputWriter.String()), &summary))
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, []int64{5, 6}, summary.IDs)
	assert.Contains(t, ui.ErrorWriter.String(), "record 2")

	server.mu.Lock()
	defer server.mu.Unlock()

	// The existing contact keeps its company.
	require.Len(t, server.updates, 1)
	assert.Equal(t, "Old", server.updates[0]["company_name"])
	assert.NotNil(t, server.updates[0]["last_modified"])

	require.Len(t, server.adds, 1)
	assert.Equal(t, "Bob", server.adds[0]["name"])
}

func TestCommand_DryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "contacts.json", []byte(`[{"Name": "Ann", "linkedLeadsId": [1, 2]}]`), 0o644))

	c, ui := newCommand(fs)
	code := c.Run([]string{"-file", "contacts.json", "-dry-run"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	assert.JSONEq(t, `[{"name": "Ann", "linked_leads_id": [1, 2]}]`, ui.OutputWriter.String())
	assert.Contains(t, ui.ErrorWriter.String(), "DRY RUN")
}

func TestCommand_RequiresFile(t *testing.T) {
	c, ui := newCommand(afero.NewMemMapFs())
	assert.Equal(t, 1, c.Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "file flag is required")
}

func TestReadRecords(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "a.json", []byte(`[{"statusId": 142}]`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "b.yml", []byte("- Status ID: 142\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "c.csv", []byte("name\nAnn\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "d.json", []byte(`{"not": "a list"}`), 0o644))

	recs, err := ReadRecords(fs, "a.json")
	require.NoError(t, err)
	assert.Equal(t, []amocrm.Record{{"status_id": json.Number("142")}}, recs)

	recs, err = ReadRecords(fs, "b.yml")
	require.NoError(t, err)
	assert.Equal(t, []amocrm.Record{{"status_id": 142}}, recs)

	_, err = ReadRecords(fs, "c.csv")
	assert.ErrorContains(t, err, "unsupported file extension")

	_, err = ReadRecords(fs, "d.json")
	assert.ErrorContains(t, err, "error parsing")

	_, err = ReadRecords(fs, "missing.json")
	assert.ErrorContains(t, err, "error reading")
}
