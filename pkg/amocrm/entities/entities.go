package entities

import (
	"sort"
	"strings"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

var (
	// Leads are deals. They are matched by name before an upsert.
	Leads = amocrm.Entity{
		Name:       "leads",
		NaturalKey: "name",
	}

	// Contacts are people; searches are narrowed to the contact sub-type.
	Contacts = amocrm.Entity{
		Name:       "contacts",
		NaturalKey: "name",
		ObjectType: "contact",
	}

	// Companies share the contacts search index under the company sub-type.
	Companies = amocrm.Entity{
		Name:       "companies",
		Singular:   "company",
		NaturalKey: "name",
		ObjectType: "company",
	}

	Tasks = amocrm.Entity{
		Name:     "tasks",
		Payloads: ElementPayload{},
	}

	Notes = amocrm.Entity{
		Name:     "notes",
		Payloads: ElementPayload{},
	}
)

// All returns every built-in entity, sorted by name.
func All() []amocrm.Entity {
	all := []amocrm.Entity{Leads, Contacts, Companies, Tasks, Notes}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all
}

// ByName finds a built-in entity by its API name, ignoring case.
func ByName(name string) (amocrm.Entity, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range All() {
		if e.Name == name {
			return e, true
		}
	}
	return amocrm.Entity{}, false
}

// Names returns the API names of the built-in entities.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, e := range all {
		names[i] = e.Name
	}
	return names
}
