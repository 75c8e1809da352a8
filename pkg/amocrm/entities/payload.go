package entities

import (
	"strings"
	"time"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

// Element types tasks and notes can be attached to.
const (
	ElementContact = 1
	ElementLead    = 2
	ElementCompany = 3
	ElementTask    = 4
)

var elementTypes = map[string]int{
	"contact":   ElementContact,
	"contacts":  ElementContact,
	"lead":      ElementLead,
	"leads":     ElementLead,
	"company":   ElementCompany,
	"companies": ElementCompany,
	"task":      ElementTask,
	"tasks":     ElementTask,
}

// ElementPayload prepares task and note payloads. An element_type given by
// name ("lead") is replaced with its numeric code, and time.Time values of
// complete_till are sent as unix seconds.
type ElementPayload struct{}

var _ amocrm.PayloadBuilder = ElementPayload{}

func (ElementPayload) AddPayload(fields amocrm.Record) amocrm.Record {
	return normalizeElement(fields)
}

func (ElementPayload) UpdatePayload(fields amocrm.Record) amocrm.Record {
	return normalizeElement(fields)
}

func (ElementPayload) UpsertPayload(fields amocrm.Record) amocrm.Record {
	return normalizeElement(fields)
}

func normalizeElement(fields amocrm.Record) amocrm.Record {
	out := fields.Clone()
	if name, ok := out["element_type"].(string); ok {
		if code, ok := elementTypes[strings.ToLower(name)]; ok {
			out["element_type"] = code
		}
	}
	if till, ok := out["complete_till"].(time.Time); ok {
		out["complete_till"] = till.Unix()
	}
	return out
}
