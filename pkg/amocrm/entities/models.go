package entities

import (
	"fmt"

	"github.com/hashicorp-forge/amocrm/pkg/amocrm"
)

// Tag is a label attached to a lead, contact or company.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomFieldValue is one value of a custom field.
type CustomFieldValue struct {
	Value string `json:"value"`
	Enum  string `json:"enum"`
}

// CustomField holds the values an object carries for one custom field.
type CustomField struct {
	ID     int64              `json:"id"`
	Name   string             `json:"name"`
	Code   string             `json:"code"`
	Values []CustomFieldValue `json:"values"`
}

// Lead is a deal.
type Lead struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	StatusID          int64        `json:"status_id"`
	Price             float64      `json:"price"`
	ResponsibleUserID int64        `json:"responsible_user_id"`
	DateCreate        int64        `json:"date_create"`
	LastModified      int64        `json:"last_modified"`
	Tags              []Tag        `json:"tags"`
	CustomFields      CustomFields `json:"custom_fields"`
}

type Contact struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	CompanyName       string       `json:"company_name"`
	LinkedCompanyID   int64        `json:"linked_company_id"`
	LinkedLeadsID     []int64      `json:"linked_leads_id"`
	ResponsibleUserID int64        `json:"responsible_user_id"`
	DateCreate        int64        `json:"date_create"`
	LastModified      int64        `json:"last_modified"`
	Tags              []Tag        `json:"tags"`
	CustomFields      CustomFields `json:"custom_fields"`
}

type Company struct {
	ID                int64        `json:"id"`
	Name              string       `json:"name"`
	LinkedLeadsID     []int64      `json:"linked_leads_id"`
	ResponsibleUserID int64        `json:"responsible_user_id"`
	DateCreate        int64        `json:"date_create"`
	LastModified      int64        `json:"last_modified"`
	Tags              []Tag        `json:"tags"`
	CustomFields      CustomFields `json:"custom_fields"`
}

// Task is a to-do attached to an element (see ElementLead and friends).
type Task struct {
	ID                int64  `json:"id"`
	ElementID         int64  `json:"element_id"`
	ElementType       int    `json:"element_type"`
	TaskType          string `json:"task_type"`
	Text              string `json:"text"`
	Status            int    `json:"status"`
	CompleteTill      int64  `json:"complete_till"`
	ResponsibleUserID int64  `json:"responsible_user_id"`
}

type Note struct {
	ID                int64  `json:"id"`
	ElementID         int64  `json:"element_id"`
	ElementType       int    `json:"element_type"`
	NoteType          int    `json:"note_type"`
	Text              string `json:"text"`
	ResponsibleUserID int64  `json:"responsible_user_id"`
	DateCreate        int64  `json:"date_create"`
}

// Decode converts a listed record into a typed model.
func Decode[T any](rec amocrm.Record) (*T, error) {
	var out T
	if err := amocrm.Decode(rec, &out); err != nil {
		return nil, fmt.Errorf("error decoding %T: %w", out, err)
	}
	return &out, nil
}

// DecodeAll converts every record, stopping at the first failure.
func DecodeAll[T any](recs []amocrm.Record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for i, rec := range recs {
		v, err := Decode[T](rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, *v)
	}
	return out, nil
}

// CustomFields is the list of custom field values of an object.
type CustomFields []CustomField

// Value returns the first value of the named custom field, or "".
func (f CustomFields) Value(name string) string {
	for _, cf := range f {
		if (cf.Name == name || cf.Code == name) && len(cf.Values) > 0 {
			return cf.Values[0].Value
		}
	}
	return ""
}
