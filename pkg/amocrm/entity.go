package amocrm

// PayloadBuilder computes the payload each write verb sends for an entity.
// Implementations must not modify the record they are given.
type PayloadBuilder interface {
	AddPayload(fields Record) Record
	UpdatePayload(fields Record) Record
	UpsertPayload(fields Record) Record
}

// Passthrough is the PayloadBuilder that sends fields unchanged.
type Passthrough struct{}

func (Passthrough) AddPayload(fields Record) Record    { return fields }
func (Passthrough) UpdatePayload(fields Record) Record { return fields }
func (Passthrough) UpsertPayload(fields Record) Record { return fields }

var _ PayloadBuilder = Passthrough{}

// Entity describes one CRM object type.
type Entity struct {
	// Name is the plural API segment, e.g. "leads".
	Name string

	// Singular is the type name sent in by-id lookups. Defaults to Name
	// without its last character.
	Singular string

	// NaturalKey is the field used to find an existing object before an
	// upsert. Empty disables the lookup.
	NaturalKey string

	// ObjectType narrows searches to a sub-type, e.g. "contact".
	ObjectType string

	// Payloads shapes write payloads. Nil means Passthrough.
	Payloads PayloadBuilder

	// Convert maps each listed item to the caller's record shape. Nil means
	// identity.
	Convert func(Record) Record
}

func (e Entity) singular() string {
	if e.Singular != "" {
		return e.Singular
	}
	if len(e.Name) == 0 {
		return ""
	}
	return e.Name[:len(e.Name)-1]
}

func (e Entity) payloads() PayloadBuilder {
	if e.Payloads == nil {
		return Passthrough{}
	}
	return e.Payloads
}

func (e Entity) convert(rec Record) Record {
	if e.Convert == nil {
		return rec
	}
	return e.Convert(rec)
}
