package amocrm

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
)

// DefaultListLimit is the page size All uses when none is given.
const DefaultListLimit = 100

// NoLimit makes All omit the limit_rows parameter.
const NoLimit = -1

type settings struct {
	registry        *Registry
	logger          hclog.Logger
	format          string
	clock           func() time.Time
	responsibleUser string
}

func defaultSettings() settings {
	return settings{
		registry: DefaultRegistry(),
		logger:   hclog.NewNullLogger(),
		format:   DefaultFormat,
		clock:    time.Now,
	}
}

// Option configures a Client or Manager.
type Option func(*settings)

// WithRegistry replaces the built-in operation registry.
func WithRegistry(r *Registry) Option {
	return func(s *settings) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithLogger sets the logger. Managers log under a sub-logger named after
// their entity.
func WithLogger(l hclog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFormat sets the serialization tag used in paths. Default "json".
func WithFormat(format string) Option {
	return func(s *settings) {
		if format != "" {
			s.format = format
		}
	}
}

// WithClock sets the time source used for timestamp injection.
func WithClock(clock func() time.Time) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithResponsibleUser sets the user, by id, login or name, that
// ResponsibleUserID resolves.
func WithResponsibleUser(user string) Option {
	return func(s *settings) {
		s.responsibleUser = user
	}
}

// Manager executes operations for one entity.
type Manager struct {
	settings

	entity    Entity
	transport Transport
	account   *accountCache
}

// NewManager returns a manager for entity with its own account cache.
func NewManager(entity Entity, transport Transport, opts ...Option) *Manager {
	return NewClient(transport, opts...).Manager(entity)
}

// Entity returns the manager's entity descriptor.
func (m *Manager) Entity() Entity {
	return m.entity
}

// Do executes the named operation with payload and returns the extracted
// result. payload is never modified. Transport errors are returned
// unchanged; a response that does not have the expected shape is returned
// whole instead of the extracted value.
func (m *Manager) Do(ctx context.Context, operation string, payload Record) (any, error) {
	v, _, err := m.do(ctx, operation, payload)
	return v, err
}

// do is Do that also reports whether the result was extracted from the
// envelope.
func (m *Manager) do(ctx context.Context, operation string, payload Record) (any, bool, error) {
	op, ok := m.registry.Lookup(operation)
	if !ok {
		return nil, false, fmt.Errorf("%w: %q", ErrUnknownOperation, operation)
	}

	name := op.EntityName(m.entity.Name)
	path := BuildPath(m.format, m.entity.Name, op)

	data := payload.Clone()
	if op.TimestampField != "" {
		if _, ok := data[op.TimestampField]; !ok {
			data[op.TimestampField] = m.clock().Unix()
		}
	}
	body := Wrap(name, op.Container, data)

	m.logger.Info("sending request",
		"operation", operation,
		"method", op.HTTPMethod(),
		"path", path,
	)
	m.logger.Debug("request payload", "payload", body)

	resp, err := m.transport.Execute(ctx, Request{
		Method:  op.HTTPMethod(),
		Path:    path,
		Payload: body,
	})
	if err != nil {
		m.logger.Error("request failed",
			"operation", operation,
			"path", path,
			"error", err,
		)
		return nil, false, err
	}

	var raw any
	if resp != nil {
		raw = resp.Body
	}
	v, ok := unwrap(name, op.Result, op.ResultUnscoped, raw)
	if !ok {
		m.logger.Warn("response does not have the expected shape",
			"operation", operation,
			"path", path,
		)
	}
	return v, ok, nil
}

// ListOptions filters and pages All.
type ListOptions struct {
	// Limit is the page size. Zero means DefaultListLimit, NoLimit omits it.
	Limit int

	// Offset skips that many rows. Zero and negative values are not sent.
	Offset int

	// Query holds additional filter parameters.
	Query Record
}

// All lists objects. Both a nil and an empty result mean zero matches, as
// does a response without the entity's list in it.
func (m *Manager) All(ctx context.Context, opts ListOptions) ([]Record, error) {
	request := opts.Query.Clone()
	switch {
	case opts.Limit == 0:
		request["limit_rows"] = DefaultListLimit
	case opts.Limit > 0:
		request["limit_rows"] = opts.Limit
	}
	if opts.Offset > 0 {
		request["limit_offset"] = opts.Offset
	}

	v, ok, err := m.do(ctx, OpList, request)
	if err != nil || !ok {
		return nil, err
	}
	return m.toRecords(v), nil
}

func (m *Manager) toRecords(v any) []Record {
	if isEmpty(v) {
		return nil
	}

	if rec, ok := asRecord(v); ok {
		return []Record{m.entity.convert(rec)}
	}

	items, ok := v.([]any)
	if !ok {
		m.logger.Warn("list response is neither an object nor an array",
			"type", fmt.Sprintf("%T", v))
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		rec, ok := asRecord(item)
		if !ok {
			m.logger.Debug("skipping non-object list item", "type", fmt.Sprintf("%T", item))
			continue
		}
		out = append(out, m.entity.convert(rec))
	}
	return out
}

// Get returns the object with the given id. It fails with a *NotFoundError
// when nothing matches.
func (m *Manager) Get(ctx context.Context, id any) (Record, error) {
	results, err := m.All(ctx, ListOptions{
		Limit: 1,
		Query: Record{"id": id, "type": m.entity.singular()},
	})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, &NotFoundError{Entity: m.entity.Name, ID: id}
	}
	return results[0], nil
}

// Search returns the first object matching query, or nil when there is
// none.
func (m *Manager) Search(ctx context.Context, query string) (Record, error) {
	q := Record{"query": query}
	if m.entity.ObjectType != "" {
		q["type"] = m.entity.ObjectType
	}

	results, err := m.All(ctx, ListOptions{Limit: 1, Query: q})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// Add creates an object and returns its id as found in the response.
func (m *Manager) Add(ctx context.Context, fields Record) (any, error) {
	return m.Do(ctx, OpAdd, m.entity.payloads().AddPayload(fields))
}

// Update modifies an object and returns its id. The payload is stamped with
// last_modified unless fields carries it.
func (m *Manager) Update(ctx context.Context, fields Record) (any, error) {
	return m.Do(ctx, OpUpdate, m.entity.payloads().UpdatePayload(fields))
}

// CreateOrUpdate updates the object matching the entity's natural key, or
// adds a new one.
func (m *Manager) CreateOrUpdate(ctx context.Context, fields Record) (any, error) {
	return resolveUpsert(ctx, m, m.entity.NaturalKey, m.entity.payloads().UpsertPayload(fields))
}
