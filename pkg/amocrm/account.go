package amocrm

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// accountCache holds account metadata fetched once and reused for the
// lifetime of the cache. Concurrent first loads share a single fetch.
type accountCache struct {
	mu    sync.RWMutex
	info  Record
	group singleflight.Group
}

func (c *accountCache) get() (Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.info, c.info != nil
}

func (c *accountCache) load(ctx context.Context, fetch func(context.Context) (Record, bool, error)) (Record, error) {
	if info, ok := c.get(); ok {
		return info, nil
	}

	// Waiters stop on their own ctx; the shared fetch ignores cancellation.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(OpAccountInfo, func() (any, error) {
		if info, ok := c.get(); ok {
			return info, nil
		}
		info, cacheable, err := fetch(fetchCtx)
		if err != nil {
			return nil, err
		}
		if cacheable {
			c.mu.Lock()
			c.info = info
			c.mu.Unlock()
		}
		return info, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Record), nil
	}
}

// AccountUser is one user of the account.
type AccountUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

// EnsureLoaded fetches account metadata unless it is already cached.
func (m *Manager) EnsureLoaded(ctx context.Context) error {
	_, err := m.AccountInfo(ctx)
	return err
}

// AccountInfo returns the account metadata: custom field definitions, lead
// statuses, note and task types and users. It is fetched on first use and
// never refreshed.
func (m *Manager) AccountInfo(ctx context.Context) (Record, error) {
	return m.account.load(ctx, func(ctx context.Context) (Record, bool, error) {
		v, extracted, err := m.do(ctx, OpAccountInfo, Record{})
		if err != nil {
			return nil, false, err
		}
		info, ok := asRecord(v)
		if !extracted || !ok {
			m.logger.Warn("account info response is not an object, not caching",
				"type", fmt.Sprintf("%T", v))
			return Record{}, false, nil
		}
		return info, true, nil
	})
}

// CustomFields returns the account's custom field definitions for the
// manager's entity, keyed by field name.
func (m *Manager) CustomFields(ctx context.Context) (map[string]Record, error) {
	info, err := m.AccountInfo(ctx)
	if err != nil {
		return nil, err
	}

	fields := map[string]Record{}
	byEntity, ok := asRecord(info["custom_fields"])
	if !ok {
		return fields, nil
	}
	for _, item := range recordsOf(byEntity[m.entity.Name]) {
		name, _ := item["name"].(string)
		fields[name] = item
	}
	return fields, nil
}

// LeadsStatuses returns the account's lead pipeline statuses.
func (m *Manager) LeadsStatuses(ctx context.Context) ([]Record, error) {
	return m.accountList(ctx, "leads_statuses")
}

// NoteTypes returns the account's note types.
func (m *Manager) NoteTypes(ctx context.Context) ([]Record, error) {
	return m.accountList(ctx, "note_types")
}

// TaskTypes returns the account's task types.
func (m *Manager) TaskTypes(ctx context.Context) ([]Record, error) {
	return m.accountList(ctx, "task_types")
}

func (m *Manager) accountList(ctx context.Context, key string) ([]Record, error) {
	info, err := m.AccountInfo(ctx)
	if err != nil {
		return nil, err
	}
	return recordsOf(info[key]), nil
}

// ResponsibleUserID resolves the configured responsible user to a user id.
// A numeric value is used as is; anything else is matched against the
// account users' login and name.
func (m *Manager) ResponsibleUserID(ctx context.Context) (int64, error) {
	if id, err := strconv.ParseInt(m.responsibleUser, 10, 64); err == nil {
		return id, nil
	}
	if m.responsibleUser == "" {
		return 0, ErrResponsibleUserNotFound
	}

	info, err := m.AccountInfo(ctx)
	if err != nil {
		return 0, err
	}

	for _, item := range recordsOf(info["users"]) {
		var user AccountUser
		if err := Decode(item, &user); err != nil {
			m.logger.Debug("skipping undecodable account user", "error", err)
			continue
		}
		if user.Login == m.responsibleUser || user.Name == m.responsibleUser {
			return user.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrResponsibleUserNotFound, m.responsibleUser)
}

// recordsOf returns the object elements of a JSON array, skipping anything
// else.
func recordsOf(v any) []Record {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if rec, ok := asRecord(item); ok {
			out = append(out, rec)
		}
	}
	return out
}
