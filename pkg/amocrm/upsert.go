package amocrm

import (
	"context"
	"fmt"
)

type upserter interface {
	Search(ctx context.Context, query string) (Record, error)
	Add(ctx context.Context, fields Record) (any, error)
	Update(ctx context.Context, fields Record) (any, error)
}

type upsertState int

const (
	// direct adds without looking anything up.
	direct upsertState = iota
	// needsLookup searches by natural key before choosing add or update.
	needsLookup
)

func upsertStateFor(naturalKey string, fields Record) upsertState {
	if naturalKey != "" && fields.Has(naturalKey) {
		return needsLookup
	}
	return direct
}

// resolveUpsert runs search, merge and add-or-update once. When an existing
// object is found its fields take precedence over the given ones.
func resolveUpsert(ctx context.Context, u upserter, naturalKey string, fields Record) (any, error) {
	if upsertStateFor(naturalKey, fields) == direct {
		return u.Add(ctx, fields)
	}

	existing, err := u.Search(ctx, fmt.Sprint(fields[naturalKey]))
	if err != nil {
		return nil, fmt.Errorf("error searching by %s: %w", naturalKey, err)
	}
	if len(existing) == 0 {
		return u.Add(ctx, fields)
	}

	// Existing values win over the caller's for shared keys.
	return u.Update(ctx, mergeRecords(fields, existing))
}

// mergeRecords returns a new record with next's fields overlaid on base.
func mergeRecords(base, next Record) Record {
	merged := base.Clone()
	for k, v := range next {
		merged[k] = v
	}
	return merged
}
