package store

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"ascenda/pkg/domain"
)

// ListOptions tunes List and Filter. SortBy names a field by its json tag; a
// leading "-" sorts descending. Limit truncates the result when positive.
// Without SortBy, records come back in insertion order.
type ListOptions struct {
	SortBy string
	Limit  int
}

// Collection is the generic query engine bound to one named in-memory slice of
// the store's dataset. It does not own state: reads view the store's slice,
// Create and Update mutate it in place and write the whole dataset through the
// active adapter, since the persistence layer has no notion of partial writes.
type Collection[T any] struct {
	name  string
	items *[]T
	// id reads a record's collection-scoped identifier.
	id func(*T) string
	// base exposes the generated-record fields; nil for seed-keyed records
	// (users), whose ids are never generated.
	base  func(*T) *domain.Base
	mu    *sync.RWMutex
	flush func(ctx context.Context) error
	now   func() time.Time
	newID func() string
}

// List returns all records, optionally sorted and truncated.
func (c *Collection[T]) List(opts ListOptions) []T {
	c.mu.RLock()
	out := append([]T(nil), *c.items...)
	c.mu.RUnlock()
	return applyOptions(out, opts)
}

// Filter returns records whose fields equal every criteria entry (conjunctive
// equality only; criteria keys are json tags).
func (c *Collection[T]) Filter(criteria map[string]any, opts ListOptions) []T {
	c.mu.RLock()
	var out []T
	for i := range *c.items {
		if matches(&(*c.items)[i], criteria) {
			out = append(out, (*c.items)[i])
		}
	}
	c.mu.RUnlock()
	return applyOptions(out, opts)
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range *c.items {
		if c.id(&(*c.items)[i]) == id {
			return (*c.items)[i], true
		}
	}
	var zero T
	return zero, false
}

// Create assigns a generated id and creation timestamps where applicable,
// appends the record, and writes the dataset through.
func (c *Collection[T]) Create(ctx context.Context, record T) (T, error) {
	c.mu.Lock()
	if c.base != nil {
		b := c.base(&record)
		if b.ID == "" {
			b.ID = c.newID()
		}
		now := c.now()
		b.CreatedAt = now
		b.UpdatedAt = now
	}
	*c.items = append(*c.items, record)
	c.mu.Unlock()
	if err := c.flush(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// Update applies the mutator to the record with the given id, stamps
// UpdatedAt, and writes the dataset through. Absent ids yield a
// domain.NotFoundError.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T)) (T, error) {
	c.mu.Lock()
	var updated *T
	for i := range *c.items {
		if c.id(&(*c.items)[i]) == id {
			mutate(&(*c.items)[i])
			if c.base != nil {
				c.base(&(*c.items)[i]).UpdatedAt = c.now()
			}
			updated = &(*c.items)[i]
			break
		}
	}
	if updated == nil {
		c.mu.Unlock()
		var zero T
		return zero, domain.NotFoundError{Collection: c.name, ID: id}
	}
	record := *updated
	c.mu.Unlock()
	if err := c.flush(ctx); err != nil {
		return record, err
	}
	return record, nil
}

func applyOptions[T any](items []T, opts ListOptions) []T {
	if opts.SortBy != "" {
		field := opts.SortBy
		desc := strings.HasPrefix(field, "-")
		if desc {
			field = field[1:]
		}
		sort.SliceStable(items, func(i, j int) bool {
			cmp := compareByField(&items[i], &items[j], field)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items
}

func matches[T any](record *T, criteria map[string]any) bool {
	v := reflect.ValueOf(record).Elem()
	for tag, want := range criteria {
		field, ok := fieldByTag(v, tag)
		if !ok || !equalValue(field, want) {
			return false
		}
	}
	return true
}

// fieldByTag resolves a json tag (or exported field name) against a struct,
// descending into embedded structs such as Base.
func fieldByTag(v reflect.Value, tag string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if field, ok := fieldByTag(v.Field(i), tag); ok {
				return field, true
			}
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == tag || sf.Name == tag {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func equalValue(field reflect.Value, want any) bool {
	switch field.Kind() {
	case reflect.String:
		if s, ok := want.(string); ok {
			return field.String() == s
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch w := want.(type) {
		case int:
			return field.Int() == int64(w)
		case int64:
			return field.Int() == w
		}
	case reflect.Bool:
		if b, ok := want.(bool); ok {
			return field.Bool() == b
		}
	}
	return reflect.DeepEqual(field.Interface(), want)
}

func compareByField[T any](a, b *T, tag string) int {
	fa, okA := fieldByTag(reflect.ValueOf(a).Elem(), tag)
	fb, okB := fieldByTag(reflect.ValueOf(b).Elem(), tag)
	if !okA || !okB {
		return 0
	}
	return compareValues(fa, fb)
}

func compareValues(a, b reflect.Value) int {
	switch a.Kind() {
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case a.Int() < b.Int():
			return -1
		case a.Int() > b.Int():
			return 1
		}
		return 0
	case reflect.Float32, reflect.Float64:
		switch {
		case a.Float() < b.Float():
			return -1
		case a.Float() > b.Float():
			return 1
		}
		return 0
	case reflect.Bool:
		switch {
		case !a.Bool() && b.Bool():
			return -1
		case a.Bool() && !b.Bool():
			return 1
		}
		return 0
	case reflect.Struct:
		if ta, ok := a.Interface().(time.Time); ok {
			tb := b.Interface().(time.Time)
			switch {
			case ta.Before(tb):
				return -1
			case ta.After(tb):
				return 1
			}
			return 0
		}
	}
	return 0
}
