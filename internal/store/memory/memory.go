// Package memory implements store.Store in process memory.
// It backs unit tests of the policy and HTTP layers; it is not a production backend.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/pawmart/pawmart/internal/model"
	"github.com/pawmart/pawmart/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store holds named collections of documents.
type Store struct {
	mu          sync.Mutex
	collections map[string]*Collection
	unique      map[string][]string
	failWith    error
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		collections: make(map[string]*Collection),
		unique:      make(map[string][]string),
	}
}

// WithUniqueField declares a unique field on a collection, like a unique index.
func (s *Store) WithUniqueField(collection, field string) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unique[collection] = append(s.unique[collection], field)
	return s
}

// FailWith makes every subsequent operation fail with err wrapped in store.ErrUnavailable.
// Passing nil restores normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// Collection returns the named collection, creating it on first use.
func (s *Store) Collection(name string) store.Collection {
	return s.collection(name)
}

func (s *Store) collection(name string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &Collection{name: name, parent: s}
		s.collections[name] = c
	}
	return c
}

// Len reports how many documents a collection holds.
func (s *Store) Len(name string) int {
	c := s.collection(name)
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.docs)
}

// ParseID accepts ULID identifiers.
func (s *Store) ParseID(raw string) (any, error) {
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidID, raw)
	}
	return id.String(), nil
}

// Ping reports the configured failure, if any.
func (s *Store) Ping(ctx context.Context) error {
	return s.check("ping")
}

// Close is a no-op.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) check(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return fmt.Errorf("%w: %s: %w", store.ErrUnavailable, op, s.failWith)
	}
	return nil
}

func (s *Store) uniqueFields(collection string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.unique[collection])
}

// Collection is an ordered list of documents.
type Collection struct {
	mu     sync.Mutex
	name   string
	parent *Store
	docs   []model.Document
}

// Find returns clones of all matching documents.
func (c *Collection) Find(ctx context.Context, filter store.Filter, opts store.FindOptions) ([]model.Document, error) {
	if err := c.parent.check("find " + c.name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.Document, 0)
	for _, d := range c.docs {
		if matches(d, filter) {
			out = append(out, d.Clone())
		}
	}

	if opts.Sort != nil {
		field, dir := opts.Sort.Field, int(opts.Sort.Direction)
		slices.SortStableFunc(out, func(a, b model.Document) int {
			return dir * compareValues(a[field], b[field])
		})
	}

	if opts.Limit > 0 && int64(len(out)) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// FindOne returns the first matching document.
func (c *Collection) FindOne(ctx context.Context, filter store.Filter) (model.Document, error) {
	if err := c.parent.check("find one " + c.name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.docs {
		if matches(d, filter) {
			return d.Clone(), nil
		}
	}
	return nil, store.ErrNotFound
}

// InsertOne stores a copy of doc under a fresh ULID.
func (c *Collection) InsertOne(ctx context.Context, doc model.Document) (*store.InsertResult, error) {
	if err := c.parent.check("insert " + c.name); err != nil {
		return nil, err
	}
	unique := c.parent.uniqueFields(c.name)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, field := range unique {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for _, d := range c.docs {
			if reflect.DeepEqual(d[field], v) {
				return nil, fmt.Errorf("%w: %s.%s", store.ErrDuplicate, c.name, field)
			}
		}
	}

	stored := doc.Without(model.FieldID)
	id := ulid.Make().String()
	stored[model.FieldID] = id
	c.docs = append(c.docs, stored)

	return &store.InsertResult{InsertedID: id}, nil
}

// UpdateOne merges set into the first matching document.
func (c *Collection) UpdateOne(ctx context.Context, filter store.Filter, set model.Document) (*store.UpdateResult, error) {
	if err := c.parent.check("update " + c.name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.docs {
		if !matches(d, filter) {
			continue
		}
		modified := false
		for k, v := range set {
			if k == model.FieldID {
				continue
			}
			if !reflect.DeepEqual(d[k], v) {
				d[k] = v
				modified = true
			}
		}
		res := &store.UpdateResult{MatchedCount: 1}
		if modified {
			res.ModifiedCount = 1
		}
		return res, nil
	}
	return &store.UpdateResult{}, nil
}

// DeleteOne removes the first matching document.
func (c *Collection) DeleteOne(ctx context.Context, filter store.Filter) (*store.DeleteResult, error) {
	if err := c.parent.check("delete " + c.name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.docs {
		if matches(d, filter) {
			c.docs = slices.Delete(c.docs, i, i+1)
			return &store.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &store.DeleteResult{}, nil
}

func matches(d model.Document, filter store.Filter) bool {
	for k, want := range filter {
		got, ok := d[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	}
	// Missing or mixed-type values sort first.
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
