package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"filmart-backend-go/internal/models"
)

var ErrConflict = errors.New("duplicate key")

// ConflictError reports a unique index violation on Field.
type ConflictError struct {
	Collection string
	Field      string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: duplicate key", e.Collection)
	}
	return fmt.Sprintf("%s: duplicate %s", e.Collection, e.Field)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Spec describes a collection: its name, unique fields, secondary indexes and
// which fields hold timestamps.
type Spec struct {
	Name       string
	Unique     []string
	Indexes    [][]SortField
	TimeFields []string
}

func (s Spec) isTime(field string) bool {
	if field == "createdAt" || field == "updatedAt" {
		return true
	}
	for _, f := range s.TimeFields {
		if f == field {
			return true
		}
	}
	return false
}

type Op int

const (
	OpEq Op = iota
	OpGte
	OpLt
	OpContains
)

type Cond struct {
	Field string
	Op    Op
	Value any
}

func Eq(field string, value any) Cond { return Cond{Field: field, Op: OpEq, Value: value} }

func Gte(field string, value any) Cond { return Cond{Field: field, Op: OpGte, Value: value} }

func Lt(field string, value any) Cond { return Cond{Field: field, Op: OpLt, Value: value} }

// Contains matches a case-insensitive substring. The needle is matched
// literally.
func Contains(field, needle string) Cond { return Cond{Field: field, Op: OpContains, Value: needle} }

// Between matches the half-open range [from, to).
func Between(field string, from, to any) []Cond {
	return []Cond{Gte(field, from), Lt(field, to)}
}

type SortField struct {
	Field string
	Desc  bool
}

func Asc(field string) SortField  { return SortField{Field: field} }
func Desc(field string) SortField { return SortField{Field: field, Desc: true} }

// Query is a conjunction of Where conditions, optionally combined with a
// disjunction of AnyOf conditions.
type Query struct {
	Where []Cond
	AnyOf []Cond
	Sort  []SortField
}

func (q Query) And(conds ...Cond) Query {
	q.Where = append(append([]Cond{}, q.Where...), conds...)
	return q
}

func (q Query) Or(conds ...Cond) Query {
	q.AnyOf = append(append([]Cond{}, q.AnyOf...), conds...)
	return q
}

func (q Query) OrderBy(fields ...SortField) Query {
	q.Sort = append(append([]SortField{}, q.Sort...), fields...)
	return q
}

type GroupCount struct {
	ID    any   `json:"_id"`
	Count int64 `json:"count"`
}

// Backend is a document database holding one collection per Spec.
type Backend interface {
	Name() string
	Prepare(ctx context.Context, specs ...Spec) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
	collection(spec Spec) driver
}

type decodeFunc func(id string, decode func(dst any) error) error

type driver interface {
	find(ctx context.Context, q Query, each decodeFunc) error
	get(ctx context.Context, id string, dst any) (bool, error)
	insert(ctx context.Context, doc any) (string, error)
	replace(ctx context.Context, id string, doc any) (bool, error)
	delete(ctx context.Context, id string) (bool, error)
	count(ctx context.Context, q Query) (int64, error)
	countBy(ctx context.Context, field string) ([]GroupCount, error)
}

// Document is a pointer to a model embedding models.Meta.
type Document[T any] interface {
	*T
	Metadata() *models.Meta
}

// Collection is a typed view over one backend collection.
type Collection[T any] struct {
	spec Spec
	d    driver
	meta func(*T) *models.Meta
}

func Bind[T any, P Document[T]](b Backend, spec Spec) *Collection[T] {
	return &Collection[T]{
		spec: spec,
		d:    b.collection(spec),
		meta: func(doc *T) *models.Meta { return P(doc).Metadata() },
	}
}

func (c *Collection[T]) Name() string { return c.spec.Name }

func (c *Collection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	items := []T{}
	err := c.d.find(ctx, q, func(id string, decode func(any) error) error {
		var item T
		if err := decode(&item); err != nil {
			return err
		}
		c.meta(&item).ID = id
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", c.spec.Name, err)
	}
	return items, nil
}

// FindOne returns the first match or nil.
func (c *Collection[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	items, err := c.Find(ctx, q)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// Get returns nil when no document has the id, including malformed ids.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	var item T
	ok, err := c.d.get(ctx, id, &item)
	if err != nil {
		return nil, fmt.Errorf("%s: get: %w", c.spec.Name, err)
	}
	if !ok {
		return nil, nil
	}
	c.meta(&item).ID = id
	return &item, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) error {
	meta := c.meta(doc)
	now := stamp()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	id, err := c.d.insert(ctx, doc)
	if err != nil {
		return wrap(c.spec.Name, "insert", err)
	}
	meta.ID = id
	return nil
}

// Replace overwrites the stored document with doc. It reports false when
// the document no longer exists.
func (c *Collection[T]) Replace(ctx context.Context, doc *T) (bool, error) {
	meta := c.meta(doc)
	meta.UpdatedAt = stamp()
	ok, err := c.d.replace(ctx, meta.ID, doc)
	if err != nil {
		return false, wrap(c.spec.Name, "replace", err)
	}
	return ok, nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := c.d.delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%s: delete: %w", c.spec.Name, err)
	}
	return ok, nil
}

func (c *Collection[T]) Count(ctx context.Context, q Query) (int64, error) {
	n, err := c.d.count(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", c.spec.Name, err)
	}
	return n, nil
}

func (c *Collection[T]) CountBy(ctx context.Context, field string) ([]GroupCount, error) {
	groups, err := c.d.countBy(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("%s: count by %s: %w", c.spec.Name, field, err)
	}
	return groups, nil
}

func wrap(collection, op string, err error) error {
	if errors.Is(err, ErrConflict) {
		return err
	}
	return fmt.Errorf("%s: %s: %w", collection, op, err)
}

// stamp truncates to milliseconds so every backend round-trips the value.
func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// Open picks a backend from the URL scheme.
func Open(ctx context.Context, rawURL, database string) (Backend, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	switch parsed.Scheme {
	case "mongodb", "mongodb+srv":
		if database == "" {
			database = strings.TrimPrefix(parsed.Path, "/")
		}
		if database == "" {
			database = "siamese-filmart"
		}
		return OpenMongo(ctx, rawURL, database)
	case "postgres", "postgresql":
		return OpenPostgres(ctx, rawURL)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", parsed.Scheme)
	}
}
