package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryBackend keeps documents as JSON in process memory. It enforces
// unique fields like the database backends do and is used by tests and
// memory:// deployments.
type MemoryBackend struct {
	mu          sync.Mutex
	collections map[string]*memCollection
}

func NewMemory() *MemoryBackend {
	return &MemoryBackend{collections: map[string]*memCollection{}}
}

func (b *MemoryBackend) Name() string { return "memory" }

func (b *MemoryBackend) Prepare(context.Context, ...Spec) error { return nil }

func (b *MemoryBackend) Ping(context.Context) error { return nil }

func (b *MemoryBackend) Close(context.Context) error { return nil }

func (b *MemoryBackend) collection(spec Spec) driver {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c, ok := b.collections[spec.Name]; ok {
		return c
	}
	c := &memCollection{spec: spec, docs: map[string]*memDoc{}}
	b.collections[spec.Name] = c
	return c
}

type memDoc struct {
	seq    int64
	raw    []byte
	fields map[string]any
}

type memCollection struct {
	spec Spec
	mu   sync.RWMutex
	seq  int64
	docs map[string]*memDoc
}

func newMemDoc(doc any) (*memDoc, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return &memDoc{raw: raw, fields: fields}, nil
}

func (c *memCollection) find(_ context.Context, q Query, each decodeFunc) error {
	c.mu.RLock()
	type hit struct {
		id  string
		doc *memDoc
	}
	hits := []hit{}
	for id, doc := range c.docs {
		if c.matches(doc.fields, q) {
			hits = append(hits, hit{id: id, doc: doc})
		}
	}
	c.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		for _, f := range q.Sort {
			cmp := compareValues(hits[i].doc.fields[f.Field], hits[j].doc.fields[f.Field], c.spec.isTime(f.Field))
			if cmp == 0 {
				continue
			}
			if f.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return hits[i].doc.seq < hits[j].doc.seq
	})
	for _, h := range hits {
		raw := h.doc.raw
		if err := each(h.id, func(dst any) error { return json.Unmarshal(raw, dst) }); err != nil {
			return err
		}
	}
	return nil
}

func (c *memCollection) get(_ context.Context, id string, dst any) (bool, error) {
	c.mu.RLock()
	doc, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(doc.raw, dst)
}

func (c *memCollection) insert(_ context.Context, doc any) (string, error) {
	stored, err := newMemDoc(doc)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(id, stored.fields); err != nil {
		return "", err
	}
	c.seq++
	stored.seq = c.seq
	c.docs[id] = stored
	return id, nil
}

func (c *memCollection) replace(_ context.Context, id string, doc any) (bool, error) {
	stored, err := newMemDoc(doc)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.docs[id]
	if !ok {
		return false, nil
	}
	if err := c.checkUnique(id, stored.fields); err != nil {
		return false, err
	}
	stored.seq = prev.seq
	c.docs[id] = stored
	return true, nil
}

func (c *memCollection) delete(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return false, nil
	}
	delete(c.docs, id)
	return true, nil
}

func (c *memCollection) count(_ context.Context, q Query) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int64
	for _, doc := range c.docs {
		if c.matches(doc.fields, q) {
			n++
		}
	}
	return n, nil
}

func (c *memCollection) countBy(_ context.Context, field string) ([]GroupCount, error) {
	c.mu.RLock()
	index := map[string]int{}
	groups := []GroupCount{}
	for _, doc := range c.docs {
		value := doc.fields[field]
		key := fmt.Sprintf("%#v", value)
		if i, ok := index[key]; ok {
			groups[i].Count++
			continue
		}
		index[key] = len(groups)
		groups = append(groups, GroupCount{ID: value, Count: 1})
	}
	c.mu.RUnlock()
	sort.Slice(groups, func(i, j int) bool {
		return compareValues(groups[i].ID, groups[j].ID, false) < 0
	})
	return groups, nil
}

// checkUnique must be called with the write lock held.
func (c *memCollection) checkUnique(id string, fields map[string]any) error {
	for _, field := range c.spec.Unique {
		value, ok := fields[field]
		if !ok || value == nil {
			continue
		}
		for otherID, other := range c.docs {
			if otherID != id && reflect.DeepEqual(other.fields[field], value) {
				return &ConflictError{Collection: c.spec.Name, Field: field}
			}
		}
	}
	return nil
}

func (c *memCollection) matches(fields map[string]any, q Query) bool {
	for _, cond := range q.Where {
		if !c.matchCond(fields, cond) {
			return false
		}
	}
	if len(q.AnyOf) == 0 {
		return true
	}
	for _, cond := range q.AnyOf {
		if c.matchCond(fields, cond) {
			return true
		}
	}
	return false
}

func (c *memCollection) matchCond(fields map[string]any, cond Cond) bool {
	value := fields[cond.Field]
	switch cond.Op {
	case OpContains:
		s, ok := value.(string)
		return ok && strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(cond.Value)))
	case OpGte:
		return value != nil && compareValues(value, jsonValue(cond.Value), c.spec.isTime(cond.Field)) >= 0
	case OpLt:
		return value != nil && compareValues(value, jsonValue(cond.Value), c.spec.isTime(cond.Field)) < 0
	default:
		want := jsonValue(cond.Value)
		if c.spec.isTime(cond.Field) {
			return value != nil && compareValues(value, want, true) == 0
		}
		return reflect.DeepEqual(value, want)
	}
}

// jsonValue normalizes v to the shape encoding/json decodes into.
func jsonValue(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

// compareValues orders JSON-decoded values. nil sorts first.
func compareValues(a, b any, asTime bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if asTime {
		ta, errA := parseTime(a)
		tb, errB := parseTime(b)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
	}
	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			switch {
			case av < bv:
				return -1
			case av > bv:
				return 1
			}
			return 0
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			}
			return 1
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func parseTime(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("not a time: %v", v)
	}
	return time.Parse(time.RFC3339Nano, s)
}
