// Package docstore adapts Redis into the keyed-document store the domain
// repositories are written against: named collections of JSON documents with
// store-assigned ids, equality-filtered queries on top-level fields, and
// sub-collections for nested records.
//
// Each document lives at doc:<collection>:<id> with a set of ids at
// doc:<collection>:_ids. Field queries are linear scans over the collection;
// the data volumes here (one document per reserved title, one per pending
// code) keep that cheap. Deleting a parent document does not touch its
// sub-collections, matching the semantics of the document databases this
// adapter stands in for.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNoDocument is returned when a document id does not exist.
var ErrNoDocument = errors.New("docstore: no such document")

// Store is a handle to the document store.
type Store struct {
	rdb *redis.Client
}

// New creates a Store over the given Redis client.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Collection returns a handle to the named top-level collection.
func (s *Store) Collection(name string) *Collection {
	return &Collection{rdb: s.rdb, name: name}
}

// Ping verifies connectivity to the backing store.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Document is a raw document with its store-assigned id.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document body into out.
func (d Document) Decode(out any) error {
	return json.Unmarshal(d.Data, out)
}

// Collection is a named set of JSON documents.
type Collection struct {
	rdb  *redis.Client
	name string
}

// Sub returns the sub-collection of the given document.
func (c *Collection) Sub(parentID, name string) *Collection {
	return &Collection{rdb: c.rdb, name: c.name + ":" + parentID + ":" + name}
}

func (c *Collection) docKey(id string) string {
	return "doc:" + c.name + ":" + id
}

func (c *Collection) idsKey() string {
	return "doc:" + c.name + ":_ids"
}

// Set writes the document under the given id, creating or overwriting it.
func (c *Collection) Set(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("docstore: marshal document: %w", err)
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, c.docKey(id), data, 0)
	pipe.SAdd(ctx, c.idsKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Add writes the document under a fresh store-assigned id and returns it.
func (c *Collection) Add(ctx context.Context, doc any) (string, error) {
	id := uuid.NewString()
	if err := c.Set(ctx, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

// Get reads the document with the given id into out.
// Returns ErrNoDocument when the id does not exist.
func (c *Collection) Get(ctx context.Context, id string, out any) error {
	data, err := c.rdb.Get(ctx, c.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNoDocument
		}
		return fmt.Errorf("docstore: get %s/%s: %w", c.name, id, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("docstore: decode %s/%s: %w", c.name, id, err)
	}
	return nil
}

// Delete removes the document with the given id.
// Returns ErrNoDocument when the id does not exist.
func (c *Collection) Delete(ctx context.Context, id string) error {
	removed, err := c.rdb.Del(ctx, c.docKey(id)).Result()
	if err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", c.name, id, err)
	}
	if err := c.rdb.SRem(ctx, c.idsKey(), id).Err(); err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", c.name, id, err)
	}
	if removed == 0 {
		return ErrNoDocument
	}
	return nil
}

// All returns every document in the collection.
func (c *Collection) All(ctx context.Context) ([]Document, error) {
	ids, err := c.rdb.SMembers(ctx, c.idsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", c.name, err)
	}
	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		data, err := c.rdb.Get(ctx, c.docKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				// Index entry without a document, e.g. a concurrent delete.
				continue
			}
			return nil, fmt.Errorf("docstore: list %s: %w", c.name, err)
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	return docs, nil
}

// FindByField returns the documents whose top-level field equals value.
// Equality is JSON equality of the marshaled value.
func (c *Collection) FindByField(ctx context.Context, field string, value any) ([]Document, error) {
	want, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("docstore: marshal query value: %w", err)
	}
	docs, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var matched []Document
	for _, doc := range docs {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(doc.Data, &fields); err != nil {
			return nil, fmt.Errorf("docstore: decode %s/%s: %w", c.name, doc.ID, err)
		}
		got, ok := fields[field]
		if !ok {
			continue
		}
		if bytes.Equal(compactJSON(got), compactJSON(want)) {
			matched = append(matched, doc)
		}
	}
	return matched, nil
}

func compactJSON(raw []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
