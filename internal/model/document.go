// Package model defines domain entities for the application.
package model

import "maps"

// FieldID is the identifier key of every stored document.
const FieldID = "_id"

// Collection names.
const (
	CollectionUsers    = "users"
	CollectionListings = "listings"
	CollectionOrders   = "orders"
)

// Document is a schemaless record as exchanged with clients and the store.
type Document map[string]any

// String returns the value of a string field, or "" if absent or not a string.
func (d Document) String(key string) string {
	s, _ := d[key].(string)
	return s
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return maps.Clone(d)
}

// Without returns a copy of the document with the given keys removed.
func (d Document) Without(keys ...string) Document {
	out := d.Clone()
	if out == nil {
		out = Document{}
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}
