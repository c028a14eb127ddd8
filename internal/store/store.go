package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document does not exist. Absence is not a
// transport failure; callers branch on it with errors.Is.
var ErrNotFound = errors.New("document not found")

// Error is a transport or permission failure raised by the backing store.
type Error struct {
	Op         string
	Collection string
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Document pairs a document id with its data.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Collection is a generic CRUD facade over one named collection of the
// document database.
type Collection interface {
	// Create upserts data at id (merge semantics) and returns the id. An
	// empty id asks the store to assign one.
	Create(ctx context.Context, id string, data map[string]interface{}) (string, error)
	// Read returns the document data, or ErrNotFound if absent.
	Read(ctx context.Context, id string) (map[string]interface{}, error)
	// ReadAll returns every document with its id, unordered.
	ReadAll(ctx context.Context) ([]Document, error)
	// Update merges fields into an existing document. Fails if the target
	// does not exist.
	Update(ctx context.Context, id string, data map[string]interface{}) error
	// Delete removes the document. Deleting an absent document is not an
	// error.
	Delete(ctx context.Context, id string) error
	// FindByField returns one document whose field equals value, or
	// ErrNotFound. When duplicates exist, which one is returned is
	// undefined; the store gives no ordering guarantee.
	FindByField(ctx context.Context, field string, value interface{}) (*Document, error)
}
