package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client wraps the Firestore connection. It is safe for concurrent use and
// is constructed once at startup.
type Client struct {
	fs *firestore.Client
}

func NewClient(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	fs, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{fs: fs}, nil
}

func (c *Client) Collection(name string) Collection {
	return &firestoreCollection{name: name, ref: c.fs.Collection(name)}
}

func (c *Client) Close() error {
	return c.fs.Close()
}

type firestoreCollection struct {
	name string
	ref  *firestore.CollectionRef
}

func (fc *firestoreCollection) Create(ctx context.Context, id string, data map[string]interface{}) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if _, err := fc.ref.Doc(id).Set(ctx, data, firestore.MergeAll); err != nil {
		return "", &Error{Op: "create", Collection: fc.name, Err: err}
	}
	return id, nil
}

func (fc *firestoreCollection) Read(ctx context.Context, id string) (map[string]interface{}, error) {
	snap, err := fc.ref.Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "read", Collection: fc.name, Err: err}
	}
	return snap.Data(), nil
}

func (fc *firestoreCollection) ReadAll(ctx context.Context) ([]Document, error) {
	iter := fc.ref.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, &Error{Op: "readAll", Collection: fc.name, Err: err}
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
}

func (fc *firestoreCollection) Update(ctx context.Context, id string, data map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(data))
	for field, value := range data {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	if _, err := fc.ref.Doc(id).Update(ctx, updates); err != nil {
		return &Error{Op: "update", Collection: fc.name, Err: err}
	}
	return nil
}

func (fc *firestoreCollection) Delete(ctx context.Context, id string) error {
	if _, err := fc.ref.Doc(id).Delete(ctx); err != nil {
		return &Error{Op: "delete", Collection: fc.name, Err: err}
	}
	return nil
}

func (fc *firestoreCollection) FindByField(ctx context.Context, field string, value interface{}) (*Document, error) {
	iter := fc.ref.Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &Error{Op: "findByField", Collection: fc.name, Err: err}
	}
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}
