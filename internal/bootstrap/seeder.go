package bootstrap

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/firebase-auth-backend/internal/store"
)

// CollectionOpener opens named collections; satisfied by store.Client.
type CollectionOpener interface {
	Collection(name string) store.Collection
}

type SeedDocument struct {
	ID   string
	Data map[string]interface{}
}

type SeedCollection struct {
	Name      string
	Documents []SeedDocument
}

// DefaultSeedData is applied at startup after the initializer.
var DefaultSeedData = []SeedCollection{
	{
		Name: models.CollectionSettings,
		Documents: []SeedDocument{
			{ID: models.SettingsDocID, Data: map[string]interface{}{
				"appName":     "My App",
				"maintenance": false,
			}},
		},
	},
}

// Seeder inserts fixed documents into collections that are still empty.
// Non-empty collections are skipped wholesale; per-document failures are
// logged and the remaining documents still get their chance.
type Seeder struct {
	opener CollectionOpener
	data   []SeedCollection
}

func NewSeeder(opener CollectionOpener, data []SeedCollection) *Seeder {
	return &Seeder{opener: opener, data: data}
}

func (s *Seeder) Seed(ctx context.Context) {
	for _, item := range s.data {
		coll := s.opener.Collection(item.Name)

		existing, err := coll.ReadAll(ctx)
		if err != nil {
			slog.Error("seed readAll failed", "collection", item.Name, "error", err)
			continue
		}
		if len(existing) > 0 {
			slog.Info("skipped seeding, collection has data", "collection", item.Name)
			continue
		}

		for _, doc := range item.Documents {
			if _, err := coll.Create(ctx, doc.ID, doc.Data); err != nil {
				slog.Error("seed document failed", "collection", item.Name, "id", doc.ID, "error", err)
				continue
			}
		}
		slog.Info("seeded collection", "collection", item.Name, "documents", len(item.Documents))
	}
}
