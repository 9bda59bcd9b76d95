package usecase

import (
	"context"

	"github.com/totegamma/itemtag/internal/domain"
)

// ItemRepository defines storage operations for items.
type ItemRepository interface {
	Create(ctx context.Context, fields domain.Document) (domain.ID, error)
	List(ctx context.Context) ([]domain.Item, error)
	Exists(ctx context.Context, id domain.ID) (bool, error)
}

// TagRepository defines storage operations for tags.
type TagRepository interface {
	Create(ctx context.Context, fields domain.Document) (domain.ID, error)
	List(ctx context.Context) ([]domain.Tag, error)
	// Existing returns the subset of ids that refer to stored tags.
	Existing(ctx context.Context, ids []domain.ID) ([]domain.ID, error)
	GetMany(ctx context.Context, ids []domain.ID) ([]domain.Tag, error)
}

// AssociationRepository defines storage operations for item/tag links.
type AssociationRepository interface {
	// AddTags unions tagIDs into the association of itemID, creating it if needed.
	AddTags(ctx context.Context, itemID domain.ID, tagIDs []domain.ID) error
	// Get returns domain.ErrNotFound when the item has no association record.
	Get(ctx context.Context, itemID domain.ID) (domain.Association, error)
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
