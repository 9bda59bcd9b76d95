package usecase

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/totegamma/itemtag/internal/domain"
)

const associatedMessage = "Tags associated with item"

type AssociationUsecase struct {
	items ItemRepository
	tags  TagRepository
	repo  AssociationRepository
}

func NewAssociationUsecase(items ItemRepository, tags TagRepository, repo AssociationRepository) *AssociationUsecase {
	return &AssociationUsecase{
		items: items,
		tags:  tags,
		repo:  repo,
	}
}

// Associate links tagIDs to the item. Re-linking an already linked tag is a no-op.
func (uc *AssociationUsecase) Associate(ctx context.Context, itemID string, tagIDs []string) (domain.AssociationResult, error) {
	ctx, span := tracer.Start(ctx, "Association.Usecase.Associate")
	defer span.End()

	if len(tagIDs) == 0 {
		return domain.AssociationResult{}, domain.ErrInvalidInput
	}

	itemOID, err := domain.ParseID(itemID)
	if err != nil {
		return domain.AssociationResult{}, domain.InvalidIdentifierError{Field: "item_id", Value: itemID}
	}

	tagOIDs := make([]domain.ID, 0, len(tagIDs))
	for i, raw := range tagIDs {
		oid, err := domain.ParseID(raw)
		if err != nil {
			return domain.AssociationResult{}, domain.InvalidIdentifierError{Field: fmt.Sprintf("tag_ids[%d]", i), Value: raw}
		}
		tagOIDs = append(tagOIDs, oid)
	}
	tagOIDs = domain.UniqueIDs(tagOIDs)

	span.SetAttributes(
		attribute.String("ItemID", domain.FormatID(itemOID)),
		attribute.Int("TagCount", len(tagOIDs)),
	)

	exists, err := uc.items.Exists(ctx, itemOID)
	if err != nil {
		err = errors.Wrap(err, "AssociationUsecase.Associate: items.Exists failed")
		span.RecordError(err)
		return domain.AssociationResult{}, err
	}
	if !exists {
		return domain.AssociationResult{}, domain.ErrItemNotFound
	}

	existing, err := uc.tags.Existing(ctx, tagOIDs)
	if err != nil {
		err = errors.Wrap(err, "AssociationUsecase.Associate: tags.Existing failed")
		span.RecordError(err)
		return domain.AssociationResult{}, err
	}
	if len(domain.UniqueIDs(existing)) < len(tagOIDs) {
		return domain.AssociationResult{}, domain.ErrTagsNotFound
	}

	err = uc.repo.AddTags(ctx, itemOID, tagOIDs)
	if err != nil {
		err = errors.Wrap(err, "AssociationUsecase.Associate: repo.AddTags failed")
		span.RecordError(err)
		return domain.AssociationResult{}, err
	}

	return domain.AssociationResult{
		Message: associatedMessage,
		ItemID:  domain.FormatID(itemOID),
		TagIDs:  domain.FormatIDs(tagOIDs),
	}, nil
}

// TagsFor returns the tags linked to the item. An item without links yields
// an empty list.
func (uc *AssociationUsecase) TagsFor(ctx context.Context, itemID string) ([]domain.Tag, error) {
	ctx, span := tracer.Start(ctx, "Association.Usecase.TagsFor")
	defer span.End()

	itemOID, err := domain.ParseID(itemID)
	if err != nil {
		return nil, domain.InvalidIdentifierError{Field: "item_id", Value: itemID}
	}

	association, err := uc.repo.Get(ctx, itemOID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Tag{}, nil
		}
		err = errors.Wrap(err, "AssociationUsecase.TagsFor: repo.Get failed")
		span.RecordError(err)
		return nil, err
	}
	if len(association.TagIDs) == 0 {
		return []domain.Tag{}, nil
	}

	tags, err := uc.tags.GetMany(ctx, association.TagIDs)
	if err != nil {
		err = errors.Wrap(err, "AssociationUsecase.TagsFor: tags.GetMany failed")
		span.RecordError(err)
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}
