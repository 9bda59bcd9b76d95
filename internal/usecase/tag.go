package usecase

import (
	"context"

	"github.com/pkg/errors"

	"github.com/totegamma/itemtag/internal/domain"
)

type TagUsecase struct {
	repo TagRepository
}

func NewTagUsecase(repo TagRepository) *TagUsecase {
	return &TagUsecase{repo: repo}
}

func (uc *TagUsecase) Create(ctx context.Context, fields domain.Document) (string, error) {
	ctx, span := tracer.Start(ctx, "Tag.Usecase.Create")
	defer span.End()

	if len(fields) == 0 {
		return "", domain.ErrEmptyPayload
	}

	id, err := uc.repo.Create(ctx, fields)
	if err != nil {
		err = errors.Wrap(err, "TagUsecase.Create: repo.Create failed")
		span.RecordError(err)
		return "", err
	}

	return domain.FormatID(id), nil
}

// List returns every tag. Identifiers are externalized the same way items are.
func (uc *TagUsecase) List(ctx context.Context) ([]domain.Tag, error) {
	ctx, span := tracer.Start(ctx, "Tag.Usecase.List")
	defer span.End()

	tags, err := uc.repo.List(ctx)
	if err != nil {
		err = errors.Wrap(err, "TagUsecase.List: repo.List failed")
		span.RecordError(err)
		return nil, err
	}
	if tags == nil {
		tags = []domain.Tag{}
	}
	return tags, nil
}
