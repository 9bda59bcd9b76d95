package usecase

import (
	"context"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"

	"github.com/totegamma/itemtag/internal/domain"
)

var tracer = otel.Tracer("usecase")

type ItemUsecase struct {
	repo ItemRepository
}

func NewItemUsecase(repo ItemRepository) *ItemUsecase {
	return &ItemUsecase{repo: repo}
}

func (uc *ItemUsecase) Create(ctx context.Context, fields domain.Document) (string, error) {
	ctx, span := tracer.Start(ctx, "Item.Usecase.Create")
	defer span.End()

	if len(fields) == 0 {
		return "", domain.ErrEmptyPayload
	}

	id, err := uc.repo.Create(ctx, fields)
	if err != nil {
		err = errors.Wrap(err, "ItemUsecase.Create: repo.Create failed")
		span.RecordError(err)
		return "", err
	}

	return domain.FormatID(id), nil
}

func (uc *ItemUsecase) List(ctx context.Context) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "Item.Usecase.List")
	defer span.End()

	items, err := uc.repo.List(ctx)
	if err != nil {
		err = errors.Wrap(err, "ItemUsecase.List: repo.List failed")
		span.RecordError(err)
		return nil, err
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}
