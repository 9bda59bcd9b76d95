package usecase

import (
	"context"

	"github.com/pkg/errors"
)

type HealthUsecase struct {
	store Pinger
}

func NewHealthUsecase(store Pinger) *HealthUsecase {
	return &HealthUsecase{store: store}
}

func (uc *HealthUsecase) Check(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Health.Usecase.Check")
	defer span.End()

	if err := uc.store.Ping(ctx); err != nil {
		err = errors.Wrap(err, "HealthUsecase.Check: store.Ping failed")
		span.RecordError(err)
		return err
	}
	return nil
}
