package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/totegamma/itemtag/internal/domain"
)

func TestTagUsecaseCreateThenList(t *testing.T) {
	store := newMemStore()
	uc := NewTagUsecase(memTags{store})

	id, err := uc.Create(context.Background(), domain.Document{"name": "fiction"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	tags, err := uc.List(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(tags) != 1 || domain.FormatID(tags[0].ID) != id {
		t.Fatalf("unexpected tags %+v", tags)
	}
}

func TestTagUsecaseCreateEmpty(t *testing.T) {
	uc := NewTagUsecase(memTags{newMemStore()})

	_, err := uc.Create(context.Background(), domain.Document{})
	if !errors.Is(err, domain.ErrEmptyPayload) {
		t.Fatalf("expected ErrEmptyPayload got %v", err)
	}
}
