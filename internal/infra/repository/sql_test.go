package repository

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/totegamma/itemtag/internal/domain"
	"github.com/totegamma/itemtag/internal/infra/database"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLite(filepath.Join(t.TempDir(), "itemtag.db"))
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := database.MigrateSQL(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestSQLItemRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLItemRepository(newTestDB(t))

	first, err := repo.Create(ctx, domain.Document{"item_title": "Book", "item_type": "physical", "_id": "ignored"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	second, err := repo.Create(ctx, domain.Document{"item_title": "Lamp", "tags": []any{"a", "b"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != first || items[1].ID != second {
		t.Fatalf("unexpected items %+v", items)
	}
	if items[0].Fields["item_title"] != "Book" {
		t.Fatalf("unexpected fields %+v", items[0].Fields)
	}
	if _, ok := items[0].Fields["_id"]; ok {
		t.Fatalf("client supplied _id must not be stored")
	}

	ok, err := repo.Exists(ctx, first)
	if err != nil || !ok {
		t.Fatalf("expected item to exist, got %v %v", ok, err)
	}
	ok, err = repo.Exists(ctx, domain.NewID())
	if err != nil || ok {
		t.Fatalf("expected unknown item to be absent, got %v %v", ok, err)
	}
}

func TestSQLItemRepositoryKeepsLargeIntegers(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLItemRepository(newTestDB(t))

	fields, err := domain.UnmarshalDocument([]byte(`{"item_title":"Book","isbn":9007199254740993,"meta":{"n":[9007199254740995]}}`))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if _, err := repo.Create(ctx, fields); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil || len(items) != 1 {
		t.Fatalf("unexpected items %+v %v", items, err)
	}
	if items[0].Fields["isbn"] != json.Number("9007199254740993") {
		t.Fatalf("expected exact isbn, got %v", items[0].Fields["isbn"])
	}
	nested := items[0].Fields["meta"].(map[string]any)["n"].([]any)
	if nested[0] != json.Number("9007199254740995") {
		t.Fatalf("expected exact nested number, got %v", nested[0])
	}
}

func TestSQLTagRepositoryExisting(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLTagRepository(newTestDB(t))

	fiction, err := repo.Create(ctx, domain.Document{"name": "fiction"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	poetry, err := repo.Create(ctx, domain.Document{"name": "poetry"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	found, err := repo.Existing(ctx, []domain.ID{fiction, domain.NewID(), poetry})
	if err != nil {
		t.Fatalf("existing failed: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 existing tags, got %v", domain.FormatIDs(found))
	}

	tags, err := repo.GetMany(ctx, []domain.ID{poetry})
	if err != nil {
		t.Fatalf("get many failed: %v", err)
	}
	if len(tags) != 1 || tags[0].ID != poetry || tags[0].Fields["name"] != "poetry" {
		t.Fatalf("unexpected tags %+v", tags)
	}
}

func TestSQLAssociationRepositoryUnion(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	items := NewSQLItemRepository(db)
	tags := NewSQLTagRepository(db)
	repo := NewSQLAssociationRepository(db)

	item, err := items.Create(ctx, domain.Document{"item_title": "Book"})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	a, _ := tags.Create(ctx, domain.Document{"name": "a"})
	b, _ := tags.Create(ctx, domain.Document{"name": "b"})

	_, err = repo.Get(ctx, item)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first association, got %v", err)
	}

	if err := repo.AddTags(ctx, item, []domain.ID{a}); err != nil {
		t.Fatalf("add a failed: %v", err)
	}
	if err := repo.AddTags(ctx, item, []domain.ID{a, b, b}); err != nil {
		t.Fatalf("add a,b failed: %v", err)
	}

	association, err := repo.Get(ctx, item)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(association.TagIDs) != 2 {
		t.Fatalf("expected {a, b}, got %v", domain.FormatIDs(association.TagIDs))
	}
	seen := map[domain.ID]bool{}
	for _, id := range association.TagIDs {
		seen[id] = true
	}
	if !seen[a] || !seen[b] {
		t.Fatalf("expected {a, b}, got %v", domain.FormatIDs(association.TagIDs))
	}
}

func TestSQLPinger(t *testing.T) {
	if err := NewSQLPinger(newTestDB(t)).Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
