package repository

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/itemtag/internal/domain"
	"github.com/totegamma/itemtag/internal/infra/database/models"
)

// sqlDocuments implements the operations items and tags share on a single
// table. Works for both Postgres and SQLite.
type sqlDocuments struct {
	db    *gorm.DB
	table string
}

func (r sqlDocuments) insert(ctx context.Context, fields domain.Document) (domain.ID, error) {
	id := domain.NewID()

	body, err := json.Marshal(fields.Clone())
	if err != nil {
		return id, err
	}

	row := models.Document{
		ID:    domain.FormatID(id),
		Body:  string(body),
		CDate: time.Now(),
	}

	err = r.db.WithContext(ctx).Table(r.table).Create(&row).Error
	return id, err
}

func (r sqlDocuments) find(ctx context.Context, ids []string) ([]storedDocument, error) {
	query := r.db.WithContext(ctx).Table(r.table)
	if ids != nil {
		query = query.Where("id IN ?", ids)
	}

	var rows []models.Document
	err := query.Order("c_date ASC, id ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]storedDocument, 0, len(rows))
	for _, row := range rows {
		id, err := domain.ParseID(row.ID)
		if err != nil {
			continue
		}
		fields, err := domain.UnmarshalDocument([]byte(row.Body))
		if err != nil {
			return nil, err
		}
		docs = append(docs, storedDocument{ID: id, Fields: fields})
	}
	return docs, nil
}

func (r sqlDocuments) exists(ctx context.Context, id domain.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where("id = ?", domain.FormatID(id)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r sqlDocuments) existing(ctx context.Context, ids []domain.ID) ([]domain.ID, error) {
	var found []string
	err := r.db.WithContext(ctx).
		Table(r.table).
		Where("id IN ?", domain.FormatIDs(ids)).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.ID, 0, len(found))
	for _, s := range found {
		id, err := domain.ParseID(s)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

type SQLItemRepository struct {
	docs sqlDocuments
}

func NewSQLItemRepository(db *gorm.DB) *SQLItemRepository {
	return &SQLItemRepository{docs: sqlDocuments{db: db, table: models.Item{}.TableName()}}
}

func (r *SQLItemRepository) Create(ctx context.Context, fields domain.Document) (domain.ID, error) {
	return r.docs.insert(ctx, fields)
}

func (r *SQLItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	docs, err := r.docs.find(ctx, nil)
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.Item{ID: d.ID, Fields: d.Fields})
	}
	return items, nil
}

func (r *SQLItemRepository) Exists(ctx context.Context, id domain.ID) (bool, error) {
	return r.docs.exists(ctx, id)
}

type SQLTagRepository struct {
	docs sqlDocuments
}

func NewSQLTagRepository(db *gorm.DB) *SQLTagRepository {
	return &SQLTagRepository{docs: sqlDocuments{db: db, table: models.Tag{}.TableName()}}
}

func (r *SQLTagRepository) Create(ctx context.Context, fields domain.Document) (domain.ID, error) {
	return r.docs.insert(ctx, fields)
}

func (r *SQLTagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	return r.findTags(ctx, nil)
}

func (r *SQLTagRepository) Existing(ctx context.Context, ids []domain.ID) ([]domain.ID, error) {
	if len(ids) == 0 {
		return []domain.ID{}, nil
	}
	return r.docs.existing(ctx, ids)
}

func (r *SQLTagRepository) GetMany(ctx context.Context, ids []domain.ID) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	return r.findTags(ctx, domain.FormatIDs(ids))
}

func (r *SQLTagRepository) findTags(ctx context.Context, ids []string) ([]domain.Tag, error) {
	docs, err := r.docs.find(ctx, ids)
	if err != nil {
		return nil, err
	}
	tags := make([]domain.Tag, 0, len(docs))
	for _, d := range docs {
		tags = append(tags, domain.Tag{ID: d.ID, Fields: d.Fields})
	}
	return tags, nil
}

type SQLAssociationRepository struct {
	db *gorm.DB
}

func NewSQLAssociationRepository(db *gorm.DB) *SQLAssociationRepository {
	return &SQLAssociationRepository{db: db}
}

// AddTags inserts one row per tag and skips rows that already exist, which
// makes the write a set union.
func (r *SQLAssociationRepository) AddTags(ctx context.Context, itemID domain.ID, tagIDs []domain.ID) error {
	if len(tagIDs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.ItemTag, 0, len(tagIDs))
	for _, tagID := range domain.UniqueIDs(tagIDs) {
		rows = append(rows, models.ItemTag{
			ItemID: domain.FormatID(itemID),
			TagID:  domain.FormatID(tagID),
			CDate:  now,
		})
	}

	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_id"}, {Name: "tag_id"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *SQLAssociationRepository) Get(ctx context.Context, itemID domain.ID) (domain.Association, error) {
	var rows []models.ItemTag
	err := r.db.WithContext(ctx).
		Where("item_id = ?", domain.FormatID(itemID)).
		Order("c_date ASC, tag_id ASC").
		Find(&rows).Error
	if err != nil {
		return domain.Association{}, err
	}
	if len(rows) == 0 {
		return domain.Association{}, domain.ErrNotFound
	}

	association := domain.Association{ItemID: itemID, TagIDs: make([]domain.ID, 0, len(rows))}
	for _, row := range rows {
		tagID, err := domain.ParseID(row.TagID)
		if err != nil {
			continue
		}
		association.TagIDs = append(association.TagIDs, tagID)
	}
	return association, nil
}

type SQLPinger struct {
	db *gorm.DB
}

func NewSQLPinger(db *gorm.DB) *SQLPinger {
	return &SQLPinger{db: db}
}

func (p *SQLPinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
