package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/totegamma/itemtag/internal/domain"
)

// memStore is an in-memory implementation of every repository port.
type memStore struct {
	items        map[domain.ID]domain.Document
	tags         map[domain.ID]domain.Document
	associations map[domain.ID][]domain.ID
	addCalls     int
	failWith     error
}

func newMemStore() *memStore {
	return &memStore{
		items:        map[domain.ID]domain.Document{},
		tags:         map[domain.ID]domain.Document{},
		associations: map[domain.ID][]domain.ID{},
	}
}

type memItems struct{ *memStore }
type memTags struct{ *memStore }
type memAssociations struct{ *memStore }

func (m memItems) Create(ctx context.Context, fields domain.Document) (domain.ID, error) {
	if m.failWith != nil {
		return domain.ID{}, m.failWith
	}
	id := domain.NewID()
	m.items[id] = fields.Clone()
	return id, nil
}

func (m memItems) List(ctx context.Context) ([]domain.Item, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	var out []domain.Item
	for _, id := range sortedIDs(m.items) {
		out = append(out, domain.Item{ID: id, Fields: m.items[id]})
	}
	return out, nil
}

func (m memItems) Exists(ctx context.Context, id domain.ID) (bool, error) {
	if m.failWith != nil {
		return false, m.failWith
	}
	_, ok := m.items[id]
	return ok, nil
}

func (m memTags) Create(ctx context.Context, fields domain.Document) (domain.ID, error) {
	if m.failWith != nil {
		return domain.ID{}, m.failWith
	}
	id := domain.NewID()
	m.tags[id] = fields.Clone()
	return id, nil
}

func (m memTags) List(ctx context.Context) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, id := range sortedIDs(m.tags) {
		out = append(out, domain.Tag{ID: id, Fields: m.tags[id]})
	}
	return out, nil
}

func (m memTags) Existing(ctx context.Context, ids []domain.ID) ([]domain.ID, error) {
	var out []domain.ID
	for _, id := range ids {
		if _, ok := m.tags[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (m memTags) GetMany(ctx context.Context, ids []domain.ID) ([]domain.Tag, error) {
	var out []domain.Tag
	for _, id := range ids {
		if fields, ok := m.tags[id]; ok {
			out = append(out, domain.Tag{ID: id, Fields: fields})
		}
	}
	return out, nil
}

func (m memAssociations) AddTags(ctx context.Context, itemID domain.ID, tagIDs []domain.ID) error {
	m.addCalls++
	m.associations[itemID] = domain.UniqueIDs(append(m.associations[itemID], tagIDs...))
	return nil
}

func (m memAssociations) Get(ctx context.Context, itemID domain.ID) (domain.Association, error) {
	tagIDs, ok := m.associations[itemID]
	if !ok {
		return domain.Association{}, domain.ErrNotFound
	}
	return domain.Association{ItemID: itemID, TagIDs: tagIDs}, nil
}

func (m *memStore) Ping(ctx context.Context) error {
	return m.failWith
}

func sortedIDs(docs map[domain.ID]domain.Document) []domain.ID {
	ids := make([]domain.ID, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Hex() < ids[j].Hex() })
	return ids
}

var errStorageDown = errors.New("storage down")
