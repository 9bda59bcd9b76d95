package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/totegamma/itemtag/internal/domain"
	"github.com/totegamma/itemtag/internal/infra/database"
)

// mongoDocuments implements the operations items and tags share on a
// single collection.
type mongoDocuments struct {
	coll *mongo.Collection
}

type storedDocument struct {
	ID     domain.ID
	Fields domain.Document
}

func (r mongoDocuments) insert(ctx context.Context, fields domain.Document) (domain.ID, error) {
	id := domain.NewID()

	doc := bson.M{}
	for k, v := range fields.Clone() {
		doc[k] = domain.NormalizeNumbers(v)
	}
	doc[domain.IDField] = id

	_, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (r mongoDocuments) find(ctx context.Context, filter any) ([]storedDocument, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	var raw []bson.M
	err = cursor.All(ctx, &raw)
	if err != nil {
		return nil, err
	}

	docs := make([]storedDocument, 0, len(raw))
	for _, m := range raw {
		id, ok := m[domain.IDField].(primitive.ObjectID)
		if !ok {
			// written by something other than this service
			continue
		}
		delete(m, domain.IDField)
		docs = append(docs, storedDocument{ID: id, Fields: domain.Document(m)})
	}
	return docs, nil
}

func (r mongoDocuments) exists(ctx context.Context, id domain.ID) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{domain.IDField: id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r mongoDocuments) existing(ctx context.Context, ids []domain.ID) ([]domain.ID, error) {
	cursor, err := r.coll.Find(
		ctx,
		bson.M{domain.IDField: bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{domain.IDField: 1}),
	)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	err = cursor.All(ctx, &rows)
	if err != nil {
		return nil, err
	}

	found := make([]domain.ID, 0, len(rows))
	for _, row := range rows {
		found = append(found, row.ID)
	}
	return found, nil
}

type MongoItemRepository struct {
	docs mongoDocuments
}

func NewMongoItemRepository(db *mongo.Database) *MongoItemRepository {
	return &MongoItemRepository{docs: mongoDocuments{coll: db.Collection(database.ItemsCollection)}}
}

func (r *MongoItemRepository) Create(ctx context.Context, fields domain.Document) (domain.ID, error) {
	return r.docs.insert(ctx, fields)
}

func (r *MongoItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	docs, err := r.docs.find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, domain.Item{ID: d.ID, Fields: d.Fields})
	}
	return items, nil
}

func (r *MongoItemRepository) Exists(ctx context.Context, id domain.ID) (bool, error) {
	return r.docs.exists(ctx, id)
}

type MongoTagRepository struct {
	docs mongoDocuments
}

func NewMongoTagRepository(db *mongo.Database) *MongoTagRepository {
	return &MongoTagRepository{docs: mongoDocuments{coll: db.Collection(database.TagsCollection)}}
}

func (r *MongoTagRepository) Create(ctx context.Context, fields domain.Document) (domain.ID, error) {
	return r.docs.insert(ctx, fields)
}

func (r *MongoTagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	return r.findTags(ctx, bson.M{})
}

func (r *MongoTagRepository) Existing(ctx context.Context, ids []domain.ID) ([]domain.ID, error) {
	if len(ids) == 0 {
		return []domain.ID{}, nil
	}
	return r.docs.existing(ctx, ids)
}

func (r *MongoTagRepository) GetMany(ctx context.Context, ids []domain.ID) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}
	return r.findTags(ctx, bson.M{domain.IDField: bson.M{"$in": ids}})
}

func (r *MongoTagRepository) findTags(ctx context.Context, filter any) ([]domain.Tag, error) {
	docs, err := r.docs.find(ctx, filter)
	if err != nil {
		return nil, err
	}
	tags := make([]domain.Tag, 0, len(docs))
	for _, d := range docs {
		tags = append(tags, domain.Tag{ID: d.ID, Fields: d.Fields})
	}
	return tags, nil
}

type MongoAssociationRepository struct {
	coll *mongo.Collection
}

func NewMongoAssociationRepository(db *mongo.Database) *MongoAssociationRepository {
	return &MongoAssociationRepository{coll: db.Collection(database.AssociationCollection)}
}

type associationRecord struct {
	ItemID primitive.ObjectID   `bson:"item_id"`
	TagIDs []primitive.ObjectID `bson:"tag_ids"`
}

// AddTags relies on a single upsert with $addToSet, which the server applies
// atomically per record.
func (r *MongoAssociationRepository) AddTags(ctx context.Context, itemID domain.ID, tagIDs []domain.ID) error {
	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"item_id": itemID},
		bson.M{"$addToSet": bson.M{"tag_ids": bson.M{"$each": tagIDs}}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *MongoAssociationRepository) Get(ctx context.Context, itemID domain.ID) (domain.Association, error) {
	var record associationRecord
	err := r.coll.FindOne(ctx, bson.M{"item_id": itemID}).Decode(&record)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.Association{}, domain.ErrNotFound
		}
		return domain.Association{}, err
	}
	return domain.Association{ItemID: record.ItemID, TagIDs: record.TagIDs}, nil
}

type MongoPinger struct {
	client *mongo.Client
}

func NewMongoPinger(client *mongo.Client) *MongoPinger {
	return &MongoPinger{client: client}
}

func (p *MongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}
