package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore is a Store backed by a MongoDB database
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongo connects to uri and verifies the connection
func NewMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	s := &MongoStore{client: client, db: client.Database(database)}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates a unique index on IDField for each named collection
func (s *MongoStore) EnsureIndexes(ctx context.Context, collections ...string) error {
	for _, name := range collections {
		_, err := s.db.Collection(name).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: IDField, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return fmt.Errorf("failed to create id index on %s: %w", name, err)
		}
	}
	return nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo is unavailable: %w", err)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Driver() string {
	return "mongo"
}

// Mongo's own _id never leaves the store
var hideObjectID = bson.M{"_id": 0}

type mongoCollection struct {
	coll *mongo.Collection
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc Document) error {
	if _, ok := doc.ID(); !ok {
		return ErrMissingID
	}

	if _, err := c.coll.InsertOne(ctx, bson.M(doc)); err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (c *mongoCollection) InsertMany(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	batch := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		if _, ok := doc.ID(); !ok {
			return ErrMissingID
		}
		batch = append(batch, bson.M(doc))
	}

	if _, err := c.coll.InsertMany(ctx, batch); err != nil {
		return fmt.Errorf("failed to insert documents: %w", err)
	}
	return nil
}

func (c *mongoCollection) FindOne(ctx context.Context, id string) (Document, error) {
	var raw bson.M
	err := c.coll.FindOne(ctx, bson.M{IDField: id}, options.FindOne().SetProjection(hideObjectID)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	return fromBSON(raw), nil
}

func (c *mongoCollection) Find(ctx context.Context, q Query) ([]Document, error) {
	opts := options.Find().SetProjection(hideObjectID)
	if q.SortBy != "" {
		dir := 1
		if q.Order == SortOrderDesc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.SortBy, Value: dir}})
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cursor, err := c.coll.Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find documents: %w", err)
	}

	var raws []bson.M
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}

	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		docs = append(docs, fromBSON(raw))
	}
	return docs, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, id string, set Document) (Document, error) {
	if len(set) == 0 {
		return c.FindOne(ctx, id)
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(hideObjectID)

	var raw bson.M
	err := c.coll.FindOneAndUpdate(ctx, bson.M{IDField: id}, bson.M{"$set": bson.M(set)}, opts).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocument
		}
		return nil, fmt.Errorf("failed to update document: %w", err)
	}
	return fromBSON(raw), nil
}

func (c *mongoCollection) DeleteOne(ctx context.Context, id string) (bool, error) {
	res, err := c.coll.DeleteOne(ctx, bson.M{IDField: id})
	if err != nil {
		return false, fmt.Errorf("failed to delete document: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (c *mongoCollection) Count(ctx context.Context) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	for k, v := range q.Equals {
		filter[k] = v
	}

	if q.Match != nil {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Match.Text), Options: "i"}
		or := bson.A{}
		for _, field := range q.Match.Fields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}
	return filter
}

func fromBSON(raw bson.M) Document {
	return Document(normalizeBSON(raw).(map[string]any))
}

// normalizeBSON converts driver container types into plain maps and slices
func normalizeBSON(v any) any {
	switch t := v.(type) {
	case primitive.M:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeBSON(val)
		}
		return out
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = normalizeBSON(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeBSON(t[i])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = normalizeBSON(t[i])
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.Decimal128:
		return json.Number(t.String())
	default:
		return v
	}
}
