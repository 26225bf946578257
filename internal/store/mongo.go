package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"filmart-backend-go/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoBackend struct {
	client *mongo.Client
	db     *mongo.Database
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoBackend, error) {
	client, err := db.OpenMongo(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}
	return &MongoBackend{client: client, db: client.Database(database)}, nil
}

func (b *MongoBackend) Name() string { return "mongodb" }

func (b *MongoBackend) Ping(ctx context.Context) error { return b.client.Ping(ctx, nil) }

func (b *MongoBackend) Close(ctx context.Context) error { return b.client.Disconnect(ctx) }

func (b *MongoBackend) Prepare(ctx context.Context, specs ...Spec) error {
	for _, spec := range specs {
		indexes := make([]mongo.IndexModel, 0, len(spec.Unique)+len(spec.Indexes))
		for _, field := range spec.Unique {
			indexes = append(indexes, mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true).SetName(uniqueIndexName(field)),
			})
		}
		for _, fields := range spec.Indexes {
			indexes = append(indexes, mongo.IndexModel{Keys: mongoSort(fields)})
		}
		if len(indexes) == 0 {
			continue
		}
		if _, err := b.db.Collection(spec.Name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("%s indexes: %w", spec.Name, err)
		}
	}
	return nil
}

func (b *MongoBackend) collection(spec Spec) driver {
	return &mongoCollection{spec: spec, col: b.db.Collection(spec.Name)}
}

func uniqueIndexName(field string) string { return field + "_unique" }

type mongoCollection struct {
	spec Spec
	col  *mongo.Collection
}

func (c *mongoCollection) find(ctx context.Context, q Query, each decodeFunc) error {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(mongoSort(q.Sort))
	}
	cur, err := c.col.Find(ctx, mongoFilter(q), opts)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		id := rawID(cur.Current.Lookup("_id"))
		if err := each(id, cur.Decode); err != nil {
			return err
		}
	}
	return cur.Err()
}

func (c *mongoCollection) get(ctx context.Context, id string, dst any) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	err = c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(dst)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *mongoCollection) insert(ctx context.Context, doc any) (string, error) {
	res, err := c.col.InsertOne(ctx, doc)
	if err != nil {
		return "", c.translate(err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (c *mongoCollection) replace(ctx context.Context, id string, doc any) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := c.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return false, c.translate(err)
	}
	return res.MatchedCount > 0, nil
}

func (c *mongoCollection) delete(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	res, err := c.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (c *mongoCollection) count(ctx context.Context, q Query) (int64, error) {
	return c.col.CountDocuments(ctx, mongoFilter(q))
}

func (c *mongoCollection) countBy(ctx context.Context, field string) ([]GroupCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	cur, err := c.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	groups := []GroupCount{}
	for cur.Next(ctx) {
		var row struct {
			ID    any   `bson:"_id"`
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		groups = append(groups, GroupCount{ID: row.ID, Count: row.Count})
	}
	return groups, cur.Err()
}

func (c *mongoCollection) translate(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	conflict := &ConflictError{Collection: c.spec.Name}
	for _, field := range c.spec.Unique {
		if strings.Contains(err.Error(), uniqueIndexName(field)) {
			conflict.Field = field
			break
		}
	}
	return conflict
}

func mongoFilter(q Query) bson.M {
	filter := bson.M{}
	for _, cond := range q.Where {
		addMongoCond(filter, cond)
	}
	if len(q.AnyOf) > 0 {
		or := make([]bson.M, 0, len(q.AnyOf))
		for _, cond := range q.AnyOf {
			clause := bson.M{}
			addMongoCond(clause, cond)
			or = append(or, clause)
		}
		filter["$or"] = or
	}
	return filter
}

func addMongoCond(filter bson.M, cond Cond) {
	switch cond.Op {
	case OpEq:
		filter[cond.Field] = cond.Value
	case OpContains:
		filter[cond.Field] = primitive.Regex{Pattern: regexp.QuoteMeta(fmt.Sprint(cond.Value)), Options: "i"}
	case OpGte, OpLt:
		op := "$gte"
		if cond.Op == OpLt {
			op = "$lt"
		}
		ranges, ok := filter[cond.Field].(bson.M)
		if !ok {
			ranges = bson.M{}
			filter[cond.Field] = ranges
		}
		ranges[op] = cond.Value
	}
}

func mongoSort(fields []SortField) bson.D {
	sort := bson.D{}
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Field, Value: dir})
	}
	return sort
}

func rawID(value bson.RawValue) string {
	if oid, ok := value.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := value.StringValueOK(); ok {
		return s
	}
	return ""
}
