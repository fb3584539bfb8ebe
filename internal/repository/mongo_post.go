package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/observability"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const mongoSystem = "mongodb"

// mongoPostRepository implements PostRepository on a document collection.
type mongoPostRepository struct {
	client  *mongo.Client
	coll    *mongo.Collection
	metrics *observability.StoreMetrics
	log     *observability.RepoLogger
}

// NewMongoPostRepository creates a post repository over coll. The client is
// disconnected by Close.
func NewMongoPostRepository(client *mongo.Client, coll *mongo.Collection) PostRepository {
	return &mongoPostRepository{
		client:  client,
		coll:    coll,
		metrics: observability.NewStoreMetrics(mongoSystem),
		log:     observability.NewRepoLogger(mongoSystem, coll.Name()),
	}
}

func (r *mongoPostRepository) fail(ctx context.Context, operation string, err error) error {
	r.metrics.RecordError(operation)
	r.log.LogError(ctx, err, operation)
	return fmt.Errorf("%s post: %w", operation, err)
}

func (r *mongoPostRepository) List(ctx context.Context) (posts []models.Post, err error) {
	defer r.metrics.TrackQuery("list")()
	ctx, span := observability.StartStoreSpan(ctx, mongoSystem, "list", r.coll.Name())
	defer func() { observability.EndSpan(span, err) }()

	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, r.fail(ctx, "list", err)
	}

	var docs []models.PostDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, r.fail(ctx, "list", err)
	}

	posts = make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		posts = append(posts, doc.ToPost())
	}
	r.log.LogRead(ctx, map[string]any{"count": len(posts)})
	return posts, nil
}

func (r *mongoPostRepository) GetByID(ctx context.Context, id string) (post *models.Post, err error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	defer r.metrics.TrackQuery("get")()
	ctx, span := observability.StartStoreSpan(ctx, mongoSystem, "get", r.coll.Name())
	defer func() { observability.EndSpan(span, err) }()

	var doc models.PostDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, r.fail(ctx, "get", err)
	}

	p := doc.ToPost()
	r.log.LogRead(ctx, map[string]any{"post_id": p.ID})
	return &p, nil
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) (err error) {
	defer r.metrics.TrackQuery("create")()
	ctx, span := observability.StartStoreSpan(ctx, mongoSystem, "create", r.coll.Name())
	defer func() { observability.EndSpan(span, err) }()

	res, err := r.coll.InsertOne(ctx, models.NewPostDocument(post))
	if err != nil {
		return r.fail(ctx, "create", err)
	}

	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return r.fail(ctx, "create", fmt.Errorf("unexpected inserted id type %T", res.InsertedID))
	}
	post.ID = oid.Hex()
	r.log.LogCreate(ctx, map[string]any{"post_id": post.ID})
	return nil
}

func (r *mongoPostRepository) Update(ctx context.Context, id string, fields models.PostFields, modifiedAt time.Time) (err error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}

	defer r.metrics.TrackQuery("update")()
	ctx, span := observability.StartStoreSpan(ctx, mongoSystem, "update", r.coll.Name())
	defer func() { observability.EndSpan(span, err) }()

	set := bson.M{}
	for k, v := range fields.Columns() {
		set[k] = v
	}
	set["modified_at"] = modifiedAt.UTC()

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return r.fail(ctx, "update", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}

	r.log.LogUpdate(ctx, map[string]any{"post_id": id, "fields": len(set) - 1})
	return nil
}

func (r *mongoPostRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("ping %s: %w", mongoSystem, err)
	}
	return nil
}

func (r *mongoPostRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
