package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/porenet/pkg/cache"
	"github.com/matzehuels/porenet/pkg/errors"
	"github.com/matzehuels/porenet/pkg/pipeline"
)

// RunsCollection is the collection runs are stored in.
const RunsCollection = "runs"

// connectTimeout bounds the initial connect and ping.
const connectTimeout = 10 * time.Second

// runDocument is the stored form of a run. The full result is kept as a
// JSON payload; the summary fields are duplicated for listing and sorting.
type runDocument struct {
	ID        string    `bson:"_id"`
	CreatedAt time.Time `bson:"created_at"`
	Variants  []string  `bson:"variants"`
	Steps     int       `bson:"steps"`
	Seed      int64     `bson:"seed"`
	Payload   []byte    `bson:"payload,omitempty"`
}

func (d runDocument) summary() pipeline.Summary {
	return pipeline.Summary{
		ID:        d.ID,
		CreatedAt: d.CreatedAt,
		Variants:  d.Variants,
		Steps:     d.Steps,
		Seed:      uint64(d.Seed),
	}
}

// MongoStore stores runs in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// NewMongoStore connects to the MongoDB deployment at uri and uses the runs
// collection of database. The initial ping is retried with
// [cache.DefaultBackoff].
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if err := errors.ValidateURL(uri, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "connect to mongodb")
	}
	err = cache.DefaultBackoff.Do(ctx, func() error {
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}

	runs := client.Database(database).Collection(RunsCollection)
	_, err = runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create index")
	}
	return &MongoStore{client: client, runs: runs}, nil
}

func (s *MongoStore) Save(ctx context.Context, res *pipeline.Result) error {
	if res == nil || res.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "run has no ID")
	}
	payload, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode run")
	}
	sum := res.Summary()
	doc := runDocument{
		ID:        sum.ID,
		CreatedAt: sum.CreatedAt,
		Variants:  sum.Variants,
		Steps:     sum.Steps,
		Seed:      int64(sum.Seed),
		Payload:   payload,
	}
	_, err = s.runs.ReplaceOne(ctx, bson.D{{Key: "_id", Value: doc.ID}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save run %s", res.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*pipeline.Result, error) {
	var doc runDocument
	err := s.runs.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load run %s", id)
	}

	var res pipeline.Result
	if err := json.Unmarshal(doc.Payload, &res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode run %s", id)
	}
	return &res, nil
}

func (s *MongoStore) List(ctx context.Context, limit int) ([]pipeline.Summary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(ClampLimit(limit))).
		SetProjection(bson.D{{Key: "payload", Value: 0}})

	cur, err := s.runs.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	var docs []runDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}

	out := make([]pipeline.Summary, len(docs))
	for i, d := range docs {
		out[i] = d.summary()
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
