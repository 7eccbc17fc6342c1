package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hamadismail/xpeed-cng/internal/domain/models"
)

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// ErrInvalidID indicates the supplied identifier is not a valid ObjectID.
var ErrInvalidID = errors.New("invalid document id")

const (
	logsCollection   = "logs"
	pricesCollection = "prices"
)

// Repository defines the interface for daily log and price storage.
type Repository interface {
	SaveLog(ctx context.Context, record models.LogRecord) (models.LogRecord, error)
	GetLog(ctx context.Context, id string) (models.LogRecord, error)
	ListLogs(ctx context.Context, query models.LogQuery) ([]models.LogRecord, int64, error)
	LatestPrices(ctx context.Context) (*models.PriceRecord, error)
	SavePrices(ctx context.Context, prices models.PriceTable) (models.PriceRecord, error)
}

var _ Repository = (*MongoDBRepository)(nil)

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
	now    func() time.Time
}

// disconnect releases a client whose repository failed to initialise.
var disconnect = func(client *mongo.Client) error {
	return client.Disconnect(context.Background())
}

// NewMongoDBRepository creates a new MongoDB repository. The client is
// disconnected again if the ping or the index setup fails.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (_ *MongoDBRepository, err error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		if err != nil {
			_ = disconnect(client)
		}
	}()

	// Ping the database to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	r := &MongoDBRepository{
		client: client,
		dbName: dbName,
		now:    time.Now,
	}

	if err = r.ensureIndexes(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	_, err := r.collection(logsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create logs date index: %w", err)
	}

	_, err = r.collection(pricesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create prices createdAt index: %w", err)
	}
	return nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// SaveLog inserts a daily log record and returns it with its assigned ID.
func (r *MongoDBRepository) SaveLog(ctx context.Context, record models.LogRecord) (models.LogRecord, error) {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now().UTC()
	}

	res, err := r.collection(logsCollection).InsertOne(ctx, record)
	if err != nil {
		return models.LogRecord{}, fmt.Errorf("failed to insert log: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}
	return record, nil
}

// GetLog loads a single log record by its hex ObjectID.
func (r *MongoDBRepository) GetLog(ctx context.Context, id string) (models.LogRecord, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.LogRecord{}, fmt.Errorf("%w: %s", ErrInvalidID, id)
	}

	var record models.LogRecord
	err = r.collection(logsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.LogRecord{}, fmt.Errorf("log %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.LogRecord{}, fmt.Errorf("failed to load log %s: %w", id, err)
	}
	return record, nil
}

// ListLogs returns one page of log records, newest report date first, along
// with the total number of records matching the query.
func (r *MongoDBRepository) ListLogs(ctx context.Context, query models.LogQuery) ([]models.LogRecord, int64, error) {
	filter := logsFilter(query)
	coll := r.collection(logsCollection)

	cursor, err := coll.Find(ctx, filter, findOptions(query))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]models.LogRecord, 0, query.Limit)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode logs: %w", err)
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	return records, total, nil
}

// LatestPrices returns the most recently created price record, or nil when
// no price has ever been saved.
func (r *MongoDBRepository) LatestPrices(ctx context.Context) (*models.PriceRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	var record models.PriceRecord
	err := r.collection(pricesCollection).FindOne(ctx, bson.M{}, opts).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest prices: %w", err)
	}
	return &record, nil
}

// SavePrices stores a new price record. Earlier records are kept as history.
func (r *MongoDBRepository) SavePrices(ctx context.Context, prices models.PriceTable) (models.PriceRecord, error) {
	now := r.now().UTC()
	record := models.PriceRecord{
		PriceTable: prices,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res, err := r.collection(pricesCollection).InsertOne(ctx, record)
	if err != nil {
		return models.PriceRecord{}, fmt.Errorf("failed to insert prices: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		record.ID = id
	}
	return record, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func logsFilter(query models.LogQuery) bson.M {
	if query.Day == nil {
		return bson.M{}
	}

	start := models.ReportDay(*query.Day)
	return bson.M{
		"date": bson.M{
			"$gte": start,
			"$lt":  start.AddDate(0, 0, 1),
		},
	}
}

func findOptions(query models.LogQuery) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if query.Limit > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * query.Limit)).SetLimit(int64(query.Limit))
	}
	return opts
}
