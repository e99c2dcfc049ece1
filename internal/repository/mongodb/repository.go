package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbacelar/rebanho/internal/domain/models"
)

const (
	animalsCollection    = "animals"
	movementsCollection  = "movements"
	balancesCollection   = "cattle_balances"
	migrationsCollection = "migration_runs"
	markersCollection    = "markers"

	lastRunMarkerID = "last_migration_run"
	markerLayout    = "2006-01-02"
)

// Repository defines the herd persistence operations the core consumes.
type Repository interface {
	ListMovements(ctx context.Context, propertyID string) ([]models.MovementRecord, error)
	ListAnimals(ctx context.Context, propertyID string) ([]models.Animal, error)
	UpdateAnimalAgeGroup(ctx context.Context, animalID string, group models.AgeGroupID) error
	LoadBalances(ctx context.Context, propertyID string) (models.BalanceSet, error)
	SaveBalances(ctx context.Context, propertyID string, balances models.BalanceSet) error
	LastMigrationRun(ctx context.Context) (time.Time, bool, error)
	MarkMigrationRun(ctx context.Context, runDate time.Time) error
	SaveMigrationResult(ctx context.Context, result models.MigrationResult) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client: client,
		dbName: dbName,
	}, nil
}

func (r *MongoDBRepository) collection(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// ListMovements returns every movement record, optionally filtered by property.
func (r *MongoDBRepository) ListMovements(ctx context.Context, propertyID string) ([]models.MovementRecord, error) {
	filter := bson.M{}
	if propertyID != "" {
		filter["property_id"] = propertyID
	}

	cursor, err := r.collection(movementsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find movements: %w", err)
	}
	defer cursor.Close(ctx)

	var movements []models.MovementRecord
	if err := cursor.All(ctx, &movements); err != nil {
		return nil, fmt.Errorf("decode movements: %w", err)
	}
	return movements, nil
}

// ListAnimals returns the registered herd, optionally filtered by property.
func (r *MongoDBRepository) ListAnimals(ctx context.Context, propertyID string) ([]models.Animal, error) {
	filter := bson.M{}
	if propertyID != "" {
		filter["property_id"] = propertyID
	}

	cursor, err := r.collection(animalsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find animals: %w", err)
	}
	defer cursor.Close(ctx)

	var animals []models.Animal
	if err := cursor.All(ctx, &animals); err != nil {
		return nil, fmt.Errorf("decode animals: %w", err)
	}
	return animals, nil
}

// UpdateAnimalAgeGroup rewrites the cached bracket of a single animal.
func (r *MongoDBRepository) UpdateAnimalAgeGroup(ctx context.Context, animalID string, group models.AgeGroupID) error {
	res, err := r.collection(animalsCollection).UpdateOne(ctx,
		bson.M{"_id": animalID},
		bson.M{"$set": bson.M{"current_age_group": group}})
	if err != nil {
		return fmt.Errorf("update animal %s: %w", animalID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("animal %s not found", animalID)
	}
	return nil
}

// LoadBalances fetches a property's per-bracket balances.
func (r *MongoDBRepository) LoadBalances(ctx context.Context, propertyID string) (models.BalanceSet, error) {
	filter := bson.M{}
	if propertyID != "" {
		filter["property_id"] = propertyID
	}

	cursor, err := r.collection(balancesCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find balances: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.CattleBalance
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode balances: %w", err)
	}

	balances := make(models.BalanceSet, len(entries))
	for _, entry := range entries {
		balances[entry.AgeGroupID] = entry
	}
	return balances, nil
}

// SaveBalances upserts a property's per-bracket balances.
func (r *MongoDBRepository) SaveBalances(ctx context.Context, propertyID string, balances models.BalanceSet) error {
	coll := r.collection(balancesCollection)

	for groupID, entry := range balances {
		if entry.PropertyID == "" {
			entry.PropertyID = propertyID
		}
		filter := bson.M{"property_id": entry.PropertyID, "age_group_id": groupID}
		if _, err := coll.ReplaceOne(ctx, filter, entry, options.Replace().SetUpsert(true)); err != nil {
			return fmt.Errorf("upsert balance %s/%s: %w", entry.PropertyID, groupID, err)
		}
	}
	return nil
}

type runMarker struct {
	ID   string `bson:"_id"`
	Date string `bson:"date"`
}

// LastMigrationRun reads the per-install run marker. The boolean is false
// when no run has ever been recorded.
func (r *MongoDBRepository) LastMigrationRun(ctx context.Context) (time.Time, bool, error) {
	var marker runMarker
	err := r.collection(markersCollection).FindOne(ctx, bson.M{"_id": lastRunMarkerID}).Decode(&marker)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read run marker: %w", err)
	}

	date, err := time.Parse(markerLayout, marker.Date)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse run marker %q: %w", marker.Date, err)
	}
	return date, true, nil
}

// MarkMigrationRun records the calendar date of a completed run as an
// ISO-8601 date string. The write is guarded on the stored date so a
// concurrent run for the same day cannot rewrite the marker.
func (r *MongoDBRepository) MarkMigrationRun(ctx context.Context, runDate time.Time) error {
	dateStr := runDate.Format(markerLayout)
	filter := bson.M{"_id": lastRunMarkerID, "date": bson.M{"$ne": dateStr}}
	update := bson.M{"$set": bson.M{"date": dateStr}}

	_, err := r.collection(markersCollection).UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("write run marker: %w", err)
	}
	return nil
}

// SaveMigrationResult appends one run to the migration history collection.
func (r *MongoDBRepository) SaveMigrationResult(ctx context.Context, result models.MigrationResult) error {
	if _, err := r.collection(migrationsCollection).InsertOne(ctx, result); err != nil {
		return fmt.Errorf("insert migration result: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
