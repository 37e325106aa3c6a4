package queue

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/exceptions"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type QueueMongoRepository struct {
	Collection *mongo.Collection
}

func NewQueueMongoRepository(db *mongo.Client, dbName string) contracts.QueueRepository {
	return &QueueMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionQueueEntries),
	}
}

func activeFilter(patientID string) bson.M {
	return bson.M{
		"patientId": patientID,
		"status": bson.M{
			"$nin": []string{constvars.QueueStatusCompleted, constvars.QueueStatusRemoved},
		},
	}
}

func (r *QueueMongoRepository) Insert(ctx context.Context, entry *models.QueueEntry) (string, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now
	if _, err := r.Collection.InsertOne(ctx, entry); err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return entry.ID, nil
}

func (r *QueueMongoRepository) FindActiveByPatientID(ctx context.Context, patientID string) (*models.QueueEntry, error) {
	var entry models.QueueEntry
	err := r.Collection.FindOne(ctx, activeFilter(patientID)).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &entry, nil
}

// FindLatestByPatientID returns the patient's most recent entry regardless of
// status, so callers can tell a terminal entry apart from no entry at all.
func (r *QueueMongoRepository) FindLatestByPatientID(ctx context.Context, patientID string) (*models.QueueEntry, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var entry models.QueueEntry
	err := r.Collection.FindOne(ctx, bson.M{"patientId": patientID}, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &entry, nil
}

// FindAllActive returns entries ordered by insertion position; the priority
// sort happens in the usecase so the comparator lives in one place.
func (r *QueueMongoRepository) FindAllActive(ctx context.Context) ([]models.QueueEntry, error) {
	filter := bson.M{
		"status": bson.M{
			"$nin": []string{constvars.QueueStatusCompleted, constvars.QueueStatusRemoved},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "position", Value: 1}})
	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var entries []models.QueueEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return entries, nil
}

func (r *QueueMongoRepository) UpdateStatus(ctx context.Context, patientID, status string) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := r.Collection.UpdateOne(ctx, activeFilter(patientID), update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *QueueMongoRepository) UpdateTriageLevel(ctx context.Context, patientID string, triageLevel int, status string) error {
	update := bson.M{"$set": bson.M{
		"triageLevel": triageLevel,
		"status":      status,
		"updatedAt":   time.Now().UTC(),
	}}
	_, err := r.Collection.UpdateOne(ctx, activeFilter(patientID), update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

// NextPosition is a monotonically increasing insertion counter used as the
// stable tie-break for equal (triageLevel, addedAt) keys.
func (r *QueueMongoRepository) NextPosition(ctx context.Context) (int64, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "position", Value: -1}})
	var last models.QueueEntry
	err := r.Collection.FindOne(ctx, bson.M{}, opts).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, exceptions.ErrMongoDBFindDocument(err)
	}
	return last.Position + 1, nil
}
