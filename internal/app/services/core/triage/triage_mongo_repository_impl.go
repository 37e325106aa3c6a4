package triage

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/exceptions"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TriageMongoRepository struct {
	Collection *mongo.Collection
}

func NewTriageMongoRepository(db *mongo.Client, dbName string) contracts.TriageRepository {
	return &TriageMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionTriageRecords),
	}
}

// Insert only; triage records are immutable once written.
func (r *TriageMongoRepository) Insert(ctx context.Context, record *models.TriageRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if _, err := r.Collection.InsertOne(ctx, record); err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return record.ID, nil
}

func (r *TriageMongoRepository) FindLatestByPatientID(ctx context.Context, patientID string) (*models.TriageRecord, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	var record models.TriageRecord
	err := r.Collection.FindOne(ctx, bson.M{"patientId": patientID}, opts).Decode(&record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &record, nil
}
