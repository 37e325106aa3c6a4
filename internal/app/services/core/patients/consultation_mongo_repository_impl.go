package patients

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
)

type ConsultationMongoRepository struct {
	Collection *mongo.Collection
}

func NewConsultationMongoRepository(db *mongo.Client, dbName string) contracts.ConsultationRepository {
	return &ConsultationMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionConsultations),
	}
}

func (r *ConsultationMongoRepository) Insert(ctx context.Context, consultation *models.Consultation) (*models.Consultation, error) {
	if consultation.ID == "" {
		consultation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	consultation.CreatedAt = now
	consultation.UpdatedAt = now
	if _, err := r.Collection.InsertOne(ctx, consultation); err != nil {
		return nil, exceptions.ErrMongoDBInsertDocument(err)
	}
	return consultation, nil
}

func (r *ConsultationMongoRepository) FindByID(ctx context.Context, consultationID string) (*models.Consultation, error) {
	var consultation models.Consultation
	err := r.Collection.FindOne(ctx, bson.M{"_id": consultationID}).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &consultation, nil
}

func (r *ConsultationMongoRepository) FindActiveByPatientID(ctx context.Context, patientID string) (*models.Consultation, error) {
	filter := bson.M{
		"patientId": patientID,
		"status":    constvars.ConsultationStatusInProgress,
	}
	var consultation models.Consultation
	err := r.Collection.FindOne(ctx, filter).Decode(&consultation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &consultation, nil
}

func (r *ConsultationMongoRepository) UpdateStatus(ctx context.Context, consultationID, status string) error {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": consultationID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
