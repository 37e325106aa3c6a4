package patients

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/exceptions"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type PatientMongoRepository struct {
	Collection *mongo.Collection
}

func NewPatientMongoRepository(db *mongo.Client, dbName string) contracts.PatientRepository {
	return &PatientMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionPatients),
	}
}

func (r *PatientMongoRepository) FindByID(ctx context.Context, patientID string) (*models.Patient, error) {
	var patient models.Patient
	err := r.Collection.FindOne(ctx, bson.M{"_id": patientID}).Decode(&patient)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &patient, nil
}

func (r *PatientMongoRepository) UpdateFhirPatientID(ctx context.Context, patientID, fhirPatientID string) error {
	update := bson.M{"$set": bson.M{
		"fhirPatientId": fhirPatientID,
		"updatedAt":     time.Now().UTC(),
	}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": patientID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}

func (r *PatientMongoRepository) UpdateActiveEncounterID(ctx context.Context, patientID, encounterID string) error {
	update := bson.M{"$set": bson.M{
		"activeEncounterId": encounterID,
		"updatedAt":         time.Now().UTC(),
	}}
	_, err := r.Collection.UpdateOne(ctx, bson.M{"_id": patientID}, update)
	if err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
