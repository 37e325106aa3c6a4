package referrals

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

type ReferralMongoRepository struct {
	Collection *mongo.Collection
}

func NewReferralMongoRepository(db *mongo.Client, dbName string) contracts.ReferralRepository {
	return &ReferralMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionReferrals),
	}
}

func (r *ReferralMongoRepository) Insert(ctx context.Context, referral *models.Referral) (string, error) {
	if referral.ID == "" {
		referral.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	referral.CreatedAt = now
	referral.UpdatedAt = now
	if _, err := r.Collection.InsertOne(ctx, referral); err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return referral.ID, nil
}

func (r *ReferralMongoRepository) FindByID(ctx context.Context, referralID string) (*models.Referral, error) {
	var referral models.Referral
	if err := r.Collection.FindOne(ctx, bson.M{"_id": referralID}).Decode(&referral); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &referral, nil
}

func (r *ReferralMongoRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Referral, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var referrals []models.Referral
	if err := cursor.All(ctx, &referrals); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return referrals, nil
}

func (r *ReferralMongoRepository) UpdateFhirServiceRequestID(ctx context.Context, referralID, serviceRequestID string) error {
	update := bson.M{"$set": bson.M{
		"fhirServiceRequestId": serviceRequestID,
		"updatedAt":            time.Now().UTC(),
	}}
	if _, err := r.Collection.UpdateOne(ctx, bson.M{"_id": referralID}, update); err != nil {
		return exceptions.ErrMongoDBUpdateDocument(err)
	}
	return nil
}
