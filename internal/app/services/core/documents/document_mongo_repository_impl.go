package documents

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

type DocumentMongoRepository struct {
	Collection *mongo.Collection
}

func NewDocumentMongoRepository(db *mongo.Client, dbName string) contracts.DocumentRepository {
	return &DocumentMongoRepository{
		Collection: db.Database(dbName).Collection(constvars.MongoCollectionDocuments),
	}
}

func (r *DocumentMongoRepository) Insert(ctx context.Context, document *models.Document) (string, error) {
	if document.ID == "" {
		document.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	document.CreatedAt = now
	document.UpdatedAt = now
	if _, err := r.Collection.InsertOne(ctx, document); err != nil {
		return "", exceptions.ErrMongoDBInsertDocument(err)
	}
	return document.ID, nil
}

func (r *DocumentMongoRepository) FindByID(ctx context.Context, documentID string) (*models.Document, error) {
	var document models.Document
	if err := r.Collection.FindOne(ctx, bson.M{"_id": documentID}).Decode(&document); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	return &document, nil
}

func (r *DocumentMongoRepository) FindByPatientID(ctx context.Context, patientID string) ([]models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.Collection.Find(ctx, bson.M{"patientId": patientID}, opts)
	if err != nil {
		return nil, exceptions.ErrMongoDBFindDocument(err)
	}
	defer cursor.Close(ctx)

	var documents []models.Document
	if err := cursor.All(ctx, &documents); err != nil {
		return nil, exceptions.ErrMongoDBIterateDocuments(err)
	}
	return documents, nil
}

func (r *DocumentMongoRepository) Delete(ctx context.Context, documentID string) error {
	if _, err := r.Collection.DeleteOne(ctx, bson.M{"_id": documentID}); err != nil {
		return exceptions.ErrMongoDBDeleteDocument(err)
	}
	return nil
}
