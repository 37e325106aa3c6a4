package models

type Document struct {
	ID                      string `bson:"_id,omitempty"`
	PatientID               string `bson:"patientId"`
	Title                   string `bson:"title"`
	ContentType             string `bson:"contentType"`
	Size                    int64  `bson:"size"`
	StoragePath             string `bson:"storagePath"`
	FhirDocumentReferenceID string `bson:"fhirDocumentReferenceId,omitempty"`
	TimeModel               `bson:",inline"`
}
