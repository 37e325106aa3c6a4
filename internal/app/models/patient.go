package models

type Patient struct {
	ID                string `bson:"_id,omitempty"`
	Name              string `bson:"name"`
	Gender            string `bson:"gender,omitempty"`
	BirthDate         string `bson:"birthDate,omitempty"`
	NationalID        string `bson:"nationalId,omitempty"`
	FhirPatientID     string `bson:"fhirPatientId,omitempty"`
	ActiveEncounterID string `bson:"activeEncounterId,omitempty"`
	TimeModel         `bson:",inline"`
}

type Consultation struct {
	ID              string `bson:"_id,omitempty"`
	PatientID       string `bson:"patientId"`
	FhirEncounterID string `bson:"fhirEncounterId,omitempty"`
	Status          string `bson:"status"`
	Notes           string `bson:"notes,omitempty"`
	TimeModel       `bson:",inline"`
}
