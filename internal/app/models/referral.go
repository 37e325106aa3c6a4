package models

type Referral struct {
	ID                   string `bson:"_id,omitempty"`
	PatientID            string `bson:"patientId"`
	Specialty            string `bson:"specialty"`
	Facility             string `bson:"facility"`
	Reason               string `bson:"reason"`
	Urgency              string `bson:"urgency,omitempty"`
	ClinicalSummary      string `bson:"clinicalSummary,omitempty"`
	FhirServiceRequestID string `bson:"fhirServiceRequestId,omitempty"`
	Status               string `bson:"status"`
	TimeModel            `bson:",inline"`
}
