package models

import "time"

// QueueEntry is owned by the queue service; nothing else writes it.
type QueueEntry struct {
	ID             string    `bson:"_id,omitempty"`
	PatientID      string    `bson:"patientId"`
	TriageLevel    int       `bson:"triageLevel"`
	Status         string    `bson:"status"`
	ChiefComplaint string    `bson:"chiefComplaint,omitempty"`
	AddedAt        time.Time `bson:"addedAt"`
	Position       int64     `bson:"position"`
	TimeModel      `bson:",inline"`
}

type TriageRecord struct {
	ID          string     `bson:"_id,omitempty"`
	PatientID   string     `bson:"patientId"`
	TriageLevel int        `bson:"triageLevel"`
	VitalSigns  VitalSigns `bson:"vitalSigns,omitempty"`
	TriageNotes string     `bson:"triageNotes,omitempty"`
	RedFlags    []string   `bson:"redFlags,omitempty"`
	TriageBy    string     `bson:"triageBy,omitempty"`
	Timestamp   time.Time  `bson:"timestamp"`
}

type VitalSigns struct {
	Temperature      float64 `bson:"temperature,omitempty"`
	HeartRate        int     `bson:"heartRate,omitempty"`
	RespiratoryRate  int     `bson:"respiratoryRate,omitempty"`
	SystolicBP       int     `bson:"systolicBp,omitempty"`
	DiastolicBP      int     `bson:"diastolicBp,omitempty"`
	OxygenSaturation int     `bson:"oxygenSaturation,omitempty"`
}
