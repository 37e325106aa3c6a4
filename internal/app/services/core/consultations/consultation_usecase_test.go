package consultations

import (
	"context"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/fhir_dto"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeLinker struct {
	ensureErr          error
	linkedConditions   []*fhir_dto.Condition
	linkedMedications  []*fhir_dto.MedicationRequest
	conditionLinkErr   error
	encounterRequested string
}

func (f *fakeLinker) EnsurePatient(_ context.Context, patientID string) (fhir_dto.ExternalReference, error) {
	if f.ensureErr != nil {
		return fhir_dto.ExternalReference{}, f.ensureErr
	}
	id := "fp-" + patientID
	return fhir_dto.ExternalReference{ResourceType: constvars.ResourcePatient, ID: id, Reference: "Patient/" + id}, nil
}

func (f *fakeLinker) EnsureEncounter(_ context.Context, patientID, encounterID string) (fhir_dto.ExternalReference, error) {
	f.encounterRequested = encounterID
	id := encounterID
	if id == "" {
		id = "fe-" + patientID
	}
	return fhir_dto.ExternalReference{ResourceType: constvars.ResourceEncounter, ID: id, Reference: "Encounter/" + id}, nil
}

func (f *fakeLinker) LinkServiceRequest(_ context.Context, _ *fhir_dto.ServiceRequest, _ fhir_dto.ExternalReference, _ *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error) {
	return fhir_dto.ExternalReference{}, nil
}

func (f *fakeLinker) LinkCondition(_ context.Context, request *fhir_dto.Condition, _ fhir_dto.ExternalReference, _ *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error) {
	if f.conditionLinkErr != nil {
		return fhir_dto.ExternalReference{}, f.conditionLinkErr
	}
	f.linkedConditions = append(f.linkedConditions, request)
	return fhir_dto.ExternalReference{ResourceType: constvars.ResourceCondition, ID: "c-1", Reference: "Condition/c-1"}, nil
}

func (f *fakeLinker) LinkMedicationRequest(_ context.Context, request *fhir_dto.MedicationRequest, _ fhir_dto.ExternalReference, _ *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error) {
	f.linkedMedications = append(f.linkedMedications, request)
	return fhir_dto.ExternalReference{ResourceType: constvars.ResourceMedicationRequest, ID: "mr-1", Reference: "MedicationRequest/mr-1"}, nil
}

func (f *fakeLinker) LinkDocumentReference(_ context.Context, _ *fhir_dto.DocumentReference, _ fhir_dto.ExternalReference, _ *fhir_dto.ExternalReference) (fhir_dto.ExternalReference, error) {
	return fhir_dto.ExternalReference{}, nil
}

type fakeConditionFhirClient struct {
	byPatient map[string][]fhir_dto.Condition
}

func (f *fakeConditionFhirClient) CreateCondition(_ context.Context, request *fhir_dto.Condition) (*fhir_dto.Condition, error) {
	return request, nil
}

func (f *fakeConditionFhirClient) FindConditionsByPatientID(_ context.Context, patientID string) ([]fhir_dto.Condition, error) {
	return f.byPatient[patientID], nil
}

func (f *fakeConditionFhirClient) FindConditionsByEncounterID(_ context.Context, _ string) ([]fhir_dto.Condition, error) {
	return nil, nil
}

type fakeMedicationRequestFhirClient struct {
	byPatient map[string][]fhir_dto.MedicationRequest
}

func (f *fakeMedicationRequestFhirClient) CreateMedicationRequest(_ context.Context, request *fhir_dto.MedicationRequest) (*fhir_dto.MedicationRequest, error) {
	return request, nil
}

func (f *fakeMedicationRequestFhirClient) FindMedicationRequestsByPatientID(_ context.Context, patientID string) ([]fhir_dto.MedicationRequest, error) {
	return f.byPatient[patientID], nil
}

func (f *fakeMedicationRequestFhirClient) FindMedicationRequestsByEncounterID(_ context.Context, _ string) ([]fhir_dto.MedicationRequest, error) {
	return nil, nil
}

func newTestConsultationUsecase(linker *fakeLinker, conditions *fakeConditionFhirClient, medications *fakeMedicationRequestFhirClient) *consultationUsecase {
	return &consultationUsecase{
		ReferenceLinker:             linker,
		ConditionFhirClient:         conditions,
		MedicationRequestFhirClient: medications,
		Log:                         zap.NewNop(),
	}
}

func TestRecordDiagnosis(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates Condition Under Encounter", func(t *testing.T) {
		linker := &fakeLinker{}
		uc := newTestConsultationUsecase(linker, &fakeConditionFhirClient{}, &fakeMedicationRequestFhirClient{})

		response, err := uc.RecordDiagnosis(ctx, &requests.RecordDiagnosisRequest{PatientID: "p-1", EncounterID: "enc-7", Diagnosis: "Acute bronchitis"})
		assert.NoError(t, err)
		assert.Equal(t, "c-1", response.ConditionID)
		assert.Len(t, linker.linkedConditions, 1)
		assert.Equal(t, "Acute bronchitis", linker.linkedConditions[0].Code.Text)
		assert.Equal(t, "enc-7", linker.encounterRequested)
	})

	t.Run("Patient Resolution Failure Stops Before Any Create", func(t *testing.T) {
		linker := &fakeLinker{ensureErr: errors.New("patient repo down")}
		uc := newTestConsultationUsecase(linker, &fakeConditionFhirClient{}, &fakeMedicationRequestFhirClient{})

		_, err := uc.RecordDiagnosis(ctx, &requests.RecordDiagnosisRequest{PatientID: "p-1", Diagnosis: "Acute bronchitis"})
		assert.Error(t, err)
		assert.Empty(t, linker.linkedConditions)
	})

	t.Run("Link Failure Propagates", func(t *testing.T) {
		linker := &fakeLinker{conditionLinkErr: errors.New("upstream rejected")}
		uc := newTestConsultationUsecase(linker, &fakeConditionFhirClient{}, &fakeMedicationRequestFhirClient{})

		_, err := uc.RecordDiagnosis(ctx, &requests.RecordDiagnosisRequest{PatientID: "p-1", Diagnosis: "Acute bronchitis"})
		assert.Error(t, err)
	})
}

func TestPrescribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates MedicationRequest With Dosage", func(t *testing.T) {
		linker := &fakeLinker{}
		uc := newTestConsultationUsecase(linker, &fakeConditionFhirClient{}, &fakeMedicationRequestFhirClient{})

		response, err := uc.Prescribe(ctx, &requests.PrescribeRequest{PatientID: "p-1", Medication: "Amoxicillin 500mg", Dosage: "1 capsule three times daily for 7 days"})
		assert.NoError(t, err)
		assert.Equal(t, "mr-1", response.MedicationRequestID)
		assert.Len(t, linker.linkedMedications, 1)
		assert.Equal(t, "Amoxicillin 500mg", linker.linkedMedications[0].MedicationCodeableConcept.Text)
		assert.Equal(t, "1 capsule three times daily for 7 days", linker.linkedMedications[0].DosageInstruction[0].Text)
	})
}

func TestDiagnosesAndPrescriptionsQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing Both Parameters Is Rejected", func(t *testing.T) {
		uc := newTestConsultationUsecase(&fakeLinker{}, &fakeConditionFhirClient{}, &fakeMedicationRequestFhirClient{})

		_, err := uc.Diagnoses(ctx, "", "")
		assert.Error(t, err)
		_, err = uc.Prescriptions(ctx, "", "")
		assert.Error(t, err)
	})

	t.Run("Empty Result Is Empty Slice Not Error", func(t *testing.T) {
		uc := newTestConsultationUsecase(&fakeLinker{}, &fakeConditionFhirClient{}, &fakeMedicationRequestFhirClient{})

		diagnoses, err := uc.Diagnoses(ctx, "p-1", "")
		assert.NoError(t, err)
		assert.NotNil(t, diagnoses)
		assert.Empty(t, diagnoses)
	})

	t.Run("Meta Fallback When Recorded Date Absent", func(t *testing.T) {
		lastUpdated := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
		conditions := &fakeConditionFhirClient{byPatient: map[string][]fhir_dto.Condition{
			"p-1": {{ResourceType: constvars.ResourceCondition, ID: "c-9", Meta: fhir_dto.Meta{LastUpdated: lastUpdated}}},
		}}
		uc := newTestConsultationUsecase(&fakeLinker{}, conditions, &fakeMedicationRequestFhirClient{})

		diagnoses, err := uc.Diagnoses(ctx, "p-1", "")
		assert.NoError(t, err)
		assert.Len(t, diagnoses, 1)
		assert.Equal(t, lastUpdated, diagnoses[0].CreatedAt)
	})
}
