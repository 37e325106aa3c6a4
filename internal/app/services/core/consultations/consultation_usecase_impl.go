package consultations

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"emr-service/internal/pkg/fhir_dto"
	"emr-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type consultationUsecase struct {
	ReferenceLinker             contracts.ReferenceLinker
	ConditionFhirClient         contracts.ConditionFhirClient
	MedicationRequestFhirClient contracts.MedicationRequestFhirClient
	Log                         *zap.Logger
}

func NewConsultationUsecase(
	referenceLinker contracts.ReferenceLinker,
	conditionFhirClient contracts.ConditionFhirClient,
	medicationRequestFhirClient contracts.MedicationRequestFhirClient,
	logger *zap.Logger,
) contracts.ConsultationUsecase {
	return &consultationUsecase{
		ReferenceLinker:             referenceLinker,
		ConditionFhirClient:         conditionFhirClient,
		MedicationRequestFhirClient: medicationRequestFhirClient,
		Log:                         logger,
	}
}

func (uc *consultationUsecase) RecordDiagnosis(ctx context.Context, request *requests.RecordDiagnosisRequest) (*responses.DiagnosisRecorded, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.RecordDiagnosis called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	subject, encounter, err := uc.resolveReferences(ctx, request.PatientID, request.EncounterID)
	if err != nil {
		return nil, err
	}

	condition, err := utils.MapConditionToFhir(subject.AsReference(), nil, request.Diagnosis, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	ref, err := uc.ReferenceLinker.LinkCondition(ctx, condition, subject, &encounter)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("consultationUsecase.RecordDiagnosis succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("fhir_condition_id", ref.ID),
	)
	return &responses.DiagnosisRecorded{
		ConditionID: ref.ID,
		Diagnosis:   request.Diagnosis,
	}, nil
}

func (uc *consultationUsecase) Prescribe(ctx context.Context, request *requests.PrescribeRequest) (*responses.PrescriptionCreated, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("consultationUsecase.Prescribe called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	subject, encounter, err := uc.resolveReferences(ctx, request.PatientID, request.EncounterID)
	if err != nil {
		return nil, err
	}

	medicationRequest, err := utils.MapMedicationRequestToFhir(subject.AsReference(), nil, request.Medication, request.Dosage, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	ref, err := uc.ReferenceLinker.LinkMedicationRequest(ctx, medicationRequest, subject, &encounter)
	if err != nil {
		return nil, err
	}

	uc.Log.Info("consultationUsecase.Prescribe succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("fhir_medication_request_id", ref.ID),
	)
	return &responses.PrescriptionCreated{
		MedicationRequestID: ref.ID,
		Medication:          request.Medication,
		Dosage:              request.Dosage,
	}, nil
}

func (uc *consultationUsecase) Diagnoses(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error) {
	if patientID == "" && encounterID == "" {
		return nil, exceptions.ErrMissingPatientOrEncounterParam()
	}

	var conditions []fhir_dto.Condition
	var err error
	if encounterID != "" {
		conditions, err = uc.ConditionFhirClient.FindConditionsByEncounterID(ctx, encounterID)
	} else {
		conditions, err = uc.ConditionFhirClient.FindConditionsByPatientID(ctx, patientID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]responses.ClinicalResource, 0, len(conditions))
	for _, condition := range conditions {
		createdAt, _ := utils.TextDate(condition.RecordedDate).Time()
		if createdAt.IsZero() {
			createdAt = condition.Meta.LastUpdated
		}
		result = append(result, responses.ClinicalResource{
			ResourceType: constvars.ResourceCondition,
			ID:           condition.ID,
			CreatedAt:    createdAt,
			Resource:     condition,
		})
	}
	return result, nil
}

func (uc *consultationUsecase) Prescriptions(ctx context.Context, patientID, encounterID string) ([]responses.ClinicalResource, error) {
	if patientID == "" && encounterID == "" {
		return nil, exceptions.ErrMissingPatientOrEncounterParam()
	}

	var medicationRequests []fhir_dto.MedicationRequest
	var err error
	if encounterID != "" {
		medicationRequests, err = uc.MedicationRequestFhirClient.FindMedicationRequestsByEncounterID(ctx, encounterID)
	} else {
		medicationRequests, err = uc.MedicationRequestFhirClient.FindMedicationRequestsByPatientID(ctx, patientID)
	}
	if err != nil {
		return nil, err
	}

	result := make([]responses.ClinicalResource, 0, len(medicationRequests))
	for _, medicationRequest := range medicationRequests {
		createdAt, _ := utils.TextDate(medicationRequest.AuthoredOn).Time()
		if createdAt.IsZero() {
			createdAt = medicationRequest.Meta.LastUpdated
		}
		result = append(result, responses.ClinicalResource{
			ResourceType: constvars.ResourceMedicationRequest,
			ID:           medicationRequest.ID,
			CreatedAt:    createdAt,
			Resource:     medicationRequest,
		})
	}
	return result, nil
}

// resolveReferences enforces creation order: the patient reference must exist
// before the encounter, and both before the clinical resource they anchor.
func (uc *consultationUsecase) resolveReferences(ctx context.Context, patientID, encounterID string) (fhir_dto.ExternalReference, fhir_dto.ExternalReference, error) {
	subject, err := uc.ReferenceLinker.EnsurePatient(ctx, patientID)
	if err != nil {
		return fhir_dto.ExternalReference{}, fhir_dto.ExternalReference{}, err
	}
	encounter, err := uc.ReferenceLinker.EnsureEncounter(ctx, patientID, encounterID)
	if err != nil {
		return fhir_dto.ExternalReference{}, fhir_dto.ExternalReference{}, err
	}
	return subject, encounter, nil
}
