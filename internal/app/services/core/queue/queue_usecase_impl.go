package queue

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/exceptions"
	"sort"
	"time"

	"go.uber.org/zap"
)

type queueUsecase struct {
	QueueRepository        contracts.QueueRepository
	PatientRepository      contracts.PatientRepository
	ConsultationRepository contracts.ConsultationRepository
	RedisRepository        contracts.RedisRepository
	EventPublisher         contracts.EventPublisher
	Log                    *zap.Logger
}

func NewQueueUsecase(
	queueRepository contracts.QueueRepository,
	patientRepository contracts.PatientRepository,
	consultationRepository contracts.ConsultationRepository,
	redisRepository contracts.RedisRepository,
	eventPublisher contracts.EventPublisher,
	logger *zap.Logger,
) contracts.QueueUsecase {
	return &queueUsecase{
		QueueRepository:        queueRepository,
		PatientRepository:      patientRepository,
		ConsultationRepository: consultationRepository,
		RedisRepository:        redisRepository,
		EventPublisher:         eventPublisher,
		Log:                    logger,
	}
}

func (uc *queueUsecase) Enqueue(ctx context.Context, request *requests.AddToQueueRequest) (*responses.QueueEntry, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("queueUsecase.Enqueue called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
	)

	if request.TriageLevel != 0 && (request.TriageLevel < constvars.TriageLevelMin || request.TriageLevel > constvars.TriageLevelMax) {
		return nil, exceptions.ErrTriageLevelOutOfRange(request.TriageLevel)
	}

	patient, err := uc.PatientRepository.FindByID(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, exceptions.ErrPatientNotFound(nil)
	}

	existing, err := uc.QueueRepository.FindActiveByPatientID(ctx, request.PatientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return uc.toResponse(existing, patient.Name), nil
	}

	position, err := uc.QueueRepository.NextPosition(ctx)
	if err != nil {
		return nil, err
	}

	triageLevel := request.TriageLevel
	if triageLevel == 0 {
		// Untriaged walk-ins queue behind every triaged patient.
		triageLevel = constvars.TriageLevelMax
	}

	entry := &models.QueueEntry{
		PatientID:      request.PatientID,
		TriageLevel:    triageLevel,
		Status:         constvars.QueueStatusWaiting,
		ChiefComplaint: request.ChiefComplaint,
		AddedAt:        time.Now().UTC(),
		Position:       position,
	}
	if _, err := uc.QueueRepository.Insert(ctx, entry); err != nil {
		return nil, err
	}
	uc.invalidateSnapshot(ctx)

	uc.Log.Info("queueUsecase.Enqueue succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, request.PatientID),
		zap.Int("triage_level", entry.TriageLevel),
	)
	return uc.toResponse(entry, patient.Name), nil
}

func (uc *queueUsecase) Remove(ctx context.Context, patientID string) error {
	return uc.transition(ctx, patientID, constvars.QueueStatusRemoved)
}

// UpdateStatus is last-write-wins: two concurrent calls for the same patient
// may race and the later physical write sticks.
func (uc *queueUsecase) UpdateStatus(ctx context.Context, patientID, status string) error {
	return uc.transition(ctx, patientID, status)
}

func (uc *queueUsecase) transition(ctx context.Context, patientID, status string) error {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("queueUsecase.transition called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patientID),
		zap.String(constvars.LoggingStatusKey, status),
	)

	// The latest entry is fetched regardless of status so a transition off a
	// terminal entry fails as invalid rather than as not-found.
	entry, err := uc.QueueRepository.FindLatestByPatientID(ctx, patientID)
	if err != nil {
		return err
	}
	if entry == nil {
		return exceptions.ErrQueueEntryNotFound(nil)
	}
	if err := validateTransition(entry.Status, status); err != nil {
		return err
	}
	if err := uc.QueueRepository.UpdateStatus(ctx, patientID, status); err != nil {
		return err
	}
	uc.invalidateSnapshot(ctx)
	uc.syncConsultation(ctx, patientID, status)

	if err := uc.EventPublisher.Publish(ctx, constvars.EventQueueStatus, map[string]string{
		"patientId": patientID,
		"from":      entry.Status,
		"to":        status,
	}); err != nil {
		uc.Log.Warn("queueUsecase.transition event publish failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
	}
	return nil
}

// syncConsultation keeps the consultation record in step with the queue:
// entering in-consultation opens one, completing closes it. Bookkeeping only;
// a failure here never rolls back the queue transition.
func (uc *queueUsecase) syncConsultation(ctx context.Context, patientID, status string) {
	switch status {
	case constvars.QueueStatusInConsultation:
		patient, err := uc.PatientRepository.FindByID(ctx, patientID)
		if err != nil {
			uc.Log.Warn("queueUsecase consultation open skipped", zap.Error(err))
			return
		}
		consultation := &models.Consultation{
			PatientID: patientID,
			Status:    constvars.ConsultationStatusInProgress,
		}
		if patient != nil {
			consultation.FhirEncounterID = patient.ActiveEncounterID
		}
		if _, err := uc.ConsultationRepository.Insert(ctx, consultation); err != nil {
			uc.Log.Warn("queueUsecase consultation open failed", zap.Error(err))
		}
	case constvars.QueueStatusCompleted:
		consultation, err := uc.ConsultationRepository.FindActiveByPatientID(ctx, patientID)
		if err != nil || consultation == nil {
			if err != nil {
				uc.Log.Warn("queueUsecase consultation lookup failed", zap.Error(err))
			}
			return
		}
		if err := uc.ConsultationRepository.UpdateStatus(ctx, consultation.ID, constvars.ConsultationStatusFinished); err != nil {
			uc.Log.Warn("queueUsecase consultation close failed", zap.Error(err))
		}
	}
}

func (uc *queueUsecase) List(ctx context.Context) ([]responses.QueueEntry, error) {
	entries, err := uc.QueueRepository.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}

	sortEntries(entries)

	result := make([]responses.QueueEntry, 0, len(entries))
	for i := range entries {
		result = append(result, *uc.toResponse(&entries[i], ""))
	}
	return result, nil
}

// sortEntries orders by (triageLevel asc, addedAt asc); SliceStable keeps
// insertion order for equal keys.
func sortEntries(entries []models.QueueEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TriageLevel != entries[j].TriageLevel {
			return entries[i].TriageLevel < entries[j].TriageLevel
		}
		return entries[i].AddedAt.Before(entries[j].AddedAt)
	})
}

func (uc *queueUsecase) invalidateSnapshot(ctx context.Context) {
	if err := uc.RedisRepository.Delete(ctx, constvars.RedisKeyQueueSnapshot); err != nil {
		uc.Log.Warn("queueUsecase snapshot invalidation failed", zap.Error(err))
	}
}

func (uc *queueUsecase) toResponse(entry *models.QueueEntry, patientName string) *responses.QueueEntry {
	return &responses.QueueEntry{
		PatientID:      entry.PatientID,
		PatientName:    patientName,
		TriageLevel:    entry.TriageLevel,
		Status:         entry.Status,
		ChiefComplaint: entry.ChiefComplaint,
		AddedAt:        entry.AddedAt,
	}
}
