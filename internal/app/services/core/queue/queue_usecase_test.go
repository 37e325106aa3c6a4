package queue

import (
	"context"
	"emr-service/internal/app/models"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/requests"
	"emr-service/internal/pkg/exceptions"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeQueueRepository struct {
	entries []models.QueueEntry
}

func (f *fakeQueueRepository) Insert(_ context.Context, entry *models.QueueEntry) (string, error) {
	f.entries = append(f.entries, *entry)
	return entry.PatientID, nil
}

func (f *fakeQueueRepository) FindActiveByPatientID(_ context.Context, patientID string) (*models.QueueEntry, error) {
	for i := range f.entries {
		if f.entries[i].PatientID == patientID && !isTerminal(f.entries[i].Status) {
			return &f.entries[i], nil
		}
	}
	return nil, nil
}

func (f *fakeQueueRepository) FindLatestByPatientID(_ context.Context, patientID string) (*models.QueueEntry, error) {
	for i := len(f.entries) - 1; i >= 0; i-- {
		if f.entries[i].PatientID == patientID {
			return &f.entries[i], nil
		}
	}
	return nil, nil
}

func (f *fakeQueueRepository) FindAllActive(_ context.Context) ([]models.QueueEntry, error) {
	var active []models.QueueEntry
	for _, entry := range f.entries {
		if !isTerminal(entry.Status) {
			active = append(active, entry)
		}
	}
	return active, nil
}

func (f *fakeQueueRepository) UpdateStatus(_ context.Context, patientID, status string) error {
	for i := range f.entries {
		if f.entries[i].PatientID == patientID && !isTerminal(f.entries[i].Status) {
			f.entries[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeQueueRepository) UpdateTriageLevel(_ context.Context, patientID string, triageLevel int, status string) error {
	for i := range f.entries {
		if f.entries[i].PatientID == patientID && !isTerminal(f.entries[i].Status) {
			f.entries[i].TriageLevel = triageLevel
			f.entries[i].Status = status
			return nil
		}
	}
	return nil
}

func (f *fakeQueueRepository) NextPosition(_ context.Context) (int64, error) {
	return int64(len(f.entries) + 1), nil
}

type fakeQueuePatientRepository struct {
	known map[string]bool
}

func (f *fakeQueuePatientRepository) FindByID(_ context.Context, patientID string) (*models.Patient, error) {
	if f.known[patientID] {
		return &models.Patient{ID: patientID, Name: "Patient " + patientID}, nil
	}
	return nil, nil
}

func (f *fakeQueuePatientRepository) UpdateFhirPatientID(_ context.Context, _, _ string) error {
	return nil
}

func (f *fakeQueuePatientRepository) UpdateActiveEncounterID(_ context.Context, _, _ string) error {
	return nil
}

type fakeRedisRepository struct {
	deleted []string
}

func (f *fakeRedisRepository) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeRedisRepository) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}

func (f *fakeRedisRepository) Get(_ context.Context, _ string) (string, error) { return "", nil }

func (f *fakeRedisRepository) AddToSet(_ context.Context, _ string, _ ...interface{}) error {
	return nil
}

func (f *fakeRedisRepository) IsSetMember(_ context.Context, _ string, _ interface{}) (bool, error) {
	return false, nil
}

type fakeEventPublisher struct {
	published []string
}

func (f *fakeEventPublisher) Publish(_ context.Context, routingKey string, _ interface{}) error {
	f.published = append(f.published, routingKey)
	return nil
}

func (f *fakeEventPublisher) Close() error { return nil }

type fakeConsultationRepository struct {
	consultations []*models.Consultation
}

func (f *fakeConsultationRepository) Insert(_ context.Context, consultation *models.Consultation) (*models.Consultation, error) {
	f.consultations = append(f.consultations, consultation)
	return consultation, nil
}

func (f *fakeConsultationRepository) FindByID(_ context.Context, consultationID string) (*models.Consultation, error) {
	for _, consultation := range f.consultations {
		if consultation.ID == consultationID {
			return consultation, nil
		}
	}
	return nil, nil
}

func (f *fakeConsultationRepository) FindActiveByPatientID(_ context.Context, patientID string) (*models.Consultation, error) {
	for _, consultation := range f.consultations {
		if consultation.PatientID == patientID && consultation.Status == constvars.ConsultationStatusInProgress {
			return consultation, nil
		}
	}
	return nil, nil
}

func (f *fakeConsultationRepository) UpdateStatus(_ context.Context, consultationID, status string) error {
	for _, consultation := range f.consultations {
		if consultation.ID == consultationID {
			consultation.Status = status
		}
	}
	return nil
}

func newTestQueueUsecase(repo *fakeQueueRepository, patients *fakeQueuePatientRepository) (*queueUsecase, *fakeEventPublisher) {
	publisher := &fakeEventPublisher{}
	uc := &queueUsecase{
		QueueRepository:        repo,
		PatientRepository:      patients,
		ConsultationRepository: &fakeConsultationRepository{},
		RedisRepository:        &fakeRedisRepository{},
		EventPublisher:         publisher,
		Log:                    zap.NewNop(),
	}
	return uc, publisher
}

func TestQueueStateMachine(t *testing.T) {
	t.Run("Full Happy Path", func(t *testing.T) {
		assert.NoError(t, validateTransition(constvars.QueueStatusWaiting, constvars.QueueStatusTriaged))
		assert.NoError(t, validateTransition(constvars.QueueStatusTriaged, constvars.QueueStatusInConsultation))
		assert.NoError(t, validateTransition(constvars.QueueStatusInConsultation, constvars.QueueStatusCompleted))
	})

	t.Run("Removed Reachable From Any Non-Terminal State", func(t *testing.T) {
		for _, from := range []string{constvars.QueueStatusWaiting, constvars.QueueStatusTriaged, constvars.QueueStatusInConsultation} {
			assert.NoError(t, validateTransition(from, constvars.QueueStatusRemoved), from)
		}
	})

	t.Run("Terminal States Reject Every Transition", func(t *testing.T) {
		for _, from := range []string{constvars.QueueStatusCompleted, constvars.QueueStatusRemoved} {
			for _, to := range []string{constvars.QueueStatusWaiting, constvars.QueueStatusTriaged, constvars.QueueStatusInConsultation, constvars.QueueStatusCompleted, constvars.QueueStatusRemoved} {
				assert.Error(t, validateTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("Skipping A Stage Is Rejected", func(t *testing.T) {
		assert.Error(t, validateTransition(constvars.QueueStatusWaiting, constvars.QueueStatusInConsultation))
		assert.Error(t, validateTransition(constvars.QueueStatusWaiting, constvars.QueueStatusCompleted))
		assert.Error(t, validateTransition(constvars.QueueStatusTriaged, constvars.QueueStatusCompleted))
	})
}

func TestEnqueue(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown Patient Fails With Not Found", func(t *testing.T) {
		uc, _ := newTestQueueUsecase(&fakeQueueRepository{}, &fakeQueuePatientRepository{known: map[string]bool{}})

		_, err := uc.Enqueue(ctx, &requests.AddToQueueRequest{PatientID: "ghost"})
		assert.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("Out Of Range Triage Level Fails Before Any Lookup", func(t *testing.T) {
		uc, _ := newTestQueueUsecase(&fakeQueueRepository{}, &fakeQueuePatientRepository{known: map[string]bool{"p-1": true}})

		for _, level := range []int{-1, 6, 100} {
			_, err := uc.Enqueue(ctx, &requests.AddToQueueRequest{PatientID: "p-1", TriageLevel: level})
			assert.Error(t, err, "level %d", level)
			customErr, ok := err.(*exceptions.CustomError)
			assert.True(t, ok)
			assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode)
		}
	})

	t.Run("Second Enqueue Returns Existing Entry", func(t *testing.T) {
		repo := &fakeQueueRepository{}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{known: map[string]bool{"p-1": true}})

		first, err := uc.Enqueue(ctx, &requests.AddToQueueRequest{PatientID: "p-1", TriageLevel: 2})
		assert.NoError(t, err)

		second, err := uc.Enqueue(ctx, &requests.AddToQueueRequest{PatientID: "p-1", TriageLevel: 4})
		assert.NoError(t, err)
		assert.Equal(t, first.TriageLevel, second.TriageLevel, "existing entry should win")
		assert.Len(t, repo.entries, 1)
	})

	t.Run("Untriaged Walk-In Gets Lowest Urgency", func(t *testing.T) {
		repo := &fakeQueueRepository{}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{known: map[string]bool{"p-1": true}})

		entry, err := uc.Enqueue(ctx, &requests.AddToQueueRequest{PatientID: "p-1"})
		assert.NoError(t, err)
		assert.Equal(t, constvars.TriageLevelMax, entry.TriageLevel)
		assert.Equal(t, constvars.QueueStatusWaiting, entry.Status)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown Patient Fails With Not Found", func(t *testing.T) {
		uc, _ := newTestQueueUsecase(&fakeQueueRepository{}, &fakeQueuePatientRepository{})

		err := uc.UpdateStatus(ctx, "unknown-patient", constvars.QueueStatusTriaged)
		assert.Error(t, err)
		customErr, ok := err.(*exceptions.CustomError)
		assert.True(t, ok)
		assert.Equal(t, constvars.StatusNotFound, customErr.StatusCode)
	})

	t.Run("Valid Transition Publishes Event", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "p-1", TriageLevel: 3, Status: constvars.QueueStatusWaiting},
		}}
		uc, publisher := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		err := uc.UpdateStatus(ctx, "p-1", constvars.QueueStatusTriaged)
		assert.NoError(t, err)
		assert.Equal(t, constvars.QueueStatusTriaged, repo.entries[0].Status)
		assert.Equal(t, []string{constvars.EventQueueStatus}, publisher.published)
	})

	t.Run("Transition Off A Terminal Entry Fails As Invalid Not As Not Found", func(t *testing.T) {
		for _, terminal := range []string{constvars.QueueStatusCompleted, constvars.QueueStatusRemoved} {
			repo := &fakeQueueRepository{entries: []models.QueueEntry{
				{PatientID: "p-done", TriageLevel: 2, Status: terminal},
			}}
			uc, publisher := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

			err := uc.UpdateStatus(ctx, "p-done", constvars.QueueStatusTriaged)
			assert.Error(t, err, terminal)
			customErr, ok := err.(*exceptions.CustomError)
			assert.True(t, ok)
			assert.Equal(t, constvars.StatusBadRequest, customErr.StatusCode, terminal)
			assert.Equal(t, terminal, repo.entries[0].Status)
			assert.Empty(t, publisher.published)
		}
	})

	t.Run("Re-Entry After Completion Sees The Latest Entry", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "p-1", TriageLevel: 2, Status: constvars.QueueStatusCompleted, Position: 1},
			{PatientID: "p-1", TriageLevel: 3, Status: constvars.QueueStatusWaiting, Position: 2},
		}}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		err := uc.UpdateStatus(ctx, "p-1", constvars.QueueStatusTriaged)
		assert.NoError(t, err)
		assert.Equal(t, constvars.QueueStatusTriaged, repo.entries[1].Status)
		assert.Equal(t, constvars.QueueStatusCompleted, repo.entries[0].Status)
	})

	t.Run("Invalid Transition Leaves Entry Untouched", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "p-1", TriageLevel: 3, Status: constvars.QueueStatusWaiting},
		}}
		uc, publisher := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		err := uc.UpdateStatus(ctx, "p-1", constvars.QueueStatusCompleted)
		assert.Error(t, err)
		assert.Equal(t, constvars.QueueStatusWaiting, repo.entries[0].Status)
		assert.Empty(t, publisher.published)
	})
}

func TestListOrdering(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	t.Run("Lower Triage Level Comes First Regardless Of Arrival", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "P2", TriageLevel: 1, Status: constvars.QueueStatusWaiting, AddedAt: base.Add(50 * time.Second), Position: 1},
			{PatientID: "P1", TriageLevel: 3, Status: constvars.QueueStatusWaiting, AddedAt: base.Add(100 * time.Second), Position: 2},
		}}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		entries, err := uc.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, []string{"P2", "P1"}, []string{entries[0].PatientID, entries[1].PatientID})
	})

	t.Run("Output Is Non-Decreasing In Triage Level And Arrival", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "a", TriageLevel: 4, Status: constvars.QueueStatusWaiting, AddedAt: base.Add(10 * time.Second), Position: 1},
			{PatientID: "b", TriageLevel: 2, Status: constvars.QueueStatusWaiting, AddedAt: base.Add(20 * time.Second), Position: 2},
			{PatientID: "c", TriageLevel: 2, Status: constvars.QueueStatusWaiting, AddedAt: base.Add(5 * time.Second), Position: 3},
			{PatientID: "d", TriageLevel: 5, Status: constvars.QueueStatusWaiting, AddedAt: base, Position: 4},
			{PatientID: "e", TriageLevel: 1, Status: constvars.QueueStatusWaiting, AddedAt: base.Add(40 * time.Second), Position: 5},
		}}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		entries, err := uc.List(ctx)
		assert.NoError(t, err)
		for i := 1; i < len(entries); i++ {
			prev, curr := entries[i-1], entries[i]
			ok := prev.TriageLevel < curr.TriageLevel ||
				(prev.TriageLevel == curr.TriageLevel && !prev.AddedAt.After(curr.AddedAt))
			assert.True(t, ok, "entries %d and %d out of order", i-1, i)
		}
		assert.Equal(t, "e", entries[0].PatientID)
		assert.Equal(t, "d", entries[len(entries)-1].PatientID)
	})

	t.Run("Equal Keys Preserve Insertion Order", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "first", TriageLevel: 3, Status: constvars.QueueStatusWaiting, AddedAt: base, Position: 1},
			{PatientID: "second", TriageLevel: 3, Status: constvars.QueueStatusWaiting, AddedAt: base, Position: 2},
			{PatientID: "third", TriageLevel: 3, Status: constvars.QueueStatusWaiting, AddedAt: base, Position: 3},
		}}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		entries, err := uc.List(ctx)
		assert.NoError(t, err)
		assert.Equal(t, "first", entries[0].PatientID)
		assert.Equal(t, "second", entries[1].PatientID)
		assert.Equal(t, "third", entries[2].PatientID)
	})

	t.Run("Terminal Entries Are Excluded", func(t *testing.T) {
		repo := &fakeQueueRepository{entries: []models.QueueEntry{
			{PatientID: "gone", TriageLevel: 1, Status: constvars.QueueStatusRemoved, AddedAt: base, Position: 1},
			{PatientID: "done", TriageLevel: 1, Status: constvars.QueueStatusCompleted, AddedAt: base, Position: 2},
			{PatientID: "here", TriageLevel: 5, Status: constvars.QueueStatusWaiting, AddedAt: base, Position: 3},
		}}
		uc, _ := newTestQueueUsecase(repo, &fakeQueuePatientRepository{})

		entries, err := uc.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "here", entries[0].PatientID)
	})
}
