package results

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/dto/responses"
	"emr-service/internal/pkg/fhir_dto"
	"emr-service/internal/pkg/utils"
	"sort"
	"time"

	"go.uber.org/zap"
)

type resultsGateway struct {
	ServiceRequestFhirClient   contracts.ServiceRequestFhirClient
	DiagnosticReportFhirClient contracts.DiagnosticReportFhirClient
	ImagingStudyFhirClient     contracts.ImagingStudyFhirClient
	Log                        *zap.Logger
}

func NewResultsGateway(
	serviceRequestFhirClient contracts.ServiceRequestFhirClient,
	diagnosticReportFhirClient contracts.DiagnosticReportFhirClient,
	imagingStudyFhirClient contracts.ImagingStudyFhirClient,
	logger *zap.Logger,
) contracts.ResultsGateway {
	return &resultsGateway{
		ServiceRequestFhirClient:   serviceRequestFhirClient,
		DiagnosticReportFhirClient: diagnosticReportFhirClient,
		ImagingStudyFhirClient:     imagingStudyFhirClient,
		Log:                        logger,
	}
}

func (g *resultsGateway) ByPatient(ctx context.Context, patientID string) ([]responses.ClinicalResource, error) {
	return g.query(ctx, []resourceFetch{
		func(ctx context.Context) ([]responses.ClinicalResource, error) {
			serviceRequests, err := g.ServiceRequestFhirClient.FindServiceRequestsByPatientID(ctx, patientID)
			if err != nil {
				return nil, err
			}
			return serviceRequestResources(serviceRequests), nil
		},
		func(ctx context.Context) ([]responses.ClinicalResource, error) {
			reports, err := g.DiagnosticReportFhirClient.FindDiagnosticReportsByPatientID(ctx, patientID)
			if err != nil {
				return nil, err
			}
			return reportResources(reports), nil
		},
		func(ctx context.Context) ([]responses.ClinicalResource, error) {
			studies, err := g.ImagingStudyFhirClient.FindImagingStudiesByPatientID(ctx, patientID)
			if err != nil {
				return nil, err
			}
			return studyResources(studies), nil
		},
	})
}

func (g *resultsGateway) ByEncounter(ctx context.Context, encounterID string) ([]responses.ClinicalResource, error) {
	return g.query(ctx, []resourceFetch{
		func(ctx context.Context) ([]responses.ClinicalResource, error) {
			serviceRequests, err := g.ServiceRequestFhirClient.FindServiceRequestsByEncounterID(ctx, encounterID)
			if err != nil {
				return nil, err
			}
			return serviceRequestResources(serviceRequests), nil
		},
		func(ctx context.Context) ([]responses.ClinicalResource, error) {
			reports, err := g.DiagnosticReportFhirClient.FindDiagnosticReportsByEncounterID(ctx, encounterID)
			if err != nil {
				return nil, err
			}
			return reportResources(reports), nil
		},
		func(ctx context.Context) ([]responses.ClinicalResource, error) {
			studies, err := g.ImagingStudyFhirClient.FindImagingStudiesByEncounterID(ctx, encounterID)
			if err != nil {
				return nil, err
			}
			return studyResources(studies), nil
		},
	})
}

type resourceFetch func(ctx context.Context) ([]responses.ClinicalResource, error)

// query fans the per-kind fetches out concurrently, then merges into one view
// ordered by creation time ascending, with (resourceType, id) as the stable
// tie-break for equal timestamps. Any fetch failure fails the whole read.
func (g *resultsGateway) query(ctx context.Context, fetches []resourceFetch) ([]responses.ClinicalResource, error) {
	results := utils.RunIndexed(ctx, len(fetches), func(ctx context.Context, index int) ([]responses.ClinicalResource, error) {
		return fetches[index](ctx)
	})

	merged := make([]responses.ClinicalResource, 0)
	for _, result := range results {
		if result.Err != nil {
			return nil, result.Err
		}
		merged = append(merged, result.Value...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if !merged[i].CreatedAt.Equal(merged[j].CreatedAt) {
			return merged[i].CreatedAt.Before(merged[j].CreatedAt)
		}
		if merged[i].ResourceType != merged[j].ResourceType {
			return merged[i].ResourceType < merged[j].ResourceType
		}
		return merged[i].ID < merged[j].ID
	})
	return merged, nil
}

func serviceRequestResources(serviceRequests []fhir_dto.ServiceRequest) []responses.ClinicalResource {
	resources := make([]responses.ClinicalResource, 0, len(serviceRequests))
	for _, serviceRequest := range serviceRequests {
		resources = append(resources, responses.ClinicalResource{
			ResourceType: constvars.ResourceServiceRequest,
			ID:           serviceRequest.ID,
			CreatedAt:    creationTime(utils.TextDate(serviceRequest.AuthoredOn), utils.NativeDate(serviceRequest.Meta.LastUpdated)),
			Resource:     serviceRequest,
		})
	}
	return resources
}

func reportResources(reports []fhir_dto.DiagnosticReport) []responses.ClinicalResource {
	resources := make([]responses.ClinicalResource, 0, len(reports))
	for _, report := range reports {
		resources = append(resources, responses.ClinicalResource{
			ResourceType: constvars.ResourceDiagnosticReport,
			ID:           report.ID,
			CreatedAt:    creationTime(utils.TextDate(report.Issued), utils.TextDate(report.EffectiveDateTime), utils.NativeDate(report.Meta.LastUpdated)),
			Resource:     report,
		})
	}
	return resources
}

func studyResources(studies []fhir_dto.ImagingStudy) []responses.ClinicalResource {
	resources := make([]responses.ClinicalResource, 0, len(studies))
	for _, study := range studies {
		resources = append(resources, responses.ClinicalResource{
			ResourceType: constvars.ResourceImagingStudy,
			ID:           study.ID,
			CreatedAt:    creationTime(utils.TextDate(study.Started), utils.NativeDate(study.Meta.LastUpdated)),
			Resource:     study,
		})
	}
	return resources
}

// creationTime picks the first candidate that converts to a usable timestamp.
func creationTime(candidates ...utils.DateLike) time.Time {
	for _, candidate := range candidates {
		if t, ok := candidate.Time(); ok {
			return t
		}
	}
	return time.Time{}
}
