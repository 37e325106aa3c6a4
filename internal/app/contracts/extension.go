package contracts

import (
	"context"
	"emr-service/internal/pkg/fhir_dto"
)

// ExtensionRegistration reports which descriptors the registrar created, which
// it found already present, and which failed. Callers must inspect Failed
// before relying on the extensions.
type ExtensionRegistration struct {
	Registered     []string
	AlreadyPresent []string
	Failed         map[string]error
}

func (r ExtensionRegistration) AllPresent() bool {
	return len(r.Failed) == 0
}

// ExtensionRegistrar is safe to call on every cold start; presence is checked
// by canonical URL so repeated invocations never create duplicates.
type ExtensionRegistrar interface {
	EnsureRegistered(ctx context.Context, descriptors []fhir_dto.ExtensionDescriptor) (*ExtensionRegistration, error)
}
