package fhiradmin

import (
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/fhir_dto"
)

// DefaultExtensionDescriptors declares the extensions the service needs
// before it can write triage levels and storage paths onto repository
// resources. Registered on every cold start; presence by canonical URL keeps
// the call idempotent.
func DefaultExtensionDescriptors() []fhir_dto.ExtensionDescriptor {
	return []fhir_dto.ExtensionDescriptor{
		{
			CanonicalURL: constvars.ExtensionURLTriageLevel,
			Schema: fhir_dto.StructureDefinition{
				ResourceType: constvars.ResourceStructureDefinition,
				URL:          constvars.ExtensionURLTriageLevel,
				Name:         "TriageLevel",
				Status:       "active",
				Kind:         "complex-type",
				Abstract:     false,
				Type:         "Extension",
				Context: []fhir_dto.StructureDefinitionContext{
					{Type: "element", Expression: constvars.ResourceEncounter},
				},
			},
		},
		{
			CanonicalURL: constvars.ExtensionURLStoragePath,
			Schema: fhir_dto.StructureDefinition{
				ResourceType: constvars.ResourceStructureDefinition,
				URL:          constvars.ExtensionURLStoragePath,
				Name:         "StoragePath",
				Status:       "active",
				Kind:         "complex-type",
				Abstract:     false,
				Type:         "Extension",
				Context: []fhir_dto.StructureDefinitionContext{
					{Type: "element", Expression: constvars.ResourceDocumentReference},
				},
			},
		},
	}
}
