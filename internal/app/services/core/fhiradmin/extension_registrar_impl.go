package fhiradmin

import (
	"context"
	"emr-service/internal/app/contracts"
	"emr-service/internal/pkg/constvars"
	"emr-service/internal/pkg/fhir_dto"

	"go.uber.org/zap"
)

type extensionRegistrar struct {
	StructureDefinitionFhirClient contracts.StructureDefinitionFhirClient
	RedisRepository               contracts.RedisRepository
	Log                           *zap.Logger
}

func NewExtensionRegistrar(
	structureDefinitionFhirClient contracts.StructureDefinitionFhirClient,
	redisRepository contracts.RedisRepository,
	logger *zap.Logger,
) contracts.ExtensionRegistrar {
	return &extensionRegistrar{
		StructureDefinitionFhirClient: structureDefinitionFhirClient,
		RedisRepository:               redisRepository,
		Log:                           logger,
	}
}

// EnsureRegistered walks the descriptors one by one: presence cache, then
// upstream probe by canonical URL, then create when absent. One descriptor
// failing does not stop the rest; the registration report carries all three
// outcomes.
func (r *extensionRegistrar) EnsureRegistered(ctx context.Context, descriptors []fhir_dto.ExtensionDescriptor) (*contracts.ExtensionRegistration, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	r.Log.Info("extensionRegistrar.EnsureRegistered called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("descriptors", len(descriptors)),
	)

	registration := &contracts.ExtensionRegistration{
		Failed: make(map[string]error),
	}

	for _, descriptor := range descriptors {
		present, err := r.isPresent(ctx, descriptor.CanonicalURL)
		if err != nil {
			registration.Failed[descriptor.CanonicalURL] = err
			continue
		}
		if present {
			registration.AlreadyPresent = append(registration.AlreadyPresent, descriptor.CanonicalURL)
			continue
		}

		if _, err := r.StructureDefinitionFhirClient.CreateStructureDefinition(ctx, &descriptor.Schema); err != nil {
			registration.Failed[descriptor.CanonicalURL] = err
			continue
		}
		registration.Registered = append(registration.Registered, descriptor.CanonicalURL)
		r.cachePresence(ctx, descriptor.CanonicalURL)
	}

	r.Log.Info("extensionRegistrar.EnsureRegistered finished",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int("registered", len(registration.Registered)),
		zap.Int("already_present", len(registration.AlreadyPresent)),
		zap.Int("failed", len(registration.Failed)),
	)
	return registration, nil
}

// isPresent consults the Redis presence set first; a cache miss falls through
// to the repository so a cold cache never causes duplicate creation.
func (r *extensionRegistrar) isPresent(ctx context.Context, canonicalURL string) (bool, error) {
	cached, err := r.RedisRepository.IsSetMember(ctx, constvars.RedisKeyRegisteredExtensions, canonicalURL)
	if err == nil && cached {
		return true, nil
	}
	if err != nil {
		r.Log.Warn("extensionRegistrar presence cache lookup failed", zap.Error(err))
	}

	exists, err := r.StructureDefinitionFhirClient.ExistsStructureDefinitionByURL(ctx, canonicalURL)
	if err != nil {
		return false, err
	}
	if exists {
		r.cachePresence(ctx, canonicalURL)
	}
	return exists, nil
}

func (r *extensionRegistrar) cachePresence(ctx context.Context, canonicalURL string) {
	if err := r.RedisRepository.AddToSet(ctx, constvars.RedisKeyRegisteredExtensions, canonicalURL); err != nil {
		r.Log.Warn("extensionRegistrar presence cache update failed", zap.Error(err))
	}
}
