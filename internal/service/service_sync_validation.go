package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-case-sync/internal/validators"
	"github.com/MKhiriev/go-case-sync/models"
)

// SyncValidationService checks a handler's configuration before the
// wrapped service runs it. Invalid configuration is an ErrConfiguration.
type SyncValidationService struct {
	inner     SyncService
	validator validators.Validator
}

func NewSyncValidationService() SyncServiceWrapper {
	return &SyncValidationService{
		validator: validators.NewResourceValidator(),
	}
}

func (v *SyncValidationService) RunPass(ctx context.Context, handlerName string, opts PassOptions) (models.PassReport, error) {
	if err := v.validate(ctx, handlerName); err != nil {
		return models.PassReport{Handler: handlerName}, &PassError{Handler: handlerName, Err: err}
	}

	return v.inner.RunPass(ctx, handlerName, opts)
}

func (v *SyncValidationService) Consume(ctx context.Context, handlerName string, payload map[string]any) (models.CandidateOutcome, error) {
	if err := v.validate(ctx, handlerName); err != nil {
		return models.CandidateOutcome{Status: models.OutcomeFailed, Error: err.Error()}, err
	}

	return v.inner.Consume(ctx, handlerName, payload)
}

func (v *SyncValidationService) Handlers(ctx context.Context) []models.HandlerConfig {
	return v.inner.Handlers(ctx)
}

// validate checks the named handler. Unknown names are left to the inner
// service, which reports ErrHandlerNotFound.
func (v *SyncValidationService) validate(ctx context.Context, handlerName string) error {
	for _, h := range v.inner.Handlers(ctx) {
		if h.Name != handlerName {
			continue
		}
		if err := v.validator.Validate(ctx, h); err != nil {
			return fmt.Errorf("%w: handler %q: %w", ErrConfiguration, handlerName, err)
		}
		return nil
	}
	return nil
}

func (v *SyncValidationService) Wrap(wrapped SyncService) SyncService {
	v.inner = wrapped
	return v
}
