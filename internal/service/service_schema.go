package service

import (
	"context"

	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/schema"
)

type schemaService struct {
	logger *logger.Logger
}

func NewSchemaService(logger *logger.Logger) SchemaService {
	return &schemaService{logger: logger}
}

func (s *schemaService) Flatten(ctx context.Context, fragment map[string]any) (map[string]any, error) {
	flattened, err := schema.Flatten(fragment)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "schemaService.Flatten").Msg("error flattening schema")
		return nil, err
	}
	return flattened, nil
}
