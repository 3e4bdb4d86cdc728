package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
)

type appInfoService struct {
	name    string
	version string

	logger *logger.Logger
}

// NewAppInfoService requires a version; the name defaults to "casesync".
func NewAppInfoService(cfg config.App, logger *logger.Logger) (AppInfoService, error) {
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		return nil, ErrVersionIsNotSpecified
	}

	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		name = "casesync"
	}

	return &appInfoService{
		name:    name,
		version: version,
		logger:  logger,
	}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.version
}

// GetServerName returns "<name>/<version>".
func (s *appInfoService) GetServerName(ctx context.Context) string {
	return s.name + "/" + s.version
}
