package http

import (
	"time"

	"github.com/MKhiriev/go-case-sync/internal/config"
	"github.com/MKhiriev/go-case-sync/internal/logger"
	"github.com/MKhiriev/go-case-sync/internal/service"
)

type Handler struct {
	services *service.Services

	// requestTimeout bounds passes started over HTTP. Zero means no bound
	// besides the client connection.
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}
