// Package http implements the HTTP transport layer of the application.
// It provides middleware, route handlers, and request/response utilities
// for the REST API. Authentication, logging, tracing, and compression
// concerns are all handled at this layer before requests are forwarded
// to the service layer.
package http

import (
	"github.com/MKhiriev/go-pantry-keeper/internal/logger"
	"github.com/MKhiriev/go-pantry-keeper/internal/service"
)

// Handler bundles the service layer with a logger and exposes the HTTP
// route handlers and middleware as methods.
type Handler struct {
	services *service.Services
	logger   *logger.Logger
}

// NewHandler creates a Handler backed by the given services.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Info().Str("func", "NewHandler").Msg("http handler created")

	return &Handler{
		services: services,
		logger:   logger,
	}
}
