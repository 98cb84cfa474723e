// Package http provides the HTTP handler layer for the booking API.
package http

import (
	"context"
	"errors"
	nethttp "net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jake-Oz/travel-ai/internal/adapter/http/response"
	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
)

// BookingService is the reconciliation surface the handler depends on.
type BookingService interface {
	ConfirmBooking(ctx context.Context, req *domain.BookingRequest) (*domain.BookingResult, error)
}

// BookingHandler handles booking and location endpoints.
type BookingHandler struct {
	service  BookingService
	resolver domain.CityResolver
	log      *logger.Logger
}

// NewBookingHandler creates a handler with the given service and resolver.
func NewBookingHandler(service BookingService, resolver domain.CityResolver, log *logger.Logger) *BookingHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BookingHandler{service: service, resolver: resolver, log: log}
}

// CreateBooking reconciles a paid itinerary against the booking provider.
//
//	@Summary		Create a booking
//	@Description	Books the cached flight and hotel offers for a paid itinerary and returns the confirmation. Leg failures are reported in the result, not as HTTP errors.
//	@Tags			bookings
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateBookingRequest	true	"Booking request"
//	@Success		201		{object}	response.Response{data=BookingResponse}
//	@Failure		400		{object}	response.ErrorDetail
//	@Failure		500		{object}	response.ErrorDetail
//	@Router			/bookings [post]
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var req CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return response.InvalidRequestBody(c)
	}

	if details := req.Validate(); details != nil {
		return response.ValidationError(c, details)
	}

	result, err := h.service.ConfirmBooking(c.Request().Context(), req.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoTravelers):
			return response.ValidationErrorWithMessage(c, err.Error())
		case errors.Is(err, context.DeadlineExceeded):
			return response.GatewayTimeout(c)
		case errors.Is(err, context.Canceled):
			return response.RequestCancelled(c)
		default:
			h.log.Error().Err(err).Msg("Booking reconciliation failed")
			return response.InternalServerError(c)
		}
	}

	return response.Created(c, response.Success(toBookingResponse(result)))
}

// ResolveLocations maps a free-text place name to provider location codes.
//
//	@Summary		Resolve a location keyword
//	@Description	Returns candidate cities and airports for a free-text keyword.
//	@Tags			locations
//	@Produce		json
//	@Param			keyword	query		string	true	"Place name to resolve"
//	@Success		200		{object}	response.Response{data=[]LocationResponse}
//	@Failure		400		{object}	response.ErrorDetail
//	@Failure		503		{object}	response.ErrorDetail
//	@Router			/locations [get]
func (h *BookingHandler) ResolveLocations(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if keyword == "" {
		return response.BadRequest(c, "keyword query parameter is required")
	}

	locations, err := h.resolver.ResolveCity(c.Request().Context(), keyword)
	if err != nil {
		if domain.IsConfigurationError(err) {
			return response.ServiceUnavailableWithMessage(c, "Location lookup requires provider credentials")
		}
		if _, ok := domain.AsProviderError(err); ok {
			h.log.Warn().Err(err).Str("keyword", keyword).Msg("Location lookup failed upstream")
			return response.ServiceUnavailable(c)
		}
		h.log.Error().Err(err).Msg("Location lookup failed")
		return response.InternalServerError(c)
	}

	return response.OK(c, response.Success(toLocationResponses(locations)))
}

// Health reports service liveness.
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	response.HealthResponse
//	@Router		/health [get]
func (h *BookingHandler) Health(c echo.Context) error {
	return c.JSON(nethttp.StatusOK, &response.HealthResponse{Status: "ok"})
}
