package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/lithammer/shortuuid/v3"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/retry"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/timeutil"
)

// Config holds the tunable knobs of the booking service.
type Config struct {
	// BookingAttempts is the per-leg attempt budget for server-category failures
	BookingAttempts int

	// BookingBaseDelay is the delay before the first per-leg retry
	BookingBaseDelay time.Duration
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		BookingAttempts:  retry.BookingConfig.MaxAttempts,
		BookingBaseDelay: retry.BookingConfig.InitialDelay,
	}
}

// BookingService reconciles a paid itinerary against the provider: it drives
// the flight and hotel legs, derives the terminal status and hands the result
// to the persistence and notification collaborators.
type BookingService struct {
	provider domain.BookingProvider
	store    domain.BookingStore
	notifier domain.Notifier
	clock    timeutil.Clock
	log      *logger.Logger
	flights  *flightOrchestrator
	hotels   *hotelOrchestrator
}

// Option customizes a BookingService.
type Option func(*BookingService)

// WithClock overrides the clock, for testing.
func WithClock(clock timeutil.Clock) Option {
	return func(s *BookingService) { s.clock = clock }
}

// WithLogger overrides the logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *BookingService) { s.log = log }
}

// NewBookingService creates a booking service with the given collaborators.
func NewBookingService(provider domain.BookingProvider, store domain.BookingStore, notifier domain.Notifier, cfg *Config, opts ...Option) *BookingService {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	s := &BookingService{
		provider: provider,
		store:    store,
		notifier: notifier,
		clock:    timeutil.NewRealClock(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	legCfg := retry.BookingConfig.
		WithMaxAttempts(cfg.BookingAttempts).
		WithInitialDelay(cfg.BookingBaseDelay)
	s.flights = newFlightOrchestrator(provider, legCfg, s.log)
	s.hotels = newHotelOrchestrator(provider, legCfg, s.log)

	return s
}

// ConfirmBooking performs one reconciliation attempt for the request.
//
// Provider failures never surface as errors: they are recorded on the result
// and reflected in its status. The returned error covers only input and
// context problems.
func (s *BookingService) ConfirmBooking(ctx context.Context, req *domain.BookingRequest) (*domain.BookingResult, error) {
	if req == nil || len(req.Travelers) == 0 {
		return nil, domain.ErrNoTravelers
	}

	result := &domain.BookingResult{
		ConfirmationNumber: newConfirmationNumber(req.ItineraryID),
		Status:             domain.StatusConfirmed,
		ChargedAmount:      req.ChargedAmount,
		TravelerNames:      req.TravelerNames(),
		FlightSummary:      req.FlightSummary,
		StaySummary:        req.StaySummary,
		PaymentRef:         req.PaymentRef,
		CreatedAt:          s.clock.Now(),
	}
	log := s.log.WithBooking(result.ConfirmationNumber)

	if !s.provider.Configured() {
		log.Info().Msg("Provider not configured, confirming without provider bookings")
		s.finalize(ctx, log, req, result)
		return result, nil
	}

	providerAvailable := true

	if len(req.FlightOffer) > 0 {
		leg := s.flights.Book(ctx, req.FlightOffer, req.Travelers)
		if leg.Err != "" {
			result.Status = domain.StatusPending
			result.FlightError = leg.Err
		} else {
			result.FlightOrderID = leg.OrderID
			result.FlightOrder = leg.Order
		}
		if leg.DisableProvider {
			providerAvailable = false
			log.Warn().Msg("Provider disabled for the remainder of this reconciliation")
		}
	}

	if req.HotelOffer != nil && req.HotelOffer.OfferID != "" {
		if providerAvailable {
			leg := s.hotels.Book(ctx, req.HotelOffer, req.Travelers)
			if leg.Err != "" {
				result.Status = domain.StatusPending
				result.HotelError = leg.Err
			} else {
				result.HotelReservationID = leg.ReservationID
				result.HotelReservation = leg.Reservation
			}
		} else {
			log.Warn().Msg("Skipping hotel leg, provider unavailable")
		}
	}

	s.finalize(ctx, log, req, result)
	return result, nil
}

// finalize logs the reconciliation snapshot and hands the result to the
// collaborators. Collaborator failures are logged, never propagated: the
// booking outcome is already decided.
func (s *BookingService) finalize(ctx context.Context, log *logger.Logger, req *domain.BookingRequest, result *domain.BookingResult) {
	log.Info().
		Str("status", string(result.Status)).
		Str("itinerary_id", req.ItineraryID).
		Str("flight_order_id", result.FlightOrderID).
		Str("hotel_reservation_id", result.HotelReservationID).
		Strs("leg_errors", result.LegErrors()).
		Msg("Booking reconciled")

	if err := s.store.Save(ctx, req, result); err != nil {
		log.Error().Err(err).Msg("Failed to persist booking result")
	}
	if err := s.notifier.Notify(ctx, result); err != nil {
		log.Error().Err(err).Msg("Failed to send booking notification")
	}
}

// newConfirmationNumber builds a display confirmation number from the
// itinerary id suffix plus a short random token. Two results for the same
// itinerary therefore never share a confirmation number.
func newConfirmationNumber(itineraryID string) string {
	token := strings.ToUpper(shortuuid.New())
	if len(token) > 6 {
		token = token[:6]
	}

	suffix := alnumSuffix(itineraryID, 6)
	if suffix == "" {
		return "TRV-" + token
	}
	return "TRV-" + suffix + "-" + token
}

// alnumSuffix returns the last n alphanumeric characters of s, uppercased.
func alnumSuffix(s string, n int) string {
	var keep []rune
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			keep = append(keep, unicode.ToUpper(r))
		}
	}
	if len(keep) > n {
		keep = keep[len(keep)-n:]
	}
	return string(keep)
}
