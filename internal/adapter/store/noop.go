package store

import (
	"context"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
)

// NoOpStore is used when Redis is disabled. Booking outcomes are logged and
// discarded; retries are never scheduled.
type NoOpStore struct {
	log *logger.Logger
}

var _ domain.BookingStore = (*NoOpStore)(nil)

// NewNoOpStore creates a store that only logs.
func NewNoOpStore(log *logger.Logger) *NoOpStore {
	if log == nil {
		log = logger.Nop()
	}
	return &NoOpStore{log: log}
}

// Save logs the outcome and succeeds.
func (s *NoOpStore) Save(_ context.Context, req *domain.BookingRequest, res *domain.BookingResult) error {
	s.log.Debug().
		Str("confirmation", res.ConfirmationNumber).
		Str("itinerary_id", req.ItineraryID).
		Str("status", string(res.Status)).
		Msg("Booking persistence disabled, result discarded")
	return nil
}

// LogNotifier announces booking outcomes on the service log. It stands in
// for a real delivery channel and never fails.
type LogNotifier struct {
	log *logger.Logger
}

var _ domain.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &LogNotifier{log: log}
}

// Notify logs the outcome. Bookings with no traveler names have no one to
// address and are skipped silently.
func (n *LogNotifier) Notify(_ context.Context, res *domain.BookingResult) error {
	if len(res.TravelerNames) == 0 {
		return nil
	}
	event := n.log.Info().
		Str("confirmation", res.ConfirmationNumber).
		Str("status", string(res.Status)).
		Strs("travelers", res.TravelerNames)
	if errs := res.LegErrors(); len(errs) > 0 {
		event = event.Strs("leg_errors", errs)
	}
	event.Msg("Booking notification")
	return nil
}
