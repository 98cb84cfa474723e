package usecase

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/retry"
)

// codeInvalidGuestCount means the offer cannot host the requested guest party.
const codeInvalidGuestCount = 11226

// guestCountPhrase appears in provider error titles when the guest count
// is rejected without the dedicated code.
const guestCountPhrase = "NUMBER OF GUESTS"

// HotelLegResult is the outcome of the hotel leg, mirroring FlightLegResult.
type HotelLegResult struct {
	ReservationID   string
	Reservation     json.RawMessage
	Err             string
	DisableProvider bool
}

// hotelOrchestrator books a cached hotel offer for the guest party.
type hotelOrchestrator struct {
	provider domain.HotelProvider
	cfg      retry.Config
	log      *logger.Logger
}

func newHotelOrchestrator(provider domain.HotelProvider, cfg retry.Config, log *logger.Logger) *hotelOrchestrator {
	return &hotelOrchestrator{
		provider: provider,
		cfg:      cfg,
		log:      log.WithLeg("hotel"),
	}
}

// Book books the offer, retrying server-category failures. A guest-count
// rejection becomes a party mismatch sized from the offer payload.
func (o *hotelOrchestrator) Book(ctx context.Context, ref *domain.HotelOfferRef, guests []domain.Traveler) HotelLegResult {
	reservation, err := retry.DoWithResult(ctx, func() (*domain.HotelReservation, error) {
		return o.provider.BookOffer(ctx, ref.OfferID, guests)
	}, o.cfg.WithRetryIf(retryServerOnly))

	if err == nil {
		o.log.Info().Str("reservation_id", reservation.BestID()).Msg("Hotel reservation created")
		return HotelLegResult{ReservationID: reservation.BestID(), Reservation: reservation.Raw}
	}
	return o.classifyFailure(err, ref, len(guests))
}

func (o *hotelOrchestrator) classifyFailure(err error, ref *domain.HotelOfferRef, requested int) HotelLegResult {
	if perr, ok := domain.AsProviderError(err); ok {
		if isGuestCountRejection(perr) {
			capacity := inferGuestCapacity(ref.Raw, requested)
			mismatch := domain.NewTravelPartyMismatch(domain.MismatchHotel, capacity, requested)
			o.log.Warn().Int("supported", capacity).Int("requested", requested).
				Msg("Hotel offer cannot host the full party")
			return HotelLegResult{Err: mismatch.Error()}
		}

		disable := perr.Category == domain.CategoryAuth || perr.Category == domain.CategoryServer
		o.log.Error().Str("category", string(perr.Category)).Int("status", perr.StatusCode).
			Msg("Hotel booking failed")
		return HotelLegResult{
			Err:             "hotel booking failed: " + perr.Summary(),
			DisableProvider: disable,
		}
	}

	o.log.Error().Err(err).Msg("Hotel booking failed")
	return HotelLegResult{Err: "hotel booking failed: " + err.Error()}
}

// isGuestCountRejection matches either the dedicated provider code or the
// phrasing some provider backends use instead.
func isGuestCountRejection(perr *domain.ProviderError) bool {
	if perr.HasCode(codeInvalidGuestCount) {
		return true
	}
	for _, e := range perr.Entries {
		if strings.Contains(strings.ToUpper(e.Title), guestCountPhrase) ||
			strings.Contains(strings.ToUpper(e.Detail), guestCountPhrase) {
			return true
		}
	}
	return false
}

// hotelOfferMeta is the subset of a cached hotel offer payload consulted to
// size the party the offer can host. Every field is optional.
type hotelOfferMeta struct {
	Guests *offerGuestsMeta `json:"guests"`
	Room   *offerRoomMeta   `json:"room"`
	Offers []hotelOfferMeta `json:"offers"`
}

type offerGuestsMeta struct {
	Adults *int `json:"adults"`
}

type offerRoomMeta struct {
	TypeEstimated *roomTypeMeta `json:"typeEstimated"`
}

type roomTypeMeta struct {
	Beds *int `json:"beds"`
}

// inferGuestCapacity derives the guest count the offer supports from its
// cached payload, falling back to one fewer than requested when the payload
// is absent or silent.
func inferGuestCapacity(raw json.RawMessage, requested int) int {
	if len(raw) > 0 {
		var meta hotelOfferMeta
		if err := json.Unmarshal(raw, &meta); err == nil {
			if capacity, ok := capacityFromMeta(meta); ok {
				return capacity
			}
		}
	}
	return requested - 1
}

func capacityFromMeta(meta hotelOfferMeta) (int, bool) {
	if meta.Guests != nil && meta.Guests.Adults != nil && *meta.Guests.Adults > 0 {
		return *meta.Guests.Adults, true
	}
	if meta.Room != nil && meta.Room.TypeEstimated != nil &&
		meta.Room.TypeEstimated.Beds != nil && *meta.Room.TypeEstimated.Beds > 0 {
		return *meta.Room.TypeEstimated.Beds, true
	}
	for _, nested := range meta.Offers {
		if capacity, ok := capacityFromMeta(nested); ok {
			return capacity, true
		}
	}
	return 0, false
}
