package domain

import (
	"context"
	"encoding/json"
)

// PricingStrategy selects the parameter set used when re-pricing a flight offer.
type PricingStrategy string

const (
	// PricingDefault is the standard pricing request.
	PricingDefault PricingStrategy = "default"

	// PricingCompatibility uses an alternate parameter set that some
	// carriers require after a segment sell failure.
	PricingCompatibility PricingStrategy = "compatibility"
)

// PricedOffer is a flight offer after re-pricing, ready for order creation.
type PricedOffer struct {
	// Raw is the priced offer payload to submit with the order
	Raw json.RawMessage

	// TravelerCount is the number of traveler pricings in the offer.
	// An offer can only be booked for at most this many travelers.
	TravelerCount int

	// Total is the priced total as a decimal string
	Total string

	// Currency is the ISO 4217 code of the priced total
	Currency string
}

// FlightOrder is a created provider flight order.
type FlightOrder struct {
	// ID is the provider's order identifier
	ID string

	// Raw is the full order payload
	Raw json.RawMessage
}

// HotelReservation is a confirmed provider hotel booking.
type HotelReservation struct {
	// ID is the provider's internal booking identifier
	ID string

	// ConfirmationID is the hotel's own confirmation number, when issued.
	// Preferred over ID when present.
	ConfirmationID string

	// Raw is the full reservation payload
	Raw json.RawMessage
}

// BestID returns the hotel confirmation id, falling back to the internal id.
func (r *HotelReservation) BestID() string {
	if r.ConfirmationID != "" {
		return r.ConfirmationID
	}
	return r.ID
}

// FlightProvider prices cached flight offers and creates flight orders.
type FlightProvider interface {
	// PriceOffer re-prices a cached offer under the given strategy.
	PriceOffer(ctx context.Context, offer json.RawMessage, strategy PricingStrategy) (*PricedOffer, error)

	// CreateOrder submits a priced offer plus traveler documents.
	CreateOrder(ctx context.Context, priced *PricedOffer, travelers []Traveler) (*FlightOrder, error)
}

// HotelProvider books cached hotel offers for a guest party.
type HotelProvider interface {
	// BookOffer books the offer for the given guests.
	BookOffer(ctx context.Context, offerID string, guests []Traveler) (*HotelReservation, error)
}

// CityResolver maps free-text place names to provider location codes.
type CityResolver interface {
	// ResolveCity returns candidate locations for a keyword.
	ResolveCity(ctx context.Context, keyword string) ([]Location, error)
}

// BookingProvider is the full provider surface the reconciliation driver needs.
type BookingProvider interface {
	FlightProvider
	HotelProvider

	// Configured reports whether provider credentials are present.
	// When false the driver skips both legs entirely.
	Configured() bool
}
