// Package domain contains the core business entities and rules for the booking
// orchestration engine. These entities are provider-agnostic and form the
// foundation upon which all other components are built.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// BookingStatus is the terminal status of a reconciliation attempt.
type BookingStatus string

const (
	// StatusConfirmed means every attempted leg succeeded (or no leg was attempted).
	StatusConfirmed BookingStatus = "confirmed"

	// StatusPending means at least one attempted leg failed and the booking
	// awaits external retry scheduling against the same cached offers.
	StatusPending BookingStatus = "pending"
)

// Money is a decimal amount paired with an ISO 4217 currency code.
// The amount is kept as the provider's decimal string to avoid float drift.
type Money struct {
	// Amount is the decimal value, e.g. "812.40"
	Amount string `json:"amount"`

	// Currency is the ISO 4217 code, e.g. "EUR"
	Currency string `json:"currency"`
}

// Contact holds a traveler's contact channel details.
type Contact struct {
	// Email is the address confirmations are sent to
	Email string `json:"email"`

	// PhoneCountryCode is the dialing country code without the plus sign, e.g. "61"
	PhoneCountryCode string `json:"phoneCountryCode"`

	// PhoneNumber is the local subscriber number
	PhoneNumber string `json:"phoneNumber"`
}

// PassportDocument holds travel document details for a traveler.
// The engine only requires structural completeness; authenticity is not checked.
type PassportDocument struct {
	// Number is the passport number
	Number string `json:"number"`

	// ExpiryDate is the document expiry in YYYY-MM-DD format
	ExpiryDate string `json:"expiryDate"`

	// IssuanceCountry is the ISO 3166-1 alpha-2 issuing country
	IssuanceCountry string `json:"issuanceCountry"`
}

// Traveler is a single member of the traveler party.
type Traveler struct {
	// FirstName is the traveler's given name
	FirstName string `json:"firstName"`

	// LastName is the traveler's surname
	LastName string `json:"lastName"`

	// DateOfBirth is in YYYY-MM-DD format
	DateOfBirth string `json:"dateOfBirth"`

	// Contact holds email and phone details
	Contact Contact `json:"contact"`

	// Nationality is the ISO 3166-1 alpha-2 country code
	Nationality string `json:"nationality"`

	// Passport holds travel document details
	Passport PassportDocument `json:"passport"`
}

// FullName returns the traveler's display name.
func (t Traveler) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// HotelOfferRef is a cached hotel offer: the provider offer id plus the raw
// offer payload captured at search time. The payload is used for guest
// capacity inference when the provider rejects the party size.
type HotelOfferRef struct {
	// OfferID is the provider's offer identifier
	OfferID string `json:"offerId"`

	// Raw is the offer payload as returned by search
	Raw json.RawMessage `json:"raw,omitempty"`
}

// BookingRequest is the input to a reconciliation attempt. It carries the
// itinerary reference, the already-charged amount, the traveler party and the
// provider offers cached at search time.
//
// Invariant: Travelers must be non-empty before any provider call is attempted.
type BookingRequest struct {
	// ItineraryID identifies the itinerary this booking belongs to
	ItineraryID string `json:"itineraryId"`

	// ItineraryName is the itinerary headline, e.g. "Weekend in Lisbon"
	ItineraryName string `json:"itineraryName,omitempty"`

	// ChargedAmount is the amount already authorized by the payment processor
	ChargedAmount Money `json:"chargedAmount"`

	// Travelers is the full traveler party for both legs
	Travelers []Traveler `json:"travelers"`

	// FlightOffer is the cached, unpriced flight offer payload (optional)
	FlightOffer json.RawMessage `json:"flightOffer,omitempty"`

	// HotelOffer is the cached hotel offer reference (optional)
	HotelOffer *HotelOfferRef `json:"hotelOffer,omitempty"`

	// FlightSummary is a display summary of the flight leg, echoed in the result
	FlightSummary string `json:"flightSummary,omitempty"`

	// StaySummary is a display summary of the hotel stay, echoed in the result
	StaySummary string `json:"staySummary,omitempty"`

	// PaymentRef is an optional reference to the prior payment authorization
	PaymentRef string `json:"paymentRef,omitempty"`
}

// TravelerNames returns the display names of the traveler party.
func (r *BookingRequest) TravelerNames() []string {
	names := make([]string, len(r.Travelers))
	for i, t := range r.Travelers {
		names[i] = t.FullName()
	}
	return names
}

// BookingResult is the outcome of one reconciliation attempt. It is
// constructed once per call and immutable after return.
type BookingResult struct {
	// ConfirmationNumber is generated by the engine, not provider-issued.
	// Uniqueness is an external storage concern.
	ConfirmationNumber string `json:"confirmationNumber"`

	// Status is confirmed or pending
	Status BookingStatus `json:"status"`

	// FlightOrderID is the provider's flight order id when the flight leg succeeded
	FlightOrderID string `json:"flightOrderId,omitempty"`

	// FlightOrder is the raw provider order payload
	FlightOrder json.RawMessage `json:"flightOrder,omitempty"`

	// FlightError is the human-readable flight leg failure, if any
	FlightError string `json:"flightError,omitempty"`

	// HotelReservationID is the hotel confirmation id when the hotel leg succeeded
	HotelReservationID string `json:"hotelReservationId,omitempty"`

	// HotelReservation is the raw provider reservation payload
	HotelReservation json.RawMessage `json:"hotelReservation,omitempty"`

	// HotelError is the human-readable hotel leg failure, if any
	HotelError string `json:"hotelError,omitempty"`

	// ChargedAmount echoes the request's charged amount
	ChargedAmount Money `json:"chargedAmount"`

	// TravelerNames echoes the traveler party display names
	TravelerNames []string `json:"travelerNames"`

	// FlightSummary echoes the request's flight leg summary
	FlightSummary string `json:"flightSummary,omitempty"`

	// StaySummary echoes the request's stay summary
	StaySummary string `json:"staySummary,omitempty"`

	// PaymentRef echoes the request's payment reference
	PaymentRef string `json:"paymentRef,omitempty"`

	// CreatedAt is when the result was constructed
	CreatedAt time.Time `json:"createdAt"`
}

// Confirmed reports whether the booking reached the confirmed terminal state.
func (r *BookingResult) Confirmed() bool {
	return r.Status == StatusConfirmed
}

// LegErrors returns the recorded leg failure messages, flight first.
// Empty strings are omitted.
func (r *BookingResult) LegErrors() []string {
	var errs []string
	if r.FlightError != "" {
		errs = append(errs, r.FlightError)
	}
	if r.HotelError != "" {
		errs = append(errs, r.HotelError)
	}
	return errs
}

// RetrySchedule is the follow-up attempt record written by the persistence
// collaborator whenever a result is pending, and cleared once confirmed.
type RetrySchedule struct {
	// NextRun is when reconciliation should be re-attempted
	NextRun time.Time `json:"nextRun"`

	// Attempts counts reconciliation attempts so far
	Attempts int `json:"attempts"`

	// LastError is the most recent leg failure message
	LastError string `json:"lastError,omitempty"`
}

// Location is a resolved place: a free-text name mapped to a provider code.
// Consumed by the upstream search agents, not by the orchestrators.
type Location struct {
	// Name is the provider's display name for the place
	Name string `json:"name"`

	// IATACode is the provider location code, e.g. "PAR"
	IATACode string `json:"iataCode"`

	// SubType distinguishes cities from airports
	SubType string `json:"subType,omitempty"`

	// CountryCode is the ISO 3166-1 alpha-2 country
	CountryCode string `json:"countryCode,omitempty"`
}
