package http

import (
	"encoding/json"
	"time"

	"github.com/Jake-Oz/travel-ai/internal/domain"
)

// CreateBookingRequest is the wire form of a reconciliation request.
type CreateBookingRequest struct {
	// ItineraryID identifies the itinerary being booked
	ItineraryID string `json:"itineraryId" example:"itin-2024-xyz789"`

	// ItineraryName is the itinerary headline
	ItineraryName string `json:"itineraryName,omitempty" example:"Weekend in Lisbon"`

	// ChargedAmount is the amount already charged for this itinerary
	ChargedAmount MoneyDTO `json:"chargedAmount"`

	// Travelers is the full traveler party
	Travelers []TravelerDTO `json:"travelers"`

	// FlightOffer is the cached flight offer payload from search
	FlightOffer json.RawMessage `json:"flightOffer,omitempty" swaggertype:"object"`

	// HotelOffer is the cached hotel offer reference from search
	HotelOffer *HotelOfferDTO `json:"hotelOffer,omitempty"`

	// FlightSummary is echoed into the booking result
	FlightSummary string `json:"flightSummary,omitempty" example:"SYD → LIS return"`

	// StaySummary is echoed into the booking result
	StaySummary string `json:"staySummary,omitempty" example:"3 nights, Hotel Lisboa"`

	// PaymentRef references the prior payment authorization
	PaymentRef string `json:"paymentRef,omitempty" example:"pay_abc123"`
}

// MoneyDTO is a decimal amount with an ISO 4217 currency code.
type MoneyDTO struct {
	Amount   string `json:"amount" example:"812.40"`
	Currency string `json:"currency" example:"EUR"`
}

// TravelerDTO is one member of the traveler party.
type TravelerDTO struct {
	FirstName   string       `json:"firstName" example:"Ada"`
	LastName    string       `json:"lastName" example:"Lovelace"`
	DateOfBirth string       `json:"dateOfBirth" example:"1990-01-15"`
	Email       string       `json:"email,omitempty" example:"ada@example.com"`
	PhoneCode   string       `json:"phoneCountryCode,omitempty" example:"61"`
	PhoneNumber string       `json:"phoneNumber,omitempty" example:"412345678"`
	Nationality string       `json:"nationality,omitempty" example:"AU"`
	Passport    *PassportDTO `json:"passport,omitempty"`
}

// PassportDTO is a traveler's passport document.
type PassportDTO struct {
	Number          string `json:"number" example:"PA0000001"`
	ExpiryDate      string `json:"expiryDate" example:"2030-06-30"`
	IssuanceCountry string `json:"issuanceCountry" example:"AU"`
}

// HotelOfferDTO is a cached hotel offer reference.
type HotelOfferDTO struct {
	OfferID string          `json:"offerId" example:"HOTEL_OFFER_123"`
	Raw     json.RawMessage `json:"raw,omitempty" swaggertype:"object"`
}

// Validate checks the request and returns field-keyed problems, empty when valid.
func (r *CreateBookingRequest) Validate() map[string]string {
	details := make(map[string]string)

	if r.ItineraryID == "" {
		details["itineraryId"] = "itineraryId is required"
	}
	if r.ChargedAmount.Amount == "" {
		details["chargedAmount.amount"] = "amount is required"
	}
	if r.ChargedAmount.Currency == "" {
		details["chargedAmount.currency"] = "currency is required"
	}

	if len(r.Travelers) == 0 {
		details["travelers"] = "at least one traveler is required"
	}
	for _, t := range r.Travelers {
		if t.FirstName == "" || t.LastName == "" {
			details["travelers"] = "every traveler needs a first and last name"
			break
		}
	}

	if r.HotelOffer != nil && r.HotelOffer.OfferID == "" {
		details["hotelOffer.offerId"] = "offerId is required when hotelOffer is present"
	}

	if len(details) == 0 {
		return nil
	}
	return details
}

// ToDomain converts the wire request into the domain booking request.
func (r *CreateBookingRequest) ToDomain() *domain.BookingRequest {
	travelers := make([]domain.Traveler, len(r.Travelers))
	for i, t := range r.Travelers {
		traveler := domain.Traveler{
			FirstName:   t.FirstName,
			LastName:    t.LastName,
			DateOfBirth: t.DateOfBirth,
			Nationality: t.Nationality,
			Contact: domain.Contact{
				Email:            t.Email,
				PhoneCountryCode: t.PhoneCode,
				PhoneNumber:      t.PhoneNumber,
			},
		}
		if t.Passport != nil {
			traveler.Passport = domain.PassportDocument{
				Number:          t.Passport.Number,
				ExpiryDate:      t.Passport.ExpiryDate,
				IssuanceCountry: t.Passport.IssuanceCountry,
			}
		}
		travelers[i] = traveler
	}

	req := &domain.BookingRequest{
		ItineraryID:   r.ItineraryID,
		ItineraryName: r.ItineraryName,
		ChargedAmount: domain.Money{Amount: r.ChargedAmount.Amount, Currency: r.ChargedAmount.Currency},
		Travelers:     travelers,
		FlightOffer:   r.FlightOffer,
		FlightSummary: r.FlightSummary,
		StaySummary:   r.StaySummary,
		PaymentRef:    r.PaymentRef,
	}
	if r.HotelOffer != nil {
		req.HotelOffer = &domain.HotelOfferRef{OfferID: r.HotelOffer.OfferID, Raw: r.HotelOffer.Raw}
	}
	return req
}

// BookingResponse is the wire form of a booking result.
type BookingResponse struct {
	ConfirmationNumber string   `json:"confirmationNumber" example:"TRV-XYZ789-Q4F7ZK"`
	Status             string   `json:"status" example:"confirmed"`
	FlightOrderID      string   `json:"flightOrderId,omitempty"`
	FlightError        string   `json:"flightError,omitempty"`
	HotelReservationID string   `json:"hotelReservationId,omitempty"`
	HotelError         string   `json:"hotelError,omitempty"`
	ChargedAmount      MoneyDTO `json:"chargedAmount"`
	TravelerNames      []string `json:"travelerNames"`
	FlightSummary      string   `json:"flightSummary,omitempty"`
	StaySummary        string   `json:"staySummary,omitempty"`
	PaymentRef         string   `json:"paymentRef,omitempty"`
	CreatedAt          string   `json:"createdAt" example:"2026-03-01T10:00:00Z"`
}

// toBookingResponse converts a domain result to its wire form.
func toBookingResponse(res *domain.BookingResult) *BookingResponse {
	return &BookingResponse{
		ConfirmationNumber: res.ConfirmationNumber,
		Status:             string(res.Status),
		FlightOrderID:      res.FlightOrderID,
		FlightError:        res.FlightError,
		HotelReservationID: res.HotelReservationID,
		HotelError:         res.HotelError,
		ChargedAmount:      MoneyDTO{Amount: res.ChargedAmount.Amount, Currency: res.ChargedAmount.Currency},
		TravelerNames:      res.TravelerNames,
		FlightSummary:      res.FlightSummary,
		StaySummary:        res.StaySummary,
		PaymentRef:         res.PaymentRef,
		CreatedAt:          res.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// LocationResponse is one resolved location.
type LocationResponse struct {
	Name        string `json:"name" example:"PARIS"`
	IATACode    string `json:"iataCode" example:"PAR"`
	SubType     string `json:"subType,omitempty" example:"CITY"`
	CountryCode string `json:"countryCode,omitempty" example:"FR"`
}

// toLocationResponses converts resolved locations to their wire form.
func toLocationResponses(locations []domain.Location) []LocationResponse {
	out := make([]LocationResponse, len(locations))
	for i, loc := range locations {
		out[i] = LocationResponse{
			Name:        loc.Name,
			IATACode:    loc.IATACode,
			SubType:     loc.SubType,
			CountryCode: loc.CountryCode,
		}
	}
	return out
}
