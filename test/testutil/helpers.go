// Package testutil provides shared fixtures and helpers for unit and
// integration tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/Jake-Oz/travel-ai/internal/domain"
)

// SampleTravelers returns a traveler party of the given size with all
// document fields populated.
func SampleTravelers(n int) []domain.Traveler {
	travelers := make([]domain.Traveler, n)
	for i := range travelers {
		travelers[i] = domain.Traveler{
			FirstName:   fmt.Sprintf("Traveler%d", i+1),
			LastName:    "Example",
			DateOfBirth: "1988-04-02",
			Contact: domain.Contact{
				Email:            fmt.Sprintf("traveler%d@example.com", i+1),
				PhoneCountryCode: "33",
				PhoneNumber:      "612345678",
			},
			Nationality: "FR",
			Passport: domain.PassportDocument{
				Number:          fmt.Sprintf("19AX%05d", i+1),
				ExpiryDate:      "2031-02-28",
				IssuanceCountry: "FR",
			},
		}
	}
	return travelers
}

// SampleFlightOffer returns a cached flight offer payload as search returns it.
func SampleFlightOffer() json.RawMessage {
	return json.RawMessage(`{
		"type": "flight-offer",
		"id": "1",
		"source": "GDS",
		"itineraries": [{"duration": "PT21H35M", "segments": [{"departure": {"iataCode": "SYD"}, "arrival": {"iataCode": "LIS"}}]}],
		"price": {"currency": "EUR", "total": "812.40", "grandTotal": "812.40"}
	}`)
}

// SampleHotelOffer returns a cached hotel offer reference hosting two adults.
func SampleHotelOffer() *domain.HotelOfferRef {
	return &domain.HotelOfferRef{
		OfferID: "HOTEL_OFFER_123",
		Raw: json.RawMessage(`{
			"id": "HOTEL_OFFER_123",
			"guests": {"adults": 2},
			"room": {"typeEstimated": {"category": "STANDARD_ROOM", "beds": 2}},
			"price": {"currency": "EUR", "total": "540.00"}
		}`),
	}
}

// SampleBookingRequest returns a complete two-leg booking request for a
// party of the given size.
func SampleBookingRequest(travelers int) *domain.BookingRequest {
	return &domain.BookingRequest{
		ItineraryID:   "itin-2024-xyz789",
		ItineraryName: "Weekend in Lisbon",
		ChargedAmount: domain.Money{Amount: "1352.40", Currency: "EUR"},
		Travelers:     SampleTravelers(travelers),
		FlightOffer:   SampleFlightOffer(),
		HotelOffer:    SampleHotelOffer(),
		FlightSummary: "SYD → LIS return",
		StaySummary:   "3 nights, Hotel Lisboa",
		PaymentRef:    "pay_abc123",
	}
}

// MustParseTime parses a time string in RFC3339 format.
// It fails the test if parsing fails.
func MustParseTime(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse time %s: %v", dateStr, err)
	}
	return parsed
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}
