package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/retry"
)

// stubProvider is a scriptable domain.BookingProvider. Each leg is driven by
// an optional function receiving the 1-based call number; nil functions
// succeed with canned payloads.
type stubProvider struct {
	configured bool

	priceFn func(call int, strategy domain.PricingStrategy) (*domain.PricedOffer, error)
	orderFn func(call int) (*domain.FlightOrder, error)
	hotelFn func(call int) (*domain.HotelReservation, error)

	priceCalls int
	orderCalls int
	hotelCalls int
	strategies []domain.PricingStrategy
}

var _ domain.BookingProvider = (*stubProvider)(nil)

func (s *stubProvider) Configured() bool { return s.configured }

func (s *stubProvider) PriceOffer(_ context.Context, offer json.RawMessage, strategy domain.PricingStrategy) (*domain.PricedOffer, error) {
	s.priceCalls++
	s.strategies = append(s.strategies, strategy)
	if s.priceFn != nil {
		return s.priceFn(s.priceCalls, strategy)
	}
	return &domain.PricedOffer{Raw: offer, TravelerCount: 9, Total: "100.00", Currency: "EUR"}, nil
}

func (s *stubProvider) CreateOrder(_ context.Context, priced *domain.PricedOffer, _ []domain.Traveler) (*domain.FlightOrder, error) {
	s.orderCalls++
	if s.orderFn != nil {
		return s.orderFn(s.orderCalls)
	}
	return &domain.FlightOrder{ID: "order-1", Raw: priced.Raw}, nil
}

func (s *stubProvider) BookOffer(_ context.Context, offerID string, _ []domain.Traveler) (*domain.HotelReservation, error) {
	s.hotelCalls++
	if s.hotelFn != nil {
		return s.hotelFn(s.hotelCalls)
	}
	return &domain.HotelReservation{ID: "res-1", Raw: json.RawMessage(`{"offerId":"` + offerID + `"}`)}, nil
}

// fastLegConfig keeps the booking retry schedule but collapses the delays.
func fastLegConfig() retry.Config {
	return retry.BookingConfig.WithInitialDelay(time.Millisecond)
}

func testTravelers(n int) []domain.Traveler {
	travelers := make([]domain.Traveler, n)
	for i := range travelers {
		travelers[i] = domain.Traveler{
			FirstName:   fmt.Sprintf("Traveler%d", i+1),
			LastName:    "Test",
			DateOfBirth: "1990-01-15",
			Contact: domain.Contact{
				Email:            fmt.Sprintf("traveler%d@example.com", i+1),
				PhoneCountryCode: "61",
				PhoneNumber:      "412345678",
			},
			Nationality: "AU",
			Passport: domain.PassportDocument{
				Number:          fmt.Sprintf("PA00000%d", i+1),
				ExpiryDate:      "2030-06-30",
				IssuanceCountry: "AU",
			},
		}
	}
	return travelers
}

func serverError() *domain.ProviderError {
	return domain.NewProviderError(500, "/v1/test", []domain.ProviderErrorEntry{
		{Status: 500, Code: 141, Title: "SYSTEM ERROR HAS OCCURRED"},
	})
}

func authError() *domain.ProviderError {
	return domain.NewProviderError(401, "/v1/test", []domain.ProviderErrorEntry{
		{Status: 401, Code: 38190, Title: "Invalid access token"},
	})
}

func validationError(code int, title string) *domain.ProviderError {
	return domain.NewProviderError(400, "/v1/test", []domain.ProviderErrorEntry{
		{Status: 400, Code: code, Title: title},
	})
}
