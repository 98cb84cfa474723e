package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
)

var testOffer = json.RawMessage(`{"id":"offer-1","type":"flight-offer"}`)

func newTestFlightOrchestrator(provider domain.FlightProvider) *flightOrchestrator {
	return newFlightOrchestrator(provider, fastLegConfig(), logger.Nop())
}

func TestFlightBookSuccess(t *testing.T) {
	provider := &stubProvider{}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(2))

	assert.Empty(t, leg.Err)
	assert.Equal(t, "order-1", leg.OrderID)
	assert.False(t, leg.DisableProvider)
	assert.Equal(t, 1, provider.priceCalls)
	assert.Equal(t, 1, provider.orderCalls)
	assert.Equal(t, []domain.PricingStrategy{domain.PricingDefault}, provider.strategies)
}

func TestFlightBookPartyMismatchNotRetried(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return &domain.PricedOffer{Raw: testOffer, TravelerCount: 1}, nil
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(3))

	assert.Equal(t, "flight offer supports 1 travelers but 3 were requested", leg.Err)
	assert.False(t, leg.DisableProvider)
	assert.Equal(t, 1, provider.priceCalls, "capacity mismatch must not be retried")
	assert.Zero(t, provider.orderCalls, "no order may be created for a short-capacity offer")
}

func TestFlightBookServerErrorRetriedThenFails(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return nil, serverError()
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(1))

	assert.Contains(t, leg.Err, "flight booking failed")
	assert.True(t, leg.DisableProvider, "server failures must disable the provider")
	assert.Equal(t, 3, provider.priceCalls, "server errors get the full attempt budget")
}

func TestFlightBookServerErrorRecoversMidBudget(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(call int, _ domain.PricingStrategy) (*domain.PricedOffer, error) {
			if call < 3 {
				return nil, serverError()
			}
			return &domain.PricedOffer{Raw: testOffer, TravelerCount: 2}, nil
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(2))

	assert.Empty(t, leg.Err)
	assert.Equal(t, "order-1", leg.OrderID)
	assert.Equal(t, 3, provider.priceCalls)
}

func TestFlightBookSegmentSellFallsBackToCompatibility(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(_ int, strategy domain.PricingStrategy) (*domain.PricedOffer, error) {
			if strategy == domain.PricingDefault {
				return nil, validationError(codeSegmentSellFailure, "SEGMENT SELL FAILURE")
			}
			return &domain.PricedOffer{Raw: testOffer, TravelerCount: 2}, nil
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(2))

	require.Empty(t, leg.Err)
	assert.Equal(t, "order-1", leg.OrderID)
	assert.Equal(t, []domain.PricingStrategy{domain.PricingDefault, domain.PricingCompatibility}, provider.strategies)
}

func TestFlightBookSegmentSellCompatibilityAlsoFails(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return nil, validationError(codeSegmentSellFailure, "SEGMENT SELL FAILURE")
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(2))

	assert.Contains(t, leg.Err, "SEGMENT SELL FAILURE")
	assert.False(t, leg.DisableProvider)
	assert.Equal(t, 2, provider.priceCalls, "exactly one compatibility fallback attempt")
}

func TestFlightBookTravelerPricingRejectionBecomesMismatch(t *testing.T) {
	perr := domain.NewProviderError(400, "/v1/booking/flight-orders", []domain.ProviderErrorEntry{
		{Status: 400, Code: 477, Title: "INVALID FORMAT", SourcePointer: "/data/travelers/2"},
	})
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return &domain.PricedOffer{Raw: testOffer, TravelerCount: 3}, nil
		},
		orderFn: func(int) (*domain.FlightOrder, error) {
			return nil, perr
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(3))

	assert.Equal(t, "flight offer supports 2 travelers but 3 were requested", leg.Err)
	assert.False(t, leg.DisableProvider)
	assert.Equal(t, 1, provider.orderCalls)
}

func TestFlightBookAuthErrorDisablesProvider(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return nil, authError()
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(1))

	assert.Contains(t, leg.Err, "flight booking failed")
	assert.True(t, leg.DisableProvider)
	assert.Equal(t, 1, provider.priceCalls, "auth failures are not retried by the orchestrator")
}

func TestFlightBookValidationErrorNotRetried(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return nil, validationError(4926, "INVALID DATA RECEIVED")
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(1))

	assert.Contains(t, leg.Err, "INVALID DATA RECEIVED")
	assert.False(t, leg.DisableProvider)
	assert.Equal(t, 1, provider.priceCalls)
}

func TestFlightBookNonProviderError(t *testing.T) {
	provider := &stubProvider{
		priceFn: func(int, domain.PricingStrategy) (*domain.PricedOffer, error) {
			return nil, errors.New("connection reset")
		},
	}
	o := newTestFlightOrchestrator(provider)

	leg := o.Book(context.Background(), testOffer, testTravelers(1))

	assert.Equal(t, "flight booking failed: connection reset", leg.Err)
	assert.False(t, leg.DisableProvider)
}
