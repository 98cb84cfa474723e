package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Oz/travel-ai/internal/domain"
)

// newTestClient wires a Client against a stub provider. The handler serves
// every non-token path; the token endpoint always succeeds.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc(tokenPath, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "test-token",
			"token_type":   "Bearer",
			"expires_in":   1799,
		})
	})
	mux.HandleFunc("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := New(Config{
		BaseURL:     srv.URL,
		Credentials: Credentials{ClientID: "id", ClientSecret: "secret"},
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		HTTPClient:  srv.Client(),
	})
	return client, srv
}

func sampleTravelers(n int) []domain.Traveler {
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
				Number:          fmt.Sprintf("PA%07d", i+1),
				ExpiryDate:      "2030-06-30",
				IssuanceCountry: "AU",
			},
		}
	}
	return travelers
}

func TestConfigured(t *testing.T) {
	assert.True(t, New(Config{Credentials: Credentials{ClientID: "a", ClientSecret: "b"}}).Configured())
	assert.False(t, New(Config{}).Configured())
	assert.False(t, New(Config{Credentials: Credentials{ClientID: "a"}}).Configured())
}

func TestRequestRetriesOnceAfter401(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		if calls == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"errors":[{"status":401,"code":38192,"title":"Access token expired"}]}`))
			return
		}
		w.Write([]byte(`{"data":[{"name":"Paris","iataCode":"PAR","subType":"CITY"}]}`))
	})

	locations, err := client.ResolveCity(context.Background(), "paris")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, locations, 1)
	assert.Equal(t, "PAR", locations[0].IATACode)
}

func TestRequestSecondConsecutive401IsAuthError(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"errors":[{"status":401,"code":38190,"title":"Invalid access token"}]}`))
	})

	_, err := client.ResolveCity(context.Background(), "paris")

	require.Error(t, err)
	assert.Equal(t, 2, calls, "second consecutive 401 must stop retrying")
	perr, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryAuth, perr.Category)
}

func TestRequestRetriesRateLimit(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data":[{"name":"Lisbon","iataCode":"LIS","subType":"CITY"}]}`))
	})

	locations, err := client.ResolveCity(context.Background(), "lisbon")

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, locations, 1)
}

func TestRequestRateLimitHonorsRetryAfter(t *testing.T) {
	calls := 0
	var gap time.Duration
	var last time.Time
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		now := time.Now()
		if calls == 2 {
			gap = now.Sub(last)
		}
		last = now
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.ResolveCity(context.Background(), "rome")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, gap, time.Second, "explicit Retry-After must override the default backoff")
}

func TestRequestRateLimitExhaustsAttempts(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errors":[{"status":429,"code":38194,"title":"Too many requests"}]}`))
	})

	_, err := client.ResolveCity(context.Background(), "berlin")

	require.Error(t, err)
	assert.Equal(t, 3, calls, "rate limit retries cap at 3 total attempts")
	perr, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryRateLimit, perr.Category)
}

func TestRequestServerErrorNotRetried(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors":[{"status":500,"code":141,"title":"SYSTEM ERROR HAS OCCURRED"}]}`))
	})

	_, err := client.ResolveCity(context.Background(), "oslo")

	require.Error(t, err)
	assert.Equal(t, 1, calls, "server errors are retried by the orchestrator, not the transport")
	perr, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryServer, perr.Category)
	assert.True(t, perr.HasCode(141))
}

func TestRequestValidationErrorEntries(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[
			{"status":400,"code":477,"title":"INVALID FORMAT","detail":"invalid query parameter","source":{"pointer":"/data/travelers/1"}},
			{"status":400,"code":32171,"title":"MANDATORY DATA MISSING"}
		]}`))
	})

	_, err := client.ResolveCity(context.Background(), "x")

	perr, ok := domain.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CategoryValidation, perr.Category)
	require.Len(t, perr.Entries, 2)
	assert.Equal(t, "INVALID FORMAT", perr.Entries[0].Title)
	assert.Equal(t, "/data/travelers/1", perr.Entries[0].SourcePointer)
	assert.True(t, perr.HasSourcePointer("/data/travelers"))
}

func TestPriceOffer(t *testing.T) {
	offer := json.RawMessage(`{"type":"flight-offer","id":"1"}`)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathFlightOffersPricing, r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("forceClass"))

		var req struct {
			Data struct {
				Type         string            `json:"type"`
				FlightOffers []json.RawMessage `json:"flightOffers"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "flight-offers-pricing", req.Data.Type)
		require.Len(t, req.Data.FlightOffers, 1)

		w.Write([]byte(`{"data":{"type":"flight-offers-pricing","flightOffers":[{
			"id":"1",
			"price":{"currency":"EUR","total":"546.70","grandTotal":"546.70"},
			"travelerPricings":[{"travelerId":"1"},{"travelerId":"2"}]
		}]}}`))
	})

	priced, err := client.PriceOffer(context.Background(), offer, domain.PricingDefault)

	require.NoError(t, err)
	assert.Equal(t, 2, priced.TravelerCount)
	assert.Equal(t, "546.70", priced.Total)
	assert.Equal(t, "EUR", priced.Currency)
	assert.NotEmpty(t, priced.Raw)
}

func TestPriceOfferCompatibilityStrategy(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("forceClass"))
		w.Write([]byte(`{"data":{"flightOffers":[{"travelerPricings":[{}]}]}}`))
	})

	_, err := client.PriceOffer(context.Background(), json.RawMessage(`{}`), domain.PricingCompatibility)
	require.NoError(t, err)
}

func TestPriceOfferEmptyResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"flightOffers":[]}}`))
	})

	_, err := client.PriceOffer(context.Background(), json.RawMessage(`{}`), domain.PricingDefault)
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestCreateOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathFlightOrders, r.URL.Path)

		var req struct {
			Data struct {
				Type      string          `json:"type"`
				Travelers []orderTraveler `json:"travelers"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "flight-order", req.Data.Type)
		require.Len(t, req.Data.Travelers, 2)
		assert.Equal(t, "1", req.Data.Travelers[0].ID)
		assert.Equal(t, "Traveler1", req.Data.Travelers[0].Name.FirstName)
		require.Len(t, req.Data.Travelers[0].Documents, 1)
		assert.Equal(t, "PASSPORT", req.Data.Travelers[0].Documents[0].DocumentType)
		assert.True(t, req.Data.Travelers[0].Documents[0].Holder)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"type":"flight-order","id":"eJzTd9f3NjIJdzUGAAp%2fAiY=","queuingOfficeId":"NCE4D31SB"}}`))
	})

	order, err := client.CreateOrder(context.Background(),
		&domain.PricedOffer{Raw: json.RawMessage(`{"id":"1"}`), TravelerCount: 2},
		sampleTravelers(2))

	require.NoError(t, err)
	assert.Equal(t, "eJzTd9f3NjIJdzUGAAp%2fAiY=", order.ID)
	assert.NotEmpty(t, order.Raw)
}

func TestBookOffer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathHotelBookings, r.URL.Path)

		var req struct {
			Data struct {
				OfferID string       `json:"offerId"`
				Guests  []hotelGuest `json:"guests"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "OFFER123", req.Data.OfferID)
		require.Len(t, req.Data.Guests, 2)
		assert.Equal(t, 1, req.Data.Guests[0].ID)
		assert.Equal(t, "+61412345678", req.Data.Guests[0].Contact.Phone)

		w.Write([]byte(`{"data":[{"type":"hotel-booking","id":"XD_8138319951","providerConfirmationId":"8138319951"}]}`))
	})

	reservation, err := client.BookOffer(context.Background(), "OFFER123", sampleTravelers(2))

	require.NoError(t, err)
	assert.Equal(t, "XD_8138319951", reservation.ID)
	assert.Equal(t, "8138319951", reservation.ConfirmationID)
	assert.Equal(t, "8138319951", reservation.BestID())
}

func TestBookOfferEmptyData(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := client.BookOffer(context.Background(), "OFFER123", sampleTravelers(1))
	assert.ErrorIs(t, err, domain.ErrMalformedResponse)
}

func TestRequestUnconfiguredClient(t *testing.T) {
	client := New(Config{BaseURL: "http://unused"})

	_, err := client.ResolveCity(context.Background(), "paris")

	require.Error(t, err)
	assert.True(t, domain.IsConfigurationError(err))
}
