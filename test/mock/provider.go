// Package mock provides test doubles for the booking orchestration system.
// Its centerpiece is a configurable fake of the provider's HTTP API, used by
// integration tests to script pricing, order and hotel booking outcomes.
package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
)

// Endpoint names used to script and count calls on the provider server.
const (
	EndpointToken     = "token"
	EndpointPricing   = "pricing"
	EndpointOrders    = "orders"
	EndpointHotels    = "hotels"
	EndpointLocations = "locations"
)

// Failure scripts an error response for one endpoint.
type Failure struct {
	// Status is the HTTP status to return
	Status int

	// Body is the response body; when empty a provider-style errors
	// payload is synthesized from Status and Code.
	Body string

	// Code is the provider error code for the synthesized payload
	Code int

	// Times limits how many calls fail before the endpoint recovers;
	// zero means every call fails.
	Times int

	// RetryAfter sets the Retry-After response header when non-empty
	RetryAfter string
}

// ProviderServer is a scriptable fake of the booking provider's API.
// All endpoints succeed with canned payloads until a Failure is installed.
type ProviderServer struct {
	mu       sync.Mutex
	server   *httptest.Server
	failures map[string]*Failure
	calls    map[string]int

	// TravelerPricings controls how many traveler pricings the pricing
	// endpoint reports. Zero means echo a single pricing.
	TravelerPricings int
}

// NewProviderServer starts the fake provider. The caller owns shutdown via Close.
func NewProviderServer() *ProviderServer {
	p := &ProviderServer{
		failures: make(map[string]*Failure),
		calls:    make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", p.handleToken)
	mux.HandleFunc("/v1/shopping/flight-offers/pricing", p.handlePricing)
	mux.HandleFunc("/v1/booking/flight-orders", p.handleOrders)
	mux.HandleFunc("/v1/booking/hotel-bookings", p.handleHotels)
	mux.HandleFunc("/v1/reference-data/locations", p.handleLocations)

	p.server = httptest.NewServer(mux)
	return p
}

// URL returns the fake provider's base URL.
func (p *ProviderServer) URL() string {
	return p.server.URL
}

// Close shuts the fake provider down.
func (p *ProviderServer) Close() {
	p.server.Close()
}

// FailWith scripts a failure for the given endpoint.
func (p *ProviderServer) FailWith(endpoint string, f Failure) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures[endpoint] = &f
}

// Recover clears any scripted failure for the endpoint.
func (p *ProviderServer) Recover(endpoint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.failures, endpoint)
}

// Calls returns how many times the endpoint was hit.
func (p *ProviderServer) Calls(endpoint string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[endpoint]
}

// Reset clears all scripted failures and call counts.
func (p *ProviderServer) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failures = make(map[string]*Failure)
	p.calls = make(map[string]int)
	p.TravelerPricings = 0
}

// intercept counts the call and serves a scripted failure when present.
// It reports true when the failure was served.
func (p *ProviderServer) intercept(endpoint string, w http.ResponseWriter) bool {
	p.mu.Lock()
	p.calls[endpoint]++
	f := p.failures[endpoint]
	if f != nil && f.Times > 0 {
		f.Times--
		if f.Times == 0 {
			delete(p.failures, endpoint)
		}
	}
	p.mu.Unlock()

	if f == nil {
		return false
	}

	if f.RetryAfter != "" {
		w.Header().Set("Retry-After", f.RetryAfter)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.Status)

	body := f.Body
	if body == "" {
		body = fmt.Sprintf(`{"errors":[{"status":%d,"code":%d,"title":"SCRIPTED FAILURE"}]}`, f.Status, f.Code)
	}
	w.Write([]byte(body))
	return true
}

func (p *ProviderServer) handleToken(w http.ResponseWriter, r *http.Request) {
	if p.intercept(EndpointToken, w) {
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token": "test-token",
		"token_type":   "Bearer",
		"expires_in":   1799,
	})
}

func (p *ProviderServer) handlePricing(w http.ResponseWriter, r *http.Request) {
	if p.intercept(EndpointPricing, w) {
		return
	}

	pricings := p.TravelerPricings
	if pricings <= 0 {
		pricings = 1
	}
	travelerPricings := make([]map[string]interface{}, pricings)
	for i := range travelerPricings {
		travelerPricings[i] = map[string]interface{}{
			"travelerId": fmt.Sprintf("%d", i+1),
			"price":      map[string]string{"total": "406.20", "currency": "EUR"},
		}
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"type": "flight-offers-pricing",
			"flightOffers": []map[string]interface{}{
				{
					"id": "priced-offer-1",
					"price": map[string]string{
						"grandTotal": "812.40",
						"currency":   "EUR",
					},
					"travelerPricings": travelerPricings,
				},
			},
		},
	})
}

func (p *ProviderServer) handleOrders(w http.ResponseWriter, r *http.Request) {
	if p.intercept(EndpointOrders, w) {
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"type": "flight-order",
			"id":   "eJzTd9f3NjIJdzUGAAp%2fAiY",
		},
	})
}

func (p *ProviderServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	if p.intercept(EndpointHotels, w) {
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"type":                   "hotel-booking",
				"id":                     "XD_8138319951754",
				"providerConfirmationId": "8138319951754",
			},
		},
	})
}

func (p *ProviderServer) handleLocations(w http.ResponseWriter, r *http.Request) {
	if p.intercept(EndpointLocations, w) {
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"name":     "PARIS",
				"iataCode": "PAR",
				"subType":  "CITY",
				"address":  map[string]string{"countryCode": "FR"},
			},
		},
	})
}
