// Package integration provides helpers and integration tests for the booking
// orchestration system. The tests run the real reconciliation stack (HTTP
// handler, booking service, orchestrators and provider transport) against a
// scriptable fake of the provider API.
package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	bookinghttp "github.com/Jake-Oz/travel-ai/internal/adapter/http"
	"github.com/Jake-Oz/travel-ai/internal/adapter/provider/amadeus"
	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/usecase"
	"github.com/Jake-Oz/travel-ai/test/mock"
)

// RecordingStore captures every Save call for assertions.
type RecordingStore struct {
	mu    sync.Mutex
	saves []SavedBooking
}

var (
	_ domain.BookingStore = (*RecordingStore)(nil)
	_ domain.Notifier     = (*RecordingNotifier)(nil)
)

// SavedBooking is one recorded Save call.
type SavedBooking struct {
	Request *domain.BookingRequest
	Result  *domain.BookingResult
}

// Save implements domain.BookingStore.
func (s *RecordingStore) Save(_ context.Context, req *domain.BookingRequest, res *domain.BookingResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, SavedBooking{Request: req, Result: res})
	return nil
}

// Saves returns the recorded Save calls.
func (s *RecordingStore) Saves() []SavedBooking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SavedBooking, len(s.saves))
	copy(out, s.saves)
	return out
}

// RecordingNotifier captures every Notify call.
type RecordingNotifier struct {
	mu      sync.Mutex
	results []*domain.BookingResult
}

// Notify implements domain.Notifier.
func (n *RecordingNotifier) Notify(_ context.Context, res *domain.BookingResult) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results = append(n.results, res)
	return nil
}

// Notified returns the recorded Notify calls.
func (n *RecordingNotifier) Notified() []*domain.BookingResult {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*domain.BookingResult, len(n.results))
	copy(out, n.results)
	return out
}

// TestServer wires the full booking stack against a fake provider.
type TestServer struct {
	Echo     *echo.Echo
	Provider *mock.ProviderServer
	Store    *RecordingStore
	Notifier *RecordingNotifier
	Service  *usecase.BookingService
}

// NewTestServer creates a test server with configured provider credentials.
func NewTestServer(t *testing.T) *TestServer {
	return newTestServer(t, amadeus.Credentials{ClientID: "test-id", ClientSecret: "test-secret"})
}

// NewUnconfiguredTestServer creates a test server without provider credentials.
func NewUnconfiguredTestServer(t *testing.T) *TestServer {
	return newTestServer(t, amadeus.Credentials{})
}

func newTestServer(t *testing.T, creds amadeus.Credentials) *TestServer {
	t.Helper()

	providerSrv := mock.NewProviderServer()
	t.Cleanup(providerSrv.Close)

	client := amadeus.New(amadeus.Config{
		BaseURL:     providerSrv.URL(),
		Credentials: creds,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	})

	recStore := &RecordingStore{}
	recNotifier := &RecordingNotifier{}

	service := usecase.NewBookingService(client, recStore, recNotifier,
		&usecase.Config{BookingAttempts: 3, BookingBaseDelay: time.Millisecond},
		usecase.WithLogger(logger.Nop()),
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	handler := bookinghttp.NewBookingHandler(service, client, logger.Nop())
	bookinghttp.RegisterRoutes(e, handler)

	return &TestServer{
		Echo:     e,
		Provider: providerSrv,
		Store:    recStore,
		Notifier: recNotifier,
		Service:  service,
	}
}

// Request represents a test HTTP request configuration.
type Request struct {
	Method string
	Path   string
	Body   interface{}
}

// Response represents a test HTTP response.
type Response struct {
	Code    int
	Body    []byte
	Headers http.Header
}

// Do executes a test request and returns the response.
func (ts *TestServer) Do(req Request) Response {
	var bodyReader *bytes.Reader
	if req.Body != nil {
		bodyBytes, _ := json.Marshal(req.Body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, bodyReader)
	if req.Body != nil {
		httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}

	rec := httptest.NewRecorder()
	ts.Echo.ServeHTTP(rec, httpReq)

	return Response{
		Code:    rec.Code,
		Body:    rec.Body.Bytes(),
		Headers: rec.Header(),
	}
}

// BookingRequest posts a booking request body.
func (ts *TestServer) BookingRequest(body interface{}) Response {
	return ts.Do(Request{
		Method: http.MethodPost,
		Path:   "/api/v1/bookings",
		Body:   body,
	})
}

// HealthRequest makes a health check request.
func (ts *TestServer) HealthRequest() Response {
	return ts.Do(Request{
		Method: http.MethodGet,
		Path:   "/health",
	})
}

// ParseBooking parses the response body as a booking envelope.
func (r *Response) ParseBooking(t *testing.T) bookinghttp.BookingResponse {
	t.Helper()
	var envelope struct {
		Success bool                        `json:"success"`
		Data    bookinghttp.BookingResponse `json:"data"`
	}
	if err := json.Unmarshal(r.Body, &envelope); err != nil {
		t.Fatalf("Failed to parse booking response: %v", err)
	}
	return envelope.Data
}

// DefaultBookingBody returns a valid two-leg booking request body.
func DefaultBookingBody(travelers int) map[string]interface{} {
	party := make([]map[string]interface{}, travelers)
	for i := range party {
		party[i] = map[string]interface{}{
			"firstName":        "Traveler",
			"lastName":         "Example",
			"dateOfBirth":      "1988-04-02",
			"email":            "traveler@example.com",
			"phoneCountryCode": "33",
			"phoneNumber":      "612345678",
			"nationality":      "FR",
			"passport": map[string]string{
				"number":          "19AX00001",
				"expiryDate":      "2031-02-28",
				"issuanceCountry": "FR",
			},
		}
	}

	return map[string]interface{}{
		"itineraryId":   "itin-2024-xyz789",
		"itineraryName": "Weekend in Lisbon",
		"chargedAmount": map[string]string{"amount": "1352.40", "currency": "EUR"},
		"travelers":     party,
		"flightOffer":   map[string]interface{}{"type": "flight-offer", "id": "1"},
		"hotelOffer": map[string]interface{}{
			"offerId": "HOTEL_OFFER_123",
			"raw":     map[string]interface{}{"guests": map[string]int{"adults": 2}},
		},
		"flightSummary": "SYD → LIS return",
		"staySummary":   "3 nights, Hotel Lisboa",
		"paymentRef":    "pay_abc123",
	}
}
