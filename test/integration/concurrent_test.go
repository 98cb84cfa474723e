package integration

import (
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentBookings drives several reconciliations through the stack at
// once. The transport and token cache are shared, so this exercises their
// concurrency guarantees end to end.
func TestConcurrentBookings(t *testing.T) {
	ts := NewTestServer(t)
	ts.Provider.TravelerPricings = 2

	const workers = 8
	responses := make([]Response, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			responses[i] = ts.BookingRequest(DefaultBookingBody(2))
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, workers)
	for _, resp := range responses {
		require.Equal(t, http.StatusCreated, resp.Code)
		booking := resp.ParseBooking(t)
		assert.Equal(t, "confirmed", booking.Status)
		assert.False(t, seen[booking.ConfirmationNumber], "confirmation numbers must be distinct")
		seen[booking.ConfirmationNumber] = true
	}

	assert.Len(t, ts.Store.Saves(), workers)
}
