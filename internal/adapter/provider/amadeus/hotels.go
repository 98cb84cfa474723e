package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Jake-Oz/travel-ai/internal/domain"
)

const pathHotelBookings = "/v1/booking/hotel-bookings"

// BookOffer books a cached hotel offer for the guest party.
func (c *Client) BookOffer(ctx context.Context, offerID string, guests []domain.Traveler) (*domain.HotelReservation, error) {
	reqBody := map[string]interface{}{
		"data": map[string]interface{}{
			"offerId": offerID,
			"guests":  toHotelGuests(guests),
		},
	}

	body, err := c.request(ctx, http.MethodPost, pathHotelBookings, nil, reqBody)
	if err != nil {
		return nil, err
	}

	var resp hotelBookingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode hotel booking response: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("%w: hotel booking returned no data", domain.ErrMalformedResponse)
	}

	booking := resp.Data[0]
	if booking.ID == "" && booking.ProviderConfirmationID == "" {
		return nil, fmt.Errorf("%w: hotel booking has no id", domain.ErrMalformedResponse)
	}

	return &domain.HotelReservation{
		ID:             booking.ID,
		ConfirmationID: booking.ProviderConfirmationID,
		Raw:            body,
	}, nil
}

// toHotelGuests maps the traveler party into the provider's guest payload.
func toHotelGuests(guests []domain.Traveler) []hotelGuest {
	out := make([]hotelGuest, len(guests))
	for i, g := range guests {
		hg := hotelGuest{
			ID: i + 1,
			Name: travelerName{
				FirstName: g.FirstName,
				LastName:  g.LastName,
			},
		}
		if g.Contact.Email != "" || g.Contact.PhoneNumber != "" {
			contact := &guestContact{Email: g.Contact.Email}
			if g.Contact.PhoneNumber != "" {
				contact.Phone = "+" + g.Contact.PhoneCountryCode + g.Contact.PhoneNumber
			}
			hg.Contact = contact
		}
		out[i] = hg
	}
	return out
}
