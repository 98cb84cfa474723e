package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Jake-Oz/travel-ai/internal/domain"
)

const (
	pathFlightOffersPricing = "/v1/shopping/flight-offers/pricing"
	pathFlightOrders        = "/v1/booking/flight-orders"
)

// PriceOffer re-prices a cached flight offer. The compatibility strategy
// sends the alternate parameter set some carriers require after a segment
// sell failure.
func (c *Client) PriceOffer(ctx context.Context, offer json.RawMessage, strategy domain.PricingStrategy) (*domain.PricedOffer, error) {
	query := url.Values{}
	if strategy == domain.PricingCompatibility {
		query.Set("forceClass", "false")
		query.Set("include", "other-services")
	}

	reqBody := map[string]interface{}{
		"data": map[string]interface{}{
			"type":         "flight-offers-pricing",
			"flightOffers": []json.RawMessage{offer},
		},
	}

	body, err := c.request(ctx, http.MethodPost, pathFlightOffersPricing, query, reqBody)
	if err != nil {
		return nil, err
	}

	var resp pricingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode pricing response: %w", err)
	}
	if len(resp.Data.FlightOffers) == 0 {
		return nil, fmt.Errorf("%w: pricing returned no flight offers", domain.ErrMalformedResponse)
	}

	priced := resp.Data.FlightOffers[0]
	var view pricedOfferView
	if err := json.Unmarshal(priced, &view); err != nil {
		return nil, fmt.Errorf("decode priced offer: %w", err)
	}

	result := &domain.PricedOffer{
		Raw:           priced,
		TravelerCount: len(view.TravelerPricings),
	}
	if view.Price != nil {
		result.Total = view.Price.GrandTotal
		if result.Total == "" {
			result.Total = view.Price.Total
		}
		result.Currency = view.Price.Currency
	}
	return result, nil
}

// CreateOrder submits a priced offer plus traveler documents to create a
// flight order.
func (c *Client) CreateOrder(ctx context.Context, priced *domain.PricedOffer, travelers []domain.Traveler) (*domain.FlightOrder, error) {
	reqBody := map[string]interface{}{
		"data": map[string]interface{}{
			"type":         "flight-order",
			"flightOffers": []json.RawMessage{priced.Raw},
			"travelers":    toOrderTravelers(travelers),
		},
	}

	body, err := c.request(ctx, http.MethodPost, pathFlightOrders, nil, reqBody)
	if err != nil {
		return nil, err
	}

	var resp orderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	var view orderView
	if err := json.Unmarshal(resp.Data, &view); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	if view.ID == "" {
		return nil, fmt.Errorf("%w: flight order has no id", domain.ErrMalformedResponse)
	}

	return &domain.FlightOrder{ID: view.ID, Raw: resp.Data}, nil
}

// toOrderTravelers maps the traveler party into the provider's order payload.
func toOrderTravelers(travelers []domain.Traveler) []orderTraveler {
	out := make([]orderTraveler, len(travelers))
	for i, t := range travelers {
		ot := orderTraveler{
			ID:          strconv.Itoa(i + 1),
			DateOfBirth: t.DateOfBirth,
			Name: travelerName{
				FirstName: t.FirstName,
				LastName:  t.LastName,
			},
		}

		if t.Contact.Email != "" || t.Contact.PhoneNumber != "" {
			contact := &travelerContact{EmailAddress: t.Contact.Email}
			if t.Contact.PhoneNumber != "" {
				contact.Phones = []travelerPhone{{
					DeviceType:         "MOBILE",
					CountryCallingCode: t.Contact.PhoneCountryCode,
					Number:             t.Contact.PhoneNumber,
				}}
			}
			ot.Contact = contact
		}

		if t.Passport.Number != "" {
			ot.Documents = []travelerDocument{{
				DocumentType:    "PASSPORT",
				Number:          t.Passport.Number,
				ExpiryDate:      t.Passport.ExpiryDate,
				IssuanceCountry: t.Passport.IssuanceCountry,
				Nationality:     t.Nationality,
				Holder:          true,
			}}
		}

		out[i] = ot
	}
	return out
}
