package amadeus

import "encoding/json"

// Wire shapes for provider responses. Fields the provider may omit are
// pointers or slices so absence stays distinguishable from zero.

// errorResponse is the body of any non-2xx provider response.
type errorResponse struct {
	Errors []apiError `json:"errors"`
}

// apiError is one provider-reported error entry.
type apiError struct {
	Status int             `json:"status,omitempty"`
	Code   int             `json:"code,omitempty"`
	Title  string          `json:"title,omitempty"`
	Detail string          `json:"detail,omitempty"`
	Source *apiErrorSource `json:"source,omitempty"`
}

// apiErrorSource locates the offending part of the request.
type apiErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// tokenResponse is the OAuth2 client-credentials exchange result.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// pricingResponse wraps the flight-offers pricing result.
type pricingResponse struct {
	Data pricingData `json:"data"`
}

type pricingData struct {
	FlightOffers []json.RawMessage `json:"flightOffers"`
}

// pricedOfferView extracts the fields the engine needs from a priced offer.
type pricedOfferView struct {
	Price            *offerPrice       `json:"price,omitempty"`
	TravelerPricings []json.RawMessage `json:"travelerPricings,omitempty"`
}

type offerPrice struct {
	Currency   string `json:"currency,omitempty"`
	Total      string `json:"total,omitempty"`
	GrandTotal string `json:"grandTotal,omitempty"`
}

// orderResponse wraps a created flight order.
type orderResponse struct {
	Data json.RawMessage `json:"data"`
}

type orderView struct {
	ID string `json:"id"`
}

// hotelBookingResponse wraps a hotel booking result. The provider returns a
// list even for a single booking.
type hotelBookingResponse struct {
	Data []hotelBookingView `json:"data"`
}

type hotelBookingView struct {
	ID                     string `json:"id"`
	ProviderConfirmationID string `json:"providerConfirmationId,omitempty"`
}

// locationsResponse wraps a reference-data locations lookup.
type locationsResponse struct {
	Data []locationView `json:"data"`
}

type locationView struct {
	Name     string           `json:"name"`
	IataCode string           `json:"iataCode"`
	SubType  string           `json:"subType,omitempty"`
	Address  *locationAddress `json:"address,omitempty"`
}

type locationAddress struct {
	CountryCode string `json:"countryCode,omitempty"`
}

// orderTraveler is the traveler document payload submitted with an order.
type orderTraveler struct {
	ID          string             `json:"id"`
	DateOfBirth string             `json:"dateOfBirth"`
	Name        travelerName       `json:"name"`
	Contact     *travelerContact   `json:"contact,omitempty"`
	Documents   []travelerDocument `json:"documents,omitempty"`
}

type travelerName struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type travelerContact struct {
	EmailAddress string          `json:"emailAddress,omitempty"`
	Phones       []travelerPhone `json:"phones,omitempty"`
}

type travelerPhone struct {
	DeviceType         string `json:"deviceType"`
	CountryCallingCode string `json:"countryCallingCode"`
	Number             string `json:"number"`
}

type travelerDocument struct {
	DocumentType    string `json:"documentType"`
	Number          string `json:"number"`
	ExpiryDate      string `json:"expiryDate,omitempty"`
	IssuanceCountry string `json:"issuanceCountry,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	Holder          bool   `json:"holder"`
}

// hotelGuest is the guest payload submitted with a hotel booking.
type hotelGuest struct {
	ID      int           `json:"id"`
	Name    travelerName  `json:"name"`
	Contact *guestContact `json:"contact,omitempty"`
}

type guestContact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
