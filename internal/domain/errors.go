package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for caller-input violations and response-shape problems.
var (
	// ErrNoTravelers is returned when a booking request arrives with an
	// empty traveler list. Fatal: no provider call is attempted.
	ErrNoTravelers = errors.New("booking request has no travelers")

	// ErrMalformedResponse indicates a provider response that decoded but
	// did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")
)

// ErrorCategory classifies a provider failure for retry decisions.
type ErrorCategory string

const (
	// CategoryAuth covers 401/403 responses and provider auth error codes.
	CategoryAuth ErrorCategory = "auth"

	// CategoryRateLimit covers 429 responses.
	CategoryRateLimit ErrorCategory = "rate_limit"

	// CategoryServer covers 5xx responses.
	CategoryServer ErrorCategory = "server"

	// CategoryValidation covers everything else (4xx business rejections).
	CategoryValidation ErrorCategory = "validation"
)

// Provider auth error codes that force CategoryAuth regardless of HTTP status.
var authErrorCodes = map[int]bool{
	38190: true, // invalid access token
	38191: true, // invalid or missing authorization header
	38192: true, // access token expired
}

// ProviderErrorEntry is one provider-reported error in a failed response.
type ProviderErrorEntry struct {
	// Status is the per-entry HTTP status reported by the provider
	Status int `json:"status,omitempty"`

	// Code is the provider's numeric error code
	Code int `json:"code,omitempty"`

	// Title is the short error title
	Title string `json:"title,omitempty"`

	// Detail is the longer human-readable description
	Detail string `json:"detail,omitempty"`

	// SourcePointer is a JSON pointer into the request that caused the error
	SourcePointer string `json:"sourcePointer,omitempty"`
}

// ProviderError is a classified failure from the booking provider.
// It carries the HTTP status, the originating request path and the ordered
// list of provider-reported error entries.
type ProviderError struct {
	// StatusCode is the HTTP status of the failed response
	StatusCode int

	// Path is the request path that produced the failure
	Path string

	// Entries are the provider-reported errors, in response order
	Entries []ProviderErrorEntry

	// RetryAfter is the provider's retry hint, when present
	RetryAfter *time.Duration

	// Category is derived from status and entry codes
	Category ErrorCategory
}

// NewProviderError builds a ProviderError and derives its category.
func NewProviderError(status int, path string, entries []ProviderErrorEntry) *ProviderError {
	return &ProviderError{
		StatusCode: status,
		Path:       path,
		Entries:    entries,
		Category:   classifyProviderError(status, entries),
	}
}

// classifyProviderError derives the error category per the taxonomy:
// auth on 401/403 or known auth codes, rate_limit on 429, server on 5xx,
// validation otherwise.
func classifyProviderError(status int, entries []ProviderErrorEntry) ErrorCategory {
	switch {
	case status == 401 || status == 403:
		return CategoryAuth
	case status == 429:
		return CategoryRateLimit
	case status >= 500:
		return CategoryServer
	}
	for _, e := range entries {
		if authErrorCodes[e.Code] {
			return CategoryAuth
		}
	}
	return CategoryValidation
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "provider error (%s, status %d, %s)", e.Category, e.StatusCode, e.Path)
	if len(e.Entries) > 0 {
		b.WriteString(": ")
		b.WriteString(e.Summary())
	}
	return b.String()
}

// Summary joins entry titles and details into one human-readable line.
func (e *ProviderError) Summary() string {
	if len(e.Entries) == 0 {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	parts := make([]string, 0, len(e.Entries))
	for _, entry := range e.Entries {
		switch {
		case entry.Title != "" && entry.Detail != "":
			parts = append(parts, entry.Title+": "+entry.Detail)
		case entry.Title != "":
			parts = append(parts, entry.Title)
		case entry.Detail != "":
			parts = append(parts, entry.Detail)
		default:
			parts = append(parts, fmt.Sprintf("code %d", entry.Code))
		}
	}
	return strings.Join(parts, "; ")
}

// HasCode reports whether any entry carries the given provider code.
func (e *ProviderError) HasCode(code int) bool {
	for _, entry := range e.Entries {
		if entry.Code == code {
			return true
		}
	}
	return false
}

// HasSourcePointer reports whether any entry's source pointer starts with
// the given JSON pointer prefix.
func (e *ProviderError) HasSourcePointer(prefix string) bool {
	for _, entry := range e.Entries {
		if strings.HasPrefix(entry.SourcePointer, prefix) {
			return true
		}
	}
	return false
}

// AsProviderError unwraps err into a *ProviderError if possible.
func AsProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsProviderCategory reports whether err is a ProviderError of the given category.
func IsProviderCategory(err error, cat ErrorCategory) bool {
	pe, ok := AsProviderError(err)
	return ok && pe.Category == cat
}

// IsServerError reports whether err is a server-category provider error.
func IsServerError(err error) bool {
	return IsProviderCategory(err, CategoryServer)
}

// IsAuthError reports whether err is an auth-category provider error.
func IsAuthError(err error) bool {
	return IsProviderCategory(err, CategoryAuth)
}

// IsRateLimitError reports whether err is a rate-limit-category provider error.
func IsRateLimitError(err error) bool {
	return IsProviderCategory(err, CategoryRateLimit)
}

// MismatchContext names the leg on which a party-capacity mismatch occurred.
type MismatchContext string

const (
	// MismatchFlight is a flight offer that cannot seat the full party.
	MismatchFlight MismatchContext = "flight"

	// MismatchHotel is a hotel offer that cannot host the full party.
	MismatchHotel MismatchContext = "hotel"
)

// TravelPartyMismatchError is raised when a priced offer cannot accommodate
// the full traveler party. It is a business-rule violation and is never
// retried: re-pricing the same offer cannot increase its capacity.
type TravelPartyMismatchError struct {
	// Context is the leg the mismatch occurred on
	Context MismatchContext

	// Supported is the traveler/guest count the offer accommodates
	Supported int

	// Requested is the traveler/guest count the booking asked for
	Requested int
}

// NewTravelPartyMismatch creates a mismatch error for the given leg.
func NewTravelPartyMismatch(ctx MismatchContext, supported, requested int) *TravelPartyMismatchError {
	return &TravelPartyMismatchError{Context: ctx, Supported: supported, Requested: requested}
}

// Error implements the error interface.
func (e *TravelPartyMismatchError) Error() string {
	noun := "travelers"
	if e.Context == MismatchHotel {
		noun = "guests"
	}
	return fmt.Sprintf("%s offer supports %d %s but %d were requested", e.Context, e.Supported, noun, e.Requested)
}

// AsTravelPartyMismatch unwraps err into a *TravelPartyMismatchError if possible.
func AsTravelPartyMismatch(err error) (*TravelPartyMismatchError, bool) {
	var me *TravelPartyMismatchError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// IsTravelPartyMismatch reports whether err is a party-capacity mismatch.
func IsTravelPartyMismatch(err error) bool {
	_, ok := AsTravelPartyMismatch(err)
	return ok
}

// ConfigurationError is a fatal infrastructure misconfiguration, e.g. missing
// provider credentials. Callers must not retry.
type ConfigurationError struct {
	// Reason describes what is misconfigured
	Reason string
}

// NewConfigurationError creates a configuration error.
func NewConfigurationError(reason string) *ConfigurationError {
	return &ConfigurationError{Reason: reason}
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// IsConfigurationError reports whether err is a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
