// Package usecase contains the booking orchestration logic: the flight and
// hotel orchestrators and the reconciliation driver that composes them.
package usecase

import (
	"context"
	"encoding/json"

	"github.com/Jake-Oz/travel-ai/internal/domain"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/logger"
	"github.com/Jake-Oz/travel-ai/internal/infrastructure/retry"
)

// Provider error codes for failure modes the orchestrators handle specially.
const (
	// codeSegmentSellFailure means the airline declined to sell a segment
	// under the default pricing parameters.
	codeSegmentSellFailure = 34651

	// codePartyExceedsCapacity means the offer's traveler pricing does not
	// cover the requested party size.
	codePartyExceedsCapacity = 425

	// travelersSourcePointer marks errors rooted in the travelers section
	// of an order request.
	travelersSourcePointer = "/data/travelers"
)

// FlightLegResult is the outcome of the flight leg. Provider failures are
// folded into Err rather than returned as errors.
type FlightLegResult struct {
	// OrderID is the provider order id on success
	OrderID string

	// Order is the raw provider order payload on success
	Order json.RawMessage

	// Err is the human-readable failure, empty on success
	Err string

	// DisableProvider signals the driver to skip further provider calls
	// for the remainder of this reconciliation.
	DisableProvider bool
}

// flightOrchestrator turns a cached, unpriced flight offer into a confirmed
// provider order.
type flightOrchestrator struct {
	provider domain.FlightProvider
	cfg      retry.Config
	log      *logger.Logger
}

func newFlightOrchestrator(provider domain.FlightProvider, cfg retry.Config, log *logger.Logger) *flightOrchestrator {
	return &flightOrchestrator{
		provider: provider,
		cfg:      cfg,
		log:      log.WithLeg("flight"),
	}
}

// Book prices the offer and creates the order, retrying server-category
// failures and falling back to the compatibility pricing strategy on a
// segment sell failure. It never returns an error for provider failures.
func (o *flightOrchestrator) Book(ctx context.Context, offer json.RawMessage, travelers []domain.Traveler) FlightLegResult {
	order, err := retry.DoWithResult(ctx, func() (*domain.FlightOrder, error) {
		return o.attempt(ctx, offer, travelers, domain.PricingDefault)
	}, o.cfg.WithRetryIf(retryServerOnly))

	if err != nil && isSegmentSellFailure(err) {
		o.log.Warn().Msg("Segment sell failure, retrying with compatibility pricing")
		order, err = o.attempt(ctx, offer, travelers, domain.PricingCompatibility)
	}

	if err == nil {
		o.log.Info().Str("order_id", order.ID).Msg("Flight order created")
		return FlightLegResult{OrderID: order.ID, Order: order.Raw}
	}
	return o.classifyFailure(err, len(travelers))
}

// attempt performs one price-then-order cycle under the given strategy.
//
// A traveler-capacity shortfall in the priced offer is permanent: re-pricing
// the same offer cannot increase its seat-class capacity.
func (o *flightOrchestrator) attempt(ctx context.Context, offer json.RawMessage, travelers []domain.Traveler, strategy domain.PricingStrategy) (*domain.FlightOrder, error) {
	priced, err := o.provider.PriceOffer(ctx, offer, strategy)
	if err != nil {
		return nil, err
	}

	if priced.TravelerCount < len(travelers) {
		return nil, retry.NewPermanent(
			domain.NewTravelPartyMismatch(domain.MismatchFlight, priced.TravelerCount, len(travelers)))
	}

	return o.provider.CreateOrder(ctx, priced, travelers)
}

// classifyFailure folds a terminal error into the leg result.
func (o *flightOrchestrator) classifyFailure(err error, requested int) FlightLegResult {
	if mismatch, ok := domain.AsTravelPartyMismatch(err); ok {
		o.log.Warn().Int("supported", mismatch.Supported).Int("requested", mismatch.Requested).
			Msg("Flight offer cannot seat the full party")
		return FlightLegResult{Err: mismatch.Error()}
	}

	if perr, ok := domain.AsProviderError(err); ok {
		if perr.HasCode(codePartyExceedsCapacity) || perr.HasSourcePointer(travelersSourcePointer) {
			mismatch := domain.NewTravelPartyMismatch(domain.MismatchFlight, requested-1, requested)
			o.log.Warn().Msg("Provider rejected traveler pricing for the party")
			return FlightLegResult{Err: mismatch.Error()}
		}

		disable := perr.Category == domain.CategoryAuth || perr.Category == domain.CategoryServer
		o.log.Error().Str("category", string(perr.Category)).Int("status", perr.StatusCode).
			Msg("Flight booking failed")
		return FlightLegResult{
			Err:             "flight booking failed: " + perr.Summary(),
			DisableProvider: disable,
		}
	}

	o.log.Error().Err(err).Msg("Flight booking failed")
	return FlightLegResult{Err: "flight booking failed: " + err.Error()}
}

// isSegmentSellFailure reports whether err carries the segment sell failure code.
func isSegmentSellFailure(err error) bool {
	perr, ok := domain.AsProviderError(err)
	return ok && perr.HasCode(codeSegmentSellFailure)
}

// retryServerOnly retries server-category provider errors and nothing else.
func retryServerOnly(err error) bool {
	return !retry.IsPermanent(err) && domain.IsServerError(err)
}
