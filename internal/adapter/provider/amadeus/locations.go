package amadeus

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Jake-Oz/travel-ai/internal/domain"
)

const pathLocations = "/v1/reference-data/locations"

// ResolveCity maps a free-text place name to provider location codes.
// Consumed by the upstream search agents, not by the orchestrators.
func (c *Client) ResolveCity(ctx context.Context, keyword string) ([]domain.Location, error) {
	query := url.Values{}
	query.Set("keyword", keyword)
	query.Set("subType", "CITY,AIRPORT")

	body, err := c.request(ctx, http.MethodGet, pathLocations, query, nil)
	if err != nil {
		return nil, err
	}

	var resp locationsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode locations response: %w", err)
	}

	locations := make([]domain.Location, len(resp.Data))
	for i, loc := range resp.Data {
		locations[i] = domain.Location{
			Name:     loc.Name,
			IATACode: loc.IataCode,
			SubType:  loc.SubType,
		}
		if loc.Address != nil {
			locations[i].CountryCode = loc.Address.CountryCode
		}
	}
	return locations, nil
}
