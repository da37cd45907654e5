package geocode

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/service/upstream"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

const placesPath = "/geocoding/v5/mapbox.places/"

// Client wraps the Mapbox places geocoder, restricted to UK results. Upstream failures
// degrade to empty results; only caller mistakes and a missing token are errors.
type Client struct {
	api    *upstream.Client
	token  string
	logger *zap.Logger
}

func NewClient(api *upstream.Client, token string, logger *zap.Logger) *Client {
	return &Client{
		api:    api,
		token:  strings.TrimSpace(token),
		logger: logger,
	}
}

// Configured reports whether a Mapbox token is available.
func (c *Client) Configured() bool {
	return c.token != ""
}

// Search suggests addresses and postcodes matching query.
func (c *Client) Search(ctx context.Context, query string) ([]Feature, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []Feature{}, nil
	}

	return c.places(ctx, "search", url.PathEscape(query),
		constants.GeocodeConfig.SearchTypes, constants.GeocodeConfig.SearchLimit), nil
}

// Reverse returns the closest address to a point, or nil when there is none.
func (c *Client) Reverse(ctx context.Context, lng, lat float64) (*Feature, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	point, err := coordinates(lng, lat)
	if err != nil {
		return nil, err
	}

	features := c.places(ctx, "reverse", point, constants.GeocodeConfig.ReverseTypes, 0)
	if len(features) == 0 {
		return nil, nil
	}
	return &features[0], nil
}

// Nearby lists addresses around a point so the user can pick the exact one.
func (c *Client) Nearby(ctx context.Context, lng, lat float64) ([]Feature, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	point, err := coordinates(lng, lat)
	if err != nil {
		return nil, err
	}

	return c.places(ctx, "nearby", point,
		constants.GeocodeConfig.ReverseTypes, constants.GeocodeConfig.NearbyLimit), nil
}

func (c *Client) places(ctx context.Context, operation, escapedQuery, types string, limit int) []Feature {
	params := url.Values{}
	params.Set("access_token", c.token)
	params.Set("country", constants.GeocodeConfig.Country)
	params.Set("types", types)
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp featureCollection
	if err := c.api.GetJSON(ctx, placesPath+escapedQuery+".json", params, &resp); err != nil {
		// the transport error text carries the request URL, token included
		c.logger.Warn("Geocoding request failed",
			zap.String("operation", operation),
			zap.Int("status", errors.APIStatus(err)),
			zap.Bool("transport", upstream.IsTransport(err)),
		)
		return []Feature{}
	}
	if resp.Features == nil {
		return []Feature{}
	}
	return resp.Features
}

func (c *Client) requireToken() error {
	if c.token == "" {
		return errors.NewValidationError("mapbox token is not configured", "MAPBOX_TOKEN", nil)
	}
	return nil
}

func coordinates(lng, lat float64) (string, error) {
	if lng < -180 || lng > 180 {
		return "", errors.NewValidationError("longitude out of range", "lng", lng)
	}
	if lat < -90 || lat > 90 {
		return "", errors.NewValidationError("latitude out of range", "lat", lat)
	}
	return strconv.FormatFloat(lng, 'f', -1, 64) + "," + strconv.FormatFloat(lat, 'f', -1, 64), nil
}
