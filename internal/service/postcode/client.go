package postcode

import (
	"context"
	"net/url"
	"strings"

	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/service/upstream"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

type lookupResponse struct {
	Result *struct {
		ParliamentaryConstituency string `json:"parliamentary_constituency"`
		Region                    string `json:"region"`
		Country                   string `json:"country"`
	} `json:"result"`
}

type autocompleteResponse struct {
	Result []string `json:"result"`
}

// Client talks to a postcodes.io compatible service.
type Client struct {
	api    *upstream.Client
	logger *zap.Logger
}

func NewClient(api *upstream.Client, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// Resolve looks up the parliamentary constituency for a postcode. It makes exactly one
// call and does not retry.
func (c *Client) Resolve(ctx context.Context, postcode string) (*domain.ConstituencyInfo, error) {
	var resp lookupResponse
	if err := c.api.GetJSON(ctx, "/postcodes/"+url.PathEscape(postcode), nil, &resp); err != nil {
		return nil, upstream.Classify(errors.StagePostcode, err,
			errors.KindNotFound, errors.KindNotFound, "postcode not found")
	}

	if resp.Result == nil {
		return nil, errors.NewLookupError(errors.KindNotFound, errors.StagePostcode, "postcode not found", nil)
	}

	name := strings.TrimSpace(resp.Result.ParliamentaryConstituency)
	if name == "" {
		return nil, errors.NewLookupError(errors.KindNoConstituency, errors.StagePostcode,
			"postcode has no parliamentary constituency", nil)
	}

	c.logger.Debug("Postcode resolved",
		zap.String("postcode", postcode),
		zap.String("constituency", name),
	)

	return &domain.ConstituencyInfo{
		Name:    name,
		Region:  strings.TrimSpace(resp.Result.Region),
		Country: strings.TrimSpace(resp.Result.Country),
	}, nil
}

// Autocomplete suggests full postcodes for a partial one. Upstream failures yield an
// empty list.
func (c *Client) Autocomplete(ctx context.Context, partial string) []string {
	partial = Normalize(partial)
	if partial == "" {
		return []string{}
	}

	var resp autocompleteResponse
	if err := c.api.GetJSON(ctx, "/postcodes/"+url.PathEscape(partial)+"/autocomplete", nil, &resp); err != nil {
		c.logger.Warn("Postcode autocomplete failed", zap.String("partial", partial), zap.Error(err))
		return []string{}
	}
	if resp.Result == nil {
		return []string{}
	}
	return resp.Result
}
