package parliament

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dearpower/dearpower-go/internal/constants"
	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/service/upstream"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"go.uber.org/zap"
)

// Client reads constituencies and members from the parliamentary members directory.
type Client struct {
	api    *upstream.Client
	logger *zap.Logger
}

func NewClient(api *upstream.Client, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// FindCurrentMember searches for a constituency by name, takes the directory's top
// result as is, and returns the member whose representation has no end date.
func (c *Client) FindCurrentMember(ctx context.Context, constituencyName string) (*domain.MemberIdentifier, error) {
	constituencyName = strings.TrimSpace(constituencyName)
	if constituencyName == "" {
		return nil, errors.NewLookupError(errors.KindConstituencyNotFound, errors.StageConstituency,
			"constituency name is empty", nil)
	}

	params := url.Values{}
	params.Set("searchText", constituencyName)
	params.Set("skip", "0")
	params.Set("take", strconv.Itoa(constants.DirectoryConfig.SearchTake))

	var search constituencySearchResponse
	if err := c.api.GetJSON(ctx, "/Location/Constituency/Search", params, &search); err != nil {
		return nil, upstream.Classify(errors.StageConstituency, err,
			errors.KindConstituencyNotFound, errors.KindServiceUnavailable, "constituency not found")
	}

	if len(search.Items) == 0 || search.Items[0].Value == nil || search.Items[0].Value.ID == 0 {
		return nil, errors.NewLookupError(errors.KindConstituencyNotFound, errors.StageConstituency,
			fmt.Sprintf("no constituency matches %q", constituencyName), nil)
	}
	top := search.Items[0].Value

	var reps representationsResponse
	path := fmt.Sprintf("/Location/Constituency/%d/Representations", top.ID)
	if err := c.api.GetJSON(ctx, path, nil, &reps); err != nil {
		return nil, upstream.Classify(errors.StageRepresentation, err,
			errors.KindNoCurrentMember, errors.KindServiceUnavailable, "no current member")
	}

	for _, entry := range reps.Value {
		if !entry.current() {
			continue
		}

		name := top.Name
		if name == "" {
			name = constituencyName
		}

		c.logger.Debug("Current member resolved",
			zap.String("constituency", name),
			zap.Int("constituency_id", top.ID),
			zap.Int("member_id", entry.Member.Value.ID),
		)

		return &domain.MemberIdentifier{
			ID:               entry.Member.Value.ID,
			ConstituencyID:   top.ID,
			ConstituencyName: name,
		}, nil
	}

	return nil, errors.NewLookupError(errors.KindNoCurrentMember, errors.StageRepresentation,
		fmt.Sprintf("constituency %q has no serving member", top.Name), nil)
}

// FetchProfile loads a member's profile. Any failure other than transport is reported as
// ProfileFetchFailed.
func (c *Client) FetchProfile(ctx context.Context, memberID int) (*domain.RawProfile, error) {
	var resp memberResponse
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/Members/%d", memberID), nil, &resp); err != nil {
		if upstream.IsTransport(err) {
			return nil, errors.ClassifyTransport(errors.StageProfile, err)
		}
		return nil, errors.NewLookupError(errors.KindProfileFetchFailed, errors.StageProfile,
			"member profile could not be retrieved", err)
	}

	if resp.Value == nil {
		return nil, errors.NewLookupError(errors.KindProfileFetchFailed, errors.StageProfile,
			"member profile response was empty", nil)
	}

	return resp.Value, nil
}

// FetchContacts loads a member's contact channels with Kind resolved. Callers treat its
// failure as non-fatal.
func (c *Client) FetchContacts(ctx context.Context, memberID int) ([]domain.ContactChannel, error) {
	var resp contactResponse
	if err := c.api.GetJSON(ctx, fmt.Sprintf("/Members/%d/Contact", memberID), nil, &resp); err != nil {
		return nil, upstream.Classify(errors.StageContacts, err,
			errors.KindServiceUnavailable, errors.KindServiceUnavailable, "contact details unavailable")
	}

	channels := make([]domain.ContactChannel, 0, len(resp.Value))
	for _, ch := range resp.Value {
		ch.Kind = ch.ResolvedKind()
		channels = append(channels, ch)
	}
	return channels, nil
}
