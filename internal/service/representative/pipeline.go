package representative

import (
	"context"
	"time"

	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/service/postcode"
	"github.com/dearpower/dearpower-go/pkg/errors"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

type PostcodeResolver interface {
	Resolve(ctx context.Context, postcode string) (*domain.ConstituencyInfo, error)
}

type MemberLocator interface {
	FindCurrentMember(ctx context.Context, constituencyName string) (*domain.MemberIdentifier, error)
}

type MemberFetcher interface {
	FetchProfile(ctx context.Context, memberID int) (*domain.RawProfile, error)
	FetchContacts(ctx context.Context, memberID int) ([]domain.ContactChannel, error)
}

// Pipeline turns an address or postcode into a RepresentativeRecord. It holds no mutable
// state, so one instance can serve concurrent callers. It neither caches nor retries.
type Pipeline struct {
	postcodes PostcodeResolver
	locator   MemberLocator
	fetcher   MemberFetcher
	logger    *zap.Logger
}

func NewPipeline(postcodes PostcodeResolver, locator MemberLocator, fetcher MemberFetcher, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		postcodes: postcodes,
		locator:   locator,
		fetcher:   fetcher,
		logger:    logger,
	}
}

// ResolveRepresentative runs validate, postcode, constituency, member fetch and normalise
// in order. Every failure is a *errors.LookupError naming its stage, except a contact
// fetch failure, which yields a record without contact data.
func (p *Pipeline) ResolveRepresentative(ctx context.Context, addressOrPostcode string) (*domain.RepresentativeRecord, error) {
	started := time.Now()

	pc, ok := postcode.FromInput(addressOrPostcode)
	if !ok {
		return nil, errors.NewLookupError(errors.KindInvalidInput, errors.StageValidate,
			"input does not contain a valid UK postcode", nil)
	}

	constituency, err := p.postcodes.Resolve(ctx, pc)
	if err != nil {
		return nil, asLookupError(errors.StagePostcode, errors.KindServiceUnavailable, err)
	}
	if constituency == nil || constituency.Name == "" {
		return nil, errors.NewLookupError(errors.KindNoConstituency, errors.StagePostcode,
			"postcode has no parliamentary constituency", nil)
	}

	member, err := p.locator.FindCurrentMember(ctx, constituency.Name)
	if err != nil {
		return nil, asLookupError(errors.StageConstituency, errors.KindServiceUnavailable, err)
	}

	var (
		profile     *domain.RawProfile
		profileErr  error
		contacts    []domain.ContactChannel
		contactsErr error
	)

	var wg conc.WaitGroup
	wg.Go(func() {
		profile, profileErr = p.fetcher.FetchProfile(ctx, member.ID)
	})
	wg.Go(func() {
		contacts, contactsErr = p.fetcher.FetchContacts(ctx, member.ID)
	})
	wg.Wait()

	if profileErr != nil {
		return nil, asLookupError(errors.StageProfile, errors.KindProfileFetchFailed, profileErr)
	}
	if profile == nil {
		return nil, errors.NewLookupError(errors.KindProfileFetchFailed, errors.StageProfile,
			"member profile was empty", nil)
	}

	if contactsErr != nil {
		p.logger.Warn("Contact details unavailable, continuing without them",
			zap.Int("member_id", member.ID),
			zap.Error(contactsErr),
		)
		contacts = nil
	}

	record := Normalize(profile, contacts, constituency)

	p.logger.Info("Representative resolved",
		zap.String("postcode", pc),
		zap.String("constituency", record.ConstituencyName),
		zap.Int("member_id", record.ID),
		zap.Int("contact_channels", len(contacts)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return record, nil
}

// asLookupError keeps a typed failure as is and classifies anything else for stage.
func asLookupError(stage errors.Stage, fallback errors.Kind, err error) error {
	if errors.KindOf(err) != "" {
		return err
	}
	if errors.IsTimeout(err) {
		return errors.NewLookupError(errors.KindTimeout, stage, "upstream request timed out", err)
	}
	return errors.NewLookupError(fallback, stage, "lookup failed", err)
}
