package representative

import (
	"strings"

	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/util"
)

const (
	defaultParty             = "Independent"
	defaultPartyAbbreviation = "IND"
)

// Normalize merges a profile, its contact channels and the constituency into one record.
// It is pure: equal inputs always give deeply equal records. For each kind only the first
// channel in contacts counts.
func Normalize(profile *domain.RawProfile, contacts []domain.ContactChannel, constituency *domain.ConstituencyInfo) *domain.RepresentativeRecord {
	if profile == nil {
		profile = &domain.RawProfile{}
	}

	byKind := firstByKind(contacts)
	parliamentary, hasParliamentary := byKind[domain.ChannelParliamentaryOffice]
	local, hasLocal := byKind[domain.ChannelConstituencyOffice]

	record := &domain.RepresentativeRecord{
		ID:                profile.ID,
		DisplayName:       util.FirstNonEmpty(profile.NameDisplayAs, profile.NameFullTitle),
		Party:             defaultParty,
		PartyAbbreviation: defaultPartyAbbreviation,
		SocialMedia:       map[string]string{},
		ThumbnailURL:      strings.TrimSpace(profile.ThumbnailURL),
		Gender:            strings.TrimSpace(profile.Gender),
		CurrentlyActive:   profile.IsActive(),
	}

	if p := profile.LatestParty; p != nil {
		record.Party = util.FirstNonEmpty(p.Name, defaultParty)
		record.PartyAbbreviation = util.FirstNonEmpty(p.Abbreviation, defaultPartyAbbreviation)
	}

	if constituency != nil {
		record.ConstituencyName = strings.TrimSpace(constituency.Name)
		record.Region = strings.TrimSpace(constituency.Region)
		record.Country = strings.TrimSpace(constituency.Country)
	}

	record.Email = util.FirstNonEmpty(
		parliamentary.Email,
		local.Email,
		byKind[domain.ChannelEmail].Line1,
	)
	record.Phone = util.FirstNonEmpty(parliamentary.Phone, local.Phone)
	record.Website = strings.TrimSpace(byKind[domain.ChannelWebsite].Line1)

	for _, kind := range domain.SocialKinds {
		ch, ok := byKind[kind]
		if !ok {
			continue
		}
		if handle := strings.TrimSpace(ch.Line1); handle != "" {
			record.SocialMedia[kind.Label()] = handle
		}
	}

	if hasParliamentary {
		record.ParliamentaryAddress = officeAddress(parliamentary)
	}
	if hasLocal {
		record.ConstituencyAddress = officeAddress(local)
	}

	return record
}

func firstByKind(contacts []domain.ContactChannel) map[domain.ChannelKind]domain.ContactChannel {
	byKind := make(map[domain.ChannelKind]domain.ContactChannel, len(contacts))
	for _, ch := range contacts {
		kind := ch.ResolvedKind()
		if kind == domain.ChannelUnknown {
			continue
		}
		if _, seen := byKind[kind]; !seen {
			byKind[kind] = ch
		}
	}
	return byKind
}

// officeAddress copies an office channel field by field; a channel with no data yields
// the zero Address.
func officeAddress(ch domain.ContactChannel) domain.Address {
	addr := domain.Address{
		Line1:    strings.TrimSpace(ch.Line1),
		Line2:    strings.TrimSpace(ch.Line2),
		Line3:    strings.TrimSpace(ch.Line3),
		Line4:    strings.TrimSpace(ch.Line4),
		Line5:    strings.TrimSpace(ch.Line5),
		Postcode: strings.TrimSpace(ch.Postcode),
		Phone:    strings.TrimSpace(ch.Phone),
		Email:    strings.TrimSpace(ch.Email),
	}
	if addr.IsEmpty() {
		return domain.Address{}
	}
	return addr
}
