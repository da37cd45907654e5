package domain

import "strings"

// ChannelKind tags a ContactChannel.
type ChannelKind string

const (
	ChannelUnknown             ChannelKind = ""
	ChannelParliamentaryOffice ChannelKind = "parliamentary_office"
	ChannelConstituencyOffice  ChannelKind = "constituency_office"
	ChannelWebsite             ChannelKind = "website"
	ChannelTwitter             ChannelKind = "twitter"
	ChannelFacebook            ChannelKind = "facebook"
	ChannelInstagram           ChannelKind = "instagram"
	ChannelLinkedIn            ChannelKind = "linkedin"
	ChannelBluesky             ChannelKind = "bluesky"
	ChannelYouTube             ChannelKind = "youtube"
	ChannelEmail               ChannelKind = "email"
)

// SocialKinds lists the kinds surfaced in RepresentativeRecord.SocialMedia, in output order.
var SocialKinds = []ChannelKind{
	ChannelTwitter,
	ChannelFacebook,
	ChannelInstagram,
	ChannelLinkedIn,
	ChannelBluesky,
	ChannelYouTube,
}

// IsSocial reports whether k is one of SocialKinds.
func (k ChannelKind) IsSocial() bool {
	for _, s := range SocialKinds {
		if s == k {
			return true
		}
	}
	return false
}

// Label is the lower-cased key used for the kind in social media mappings.
func (k ChannelKind) Label() string {
	return strings.ToLower(string(k))
}

// ParseChannelKind maps the directory's free-text contact type onto a ChannelKind.
func ParseChannelKind(raw string) ChannelKind {
	t := strings.ToLower(strings.Join(strings.Fields(raw), " "))
	switch {
	case t == "":
		return ChannelUnknown
	case strings.HasPrefix(t, "parliamentary"):
		return ChannelParliamentaryOffice
	case strings.HasPrefix(t, "constituency"):
		return ChannelConstituencyOffice
	case t == "x" || strings.Contains(t, "twitter"):
		return ChannelTwitter
	case strings.Contains(t, "facebook"):
		return ChannelFacebook
	case strings.Contains(t, "instagram"):
		return ChannelInstagram
	case strings.Contains(t, "linkedin"):
		return ChannelLinkedIn
	case strings.Contains(t, "bluesky"):
		return ChannelBluesky
	case strings.Contains(t, "youtube"):
		return ChannelYouTube
	case strings.Contains(t, "website") || strings.Contains(t, "web site"):
		return ChannelWebsite
	case t == "email" || t == "e-mail":
		return ChannelEmail
	default:
		return ChannelUnknown
	}
}

// ContactChannel is one entry of a member's contact list. Line1 holds the URL or handle
// for web and social kinds.
type ContactChannel struct {
	Kind     ChannelKind `json:"kind,omitempty"`
	Type     string      `json:"type"`
	Line1    string      `json:"line1"`
	Line2    string      `json:"line2"`
	Line3    string      `json:"line3"`
	Line4    string      `json:"line4"`
	Line5    string      `json:"line5"`
	Postcode string      `json:"postcode"`
	Phone    string      `json:"phone"`
	Email    string      `json:"email"`
}

// ResolvedKind prefers an explicit Kind and otherwise parses Type.
func (c ContactChannel) ResolvedKind() ChannelKind {
	if c.Kind != ChannelUnknown {
		return c.Kind
	}
	return ParseChannelKind(c.Type)
}
