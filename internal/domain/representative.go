package domain

// Address is an office's postal and contact details. Every field is independently "" when
// unknown.
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Line3    string `json:"line3"`
	Line4    string `json:"line4"`
	Line5    string `json:"line5"`
	Postcode string `json:"postcode"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

// RepresentativeRecord is the canonical description of an MP handed to callers.
type RepresentativeRecord struct {
	ID                   int               `json:"id"`
	DisplayName          string            `json:"displayName"`
	Party                string            `json:"party"`
	PartyAbbreviation    string            `json:"partyAbbreviation"`
	ConstituencyName     string            `json:"constituencyName"`
	Region               string            `json:"region,omitempty"`
	Country              string            `json:"country,omitempty"`
	Email                string            `json:"email"`
	Phone                string            `json:"phone"`
	Website              string            `json:"website"`
	SocialMedia          map[string]string `json:"socialMedia"`
	ParliamentaryAddress Address           `json:"parliamentaryAddress"`
	ConstituencyAddress  Address           `json:"constituencyAddress"`
	ThumbnailURL         string            `json:"thumbnailUrl"`
	Gender               string            `json:"gender"`
	CurrentlyActive      bool              `json:"currentlyActive"`
}
