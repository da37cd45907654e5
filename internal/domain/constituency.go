package domain

// ConstituencyInfo is what the postcode service knows about a postcode's seat. Name is
// non-empty whenever a resolver reports success.
type ConstituencyInfo struct {
	Name    string `json:"name"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// MemberIdentifier points at the currently serving member found for a constituency.
type MemberIdentifier struct {
	ID               int    `json:"id"`
	ConstituencyID   int    `json:"constituencyId"`
	ConstituencyName string `json:"constituencyName"`
}
