package domain

// RawProfile mirrors the directory's member record. Absent objects decode to nil and
// absent strings to "".
type RawProfile struct {
	ID                    int              `json:"id"`
	NameListAs            string           `json:"nameListAs"`
	NameDisplayAs         string           `json:"nameDisplayAs"`
	NameFullTitle         string           `json:"nameFullTitle"`
	NameAddressAs         string           `json:"nameAddressAs"`
	LatestParty           *Party           `json:"latestParty"`
	Gender                string           `json:"gender"`
	LatestHouseMembership *HouseMembership `json:"latestHouseMembership"`
	ThumbnailURL          string           `json:"thumbnailUrl"`
}

type Party struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

type HouseMembership struct {
	MembershipFrom      string            `json:"membershipFrom"`
	MembershipFromID    int               `json:"membershipFromId"`
	MembershipStartDate string            `json:"membershipStartDate"`
	MembershipEndDate   *string           `json:"membershipEndDate"`
	MembershipStatus    *MembershipStatus `json:"membershipStatus"`
}

type MembershipStatus struct {
	StatusIsActive    bool   `json:"statusIsActive"`
	StatusDescription string `json:"statusDescription"`
}

// IsActive reports the directory's own status flag; a missing status counts as inactive.
func (p *RawProfile) IsActive() bool {
	if p == nil || p.LatestHouseMembership == nil || p.LatestHouseMembership.MembershipStatus == nil {
		return false
	}
	return p.LatestHouseMembership.MembershipStatus.StatusIsActive
}
