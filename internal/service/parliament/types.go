package parliament

import "github.com/dearpower/dearpower-go/internal/domain"

type constituencySearchResponse struct {
	Items []struct {
		Value *struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"value"`
	} `json:"items"`
	TotalResults int `json:"totalResults"`
}

type representationsResponse struct {
	Value []representationEntry `json:"value"`
}

type representationEntry struct {
	Representation *struct {
		MembershipStartDate string  `json:"membershipStartDate"`
		MembershipEndDate   *string `json:"membershipEndDate"`
		EndDate             *string `json:"endDate"`
	} `json:"representation"`
	Member *struct {
		Value *struct {
			ID            int    `json:"id"`
			NameDisplayAs string `json:"nameDisplayAs"`
		} `json:"value"`
	} `json:"member"`
}

// current reports whether the entry has no end date and names a member.
func (e representationEntry) current() bool {
	if e.Representation == nil || e.Member == nil || e.Member.Value == nil || e.Member.Value.ID == 0 {
		return false
	}
	return isBlank(e.Representation.MembershipEndDate) && isBlank(e.Representation.EndDate)
}

func isBlank(s *string) bool {
	return s == nil || *s == ""
}

type memberResponse struct {
	Value *domain.RawProfile `json:"value"`
}

type contactResponse struct {
	Value []domain.ContactChannel `json:"value"`
}
