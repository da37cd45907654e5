package representative

import (
	"reflect"
	"testing"

	"github.com/dearpower/dearpower-go/internal/domain"
)

func sampleProfile() *domain.RawProfile {
	return &domain.RawProfile{
		ID:            5244,
		NameDisplayAs: "Rachel Blake",
		NameFullTitle: "Rachel Blake MP",
		LatestParty:   &domain.Party{ID: 15, Name: "Labour", Abbreviation: "Lab"},
		Gender:        "F",
		ThumbnailURL:  "https://example.org/5244.jpg",
	}
}

func TestNormalizeEmailPrecedence(t *testing.T) {
	contacts := []domain.ContactChannel{
		{Type: "Constituency office", Line1: "1 High St", Email: "b@local.org", Phone: "01234 567890"},
		{Type: "Parliamentary office", Line1: "House of Commons", Postcode: "SW1A 0AA", Email: "a@parliament.uk"},
		{Type: "E-mail", Line1: "c@elsewhere.org"},
	}

	record := Normalize(sampleProfile(), contacts, &domain.ConstituencyInfo{Name: "Cities of London and Westminster"})

	if record.Email != "a@parliament.uk" {
		t.Fatalf("expected parliamentary email to win, got %q", record.Email)
	}
	if record.Phone != "01234 567890" {
		t.Fatalf("expected constituency phone when parliamentary has none, got %q", record.Phone)
	}
	if record.ParliamentaryAddress.Line1 != "House of Commons" || record.ParliamentaryAddress.Postcode != "SW1A 0AA" {
		t.Fatalf("unexpected parliamentary address %+v", record.ParliamentaryAddress)
	}
	if record.ConstituencyAddress.Line1 != "1 High St" {
		t.Fatalf("unexpected constituency address %+v", record.ConstituencyAddress)
	}
}

func TestNormalizeEmailFallsBackToEmailChannel(t *testing.T) {
	contacts := []domain.ContactChannel{
		{Type: "Parliamentary office", Line1: "House of Commons"},
		{Type: "Email", Line1: "c@elsewhere.org"},
	}

	record := Normalize(sampleProfile(), contacts, nil)
	if record.Email != "c@elsewhere.org" {
		t.Fatalf("expected email channel fallback, got %q", record.Email)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	profile := &domain.RawProfile{ID: 7, NameFullTitle: "Sir Someone MP"}

	record := Normalize(profile, nil, &domain.ConstituencyInfo{Name: "Somewhere"})

	if record.DisplayName != "Sir Someone MP" {
		t.Fatalf("expected full title fallback, got %q", record.DisplayName)
	}
	if record.Party != "Independent" || record.PartyAbbreviation != "IND" {
		t.Fatalf("expected independent defaults, got %q/%q", record.Party, record.PartyAbbreviation)
	}
	if record.Email != "" || record.Phone != "" || record.Website != "" {
		t.Fatalf("expected empty contact fields, got %+v", record)
	}
	if record.SocialMedia == nil || len(record.SocialMedia) != 0 {
		t.Fatalf("expected empty non-nil social media, got %#v", record.SocialMedia)
	}
	if !record.ParliamentaryAddress.IsEmpty() || !record.ConstituencyAddress.IsEmpty() {
		t.Fatalf("expected empty addresses")
	}
	if record.ConstituencyName != "Somewhere" {
		t.Fatalf("expected constituency name, got %q", record.ConstituencyName)
	}
}

func TestNormalizeSocialMediaOmitsAbsentKinds(t *testing.T) {
	contacts := []domain.ContactChannel{
		{Type: "X (formerly Twitter)", Line1: "https://x.com/first"},
		{Type: "Twitter", Line1: "https://x.com/second"},
		{Type: "Facebook", Line1: "   "},
		{Type: "Instagram", Line1: "https://instagram.com/mp"},
		{Type: "Website", Line1: "https://mp.example.org"},
		{Type: "Fax", Line1: "000"},
	}

	record := Normalize(sampleProfile(), contacts, nil)

	want := map[string]string{
		"twitter":   "https://x.com/first",
		"instagram": "https://instagram.com/mp",
	}
	if !reflect.DeepEqual(record.SocialMedia, want) {
		t.Fatalf("expected %v, got %v", want, record.SocialMedia)
	}
	if record.Website != "https://mp.example.org" {
		t.Fatalf("expected website, got %q", record.Website)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	contacts := []domain.ContactChannel{
		{Type: "Parliamentary office", Line1: "House of Commons", Email: "a@parliament.uk", Phone: "020 7219 3000"},
		{Type: "Bluesky", Line1: "@mp.bsky.social"},
	}
	constituency := &domain.ConstituencyInfo{Name: "Cities of London and Westminster", Region: "London", Country: "England"}

	first := Normalize(sampleProfile(), contacts, constituency)
	second := Normalize(sampleProfile(), contacts, constituency)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical records\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
