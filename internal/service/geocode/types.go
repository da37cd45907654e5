package geocode

import (
	"strings"

	"github.com/dearpower/dearpower-go/internal/service/postcode"
)

// Feature is one geocoding match. Center is [lng, lat].
type Feature struct {
	ID        string         `json:"id"`
	PlaceName string         `json:"place_name"`
	Text      string         `json:"text"`
	PlaceType []string       `json:"place_type,omitempty"`
	Center    []float64      `json:"center,omitempty"`
	Context   []ContextEntry `json:"context,omitempty"`
}

type ContextEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	ShortCode string `json:"short_code,omitempty"`
}

type featureCollection struct {
	Features []Feature `json:"features"`
}

func (f Feature) isType(kind string) bool {
	for _, t := range f.PlaceType {
		if t == kind {
			return true
		}
	}
	return false
}

// Postcode returns the feature's postcode: the feature itself when it is a postcode,
// then a postcode context entry, then whatever postcode appears in PlaceName.
func (f Feature) Postcode() (string, bool) {
	if f.isType("postcode") && postcode.Validate(f.Text) {
		return postcode.Normalize(f.Text), true
	}
	for _, entry := range f.Context {
		if strings.HasPrefix(entry.ID, "postcode") && postcode.Validate(entry.Text) {
			return postcode.Normalize(entry.Text), true
		}
	}
	return postcode.Extract(f.PlaceName)
}
