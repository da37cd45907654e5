package draft

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/dearpower/dearpower-go/internal/domain"
	"github.com/dearpower/dearpower-go/internal/util"
)

//go:embed letters/*.tmpl
var letterFS embed.FS

const (
	TopicCostOfLiving = "Cost of Living"
	TopicHealthcare   = "Healthcare"
	TopicEducation    = "Education"
	TopicEnvironment  = "Environment"
	TopicHousing      = "Housing"
	TopicOther        = "Other"

	signaturePlaceholder = "[Your name]"
)

// Topics lists the topics offered to users, in display order.
var Topics = []string{
	TopicCostOfLiving,
	TopicHealthcare,
	TopicEducation,
	TopicEnvironment,
	TopicHousing,
	TopicOther,
}

var letterFiles = map[string]string{
	TopicCostOfLiving: "cost_of_living.tmpl",
	TopicHealthcare:   "healthcare.tmpl",
	TopicEducation:    "education.tmpl",
	TopicEnvironment:  "environment.tmpl",
	TopicHousing:      "housing.tmpl",
	TopicOther:        "other.tmpl",
}

var letterTemplates = template.Must(template.ParseFS(letterFS, "letters/*.tmpl"))

type letterData struct {
	Greeting     string
	Constituency string
	Reference    string
	Signature    string
}

// CanonicalTopic matches topic case-insensitively against Topics; anything else is Other.
func CanonicalTopic(topic string) string {
	topic = util.CollapseSpaces(topic)
	for _, t := range Topics {
		if strings.EqualFold(t, topic) {
			return t
		}
	}
	return TopicOther
}

// Greeting addresses the representative by surname, "Dear Ms" for gender F and "Dear Mr"
// otherwise.
func Greeting(record *domain.RepresentativeRecord) string {
	if record == nil {
		return "Dear Member of Parliament"
	}
	surname := util.LastWord(stripPostNominals(record.DisplayName))
	if surname == "" {
		return "Dear Member of Parliament"
	}
	if strings.EqualFold(record.Gender, "F") {
		return "Dear Ms " + surname
	}
	return "Dear Mr " + surname
}

var postNominals = map[string]bool{
	"MP": true, "KC": true, "QC": true, "CBE": true, "OBE": true, "MBE": true,
	"KBE": true, "DBE": true, "PC": true, "JP": true, "FRS": true, "DL": true,
}

// stripPostNominals drops trailing letters such as "MP" or "KC", with or without commas.
func stripPostNominals(name string) string {
	fields := strings.Fields(name)
	for len(fields) > 1 {
		last := strings.Trim(fields[len(fields)-1], ",.")
		if !postNominals[last] {
			break
		}
		fields = fields[:len(fields)-1]
	}
	if len(fields) > 0 {
		fields[len(fields)-1] = strings.TrimRight(fields[len(fields)-1], ",")
	}
	return strings.Join(fields, " ")
}

// TemplateLetter renders the built-in letter for the request's topic.
func TemplateLetter(req domain.DraftRequest) (string, error) {
	data := letterData{
		Greeting:     Greeting(req.Representative),
		Constituency: constituencyOf(req),
		Reference:    strings.TrimSpace(req.ReferenceURL),
		Signature:    signature(req.SenderName, req.SenderAddress),
	}

	var buf bytes.Buffer
	file := letterFiles[CanonicalTopic(req.Topic)]
	if err := letterTemplates.ExecuteTemplate(&buf, file, data); err != nil {
		return "", fmt.Errorf("render letter %s: %w", file, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func signature(name, address string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return signaturePlaceholder
	}
	if address = strings.TrimSpace(address); address != "" {
		return name + "\n" + address
	}
	return name
}

func constituencyOf(req domain.DraftRequest) string {
	name := strings.TrimSpace(req.ConstituencyName)
	if name == "" && req.Representative != nil {
		name = req.Representative.ConstituencyName
	}
	return util.FirstNonEmpty(name, "my constituency")
}
