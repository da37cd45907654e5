package prompt

import "strings"

// DraftData feeds the letter drafting templates. Empty optional fields drop their
// section from the prompt.
type DraftData struct {
	RepresentativeName string
	Party              string
	Constituency       string
	Greeting           string
	Topic              string
	SenderName         string
	SenderAddress      string
	ReferenceURL       string
	ArticleTitle       string
	ArticleText        string
}

func (d DraftData) normalized() DraftData {
	d.RepresentativeName = strings.TrimSpace(d.RepresentativeName)
	d.Party = strings.TrimSpace(d.Party)
	d.Constituency = strings.TrimSpace(d.Constituency)
	d.Greeting = strings.TrimSpace(d.Greeting)
	d.Topic = strings.TrimSpace(d.Topic)
	d.SenderName = strings.TrimSpace(d.SenderName)
	d.SenderAddress = strings.TrimSpace(d.SenderAddress)
	d.ReferenceURL = strings.TrimSpace(d.ReferenceURL)
	if d.ReferenceURL == "" {
		d.ArticleTitle, d.ArticleText = "", ""
	}
	return d
}

// BuildDraft renders the system instruction and the user prompt for a letter draft.
func BuildDraft(data DraftData) (system string, user string, err error) {
	p, err := DefaultPromptBuilder().Draft(data)
	if err != nil {
		return "", "", err
	}
	return p.System, p.User, nil
}
