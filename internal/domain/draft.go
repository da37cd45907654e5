package domain

// DraftRequest carries what the drafting service needs to write to a representative.
type DraftRequest struct {
	Representative   *RepresentativeRecord `json:"representative"`
	Topic            string                `json:"topic"`
	ReferenceURL     string                `json:"referenceUrl,omitempty"`
	ConstituencyName string                `json:"constituencyName"`
	SenderName       string                `json:"senderName"`
	SenderAddress    string                `json:"senderAddress"`
}

// Article is the readable part of a scraped reference page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}
