package draft

import (
	"net/url"
	"strings"

	"github.com/dearpower/dearpower-go/internal/domain"
)

// MailtoURL builds a mailto link addressed to the representative with subject
// "Important: <topic>". It returns "" when the record has no email address.
func MailtoURL(record *domain.RepresentativeRecord, topic, body string) string {
	if record == nil || strings.TrimSpace(record.Email) == "" {
		return ""
	}

	return "mailto:" + strings.TrimSpace(record.Email) +
		"?subject=" + encodeComponent("Important: "+strings.TrimSpace(topic)) +
		"&body=" + encodeComponent(body)
}

// encodeComponent percent-encodes s with spaces as %20, which mail clients expect.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
