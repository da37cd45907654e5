package representative

import "github.com/dearpower/dearpower-go/pkg/errors"

var userMessages = map[errors.Kind]string{
	errors.KindInvalidInput:         "Please enter a valid UK postcode, for example SW1A 2AA.",
	errors.KindNotFound:             "We couldn't find that postcode. Please check it and try again.",
	errors.KindNoConstituency:       "That postcode isn't part of a UK parliamentary constituency, so it has no MP.",
	errors.KindConstituencyNotFound: "We found your postcode but couldn't match it to a constituency in the Parliament directory.",
	errors.KindNoCurrentMember:      "Your constituency doesn't currently have a sitting MP. This usually means a by-election is pending.",
	errors.KindProfileFetchFailed:   "We found your MP but couldn't load their details. Please try again shortly.",
	errors.KindServiceUnavailable:   "A lookup service is unavailable right now. Please try again in a few minutes.",
	errors.KindTimeout:              "A lookup service took too long to respond. Please try again.",
}

const unknownFailureMessage = "We couldn't look up your MP. Please try again."

// UserMessage gives the sentence shown to the end user for a pipeline failure.
func UserMessage(err error) string {
	if msg, ok := userMessages[errors.KindOf(err)]; ok {
		return msg
	}
	return unknownFailureMessage
}
