package upstream

import (
	stderrors "errors"

	"github.com/dearpower/dearpower-go/pkg/errors"
)

func asAPIError(err error, target **errors.APIError) bool {
	return stderrors.As(err, target)
}

// Classify maps an upstream failure onto the pipeline's error kinds for stage. Transport
// failures become Timeout or ServiceUnavailable, 5xx and malformed 2xx bodies become
// ServiceUnavailable, and 404 becomes notFound. Other 4xx statuses map to otherClient.
func Classify(stage errors.Stage, err error, notFound, otherClient errors.Kind, message string) *errors.LookupError {
	if IsTransport(err) {
		return errors.ClassifyTransport(stage, err)
	}
	status := errors.APIStatus(err)
	switch {
	case status == 404:
		return errors.NewLookupError(notFound, stage, message, err)
	case status >= 400 && status < 500:
		return errors.NewLookupError(otherClient, stage, message, err)
	default:
		return errors.NewLookupError(errors.KindServiceUnavailable, stage, "upstream service unavailable", err)
	}
}
