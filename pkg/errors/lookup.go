package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies why a representative lookup failed.
type Kind string

const (
	KindInvalidInput         Kind = "INVALID_INPUT"
	KindNotFound             Kind = "NOT_FOUND"
	KindNoConstituency       Kind = "NO_CONSTITUENCY"
	KindConstituencyNotFound Kind = "CONSTITUENCY_NOT_FOUND"
	KindNoCurrentMember      Kind = "NO_CURRENT_MEMBER"
	KindProfileFetchFailed   Kind = "PROFILE_FETCH_FAILED"
	KindServiceUnavailable   Kind = "SERVICE_UNAVAILABLE"
	KindTimeout              Kind = "TIMEOUT"
)

// Stage names the pipeline step that produced a LookupError.
type Stage string

const (
	StageValidate       Stage = "validate"
	StagePostcode       Stage = "postcode"
	StageConstituency   Stage = "constituency"
	StageRepresentation Stage = "representation"
	StageProfile        Stage = "profile"
	StageContacts       Stage = "contacts"
)

type LookupError struct {
	*AppError
	Kind  Kind
	Stage Stage
}

func NewLookupError(kind Kind, stage Stage, message string, cause error) *LookupError {
	return &LookupError{
		AppError: &AppError{
			Message:    message,
			Code:       CodeLookup,
			StatusCode: kind.HTTPStatus(),
			Context: map[string]any{
				"kind":  string(kind),
				"stage": string(stage),
			},
			Cause: cause,
		},
		Kind:  kind,
		Stage: stage,
	}
}

func (e *LookupError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s/%s): %v", e.Message, e.Stage, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s (%s/%s)", e.Message, e.Stage, e.Kind)
}

// HTTPStatus is the status the relay answers with for this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return 400
	case KindNotFound, KindNoConstituency, KindConstituencyNotFound, KindNoCurrentMember:
		return 404
	case KindProfileFetchFailed:
		return 502
	case KindTimeout:
		return 504
	default:
		return 503
	}
}

func KindOf(err error) Kind {
	var lookupErr *LookupError
	if stderrors.As(err, &lookupErr) {
		return lookupErr.Kind
	}
	return ""
}

func StageOf(err error) Stage {
	var lookupErr *LookupError
	if stderrors.As(err, &lookupErr) {
		return lookupErr.Stage
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// ClassifyTransport converts a failure that never produced an HTTP response into a
// Timeout or ServiceUnavailable LookupError for the given stage.
func ClassifyTransport(stage Stage, err error) *LookupError {
	if IsTimeout(err) {
		return NewLookupError(KindTimeout, stage, "upstream request timed out", err)
	}
	return NewLookupError(KindServiceUnavailable, stage, "upstream service unavailable", err)
}
