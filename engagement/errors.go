package engagement

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Kind classifies an engine error for the caller.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	case KindUnauthorized:
		return "Unauthorized"
	case KindNotFound:
		return "NotFound"
	default:
		return "InternalError"
	}
}

// Machine readable reasons carried by Error.
const (
	ReasonInvalidID           = "InvalidID"
	ReasonInvalidReactionType = "InvalidReactionType"
	ReasonInvalidVisibility   = "InvalidVisibility"
	ReasonInvalidActorKind    = "InvalidActorKind"
	ReasonInvalidParent       = "InvalidParent"
	ReasonInvalidTargetKind   = "InvalidTargetKind"
	ReasonEmptyContent        = "EmptyContent"
	ReasonMultipleReactions   = "MultipleReactionsNotAllowed"
	ReasonAlreadySaved        = "AlreadySaved"
	ReasonNotAuthor           = "NotAuthor"
	ReasonAuthorMissing       = "AuthorMissing"
	ReasonPostMissing         = "PostMissing"
	ReasonCommentMissing      = "CommentMissing"
	ReasonTargetMissing       = "TargetMissing"
	ReasonSaveMissing         = "SaveMissing"
)

// Error is the error type returned by every public engine operation.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors that are not an *Error are
// internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ReasonOf returns the reason code of err, or the empty string.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

func badRequest(reason, format string, args ...any) *Error {
	return &Error{Kind: KindBadRequest, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(format string, args ...any) *Error {
	return &Error{Kind: KindUnauthorized, Reason: ReasonNotAuthor, Message: fmt.Sprintf(format, args...)}
}

func notFound(reason, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// boundary converts any error that escaped an operation without a kind into
// an internal error carrying msg. It is deferred at the top of each public
// operation.
func boundary(errp *error, msg string) {
	if *errp == nil {
		return
	}
	var e *Error
	if errors.As(*errp, &e) {
		return
	}
	*errp = &Error{Kind: KindInternal, Message: msg, Err: *errp}
}

func checkID(name, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return badRequest(ReasonInvalidID, "invalid %s %q", name, id)
	}
	return nil
}

func checkActor(name string, ref ActorRef) error {
	if err := checkID(name, ref.ID); err != nil {
		return err
	}
	if !ref.Kind.Valid() {
		return badRequest(ReasonInvalidActorKind, "invalid %s kind %q", name, ref.Kind)
	}
	return nil
}

func checkIDs(name string, ids []string) error {
	for _, id := range ids {
		if err := checkID(name, id); err != nil {
			return err
		}
	}
	return nil
}

// tagSet returns the tagged user ids sorted with duplicates removed. ids is
// left untouched.
func tagSet(ids []string) []string {
	if ids == nil {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
