// Package access holds the single ownership policy every endpoint applies.
//
// Portfolios are owned by exactly one user. Sections and projects carry no
// owner of their own: callers resolve the parent portfolio and pass it here,
// so children can never disagree with their parent about who owns them.
package access

import (
	"folio/internal/apperr"
	"folio/internal/models"
)

type Action int

const (
	// ActionRead is a read that published resources allow to anyone.
	ActionRead Action = iota
	// ActionReadPrivate is an owner-only read, e.g. listing hidden sections.
	ActionReadPrivate
	// ActionMutate covers create, update and delete.
	ActionMutate
)

type Outcome int

const (
	Allowed Outcome = iota
	Unauthenticated
	Forbidden
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	default:
		return "not_found"
	}
}

// Owned is a resource with a single owning user.
type Owned interface {
	OwnerID() string
	Published() bool
}

// Decide applies the ownership policy. subject is nil for anonymous callers;
// resource is nil when the target (or its parent portfolio) does not exist.
//
// Reads of resources the caller may not see report NotFound so private
// portfolios are indistinguishable from missing ones. Mutations report
// Forbidden for existing resources owned by someone else.
func Decide(subject *models.Principal, action Action, resource Owned) Outcome {
	switch action {
	case ActionRead:
		if resource == nil {
			return NotFound
		}
		if resource.Published() || isOwner(subject, resource) {
			return Allowed
		}
		return NotFound

	case ActionReadPrivate:
		if subject == nil {
			return Unauthenticated
		}
		if resource == nil || !isOwner(subject, resource) {
			return NotFound
		}
		return Allowed

	case ActionMutate:
		if subject == nil {
			return Unauthenticated
		}
		if resource == nil {
			return NotFound
		}
		if !isOwner(subject, resource) {
			return Forbidden
		}
		return Allowed
	}
	return NotFound
}

// Check runs Decide and converts a denial into the matching service error.
// name is used in not-found messages, e.g. "portfolio".
func Check(subject *models.Principal, action Action, resource Owned, name string) error {
	return Err(Decide(subject, action, resource), name)
}

func Err(outcome Outcome, name string) error {
	switch outcome {
	case Allowed:
		return nil
	case Unauthenticated:
		return apperr.ErrUnauthenticated
	case Forbidden:
		return apperr.ErrForbidden
	default:
		return apperr.NotFound(name)
	}
}

// UniqueFor reports whether a unique value currently held by holderID (empty
// when nobody holds it) may be taken by userID.
func UniqueFor(userID string, holderID string) bool {
	return holderID == "" || holderID == userID
}

func isOwner(subject *models.Principal, resource Owned) bool {
	return subject != nil && subject.ID != "" && subject.ID == resource.OwnerID()
}
