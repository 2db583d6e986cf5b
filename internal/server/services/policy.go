package services

import (
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
)

// Decision is the outcome of an access check.
type Decision int

const (
	Allow Decision = iota
	// Forbidden means the caller has the wrong role for the action.
	Forbidden
	// Unauthorized means the caller does not own the object, or the object
	// does not exist.
	Unauthorized
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Forbidden:
		return "forbidden"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Err returns nil for Allow and the matching sentinel otherwise.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case Unauthorized:
		return common.ErrUnauthorized
	default:
		return common.ErrForbidden
	}
}

// Decide checks the role first and, when ownerID is given, exact equality
// of the caller id with the owner id.
func Decide(identity *models.Identity, required models.Role, ownerID *string) Decision {
	if identity == nil || identity.Role != required {
		return Forbidden
	}
	if ownerID != nil && identity.ID != *ownerID {
		return Unauthorized
	}
	return Allow
}

// Authorize returns common.ErrForbidden unless identity has the required role.
func Authorize(identity *models.Identity, required models.Role) error {
	return Decide(identity, required, nil).Err()
}

// AuthorizeOwner returns common.ErrUnauthorized unless identity owns the object.
func AuthorizeOwner(identity *models.Identity, ownerID string) error {
	if identity == nil || identity.ID != ownerID {
		return common.ErrUnauthorized
	}
	return nil
}
