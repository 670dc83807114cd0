package service

import (
	"context"

	"eventhub_backend/internals/apperror"
	"eventhub_backend/internals/features/authorization/model"
)

// Membership is the slice of a stored (event, user) row the resolver needs:
// the member's role id and any extra permissions granted at invite time.
type Membership struct {
	RoleID uint
	Grants []string
}

// MembershipReader looks up the membership row for (eventID, userID).
// Absence is reported as (nil, nil), not an error.
type MembershipReader interface {
	Membership(ctx context.Context, eventID, userID uint) (*Membership, error)
}

// Access is a resolved (role, effective permission set) pair.
type Access struct {
	Role        model.Role
	Permissions model.PermissionSet
}

// ResolveInput carries the event facts authorization depends on.
type ResolveInput struct {
	EventID  uint
	OwnerID  *uint
	Public   bool
	UserID   uint
	Required model.Permission
}

type Resolver struct {
	cache       *Cache
	memberships MembershipReader
}

func NewResolver(cache *Cache, memberships MembershipReader) *Resolver {
	return &Resolver{cache: cache, memberships: memberships}
}

// Resolve computes the caller's effective permissions for an event and
// checks the required permission against them. Precedence is fixed:
// ownership short-circuits to the full permission universe; an existing
// membership row yields role defaults unioned with per-grant overrides;
// a missing row is a denial except for VIEW_EVENT on a public event,
// which yields an empty (but granted) set so non-members can read public
// listings. No other code path re-derives this.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (Access, error) {
	if in.OwnerID != nil && *in.OwnerID == in.UserID {
		return Access{Role: model.RoleOwner, Permissions: model.AllPermissions()}, nil
	}

	membership, err := r.memberships.Membership(ctx, in.EventID, in.UserID)
	if err != nil {
		return Access{}, apperror.Internal(err)
	}

	if membership == nil {
		if in.Required == model.PermissionViewEvent && in.Public {
			return Access{Permissions: model.NewPermissionSet()}, nil
		}
		return Access{}, apperror.Forbidden(apperror.CodeUserNotMember, "User is not a member of the event")
	}

	role, err := r.cache.RoleByID(membership.RoleID)
	if err != nil {
		return Access{}, err
	}
	permissions, err := r.cache.DefaultPermissions(role)
	if err != nil {
		return Access{}, err
	}
	for _, grant := range membership.Grants {
		if perm, ok := model.ParsePermission(grant); ok {
			permissions.Add(perm)
		}
	}

	if !permissions.Has(in.Required) {
		return Access{}, apperror.Forbidden(apperror.CodeNoPermission, "User does not have the required permission")
	}

	return Access{Role: role, Permissions: permissions}, nil
}
