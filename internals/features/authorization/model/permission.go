package model

// Role is an event-scoped role. OWNER is implicit (derived from the event
// row) and never stored as a membership; only MANAGER and ATTENDEE have
// role rows and default permission sets.
type Role string

const (
	RoleOwner    Role = "OWNER"
	RoleManager  Role = "MANAGER"
	RoleAttendee Role = "ATTENDEE"
)

// Permission is a single event-scoped capability.
type Permission string

const (
	PermissionViewEvent             Permission = "VIEW_EVENT"
	PermissionViewAttendees         Permission = "VIEW_ATTENDEES"
	PermissionViewManagers          Permission = "VIEW_MANAGERS"
	PermissionViewInvites           Permission = "VIEW_INVITES"
	PermissionInviteAttendees       Permission = "INVITE_ATTENDEES"
	PermissionInviteManagers        Permission = "INVITE_MANAGERS"
	PermissionRemoveRegisteredUsers Permission = "REMOVE_REGISTERED_USERS"
	PermissionRemoveManagers        Permission = "REMOVE_MANAGERS"
	PermissionUpdateEventDetails    Permission = "UPDATE_EVENT_DETAILS"
	PermissionScanCode              Permission = "SCAN_CODE"
)

var allPermissions = []Permission{
	PermissionViewEvent,
	PermissionViewAttendees,
	PermissionViewManagers,
	PermissionViewInvites,
	PermissionInviteAttendees,
	PermissionInviteManagers,
	PermissionRemoveRegisteredUsers,
	PermissionRemoveManagers,
	PermissionUpdateEventDetails,
	PermissionScanCode,
}

// ParsePermission validates a wire-level permission string.
func ParsePermission(s string) (Permission, bool) {
	for _, p := range allPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleManager, RoleAttendee:
		return Role(s), true
	}
	return "", false
}

// PermissionSet is an unordered set of capabilities.
type PermissionSet map[Permission]struct{}

func NewPermissionSet(perms ...Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// AllPermissions returns the full permission universe (what an owner holds).
func AllPermissions() PermissionSet {
	return NewPermissionSet(allPermissions...)
}

func (s PermissionSet) Has(p Permission) bool {
	_, ok := s[p]
	return ok
}

func (s PermissionSet) Add(p Permission) {
	s[p] = struct{}{}
}

// Strings returns the set as sorted-insensitive string slice for storage
// and API payloads.
func (s PermissionSet) Strings() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, string(p))
	}
	return out
}
