package service

import (
	"fmt"

	"gorm.io/gorm"

	"eventhub_backend/internals/apperror"
	"eventhub_backend/internals/features/authorization/model"
)

// Cache is the process-wide role/permission lookup table. It is built once
// before the server accepts traffic and never mutated afterwards, so
// concurrent reads need no locking.
type Cache struct {
	roleIDs   map[model.Role]uint
	rolesByID map[uint]model.Role
	defaults  map[model.Role]model.PermissionSet
}

// InitCache loads every role and its default permissions from the store.
// An unreachable or empty permission store is fatal: serving requests with
// an empty cache would produce wrong authorization decisions.
func InitCache(db *gorm.DB) (*Cache, error) {
	var roles []model.RoleModel
	if err := db.Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	if len(roles) == 0 {
		return nil, fmt.Errorf("role table is empty, seed roles before startup")
	}

	var rolePerms []model.RolePermissionModel
	if err := db.Find(&rolePerms).Error; err != nil {
		return nil, fmt.Errorf("load role permissions: %w", err)
	}

	cache := &Cache{
		roleIDs:   make(map[model.Role]uint, len(roles)),
		rolesByID: make(map[uint]model.Role, len(roles)),
		defaults:  make(map[model.Role]model.PermissionSet, len(roles)),
	}

	for _, r := range roles {
		role := model.Role(r.RoleName)
		cache.roleIDs[role] = r.RoleID
		cache.rolesByID[r.RoleID] = role
		cache.defaults[role] = model.NewPermissionSet()
	}

	for _, rp := range rolePerms {
		role, ok := cache.rolesByID[rp.RolePermissionRoleID]
		if !ok {
			return nil, fmt.Errorf("role permission %d references unknown role %d", rp.RolePermissionID, rp.RolePermissionRoleID)
		}
		perm, ok := model.ParsePermission(rp.RolePermissionPermission)
		if !ok {
			return nil, fmt.Errorf("unknown permission %q for role %s", rp.RolePermissionPermission, role)
		}
		cache.defaults[role].Add(perm)
	}

	return cache, nil
}

// NewCacheFromSeed builds a cache directly from in-memory data. Used by
// tests; production code goes through InitCache.
func NewCacheFromSeed(roleIDs map[model.Role]uint, defaults map[model.Role][]model.Permission) *Cache {
	cache := &Cache{
		roleIDs:   make(map[model.Role]uint, len(roleIDs)),
		rolesByID: make(map[uint]model.Role, len(roleIDs)),
		defaults:  make(map[model.Role]model.PermissionSet, len(roleIDs)),
	}
	for role, id := range roleIDs {
		cache.roleIDs[role] = id
		cache.rolesByID[id] = role
		cache.defaults[role] = model.NewPermissionSet(defaults[role]...)
	}
	return cache
}

// RoleID maps a role to its stored numeric id. A miss is cache/store drift,
// never user input, hence an internal error.
func (c *Cache) RoleID(role model.Role) (uint, error) {
	id, ok := c.roleIDs[role]
	if !ok {
		return 0, apperror.Internal(fmt.Errorf("role %q missing from role cache", role))
	}
	return id, nil
}

func (c *Cache) RoleByID(id uint) (model.Role, error) {
	role, ok := c.rolesByID[id]
	if !ok {
		return "", apperror.Internal(fmt.Errorf("role id %d missing from role cache", id))
	}
	return role, nil
}

// DefaultPermissions returns a copy of the role's default permission set so
// callers can union grants into it without mutating the cache.
func (c *Cache) DefaultPermissions(role model.Role) (model.PermissionSet, error) {
	defaults, ok := c.defaults[role]
	if !ok {
		return nil, apperror.Internal(fmt.Errorf("role %q missing from permission cache", role))
	}
	out := model.NewPermissionSet()
	for p := range defaults {
		out.Add(p)
	}
	return out, nil
}
