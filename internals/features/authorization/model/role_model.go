package model

type RoleModel struct {
	RoleID   uint   `gorm:"column:role_id;primaryKey" json:"role_id"`
	RoleName string `gorm:"column:role_name;type:varchar(20);unique;not null" json:"role_name"`
}

func (RoleModel) TableName() string {
	return "roles"
}

type RolePermissionModel struct {
	RolePermissionID         uint   `gorm:"column:role_permission_id;primaryKey" json:"role_permission_id"`
	RolePermissionRoleID     uint   `gorm:"column:role_permission_role_id;not null;uniqueIndex:uq_role_permissions_role_perm" json:"role_permission_role_id"`
	RolePermissionPermission string `gorm:"column:role_permission_permission;type:varchar(40);not null;uniqueIndex:uq_role_permissions_role_perm" json:"role_permission_permission"`
}

func (RolePermissionModel) TableName() string {
	return "role_permissions"
}
