package domain

import (
	"strings"
	"time"
)

type RoleID int64

// Role ids are fixed reference data; they match the seeded rows of the roles table.
const (
	RoleControl       RoleID = 1
	RoleRegular       RoleID = 2
	RoleManagement    RoleID = 3
	RoleAdministrator RoleID = 4
)

type UserTypeID int64

const (
	UserTypeCustomer UserTypeID = 1
	UserTypeDesigner UserTypeID = 2
)

type Role struct {
	ID          RoleID `json:"role_id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Description string `json:"description"`
}

func (Role) TableName() string { return "roles" }

type UserType struct {
	ID   UserTypeID `json:"user_type_id" gorm:"column:id;primaryKey;autoIncrement:false"`
	Name string     `json:"name" gorm:"uniqueIndex;not null"`
}

func (UserType) TableName() string { return "user_types" }

// Roles and UserTypes are the seeded reference rows.
var Roles = []Role{
	{ID: RoleAdministrator, Name: "administrator", Description: "Full system access"},
	{ID: RoleManagement, Name: "management", Description: "Store management access"},
	{ID: RoleControl, Name: "control", Description: "Limited access (unused)"},
	{ID: RoleRegular, Name: "regular", Description: "Regular user access"},
}

var UserTypes = []UserType{
	{ID: UserTypeCustomer, Name: "customer"},
	{ID: UserTypeDesigner, Name: "designer"},
}

func (r RoleID) Valid() bool {
	return r >= RoleControl && r <= RoleAdministrator
}

func (r RoleID) Name() string {
	for _, role := range Roles {
		if role.ID == r {
			return role.Name
		}
	}
	return ""
}

func (t UserTypeID) Valid() bool {
	return t == UserTypeCustomer || t == UserTypeDesigner
}

func (t UserTypeID) Name() string {
	for _, ut := range UserTypes {
		if ut.ID == t {
			return ut.Name
		}
	}
	return ""
}

// UserTypeByName resolves a user type name case-insensitively.
func UserTypeByName(name string) (UserTypeID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, ut := range UserTypes {
		if ut.Name == name {
			return ut.ID, true
		}
	}
	return 0, false
}

type User struct {
	ID           int64     `json:"user_id" gorm:"column:id;primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	RoleID       RoleID    `json:"role_id" gorm:"not null;index"`
	Role         *Role     `json:"-" gorm:"foreignKey:RoleID"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// UserUserType is the membership row; the composite key makes duplicates impossible.
type UserUserType struct {
	UserID     int64      `gorm:"primaryKey;autoIncrement:false"`
	UserTypeID UserTypeID `gorm:"primaryKey;autoIncrement:false"`

	User     *User     `gorm:"foreignKey:UserID;references:ID"`
	UserType *UserType `gorm:"foreignKey:UserTypeID;references:ID"`
}

func (UserUserType) TableName() string { return "user_user_types" }

// UserWithTypes is the administrator view of a user.
type UserWithTypes struct {
	ID        int64     `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	RoleID    RoleID    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	CreatedAt time.Time `json:"created_at"`
	UserTypes []string  `json:"userTypes"`
}
