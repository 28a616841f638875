package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	FullName  string     `json:"full_name" db:"full_name"`
	Role      string     `json:"role" db:"role"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

const (
	RoleMember    = "member"
	RoleRecruiter = "recruiter"
	RoleAdmin     = "admin"
)

var roleHierarchy = map[string]int{
	RoleMember:    1,
	RoleRecruiter: 2,
	RoleAdmin:     3,
}

// HasRole reports whether the user's role is at least the required one.
func (u *User) HasRole(requiredRole string) bool {
	userLevel, ok := roleHierarchy[u.Role]
	if !ok {
		return false
	}
	requiredLevel, ok := roleHierarchy[requiredRole]
	if !ok {
		return false
	}
	return userLevel >= requiredLevel
}
