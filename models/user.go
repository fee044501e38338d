package models

import "time"

// Staff role group names. Membership is non-exclusive: a user may hold
// both, or neither (a regular customer).
const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery Crew"
)

// Group is a named role a user can belong to.
type Group struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Groups       []Group   `json:"groups,omitempty" gorm:"many2many:user_groups;"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasGroup reports whether the user's loaded memberships include the named
// group. Groups must have been preloaded; an unloaded slice means no roles.
func (u *User) HasGroup(name string) bool {
	for _, g := range u.Groups {
		if g.Name == name {
			return true
		}
	}
	return false
}

func (u *User) IsManager() bool      { return u.HasGroup(GroupManager) }
func (u *User) IsDeliveryCrew() bool { return u.HasGroup(GroupDeliveryCrew) }
