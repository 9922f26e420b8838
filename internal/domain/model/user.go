package model

import (
	"time"
)

type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func (s UserStatus) Valid() bool {
	return s == UserActive || s == UserInactive
}

type User struct {
	ID               int64      `json:"id"`
	Username         *string    `json:"username"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Role             Role       `json:"role"`
	Status           UserStatus `json:"status"`
	LastLogin        *time.Time `json:"lastLogin"`
	ResetTokenHash   *string    `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserFilter drives the admin user listing.
type UserFilter struct {
	Search    string
	Role      Role
	Status    UserStatus
	SortBy    string
	SortOrder string
	Page      Pagination
}
