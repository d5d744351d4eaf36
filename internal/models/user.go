package models

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

type User struct {
	ID           string
	Name         string
	Email        string
	Username     *string
	PasswordHash []byte
	Role         UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the non-secret view of a User that authentication hands to the
// rest of the request.
type Principal struct {
	ID       string
	Name     string
	Email    string
	Username *string
	Role     UserRole
}

func (u User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}

// PublicProfile is what anonymous readers of a published portfolio see of its owner.
type PublicProfile struct {
	ID       string
	Name     string
	Username *string
}
