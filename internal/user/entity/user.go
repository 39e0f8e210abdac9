package entity

import "time"

// Role is the closed set of account roles. The set is fixed at signup time;
// there is no role mutation operation.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// ParseRole validates a candidate role string against the closed enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer, RoleVendor:
		return Role(s), true
	}
	return "", false
}

// User represents a row in the `users` table. PasswordHash is never
// serialized to clients.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
