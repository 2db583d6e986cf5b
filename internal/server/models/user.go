// Package models defines server-side data models persisted in the database.
package models

import (
	"fmt"
	"time"
)

// Role is the account type. It is fixed when the account is created.
type Role string

const (
	RoleApplicant Role = "applicant"
	RoleCompany   Role = "company"
)

// ParseRole validates a stored or transmitted role value.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleApplicant, RoleCompany:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller of an action.
type Identity struct {
	ID   string
	Role Role
	Name string
}
