// Package authz is the single place ownership and role checks happen.
// Services call CanAccess instead of repeating inline role comparisons.
package authz

import (
	"errors"

	"github.com/google/uuid"
)

var ErrForbidden = errors.New("access denied")

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Subject is the authenticated caller of an operation.
type Subject struct {
	CustomerID uuid.UUID
	Role       string
}

func (s Subject) IsAdmin() bool { return s.Role == RoleAdmin }

// CanAccess allows the resource owner or an admin.
func CanAccess(s Subject, ownerID uuid.UUID) error {
	if s.CustomerID == ownerID || s.IsAdmin() {
		return nil
	}
	return ErrForbidden
}

// CanModify allows only the resource owner, regardless of role.
func CanModify(s Subject, ownerID uuid.UUID) error {
	if s.CustomerID == ownerID {
		return nil
	}
	return ErrForbidden
}

// AdminOnly allows admins.
func AdminOnly(s Subject) error {
	if s.IsAdmin() {
		return nil
	}
	return ErrForbidden
}
