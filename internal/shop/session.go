package shop

import (
	"fmt"

	"shopbackend/internal/data"
)

// Session is the logged-in state of one interactive user. It is created by
// Login and emptied by Logout.
type Session struct {
	user *data.User
}

// User returns the logged-in account, or nil after logout
func (s *Session) User() *data.User {
	if s == nil {
		return nil
	}
	return s.user
}

func (s *Session) Active() bool     { return s.User() != nil }
func (s *Session) IsAdmin() bool    { return s.User().IsAdmin() }
func (s *Session) IsCustomer() bool { return s.User().IsCustomer() }

func (s *Session) requireAdmin() (*data.User, error) {
	if !s.IsAdmin() {
		return nil, fmt.Errorf("%w: you must be an admin to perform this action", data.ErrPermission)
	}
	return s.user, nil
}

func (s *Session) requireCustomer() (*data.User, error) {
	if !s.IsCustomer() {
		return nil, fmt.Errorf("%w: you must be a customer to perform this action", data.ErrPermission)
	}
	return s.user, nil
}
