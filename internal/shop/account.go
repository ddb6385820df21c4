package shop

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"shopbackend/internal/data"
	"shopbackend/internal/logger"
)

const minPasswordLength = 6

// ErrInvalidCredentials is returned by Login when no account matches
var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", data.ErrValidation)

// Registration carries the typed fields of a new account. Budget is only
// used for customers.
type Registration struct {
	Username string
	Password string
	Role     string
	Name     string
	Budget   float64
}

// Register creates an admin or customer account and saves
func (s *Service) Register(ctx context.Context, reg Registration) (*data.User, error) {
	if reg.Username == "" {
		return nil, fmt.Errorf("%w: username is required", data.ErrValidation)
	}
	if s.IsUsernameTaken(reg.Username) {
		return nil, fmt.Errorf("%w: username %q already exists", data.ErrValidation, reg.Username)
	}
	if utf8.RuneCountInString(reg.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", data.ErrValidation, minPasswordLength)
	}
	role, err := data.ParseRole(reg.Role)
	if err != nil {
		return nil, err
	}

	var user *data.User
	switch role {
	case data.RoleAdmin:
		user = data.NewAdminUser(reg.Username, reg.Password, reg.Name)
	case data.RoleCustomer:
		if math.IsNaN(reg.Budget) || math.IsInf(reg.Budget, 0) || reg.Budget < 0 {
			return nil, fmt.Errorf("%w: budget must be a non-negative number, got %v", data.ErrValidation, reg.Budget)
		}
		if reg.Budget > data.MaxBudget {
			return nil, fmt.Errorf("%w: budget cannot exceed $%.2f", data.ErrValidation, data.MaxBudget)
		}
		user = data.NewCustomerUser(reg.Username, reg.Password, reg.Name, reg.Budget)
	}

	s.state.Users = append(s.state.Users, user)
	logger.LogInfo("Registered %s account %q", role, reg.Username)

	if err := s.Save(ctx); err != nil {
		return user, err
	}
	return user, nil
}

// IsUsernameTaken reports whether an account already uses the exact username
func (s *Service) IsUsernameTaken(username string) bool {
	return s.state.FindUser(username) != nil
}

// Login starts a session for the first account matching both credentials
func (s *Service) Login(username, password string) (*Session, error) {
	for _, u := range s.state.Users {
		if u.Username == username && u.Password == password {
			logger.LogInfo("User %q logged in as %s", u.Username, u.Role)
			return &Session{user: u}, nil
		}
	}
	logger.LogWarn("Failed login attempt for %q", username)
	return nil, ErrInvalidCredentials
}

// Logout ends the session; it holds no account afterwards
func (s *Service) Logout(sess *Session) {
	if sess == nil || sess.user == nil {
		return
	}
	logger.LogInfo("User %q logged out", sess.user.Username)
	sess.user = nil
}

// Customers lists every customer account. Admin only.
func (s *Service) Customers(sess *Session) ([]data.User, error) {
	if _, err := sess.requireAdmin(); err != nil {
		return nil, err
	}
	var customers []data.User
	for _, u := range s.state.Users {
		if u.IsCustomer() {
			cp := *u
			c := *u.Customer
			cp.Customer = &c
			customers = append(customers, cp)
		}
	}
	return customers, nil
}
