package data

import (
	"fmt"
	"strings"
	"time"
)

// Role tags which variant a User carries
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Membership levels run from 0 (no membership) to MaxMembershipLevel
const (
	MinMembershipLevel = 0
	MaxMembershipLevel = 3
)

// MaxBudget caps any customer balance so it stays finite and serializable
const MaxBudget = 1e12

// ParseRole accepts "admin" or "customer" in any letter case
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleCustomer:
		return RoleCustomer, nil
	}
	return "", fmt.Errorf("%w: invalid role %q", ErrValidation, s)
}

// Credentials are shared by every account kind. Passwords are stored and compared as plain strings.
type Credentials struct {
	Username string
	Password string
}

// Customer holds the purchasing state of a customer account
type Customer struct {
	Name            string
	MembershipLevel int
	Budget          float64
}

// Admin holds the profile of an administrator account
type Admin struct {
	Name string
}

// User is a tagged variant: exactly one of Customer or Admin is set, matching Role.
type User struct {
	Credentials
	Role     Role
	Customer *Customer
	Admin    *Admin
}

func NewCustomerUser(username, password, name string, budget float64) *User {
	return &User{
		Credentials: Credentials{Username: username, Password: password},
		Role:        RoleCustomer,
		Customer:    &Customer{Name: name, Budget: budget},
	}
}

func NewAdminUser(username, password, name string) *User {
	return &User{
		Credentials: Credentials{Username: username, Password: password},
		Role:        RoleAdmin,
		Admin:       &Admin{Name: name},
	}
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin && u.Admin != nil
}

func (u *User) IsCustomer() bool {
	return u != nil && u.Role == RoleCustomer && u.Customer != nil
}

// Name returns the display name of whichever variant is set
func (u *User) Name() string {
	switch {
	case u.IsCustomer():
		return u.Customer.Name
	case u.IsAdmin():
		return u.Admin.Name
	}
	return ""
}

// Product is a catalog entry keyed by the admin-assigned Index
type Product struct {
	Index        int      `json:"product_index"`
	Name         string   `json:"product_name"`
	Price        float64  `json:"price"`
	Manufacturer string   `json:"manufacturer"`
	Remarks      []string `json:"remarks"`
}

// Transaction is an immutable purchase record. Username and ProductIndex are
// not checked against the current users or catalog.
type Transaction struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	ProductIndex   int       `json:"product_index"`
	Quantity       int       `json:"quantity"`
	TotalCost      float64   `json:"total_cost"`
	Discount       float64   `json:"discount"`        // fraction, e.g. 0.05
	DiscountedCost float64   `json:"discounted_cost"` // amount taken off TotalCost
	FinalCost      float64   `json:"final_cost"`
	Date           time.Time `json:"date"`
}

// LevelCosts maps a target membership level (1..3) to the price of reaching it
type LevelCosts map[int]float64

// DefaultLevelCosts is used when no membership cost store exists yet
func DefaultLevelCosts() LevelCosts {
	return LevelCosts{1: 5, 2: 10, 3: 20}
}

func (c LevelCosts) Clone() LevelCosts {
	out := make(LevelCosts, len(c))
	for level, cost := range c {
		out[level] = cost
	}
	return out
}

// State is the whole in-memory data set, saved and loaded as a unit
type State struct {
	Users        []*User
	Products     []*Product
	Transactions []Transaction
	LevelCosts   LevelCosts
}

func NewState() *State {
	return &State{
		Users:        []*User{},
		Products:     []*Product{},
		Transactions: []Transaction{},
		LevelCosts:   DefaultLevelCosts(),
	}
}

// FindUser returns the first user with the given username
func (s *State) FindUser(username string) *User {
	for _, u := range s.Users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
