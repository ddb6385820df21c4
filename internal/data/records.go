package data

import (
	"fmt"

	"shopbackend/internal/logger"
)

// userRecord is the persisted shape of a User. Customer-only fields are
// omitted for admins.
type userRecord struct {
	Username        string   `json:"username"`
	Password        string   `json:"password"`
	Role            Role     `json:"role"`
	Name            string   `json:"name"`
	MembershipLevel *int     `json:"membership_level,omitempty"`
	Budget          *float64 `json:"budget,omitempty"`
}

func toUserRecord(u *User) userRecord {
	rec := userRecord{
		Username: u.Username,
		Password: u.Password,
		Role:     u.Role,
		Name:     u.Name(),
	}
	if u.IsCustomer() {
		level := u.Customer.MembershipLevel
		budget := u.Customer.Budget
		rec.MembershipLevel = &level
		rec.Budget = &budget
	}
	return rec
}

// fromUserRecord rebuilds a User. Records with an unknown role are skipped
// (nil, nil); a customer missing its purchasing fields is malformed.
func fromUserRecord(rec userRecord) (*User, error) {
	switch rec.Role {
	case RoleAdmin:
		return NewAdminUser(rec.Username, rec.Password, rec.Name), nil
	case RoleCustomer:
		if rec.MembershipLevel == nil || rec.Budget == nil {
			return nil, fmt.Errorf("customer %q is missing membership_level or budget", rec.Username)
		}
		level := *rec.MembershipLevel
		if level < MinMembershipLevel || level > MaxMembershipLevel {
			return nil, fmt.Errorf("customer %q has membership_level %d outside [%d,%d]",
				rec.Username, level, MinMembershipLevel, MaxMembershipLevel)
		}
		u := NewCustomerUser(rec.Username, rec.Password, rec.Name, *rec.Budget)
		u.Customer.MembershipLevel = level
		return u, nil
	default:
		logger.LogWarn("Skipping user %q with unknown role %q", rec.Username, rec.Role)
		return nil, nil
	}
}

func usersFromRecords(recs []userRecord) ([]*User, error) {
	users := make([]*User, 0, len(recs))
	for _, rec := range recs {
		u, err := fromUserRecord(rec)
		if err != nil {
			return nil, err
		}
		if u != nil {
			users = append(users, u)
		}
	}
	return users, nil
}

// levelCostsFromMap overlays stored costs on the defaults so that a partial
// store still yields all three slots.
func levelCostsFromMap(stored map[int]float64) (LevelCosts, error) {
	costs := DefaultLevelCosts()
	for level, cost := range stored {
		if level < 1 || level > MaxMembershipLevel {
			return nil, fmt.Errorf("membership cost for unknown level %d", level)
		}
		costs[level] = cost
	}
	return costs, nil
}
