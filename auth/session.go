package auth

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role tags who a session belongs to. The stored payload encodes the role by
// which id field is present (admin_id vs customer_id); everything in-process
// works with this explicit tag instead.
type Role int

const (
	Anonymous Role = iota
	RoleCustomer
	RoleAdmin
)

const (
	// SessionTTL bounds every session; login refreshes it, nothing else does.
	SessionTTL = time.Hour
	CookieName = "session_id"
)

// Session is a resolved server-side session. A zero Session is anonymous.
type Session struct {
	Token        string
	Role         Role
	AccountID    uint
	LastActivity time.Time
}

// payload mirrors the JSON shape kept in the session store: exactly one of
// admin_id or customer_id is set.
type payload struct {
	AdminID      *uint  `json:"admin_id,omitempty"`
	CustomerID   *uint  `json:"customer_id,omitempty"`
	LastActivity string `json:"last_activity"`
}

func NewSession(role Role, accountID uint) Session {
	return Session{
		Token:        uuid.NewString(),
		Role:         role,
		AccountID:    accountID,
		LastActivity: time.Now().UTC(),
	}
}

// Touch refreshes last_activity; callers persist the session to renew its TTL.
func (s *Session) Touch() {
	s.LastActivity = time.Now().UTC()
}

func (s Session) MarshalPayload() ([]byte, error) {
	p := payload{LastActivity: s.LastActivity.UTC().Format(time.RFC3339)}
	switch s.Role {
	case RoleAdmin:
		p.AdminID = &s.AccountID
	case RoleCustomer:
		p.CustomerID = &s.AccountID
	default:
		return nil, errors.New("anonymous session cannot be stored")
	}
	return json.Marshal(p)
}

// ParsePayload decodes a stored session payload. A payload naming no account
// is invalid: there is nothing an anonymous entry could authorize.
func ParsePayload(token string, data []byte) (Session, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Session{}, err
	}
	s := Session{Token: token}
	if ts, err := time.Parse(time.RFC3339, p.LastActivity); err == nil {
		s.LastActivity = ts
	}
	switch {
	case p.AdminID != nil:
		s.Role = RoleAdmin
		s.AccountID = *p.AdminID
	case p.CustomerID != nil:
		s.Role = RoleCustomer
		s.AccountID = *p.CustomerID
	default:
		return Session{}, errors.New("session payload names no account")
	}
	return s, nil
}
