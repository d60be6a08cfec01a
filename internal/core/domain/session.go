package domain

import "time"

// A Session is the authenticated admin context.
//
// It is passed explicitly to every admin operation.
type Session struct {
	ID         string
	AdminEmail string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

func (s Session) Valid(now time.Time) bool {
	return s.AdminEmail != "" && now.Before(s.ExpiresAt)
}
