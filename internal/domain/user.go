package domain

import "time"

// User represents an application user. Users provisioned through the SSO
// callback have an empty HashedPassword and can only log in via OIDC.
type User struct {
	ID             string
	Username       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
