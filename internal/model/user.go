package model

import "time"

// User represents an application user record as stored in the `users`
// table.  The password is kept only as a bcrypt hash.  SecurityStamp is a
// per-user value rotated whenever trust derived from previously issued
// credentials must be invalidated; refresh tokens record the stamp current
// at issuance and become worthless once it changes.
//
// Users are never physically deleted; role and claim rows reference them
// via user_roles and user_claims.
type User struct {
	ID            uint64    // users.id
	Email         string    // users.email (unique, doubles as login)
	UserName      string    // users.username (always set to the email)
	FirstName     string    // users.first_name
	LastName      string    // users.last_name
	PasswordHash  string    // users.password_hash (bcrypt)
	SecurityStamp string    // users.security_stamp (UUID, rotated on demand)
	CreatedAt     time.Time // users.created_at
	UpdatedAt     time.Time // users.updated_at
}

// Claim is an arbitrary (type, value) pair attached to a user and copied
// into issued access tokens.  Duplicate types are legal.
type Claim struct {
	Type  string // user_claims.claim_type
	Value string // user_claims.claim_value
}

// ValidationError mirrors the shape credential policies report expected
// registration failures in: a machine-readable code plus a human message.
// These are returned as values, never raised.
type ValidationError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
