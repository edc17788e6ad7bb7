package domain

import "time"

// Claims is the payload carried by an access token.
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
	Role      Role
	AccountID int64
}

// ExtraClaims are the optional fields minted alongside the subject.
type ExtraClaims struct {
	Role      Role
	AccountID int64
}
