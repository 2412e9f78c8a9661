package session

import "time"

// Identity is the authenticated principal recovered from a session token.
type Identity struct {
	Subject   string // identity-provider subject id
	Email     string
	Name      string
	Image     string
	TokenID   string
	ExpiresAt time.Time
	Token     string // raw token as presented by the client
}
