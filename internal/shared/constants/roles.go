package constants

// Role values stored on users and carried in JWT claims
const (
	ROLE_USER  = "USER"
	ROLE_ADMIN = "ADMIN"
)
