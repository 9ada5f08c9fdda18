package constants

import "time"

// Session cookie and context keys
const (
	SessionCookieName   = "clubhub_session"
	SessionKeySessionID = "session_id"
	ContextKeyPrincipal = "principal"
	ContextKeySession   = "auth_session"
	ContextKeyClub      = "club"
	ContextKeyMember    = "club_member"
	CSRFHeaderName      = "X-CSRF-Token"
)

// Security settings, mirroring the production deployment values.
const (
	SessionLifetime     = 24 * time.Hour
	SessionRotateAfter  = 30 * time.Minute
	RateLimitWindow     = time.Hour
	MaxLoginAttempts    = 5
	MaxRegisterAttempts = 10
	MinPasswordLength   = 8
	BcryptCost          = 12
)

// Rate-limited action types
const (
	ActionLogin    = "login"
	ActionRegister = "register"
)

// UnknownIP is recorded when the client address cannot be attributed.
const UnknownIP = "0.0.0.0"

// AccessCodeMaxAttempts bounds unique access code generation.
const AccessCodeMaxAttempts = 5
