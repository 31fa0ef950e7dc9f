package constant

const (
	// EmailTokenTypeVerification scopes email tokens issued for account
	// verification; tokens of one type never satisfy another.
	EmailTokenTypeVerification = "verification"

	// RateLimitTypeVerifyEmail and RateLimitTypeNotifyUser key the outbound
	// email limiter per message category.
	RateLimitTypeVerifyEmail = "VERIFY_EMAIL"
	RateLimitTypeNotifyUser  = "NOTIFY_USER"

	// RefreshTokenBytes is the entropy of a raw refresh token (hex encoded
	// on the wire).
	RefreshTokenBytes = 32

	// EmailTokenBytes is the entropy of a raw email-verification token.
	EmailTokenBytes = 32

	// AccessTokenHeader carries a transparently refreshed access token back
	// to the client.
	AccessTokenHeader = "x-access-token"

	// RefreshTokenCookie and SessionIDCookie are the auth cookies set on
	// login and consumed by the refresh path.
	RefreshTokenCookie = "refreshToken"
	SessionIDCookie    = "session_id"
)
