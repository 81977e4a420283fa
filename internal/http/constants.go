package httpx

// Cookie names shared by handlers and middleware.
const (
	// SessionCookieName carries the opaque session token.
	SessionCookieName = "session_token"

	// Temporary cookies for the OAuth round trip.
	oauthStateCookie   = "oauth_state"
	oauthNonceCookie   = "oauth_nonce"
	postLoginRedirect  = "post_login_redirect"
	oauthCookieMaxAge  = 600 // 10 minutes
)
