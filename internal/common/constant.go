package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on inbound identity calls.
const AccessTokenHeaderName = "access_token"

// DefaultSessionCookieName is the cookie holding the session token for
// browser clients.
const DefaultSessionCookieName = "accessToken"

// OTPLength is the number of decimal digits in a verification code.
const OTPLength = 6
