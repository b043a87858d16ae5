package auth

import "errors"

var (
	// ErrEmailTaken is returned by Register when the email is already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountInactive is returned when the account status is not active.
	ErrAccountInactive = errors.New("account is not active")
	// ErrInvalidRefreshToken covers missing, expired and revoked refresh tokens.
	// The three cases are deliberately indistinguishable to the caller.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrInvalidResetToken covers unknown and expired password reset tokens.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrUnauthenticated is returned by the middleware for any access-token failure.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrTokenMalformed means the access token is not a well-formed JWT.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenSignature means the signature does not match the server key.
	ErrTokenSignature = errors.New("invalid token signature")
	// ErrTokenExpired means the token was valid but its expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)
