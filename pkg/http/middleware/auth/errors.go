package auth

import "errors"

var (
	errMissingHeader     = errors.New("authorization header is not provided")
	errInvalidHeader     = errors.New("invalid authorization header format")
	errUnexpectedSigning = errors.New("unexpected token signing method")
	errInvalidToken      = errors.New("invalid access token")
)
