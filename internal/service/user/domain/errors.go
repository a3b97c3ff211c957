package domain

import "errors"

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrCartItemAbsent = errors.New("product not in cart")

	// ErrBadCredentials deliberately does not distinguish unknown email from
	// wrong password.
	ErrBadCredentials = errors.New("invalid email or password")
)
