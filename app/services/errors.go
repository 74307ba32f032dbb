package services

import "errors"

// Business failures. Commands match on these with errors.Is and report a
// single explanatory line; no failure leaves a partial mutation visible.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")

	ErrInvalidTransition  = errors.New("state does not allow this transition")
	ErrNotOwner           = errors.New("not your order")
	ErrProductUnavailable = errors.New("product is not available")
	ErrSelfTrade          = errors.New("you cannot buy your own product")
	ErrDuplicateReview    = errors.New("this order has already been reviewed")

	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountBanned      = errors.New("this account is banned")
	ErrCannotBanAdmin     = errors.New("admins cannot be banned")
	ErrAlreadyBanned      = errors.New("user is already banned")
	ErrNotBanned          = errors.New("user is not banned")
)
