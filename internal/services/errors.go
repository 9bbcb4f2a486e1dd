package services

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrRoleInUse           = errors.New("role is assigned to users")
	ErrEmailTaken          = errors.New("email already registered")
	ErrPasswordMismatch    = errors.New("passwords don't match")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrAccountDisabled     = errors.New("account is not active")
	ErrUnsupportedProvider = errors.New("unsupported login provider")
	ErrProviderMismatch    = errors.New("account registered with another provider")
	ErrInvalidStatus       = errors.New("invalid application status")
)
