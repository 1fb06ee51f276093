package service

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("credentials incorrect")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrUserNotFound       = errors.New("user not found")
	ErrBookmarkNotFound   = errors.New("bookmark not found")
)
