package models

import "errors"

var (
	ErrPollNotFound = errors.New("poll not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidToken = errors.New("invalid token")
	ErrValidation   = errors.New("invalid input")
	ErrStoreRead    = errors.New("store read failed")
	ErrStoreWrite   = errors.New("store write failed")
)
