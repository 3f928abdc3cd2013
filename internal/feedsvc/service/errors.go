package service

import "errors"

// Error taxonomy for feed operations. Handlers map these to HTTP status
// codes with errors.Is; anything unrecognized is a 500.
var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrUpload       = errors.New("media upload failed")
)
