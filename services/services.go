package services

import (
	"errors"
)

var (
	ErrUnauthenticated = errors.New("login required")
	ErrInvalidRating   = errors.New("rating must be an integer between 1 and 5")
)

// Identity is a snapshot of the authenticated caller, taken by the HTTP
// layer from the JWT claims and passed into every operation. A nil Identity
// means no one is logged in.
type Identity struct {
	UserID uint
	Name   string
}
