package service

import "errors"

// ErrNotFound covers both a missing survey and one the requester does not own.
var ErrNotFound = errors.New("survey not found")
