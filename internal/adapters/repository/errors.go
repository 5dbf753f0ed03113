package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNoData      = errors.New("no cutoff data")
	ErrInvalidArgs = errors.New("invalid query arguments")
)
