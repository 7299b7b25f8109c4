package products

import "errors"

var (
	ErrRunNotFound = errors.New("analysis run not found")
	ErrNoProducts  = errors.New("no products to analyze")
)
