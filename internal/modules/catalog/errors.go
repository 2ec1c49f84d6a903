package catalog

import "errors"

var (
	ErrServiceNotFound    = errors.New("service not found")
	ErrBeauticianNotFound = errors.New("beautician not found")
	ErrInvalidCategory    = errors.New("invalid service category")
	ErrInvalidPrice       = errors.New("price must be positive")
)
