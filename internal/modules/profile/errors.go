package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRole     = errors.New("user_type must be customer or beautician")
	ErrEmptyFile       = errors.New("file is empty")
	ErrFileTooLarge    = errors.New("file exceeds 5 MB limit")
	ErrInvalidFormat   = errors.New("only jpg, jpeg, png and webp files are allowed")
)
