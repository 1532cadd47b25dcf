package domain

import "errors"

var (
	ErrNotFound     = errors.New("link not found")
	ErrSlugTaken    = errors.New("this short link is already in use, please choose a different one")
	ErrSlugReserved = errors.New("this slug is reserved, please choose a different one")
	ErrInvalidSlug  = errors.New("slug must not be empty")
	ErrInvalidURL   = errors.New("url must not be empty")
	ErrUnauthorized = errors.New("unauthorized")
)
