package domain

import "time"

type Link struct {
	ID         string    `json:"id" db:"id"`
	Slug       string    `json:"slug" db:"slug"`
	URL        string    `json:"url" db:"url"`
	Title      string    `json:"title" db:"title"`
	ClickCount int64     `json:"click_count" db:"click_count"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type CreateLinkRequest struct {
	URL   string `json:"url" validate:"required,max=2048"`
	Title string `json:"title" validate:"required,max=200"`
	Slug  string `json:"slug,omitempty" validate:"omitempty,max=64,slug"`
}

type UpdateLinkRequest struct {
	URL   string `json:"url" validate:"required,max=2048"`
	Title string `json:"title" validate:"required,max=200"`
	Slug  string `json:"slug" validate:"required,max=64,slug"`
}
