package domain

import "time"

// BlogPost is a published article. Tags preserve insertion order and are
// stored as a JSON column.
type BlogPost struct {
	ID        string
	Title     string
	Content   string
	Excerpt   string
	Author    string
	Tags      []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
