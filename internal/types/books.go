package types

import "time"

const (
	StatusToRead  = "To Read"
	StatusReading = "Reading"
	StatusDone    = "Done"
)

// KnownStatuses are the labels offered by the UI. Any other label is still valid.
var KnownStatuses = []string{StatusToRead, StatusReading, StatusDone}

type Book struct {
	Id          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	ImageUrl    string    `json:"image_url,omitempty"`
	DateAdded   time.Time `json:"date_added"`
	Status      string    `json:"status"`
}

// Metadata is what a catalog lookup yields, with defaults already applied.
// DateAdded and Status are filled in by the store when left zero.
type Metadata struct {
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Genre       string    `json:"genre"`
	Description string    `json:"description"`
	ImageUrl    string    `json:"image_url,omitempty"`
	DateAdded   time.Time `json:"date_added"`
	Status      string    `json:"status"`
}

type Suggestion struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Thumbnail string `json:"thumbnail"`
}
