package models

import "time"

// Circular is a published GAD office circular or memorandum.
type Circular struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	FileURL     string    `json:"file_url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Resolution is an approved board resolution relevant to the GAD program.
type Resolution struct {
	ID         int64     `json:"id"`
	Number     string    `json:"number"`
	Title      string    `json:"title"`
	FileURL    string    `json:"file_url,omitempty"`
	ApprovedAt time.Time `json:"approved_at"`
}

// Program is a scheduled GAD activity (seminar, outreach, campaign).
type Program struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartsAt    time.Time `json:"starts_at"`
}

// Hotline is an emergency or support contact shown in the app.
type Hotline struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Office   string `json:"office"`
	Phone    string `json:"phone"`
	Category string `json:"category"`
}

// CreateCircularRequest creates a circular entry.
type CreateCircularRequest struct {
	Title       string `json:"title" validate:"required"`
	Summary     string `json:"summary" validate:"required"`
	FileURL     string `json:"file_url,omitempty" validate:"omitempty,url"`
	PublishedAt string `json:"published_at" validate:"required,datetime=2006-01-02"`
}

// CreateResolutionRequest creates a resolution entry.
type CreateResolutionRequest struct {
	Number     string `json:"number" validate:"required"`
	Title      string `json:"title" validate:"required"`
	FileURL    string `json:"file_url,omitempty" validate:"omitempty,url"`
	ApprovedAt string `json:"approved_at" validate:"required,datetime=2006-01-02"`
}

// CreateProgramRequest creates a program entry.
type CreateProgramRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Venue       string `json:"venue" validate:"required"`
	StartsAt    string `json:"starts_at" validate:"required"`
}

// CreateHotlineRequest creates a hotline entry.
type CreateHotlineRequest struct {
	Name     string `json:"name" validate:"required"`
	Office   string `json:"office" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Category string `json:"category" validate:"required"`
}
