package domain

import "time"

// Headshot is one generated variant. Immutable once created; batches are
// prepended newest-first to the session's result list and never reordered.
type Headshot struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	StyleID   string    `json:"style_id"`
	CreatedAt time.Time `json:"created_at"`
}
