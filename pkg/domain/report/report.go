package report

import (
	"time"

	"github.com/google/uuid"
)

// Report is a user-submitted scam report. Title and description arrive
// already sanitized by the validation guard.
type Report struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url,omitempty"`
	Reporter    string    `json:"reporter,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewReport(title, description, url, reporter string) *Report {
	return &Report{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		URL:         url,
		Reporter:    reporter,
		CreatedAt:   time.Now(),
	}
}
