package models

import "time"

const (
	SiteInProgress = "In Progress"
	SiteCompleted  = "Completed"
	SiteOnHold     = "On Hold"
	SiteDelayed    = "Delayed"
)

func ValidSiteStatus(s string) bool {
	switch s {
	case SiteInProgress, SiteCompleted, SiteOnHold, SiteDelayed:
		return true
	}
	return false
}

const MaxSitePhotos = 5

type SiteReport struct {
	ID          int           `json:"_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Progress    int           `json:"progress"`
	Status      string        `json:"status"`
	ReportedBy  *UserRef      `json:"reportedBy"`
	Date        time.Time     `json:"date"`
	Photos      []SitePhoto   `json:"photos"`
	Comments    []SiteComment `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type SitePhoto struct {
	ID      int    `json:"_id"`
	Key     string `json:"path"`
	Caption string `json:"caption,omitempty"`
}

type SiteComment struct {
	ID        int       `json:"_id"`
	Text      string    `json:"text"`
	Author    *UserRef  `json:"author"`
	CreatedAt time.Time `json:"timestamp"`
}

// SiteReportInput carries the text fields of a create or update form.
// Nil pointers mean "not supplied".
type SiteReportInput struct {
	Title       *string
	Description *string
	Location    *string
	Progress    *int
	Status      *string
}

type CommentRequest struct {
	Text string `json:"text"`
}
