package models

import "time"

// Job is a posting owned by the company account in CreatedBy.
type Job struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    *string   `json:"location"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// JobListing is a Job as shown to applicants browsing the catalog,
// together with the owning company's display name.
type JobListing struct {
	Job
	CompanyName string `json:"company_name"`
}

// JobFilter selects a page of the catalog. Empty strings disable a filter.
type JobFilter struct {
	Title       string
	Location    string
	CompanyName string
	Page        PageRequest
}
