package models

import (
	"fmt"
	"time"
)

// ApplicationStatus is the lifecycle state of an application. Applied is
// the initial state; companies may move an application to any state.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "Applied"
	StatusReviewed  ApplicationStatus = "Reviewed"
	StatusInterview ApplicationStatus = "Interview"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusHired     ApplicationStatus = "Hired"
)

// ParseApplicationStatus accepts exactly the five status names.
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch st := ApplicationStatus(s); st {
	case StatusApplied, StatusReviewed, StatusInterview, StatusRejected, StatusHired:
		return st, nil
	default:
		return "", fmt.Errorf("unknown application status %q", s)
	}
}

type Application struct {
	ID          string            `json:"id"`
	ApplicantID string            `json:"applicant_id"`
	JobID       string            `json:"job_id"`
	ResumeLink  string            `json:"resume_link"`
	CoverLetter *string           `json:"cover_letter"`
	Status      ApplicationStatus `json:"status"`
	AppliedAt   time.Time         `json:"applied_at"`
}

// ApplicationListing is an Application as shown to the applicant, with the
// job title and the owning company's name.
type ApplicationListing struct {
	Application
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
}

// ApplicationOwner is an application joined with the company that owns its job.
type ApplicationOwner struct {
	Application
	JobOwnerID string
}
