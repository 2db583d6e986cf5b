package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
)

const maxJSONBody = 1 << 20

// AccountRegistry is the subset of services.AccountService used over HTTP.
type AccountRegistry interface {
	SignUp(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type JobCatalog interface {
	Create(ctx context.Context, company *models.Identity, in services.JobInput) (*models.Job, error)
	Update(ctx context.Context, company *models.Identity, jobID string, in services.JobInput) (*models.Job, error)
	Delete(ctx context.Context, company *models.Identity, jobID string) error
	Browse(ctx context.Context, applicant *models.Identity, filter models.JobFilter) (*models.Page[*models.JobListing], error)
}

type ApplicationWorkflow interface {
	Apply(ctx context.Context, applicant *models.Identity, jobID string, resume services.Resume, coverLetter *string) (*models.Application, error)
	ListMine(ctx context.Context, applicant *models.Identity, page models.PageRequest) (*models.Page[*models.ApplicationListing], error)
	UpdateStatus(ctx context.Context, company *models.Identity, applicationID, status string) (*models.Application, error)
}

// decodeJSON reads a JSON body of at most maxJSONBody bytes.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewValidationError("request body too large")
		}
		if errors.Is(err, io.EOF) {
			return common.NewValidationError("request body is empty")
		}
		return common.NewValidationError("invalid JSON body")
	}
	return nil
}

// parsePage reads page and size, defaulting to 1 and models.DefaultPageSize.
func parsePage(r *http.Request) (models.PageRequest, error) {
	q := r.URL.Query()
	p := models.PageRequest{Number: 1, Size: models.DefaultPageSize}
	v := common.NewValidationError()

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			v.Add("page must be an integer")
		} else {
			p.Number = n
		}
	}
	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			v.Add("size must be an integer")
		} else {
			p.Size = n
		}
	}
	if v.Empty() && !p.Valid() {
		if p.Number < 1 {
			v.Add("page must be >= 1")
		}
		if p.Size < 1 || p.Size > models.MaxPageSize {
			v.Add("size must be between 1 and " + strconv.Itoa(models.MaxPageSize))
		}
		if !p.OffsetFits() {
			v.Add("page is too large")
		}
	}
	return p, v.OrNil()
}

func writePage[T any](w http.ResponseWriter, message string, page *models.Page[T]) {
	writeJSON(w, http.StatusOK, PageResponse{
		Success:    true,
		Message:    message,
		Object:     page.Items,
		PageNumber: page.Number,
		PageSize:   page.Size,
		TotalSize:  page.Total,
	})
}
