package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/models"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
	"github.com/gorilla/mux"
)

type JobsHandler struct {
	jobs   JobCatalog
	logger logging.Logger
}

func NewJobsHandler(jobs JobCatalog, logger logging.Logger) *JobsHandler {
	return &JobsHandler{jobs: jobs, logger: logger}
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var in services.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), identity, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, http.StatusCreated, "Job created", job)
}

func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	var in services.JobInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	job, err := h.jobs.Update(r.Context(), identity, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, "Job updated", job)
}

func (h *JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	if err := h.jobs.Delete(r.Context(), identity, mux.Vars(r)["id"]); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, "Job deleted", nil)
}

func (h *JobsHandler) Browse(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	q := r.URL.Query()
	result, err := h.jobs.Browse(r.Context(), identity, models.JobFilter{
		Title:       q.Get("title"),
		Location:    q.Get("location"),
		CompanyName: q.Get("company_name"),
		Page:        page,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, "Jobs list", result)
}
