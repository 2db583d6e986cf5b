package httpapi

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/dmitrijs2005/jobboard/internal/logging"
	"github.com/dmitrijs2005/jobboard/internal/server/services"
	"github.com/gorilla/mux"
)

// multipartOverhead is allowed on top of the resume itself for the other
// form parts and boundaries.
const multipartOverhead = 64 << 10

type ApplicationsHandler struct {
	applications   ApplicationWorkflow
	logger         logging.Logger
	maxResumeBytes int64
}

func NewApplicationsHandler(applications ApplicationWorkflow, logger logging.Logger, maxResumeBytes int64) *ApplicationsHandler {
	return &ApplicationsHandler{applications: applications, logger: logger, maxResumeBytes: maxResumeBytes}
}

// Apply accepts multipart/form-data with a "resume" file and an optional
// "cover_letter" field; the cover letter may also come as the "cover" query
// parameter.
func (h *ApplicationsHandler) Apply(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	resume, cover, err := h.readApplication(w, r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	app, err := h.applications.Apply(r.Context(), identity, mux.Vars(r)["job_id"], resume, cover)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, http.StatusCreated, "Application submitted", app)
}

func (h *ApplicationsHandler) readApplication(w http.ResponseWriter, r *http.Request) (services.Resume, *string, error) {
	limit := h.maxResumeBytes
	if limit <= 0 {
		limit = 5 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(limit + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Resume{}, nil, common.NewValidationError("resume is too large")
		}
		return services.Resume{}, nil, common.NewValidationError("expected multipart/form-data with a resume file")
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("resume")
	if err != nil {
		return services.Resume{}, nil, common.NewValidationError("resume file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return services.Resume{}, nil, common.NewValidationError("could not read resume file")
	}

	contentType := header.Header.Get("Content-Type")
	if _, _, err := mime.ParseMediaType(contentType); err != nil {
		contentType = ""
	}

	var cover *string
	if vals, ok := r.MultipartForm.Value["cover_letter"]; ok && len(vals) > 0 {
		cover = &vals[0]
	} else if q := r.URL.Query(); q.Has("cover") {
		c := q.Get("cover")
		cover = &c
	}

	return services.Resume{Filename: header.Filename, ContentType: contentType, Data: data}, cover, nil
}

func (h *ApplicationsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	page, err := parsePage(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	result, err := h.applications.ListMine(r.Context(), identity, page)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writePage(w, "My applications", result)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus takes the new status from the "new_status" query parameter or
// a JSON body {"status": ...}.
func (h *ApplicationsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	status := r.URL.Query().Get("new_status")
	if status == "" && strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req statusRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		status = req.Status
	}
	if status == "" {
		writeError(w, r, h.logger, common.NewValidationError("status is required"))
		return
	}

	app, err := h.applications.UpdateStatus(r.Context(), identity, mux.Vars(r)["id"], status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, "Status updated", app)
}
