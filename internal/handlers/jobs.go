package handlers

import (
	"context"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/doccheck/marketplace/internal/access"
	"github.com/doccheck/marketplace/internal/customerror"
	"github.com/doccheck/marketplace/internal/handlers/schemas"
	"github.com/doccheck/marketplace/internal/models"
	"github.com/go-chi/chi/v5"
)

// MaxUploadSize bounds a single document upload.
const MaxUploadSize = 50 << 20

type JobServiceI interface {
	CreateJob(ctx context.Context, caller access.Caller, draft *models.Job) (*models.Job, error)
	GetJob(ctx context.Context, caller access.Caller, id string) (*models.Job, error)
	UpdateJob(ctx context.Context, caller access.Caller, id string, patch models.JobPatch) (*models.Job, error)
	ListJobs(ctx context.Context, caller access.Caller) ([]models.Job, error)
	TransitionJob(ctx context.Context, caller access.Caller, id string, to models.JobStatus) (*models.Job, error)
	AssignReviewer(ctx context.Context, caller access.Caller, id, reviewerID string) (*models.Job, error)
	UploadFile(ctx context.Context, caller access.Caller, jobID string, file *models.JobFile, body []byte) (*models.JobFile, error)
	ListFiles(ctx context.Context, caller access.Caller, jobID string) ([]models.JobFile, error)
}

type JobsHandler struct {
	service JobServiceI
}

func NewJobsHandler(service JobServiceI) *JobsHandler {
	return &JobsHandler{service: service}
}

func (h *JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	jobs, err := h.service.ListJobs(r.Context(), caller)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (h *JobsHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.CreateJobRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.service.CreateJob(r.Context(), caller, req.ToJob())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, job)
}

func (h *JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	job, err := h.service.GetJob(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobsHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.UpdateJobRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.service.UpdateJob(r.Context(), caller, chi.URLParam(r, "id"), req.ToPatch())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobsHandler) Assign(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.AssignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	job, err := h.service.AssignReviewer(r.Context(), caller, chi.URLParam(r, "id"), req.ReviewerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobsHandler) Transition(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	var req schemas.TransitionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.Status.Valid() {
		writeError(w, r, customerror.NewFieldError("status", "unknown status"))
		return
	}

	job, err := h.service.TransitionJob(r.Context(), caller, chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// UploadFile accepts a multipart form with a "file" part. The optional
// "kind" field marks revised documents; anything else is the original.
func (h *JobsHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, schemas.ErrorResponse{Error: "file is too large"})
			return
		}
		writeError(w, r, customerror.NewFieldError("file", "invalid multipart form"))
		return
	}
	defer r.MultipartForm.RemoveAll()

	part, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, customerror.NewFieldError("file", "is required"))
		return
	}
	defer part.Close()

	body, err := io.ReadAll(part)
	if err != nil {
		writeError(w, r, customerror.NewFieldError("file", "could not be read"))
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if parsed, _, err := mime.ParseMediaType(mimeType); err == nil {
		mimeType = parsed
	} else {
		mimeType = http.DetectContentType(body)
	}

	file, err := h.service.UploadFile(r.Context(), caller, chi.URLParam(r, "id"), &models.JobFile{
		OriginalName: header.Filename,
		MimeType:     mimeType,
		IsOriginal:   r.FormValue("kind") != "revised",
	}, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, file)
}

func (h *JobsHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(r)
	if !ok {
		unauthorized(w)
		return
	}

	files, err := h.service.ListFiles(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, files)
}
