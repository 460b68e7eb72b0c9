// Package httpx provides the HTTP surface of the inventory import API.
package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/drivelot/inventory-api/internal/domain/model"
	apperrors "github.com/drivelot/inventory-api/internal/errors"
	"github.com/drivelot/inventory-api/internal/service"
)

// ImportHandlers provides HTTP handlers for import job operations.
type ImportHandlers struct {
	Svc *service.ImportService
}

type createImportRequest struct {
	FileName string `json:"file_name"`
}

type createImportResponse struct {
	Job    *model.ImportJob      `json:"job"`
	Upload *service.UploadTarget `json:"upload"`
}

// CreateImport opens a new import attempt and returns the presigned upload
// destination.
func (h *ImportHandlers) CreateImport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerID(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Validation("owner identity is required"))
		return
	}

	var req createImportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, target, err := h.Svc.CreateImportJob(r.Context(), &model.CreateImportJobRequest{
		OwnerID:   ownerID,
		CreatedBy: ownerID,
		FileName:  req.FileName,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, createImportResponse{Job: job, Upload: target})
}

// ConfirmUpload marks the byte transfer finished and wakes the parser.
func (h *ImportHandlers) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwnedJob(w, r)
	if !ok {
		return
	}

	updated, err := h.Svc.ConfirmUpload(r.Context(), job.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, updated)
}

// GetImport returns a job snapshot. With ?wait=<seconds> it long-polls: the
// response is the first snapshot that supersedes the client's ?seen=<status>,
// or the current one when the wait lapses.
func (h *ImportHandlers) GetImport(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwnedJob(w, r)
	if !ok {
		return
	}

	wait := parseIntQuery(r, "wait", 0)
	seen := model.ImportStatus(r.URL.Query().Get("seen"))
	if wait <= 0 || job.Status != seen || job.Status.Terminal() {
		WriteJSON(w, http.StatusOK, job)
		return
	}
	h.longPollJob(w, r, job, time.Duration(wait)*time.Second)
}

func (h *ImportHandlers) longPollJob(
	w http.ResponseWriter,
	r *http.Request,
	job *model.ImportJob,
	wait time.Duration,
) {
	if wait > time.Minute {
		wait = time.Minute
	}
	ctx, cancel := context.WithTimeout(r.Context(), wait)
	defer cancel()

	watch, err := h.Svc.ObserveJob(ctx, job.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	defer watch.Stop()

	latest := job
	for {
		select {
		case <-ctx.Done():
			WriteJSON(w, http.StatusOK, latest)
			return
		case snapshot, open := <-watch.Updates:
			if !open {
				WriteJSON(w, http.StatusOK, latest)
				return
			}
			latest = snapshot
			if snapshot.Status != job.Status || snapshot.Status.Terminal() {
				WriteJSON(w, http.StatusOK, snapshot)
				return
			}
		}
	}
}

// GetPreview returns the parsed preview rows of a job.
func (h *ImportHandlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwnedJob(w, r)
	if !ok {
		return
	}

	rows, err := h.Svc.LoadPreviewRows(r.Context(), job.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"job_id":  job.ID,
		"status":  job.Status,
		"summary": job.Summary,
		"rows":    rows,
	})
}

// Commit accepts the preview. Exactly one concurrent commit wins; losers get
// a conflict with no state change.
func (h *ImportHandlers) Commit(w http.ResponseWriter, r *http.Request) {
	job, ok := h.loadOwnedJob(w, r)
	if !ok {
		return
	}

	committed, err := h.Svc.CommitImport(r.Context(), job.ID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, committed)
}

// ListImports returns the owner's import history.
func (h *ImportHandlers) ListImports(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerID(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Validation("owner identity is required"))
		return
	}

	jobs, err := h.Svc.ListJobs(r.Context(), model.ImportJobListOptions{
		OwnerID: ownerID,
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if jobs == nil {
		jobs = []*model.ImportJob{}
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// loadOwnedJob fetches the path job and enforces owner scoping. Jobs of other
// owners read as not found, never as forbidden.
func (h *ImportHandlers) loadOwnedJob(w http.ResponseWriter, r *http.Request) (*model.ImportJob, bool) {
	ownerID, ok := OwnerID(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Validation("owner identity is required"))
		return nil, false
	}

	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("job id is required"),
		})
		return nil, false
	}

	job, err := h.Svc.GetJob(r.Context(), jobID)
	if err != nil {
		WriteAppError(w, err)
		return nil, false
	}
	if job.OwnerID != ownerID {
		WriteAppError(w, apperrors.NotFound("import job"))
		return nil, false
	}
	return job, true
}
