package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/iho/boglefolio/internal/adapter/http/dto"
	"github.com/iho/boglefolio/internal/infrastructure/metrics"
	"github.com/iho/boglefolio/internal/usecase"
)

// maxImportSize caps the accepted CSV payload at 32 MiB.
const maxImportSize = 32 << 20

// ImportService defines the behavior needed by ImportHandler.
type ImportService interface {
	ImportCSV(ctx context.Context, r io.Reader) (*usecase.ImportResult, error)
	ImportCSVAsync(r io.Reader) (string, error)
}

// ImportHandler handles CSV transaction imports.
type ImportHandler struct {
	importUC ImportService
}

// NewImportHandler creates a new ImportHandler.
func NewImportHandler(importUC ImportService) *ImportHandler {
	return &ImportHandler{importUC: importUC}
}

// Import runs a CSV import. The payload is either a multipart form with a
// "file" field or a raw CSV body. With ?async=true the import is queued and
// acknowledged with a job ID.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	body, cleanup, err := importPayload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid import payload", err.Error())
		return
	}
	defer cleanup()

	if r.URL.Query().Get("async") == "true" {
		jobID, err := h.importUC.ImportCSVAsync(body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to queue import", err.Error())
			return
		}

		metrics.ObserveImportJob("async")

		writeJSON(w, http.StatusAccepted, dto.ImportJobResponse{
			JobID:  jobID,
			Status: "accepted",
		})

		return
	}

	result, err := h.importUC.ImportCSV(r.Context(), body)

	metrics.ObserveImportJob("sync")
	if result != nil {
		metrics.ObserveImportResult(result)
	}

	if err != nil {
		if errors.Is(err, usecase.ErrNothingImported) {
			// Nothing landed, but the per-row diagnostics are still useful.
			writeJSON(w, http.StatusUnprocessableEntity, result)
			return
		}

		writeError(w, http.StatusInternalServerError, "import failed", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, result)
}

// importPayload resolves the CSV reader from the request, handling both
// multipart uploads and raw bodies.
func importPayload(r *http.Request) (io.Reader, func(), error) {
	noop := func() {}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return http.MaxBytesReader(nil, r.Body, maxImportSize), noop, nil
	}

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		return nil, noop, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, noop, err
	}

	return file, func() { file.Close() }, nil
}
