package handlers

import (
	"errors"
	"io"
	"net/http"

	"server/internal/domain"
)

// SubmitUpload accepts a multipart photo under the "photo" field and hands it
// to the workflow controller. Oversized files are rejected before the bytes
// leave the process.
func (a *App) SubmitUpload(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	// Allow a little slack over the limit so the controller can report the
	// oversize instead of the body reader truncating it silently.
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes+1<<20)
	file, header, err := r.FormFile("photo")
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "photo field is required")
		return
	}
	defer file.Close()

	if header.Size > a.Config.MaxUploadBytes {
		a.error(w, http.StatusRequestEntityTooLarge, "validation_failed", "file too large")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "failed to read photo")
		return
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}

	upload := domain.UploadCandidate{
		Name: header.Filename,
		MIME: mime,
		Size: header.Size,
		Data: data,
	}
	if err := ctrl.SubmitUpload(r.Context(), upload); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.error(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "failed to accept upload")
		return
	}

	a.Metrics.UploadsTotal.Inc()
	a.json(w, http.StatusCreated, map[string]any{
		"name": upload.Name,
		"mime": upload.MIME,
		"size": upload.Size,
	})
}

// UploadStatus reports the current candidate and its preview, if decoded.
func (a *App) UploadStatus(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	file, style := ctrl.Selected()
	resp := map[string]any{
		"style":      style,
		"generating": ctrl.Generating(),
	}
	if file != nil {
		resp["upload"] = map[string]any{"name": file.Name, "mime": file.MIME, "size": file.Size}
		if preview := ctrl.Preview(); preview != nil {
			resp["preview"] = map[string]int{"width": preview.Width, "height": preview.Height}
		}
	}
	a.json(w, http.StatusOK, resp)
}
