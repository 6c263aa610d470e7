package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
	"server/pkg/zip"
)

// ListResults returns the accumulated headshots for the caller, newest-first.
func (a *App) ListResults(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	results := ctrl.Results()
	if results == nil {
		results = []domain.Headshot{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": results})
}

// DownloadResult streams one headshot back as an attachment.
func (a *App) DownloadResult(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	id := chi.URLParam(r, "id")
	var target *domain.Headshot
	for _, h := range ctrl.Results() {
		if h.ID == id {
			shot := h
			target = &shot
			break
		}
	}
	if target == nil {
		a.error(w, http.StatusNotFound, "not_found", "result not found")
		return
	}

	attachment, err := ctrl.Download(r.Context(), target.URL, fmt.Sprintf("headshot-%s-%s", target.StyleID, target.ID))
	if err != nil {
		if errors.Is(err, domain.ErrDownload) {
			a.error(w, http.StatusBadGateway, "download_error", err.Error())
			return
		}
		a.error(w, http.StatusInternalServerError, "internal", "download failed")
		return
	}

	a.Metrics.DownloadsTotal.Inc()
	w.Header().Set("Content-Type", attachment.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", attachment.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(attachment.Data)
}

// DownloadAll bundles every accumulated headshot into one zip archive.
func (a *App) DownloadAll(w http.ResponseWriter, r *http.Request) {
	ctrl, user, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	results := ctrl.Results()
	if len(results) == 0 {
		a.error(w, http.StatusNotFound, "not_found", "no results to download")
		return
	}

	var entries []zip.Entry
	for _, shot := range results {
		attachment, err := ctrl.Download(r.Context(), shot.URL, "")
		if err != nil {
			a.Logger.Warn().Err(err).Str("id", shot.ID).Msg("handlers: skipping result in bundle")
			continue
		}
		entries = append(entries, zip.Entry{
			Name: fmt.Sprintf("%s-%s", shot.StyleID, shot.ID),
			MIME: attachment.MIME,
			Data: attachment.Data,
		})
	}
	if len(entries) == 0 {
		a.error(w, http.StatusBadGateway, "download_error", "no result could be fetched")
		return
	}

	archive, err := zip.Bundle(entries)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to build archive")
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=headshots-%s.zip", user.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// Reset discards the caller's candidate, style, and results.
func (a *App) Reset(w http.ResponseWriter, r *http.Request) {
	ctrl, _, ok := a.controller(r)
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	ctrl.Reset()
	a.json(w, http.StatusOK, map[string]string{"status": "reset"})
}
