package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/naveensalgaonker/youtubeVideoHelper/internal/export"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/middleware"
	"github.com/naveensalgaonker/youtubeVideoHelper/internal/services"
)

type ExportHandler struct {
	videoService *services.VideoService
}

func NewExportHandler(videoService *services.VideoService) *ExportHandler {
	return &ExportHandler{videoService: videoService}
}

// Export streams the caller's library as a download in the requested
// format (txt, csv or json).
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	if !export.ValidFormat(format) {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Format must be txt, csv or json", r))
		return
	}

	userID := middleware.GetUserID(r.Context())
	items, details, err := h.videoService.ExportData(r.Context(), &userID, r.URL.Query().Get("category"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	now := time.Now()
	w.Header().Set("Content-Type", export.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(format, now)))
	export.Write(w, format, items, details, now)
}
