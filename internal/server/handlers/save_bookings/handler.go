package save_bookings

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/metrics"
	"github.com/julianstephens/slotbook/internal/server/handlers"
	"github.com/julianstephens/slotbook/internal/submit"
)

type Handler struct {
	store    BookingStore
	recorder SaveRecorder
	newID    func() string
}

func NewHandler(store BookingStore, recorder SaveRecorder) *Handler {
	return &Handler{
		store:    store,
		recorder: recorder,
		newID:    uuid.NewString,
	}
}

// Handle POST /api/save
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var entries []submit.Entry
	if err := handlers.DecodeJSON(r, &entries); err != nil {
		logger.Warn("POST /api/save - Invalid request body", "error", err)
		h.reject(w, http.StatusBadRequest, metrics.ResultRejected)
		return
	}
	if len(entries) == 0 {
		logger.Warn("POST /api/save - Empty booking list")
		h.reject(w, http.StatusBadRequest, metrics.ResultRejected)
		return
	}

	batchID := h.newID()
	if err := h.store.SaveBookings(r.Context(), batchID, toBookings(batchID, entries)); err != nil {
		logger.Error("POST /api/save - Failed to save bookings", "batch", batchID, "count", len(entries), "error", err)
		h.reject(w, http.StatusInternalServerError, metrics.ResultFailed)
		return
	}

	if h.recorder != nil {
		h.recorder.ObserveSave(metrics.ResultSaved, len(entries))
	}
	logger.Info("POST /api/save - Bookings saved", "batch", batchID, "count", len(entries))
	handlers.RespondJSON(w, http.StatusOK, SaveResponse{Success: true})
}

func (h *Handler) reject(w http.ResponseWriter, status int, result string) {
	if h.recorder != nil {
		h.recorder.ObserveSave(result, 0)
	}
	handlers.RespondJSON(w, status, SaveResponse{Success: false})
}
