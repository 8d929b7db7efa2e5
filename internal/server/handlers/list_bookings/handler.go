package list_bookings

import (
	"net/http"
	"time"

	"github.com/julianstephens/slotbook/internal/constants"
	"github.com/julianstephens/slotbook/internal/logger"
	"github.com/julianstephens/slotbook/internal/server/handlers"
	"github.com/julianstephens/slotbook/internal/storage"
)

const msgInvalidDate = "invalid date, expected YYYY-MM-DD"

type Handler struct {
	store BookingStore
}

func NewHandler(store BookingStore) *Handler {
	return &Handler{store: store}
}

// Handle GET /api/bookings?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	filter := storage.Filter{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
	for _, d := range []string{filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(constants.DateFormat, d); err != nil {
			logger.Warn("GET /api/bookings - Invalid date", "date", d)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
	}

	bookings, err := h.store.ListBookings(r.Context(), filter)
	if err != nil {
		logger.Error("GET /api/bookings - Failed to list bookings", "error", err)
		handlers.RespondInternalError(w)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, bookings)
}
