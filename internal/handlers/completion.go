package handlers

import (
	"errors"
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/app"
)

type CompletionHandler struct {
	service *app.Service
}

func NewCompletionHandler(service *app.Service) *CompletionHandler {
	return &CompletionHandler{service: service}
}

func (h *CompletionHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	checkmarkID, ok := pathID(r, "checkmark")
	if !ok {
		http.Error(w, "Invalid checkmark", http.StatusBadRequest)
		return
	}
	userID, ok := pathID(r, "user")
	if !ok {
		http.Error(w, "Invalid user", http.StatusBadRequest)
		return
	}

	report, err := h.service.Completion(r.Context(), checkmarkID, userID)
	if errors.Is(err, app.ErrNotFound) {
		http.Error(w, "Checkmark not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error.Printf("Failed to evaluate completion of checkmark %d: %v", checkmarkID, err)
		http.Error(w, "Failed to evaluate completion", http.StatusInternalServerError)
		return
	}

	writeJSON(w, report)
}
