package handlers

import (
	"net/http"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/privacy"
	"github.com/shrimpsizemoose/checkmark/internal/store"
)

type PrivacyHandler struct {
	service *app.Service
}

func NewPrivacyHandler(service *app.Service) *PrivacyHandler {
	return &PrivacyHandler{service: service}
}

type deletionResponse struct {
	Deleted map[string]int64 `json:"deleted"`
	Total   int64            `json:"total"`
}

func newDeletionResponse(res *store.DeletionResult) deletionResponse {
	return deletionResponse{Deleted: res.ByTable(), Total: res.Total()}
}

func (h *PrivacyHandler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.service.Provider.GetMetadata())
}

func (h *PrivacyHandler) HandleContextsForUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user")
	if !ok {
		http.Error(w, "Invalid user", http.StatusBadRequest)
		return
	}

	list, err := h.service.Provider.ContextsForUser(r.Context(), userID)
	if err != nil {
		logger.Error.Printf("Failed to get contexts for user %d: %v", userID, err)
		http.Error(w, "Failed to get contexts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"userid":   userID,
		"contexts": list.IDs(),
	})
}

func (h *PrivacyHandler) HandleUsersInContext(w http.ResponseWriter, r *http.Request) {
	contextID, ok := pathID(r, "context")
	if !ok {
		http.Error(w, "Invalid context", http.StatusBadRequest)
		return
	}

	list := privacy.NewUserList(contextID)
	if err := h.service.Provider.UsersInContext(r.Context(), list); err != nil {
		logger.Error.Printf("Failed to get users in context %d: %v", contextID, err)
		http.Error(w, "Failed to get users", http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"contextid": contextID,
		"users":     list.IDs(),
	})
}

func (h *PrivacyHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	var approved privacy.ApprovedContextList
	if err := decodeBody(h.service, r, &approved); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	doc, err := h.service.ExportUser(r.Context(), approved)
	if err != nil {
		logger.Error.Printf("Failed to export user %d: %v", approved.UserID, err)
		http.Error(w, "Failed to export user data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, doc.Document())
}

func (h *PrivacyHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user")
	if !ok {
		http.Error(w, "Invalid user", http.StatusBadRequest)
		return
	}

	doc := privacy.NewDocumentWriter()
	if err := h.service.Provider.ExportUserPreferences(r.Context(), userID, doc); err != nil {
		logger.Error.Printf("Failed to export preferences of user %d: %v", userID, err)
		http.Error(w, "Failed to export preferences", http.StatusInternalServerError)
		return
	}

	writeJSON(w, doc.Document().Preferences)
}

func (h *PrivacyHandler) HandleDeleteForUser(w http.ResponseWriter, r *http.Request) {
	var approved privacy.ApprovedContextList
	if err := decodeBody(h.service, r, &approved); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.Provider.DeleteDataForUser(r.Context(), approved)
	if err != nil {
		logger.Error.Printf("Failed to delete user %d: %v", approved.UserID, err)
		http.Error(w, "Failed to delete user data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, newDeletionResponse(res))
}

func (h *PrivacyHandler) HandleDeleteForUsers(w http.ResponseWriter, r *http.Request) {
	var approved privacy.ApprovedUserList
	if err := decodeBody(h.service, r, &approved); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	res, err := h.service.Provider.DeleteDataForUsers(r.Context(), approved)
	if err != nil {
		logger.Error.Printf("Failed to delete users from context %d: %v", approved.ContextID, err)
		http.Error(w, "Failed to delete users data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, newDeletionResponse(res))
}

func (h *PrivacyHandler) HandleDeleteContext(w http.ResponseWriter, r *http.Request) {
	contextID, ok := pathID(r, "context")
	if !ok {
		http.Error(w, "Invalid context", http.StatusBadRequest)
		return
	}

	res, err := h.service.Provider.DeleteDataForAllUsersInContext(r.Context(), contextID)
	if err != nil {
		logger.Error.Printf("Failed to purge context %d: %v", contextID, err)
		http.Error(w, "Failed to delete context data", http.StatusInternalServerError)
		return
	}

	writeJSON(w, newDeletionResponse(res))
}
