// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avo-labs/conversation-logger/internal/middleware"
	"github.com/avo-labs/conversation-logger/internal/model"
	"github.com/avo-labs/conversation-logger/internal/service"
	"github.com/avo-labs/conversation-logger/internal/store"
	"github.com/avo-labs/conversation-logger/pkg/logger"
)

// ConversationHandler handles conversation record endpoints.
type ConversationHandler struct {
	service         *service.ConversationService
	logger          *logger.Logger
	subjectRequired bool
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc *service.ConversationService, log *logger.Logger, subjectRequired bool) *ConversationHandler {
	return &ConversationHandler{
		service:         svc,
		logger:          log,
		subjectRequired: subjectRequired,
	}
}

// Create handles POST /save-conversation
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := middleware.ValidateUserName(req.UserName); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := middleware.ValidateConversation(req.Conversation); err != nil {
		writeValidationError(w, err)
		return
	}
	if req.Subject != nil {
		if err := middleware.ValidateSubject(*req.Subject); err != nil {
			writeValidationError(w, err)
			return
		}
	}

	resp, err := h.service.Save(r.Context(), &req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save conversation")
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.ListFilter{}

	subject, err := h.subjectParam(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	filter.Subject = subject

	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := middleware.ParseDay(raw)
		if err != nil {
			writeValidationError(w, err)
			return
		}
		filter.Day = &day
	}

	if raw := r.URL.Query().Get("user_name"); raw != "" {
		if err := middleware.ValidateUserName(raw); err != nil {
			writeValidationError(w, err)
			return
		}
		filter.UserName = &raw
	}

	filter.Limit, err = middleware.ParseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		writeValidationError(w, err)
		return
	}
	filter.Offset, err = middleware.ParseOffset(r.URL.Query().Get("offset"))
	if err != nil {
		writeValidationError(w, err)
		return
	}

	resp, err := h.service.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get handles GET /conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, err)
		return
	}
	subject, err := h.subjectParam(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	detail, err := h.service.Get(r.Context(), id, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// Export handles GET /conversations/{id}/export.txt
func (h *ConversationHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := middleware.ParseRecordID(chi.URLParam(r, "id"))
	if err != nil {
		writeValidationError(w, err)
		return
	}
	subject, err := h.subjectParam(r)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	text, err := h.service.Export(r.Context(), id, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to export conversation")
		return
	}

	writeText(w, http.StatusOK, text)
}

// subjectParam resolves the sujet query parameter. It is mandatory when the
// subject-scoped schema variant is enabled and optional otherwise.
func (h *ConversationHandler) subjectParam(r *http.Request) (*string, error) {
	raw := r.URL.Query().Get("sujet")
	if raw == "" {
		if h.subjectRequired {
			return nil, &middleware.FieldError{Field: "sujet", Reason: "is required"}
		}
		return nil, nil
	}
	if err := middleware.ValidateSubject(raw); err != nil {
		return nil, err
	}
	return &raw, nil
}
