package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"electric-backend/internal/errs"
	"electric-backend/internal/middleware"
	"electric-backend/internal/models"
	"electric-backend/internal/services"
	"electric-backend/pkg/utils"
)

type ChatHandler struct {
	Service *services.ChatService
}

func NewChatHandler(s *services.ChatService) *ChatHandler {
	return &ChatHandler{Service: s}
}

func pathUserID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.ErrNotFound
	}
	return id, nil
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req models.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	senderID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	msg, err := h.Service.Send(r.Context(), senderID, role, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusCreated, "Message sent", map[string]interface{}{
		"data": msg,
	})
}

// Thread returns up to 100 latest messages with a counterpart, oldest first.
// Fetching marks their messages to the viewer as read.
func (h *ChatHandler) Thread(w http.ResponseWriter, r *http.Request) {
	otherID, err := pathUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	msgs, other, err := h.Service.Thread(r.Context(), viewerID, role, otherID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{
		"data":      msgs,
		"otherUser": other,
	})
}

func (h *ChatHandler) Conversations(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	convs, err := h.Service.Conversations(r.Context(), viewerID, role)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{"data": convs})
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	otherID, err := pathUserID(r)
	if err != nil {
		utils.Error(w, err)
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	updated, err := h.Service.MarkRead(r.Context(), viewerID, otherID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "Messages marked as read", map[string]interface{}{
		"updated": updated,
	})
}

func (h *ChatHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	count, err := h.Service.UnreadCount(r.Context(), viewerID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.Success(w, http.StatusOK, "", map[string]interface{}{"unreadCount": count})
}
