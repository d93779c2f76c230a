// File: internal/handlers/chat_handler.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lightchat/lightchat/internal/middleware"
	"github.com/yuin/goldmark"

	"github.com/lightchat/lightchat/internal/domain"
	chatrepo "github.com/lightchat/lightchat/internal/repository/chat"
	messagerepo "github.com/lightchat/lightchat/internal/repository/message"
	"github.com/lightchat/lightchat/internal/services/chatting"
)

const streamPollInterval = 300 * time.Millisecond

type ChatHandler struct {
	chatRepo        chatrepo.ChatRepository
	messageRepo     messagerepo.MessageRepository
	chattingService *chatting.Service
}

func NewChatHandler(chatRepo chatrepo.ChatRepository, messageRepo messagerepo.MessageRepository, chattingService *chatting.Service) *ChatHandler {
	return &ChatHandler{
		chatRepo:        chatRepo,
		messageRepo:     messageRepo,
		chattingService: chattingService,
	}
}

// CreateChat handles the request to start a new conversation thread.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req domain.Chat
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}
	req.ID = 0
	req.UserID = userID
	if req.Model == "" {
		req.Model = h.chattingService.DefaultModel()
	}
	if req.Temperature == "" {
		req.Temperature = domain.TemperatureBalanced
	}

	chat, err := h.chatRepo.Create(r.Context(), &req)
	if err != nil {
		writeError(w, "Could not create chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, chat)
}

// GetUserChats handles the request to retrieve all chat threads for a user.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	chats, err := h.chatRepo.FindByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, "Could not retrieve chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// GetChatMessages retrieves a chat's messages. Finalized assistant content
// is additionally rendered from markdown to HTML for display.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	messages, err := h.messageRepo.FindByChatID(r.Context(), chat.ID)
	if err != nil {
		writeError(w, "Could not retrieve messages", http.StatusInternalServerError)
		return
	}

	type renderedMessage struct {
		domain.Message
		HTML string `json:"html,omitempty"`
	}
	out := make([]renderedMessage, 0, len(messages))
	for _, m := range messages {
		rendered := renderedMessage{Message: m}
		if m.Role == domain.RoleAssistant && !m.Receiving && m.Content != "" {
			rendered.HTML = renderMarkdown(m.Content)
		}
		out = append(out, rendered)
	}
	writeJSON(w, http.StatusOK, out)
}

// DeleteChat removes a chat and its messages.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	if err := h.messageRepo.DeleteByChatID(r.Context(), chat.ID); err != nil {
		writeError(w, "Could not delete messages", http.StatusInternalServerError)
		return
	}
	if err := h.chatRepo.Delete(r.Context(), chat.ID); err != nil {
		writeError(w, "Could not delete chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SendMessage issues a blocking exchange and returns the assistant message.
// A failed attempt is discarded entirely; the error surfaces as a one-shot
// alert on the client.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	assistant, err := h.chattingService.Send(r.Context(), chat.ID, req.Message)
	if err != nil {
		writeError(w, "Error processing chat: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, assistant)
}

// StreamMessage starts a detached streaming exchange and relays the
// receiving message's progress as server-sent events. Closing the browser
// connection stops the relay only; the underlying exchange keeps running
// and persisting.
func (h *ChatHandler) StreamMessage(w http.ResponseWriter, r *http.Request) {
	chat, ok := h.ownedChat(w, r)
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	receiving, err := h.chattingService.SendWithStream(r.Context(), chat.ID, req.Message, false)
	if err != nil {
		writeError(w, "Error processing chat: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.relayReceiving(w, r, receiving.ID)
}

// ResendMessage clears a failed assistant message and retries it in place,
// relaying progress the same way as a fresh stream.
func (h *ChatHandler) ResendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	messageID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	target, err := h.messageRepo.FindByID(r.Context(), uint(messageID))
	if err != nil {
		writeError(w, "Message not found", http.StatusNotFound)
		return
	}
	chat, err := h.chatRepo.FindByID(r.Context(), target.ChatID)
	if err != nil || chat.UserID != userID {
		writeError(w, "Unauthorized", http.StatusForbidden)
		return
	}

	receiving, err := h.chattingService.ResendWithStream(r.Context(), uint(messageID), false)
	if err != nil {
		writeError(w, "Error processing resend: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.relayReceiving(w, r, receiving.ID)
}

// ListModels returns every model identifier served by the configured
// adapters.
func (h *ChatHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"models":  h.chattingService.Models(),
		"default": h.chattingService.DefaultModel(),
	})
}

// ValidateSettings probes a vendor's configured credentials. The result is
// shown inline at the settings form and never persisted.
func (h *ChatHandler) ValidateSettings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Vendor string `json:"vendor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Vendor == "" {
		writeError(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.chattingService.ValidateAdapter(r.Context(), req.Vendor); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"valid": true})
}

// relayReceiving polls the receiving message and emits SSE frames until it
// reaches a terminal state or the client goes away.
func (h *ChatHandler) relayReceiving(w http.ResponseWriter, r *http.Request, messageID uint) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(streamPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			current, err := h.messageRepo.FindByID(r.Context(), messageID)
			if err != nil {
				return
			}

			payload, _ := json.Marshal(map[string]interface{}{
				"id":            current.ID,
				"content":       current.Content,
				"receiving":     current.Receiving,
				"failed_reason": current.FailedReason,
			})
			if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
				return
			}
			flusher.Flush()

			if !current.Receiving {
				_, _ = w.Write([]byte("data: [DONE]\n\n"))
				flusher.Flush()
				return
			}
		}
	}
}

// ownedChat loads the chat from the route and checks ownership.
func (h *ChatHandler) ownedChat(w http.ResponseWriter, r *http.Request) (*domain.Chat, bool) {
	userID, ok := r.Context().Value(middleware.UserIDKey).(uint)
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	vars := mux.Vars(r)
	chatID, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return nil, false
	}

	chat, err := h.chatRepo.FindByID(r.Context(), uint(chatID))
	if err != nil {
		writeError(w, "Chat not found", http.StatusNotFound)
		return nil, false
	}
	if chat.UserID != userID {
		writeError(w, "Unauthorized", http.StatusForbidden)
		return nil, false
	}
	return chat, true
}

func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
