package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "pocketchat/internal/errors"
	"pocketchat/internal/interfaces"
	"pocketchat/internal/service"
)

// ChatHandler serves the session, chat history and settings endpoints.
type ChatHandler struct {
	session  interfaces.SessionService
	settings interfaces.SettingsService
}

func NewChatHandler(session interfaces.SessionService, settings interfaces.SettingsService) *ChatHandler {
	return &ChatHandler{session: session, settings: settings}
}

func (h *ChatHandler) sessionResponse() SessionResponse {
	return SessionResponse{Chat: toChatDTO(h.session.Current()), Awaiting: h.session.Awaiting()}
}

// GetSession godoc
// @Summary      Get the current session
// @Description  Returns the current chat and whether a reply is pending.
// @Tags         Session
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Router       /v1/session [get]
func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.sessionResponse())
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Appends the content to the current chat and waits for the assistant reply. Completion failures are returned as an assistant message.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        message  body      SendMessageRequest  true  "User input"
// @Success      200      {object}  SessionResponse
// @Failure      400      {object}  ErrorResponse
// @Failure      409      {object}  ErrorResponse
// @Failure      500      {object}  ErrorResponse
// @Router       /v1/session/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	// The session rejects a send while a reply is pending, which maps to 409.
	if err := h.session.SendMessage(r.Context(), req.Content); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionResponse())
}

// SetModel godoc
// @Summary      Select the model
// @Description  Sets the model used for the current chat.
// @Tags         Session
// @Accept       json
// @Produce      json
// @Param        model  body      SetModelRequest  true  "Model name"
// @Success      200    {object}  SessionResponse
// @Failure      400    {object}  ErrorResponse
// @Router       /v1/session/model [put]
func (h *ChatHandler) SetModel(w http.ResponseWriter, r *http.Request) {
	var req SetModelRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.session.SetModel(r.Context(), req.Model); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionResponse())
}

// GetChats godoc
// @Summary      List chats
// @Description  Returns all chats, most recently touched first.
// @Tags         Chats
// @Produce      json
// @Success      200  {array}   ChatSummary
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/chats [get]
func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.session.ListChats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	currentID := ""
	if current := h.session.Current(); current != nil {
		currentID = current.ID
	}
	respondWithJSON(w, http.StatusOK, toChatSummaries(chats, currentID))
}

// CreateChat godoc
// @Summary      Start a new chat
// @Description  Creates an empty chat and makes it current.
// @Tags         Chats
// @Produce      json
// @Success      201  {object}  ChatDTO
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/chats [post]
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.session.CreateNewChat(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, toChatDTO(chat))
}

// ClearChats godoc
// @Summary      Delete all chats
// @Description  Destroys the whole history and starts a new empty chat.
// @Tags         Chats
// @Produce      json
// @Success      200  {object}  SessionResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/chats [delete]
func (h *ChatHandler) ClearChats(w http.ResponseWriter, r *http.Request) {
	if err := h.session.ClearAll(r.Context()); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionResponse())
}

// GetChat godoc
// @Summary      Get a chat
// @Tags         Chats
// @Produce      json
// @Param        chatID  path      string  true  "Chat ID"
// @Success      200     {object}  ChatDTO
// @Failure      404     {object}  ErrorResponse
// @Router       /v1/chats/{chatID} [get]
func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.session.GetChat(r.Context(), chi.URLParam(r, "chatID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, toChatDTO(chat))
}

// OpenChat godoc
// @Summary      Open a chat
// @Description  Makes the chat current.
// @Tags         Chats
// @Produce      json
// @Param        chatID  path      string  true  "Chat ID"
// @Success      200     {object}  SessionResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /v1/chats/{chatID}/open [post]
func (h *ChatHandler) OpenChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	found, err := h.session.OpenChat(r.Context(), chatID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if !found {
		respondWithError(w, fmt.Errorf("chat %s: %w", chatID, app_errors.ErrNotFound))
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionResponse())
}

// UpdateChatTitle godoc
// @Summary      Rename a chat
// @Tags         Chats
// @Accept       json
// @Produce      json
// @Param        chatID  path      string              true  "Chat ID"
// @Param        title   body      UpdateTitleRequest  true  "New title"
// @Success      200     {object}  StatusResponse
// @Failure      400     {object}  ErrorResponse
// @Router       /v1/chats/{chatID}/title [put]
func (h *ChatHandler) UpdateChatTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	if err := h.session.RenameChat(r.Context(), chi.URLParam(r, "chatID"), req.Title); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// DeleteChat godoc
// @Summary      Delete a chat
// @Description  Deleting the current chat opens the most recent remaining one, or a new chat.
// @Tags         Chats
// @Produce      json
// @Param        chatID  path      string  true  "Chat ID"
// @Success      200     {object}  SessionResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /v1/chats/{chatID} [delete]
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := h.session.DeleteChat(r.Context(), chi.URLParam(r, "chatID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.sessionResponse())
}

// GetSettings godoc
// @Summary      Get settings
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.Settings
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings [get]
func (h *ChatHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary      Update settings
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body      SettingsRequest  true  "New settings"
// @Success      200       {object}  StatusResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /v1/settings [post]
func (h *ChatHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, err)
		return
	}
	settings := &service.Settings{SystemPrompt: req.SystemPrompt, DefaultModel: req.DefaultModel}
	if err := h.settings.Save(r.Context(), settings); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
