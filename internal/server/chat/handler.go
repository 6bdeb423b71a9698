package chat

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	chatmodel "github.com/alamin17ui/onimo-chat-auth-core/internal/model/chat"
	serverauth "github.com/alamin17ui/onimo-chat-auth-core/internal/server/auth"
	"github.com/alamin17ui/onimo-chat-auth-core/pkg/utils"
)

// Responder produces the assistant's answer for a submitted message.
type Responder interface {
	Reply(ctx context.Context, history []chatmodel.Exchange, message string) (string, error)
}

// Handler exposes the /chat endpoints.
type Handler struct {
	store     *Store
	accounts  *serverauth.Store
	responder Responder
}

// NewHandler creates the chat handler.
func NewHandler(store *Store, accounts *serverauth.Store, responder Responder) *Handler {
	return &Handler{store: store, accounts: accounts, responder: responder}
}

// RegisterRoutes registers the chat routes on the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat", h.handleList)
	r.Post("/chat", h.handleSubmit)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorize(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.store.List(user))
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	message := strings.TrimSpace(payload.Message)
	if message == "" {
		utils.RespondError(w, http.StatusBadRequest, "message is required")
		return
	}

	history := h.store.List(user)
	answer, err := h.responder.Reply(r.Context(), history, message)
	if err != nil {
		log.Printf("[chat] reply generation failed: %v", err)
		utils.RespondError(w, http.StatusBadGateway, "failed to generate a reply")
		return
	}

	exchange := h.store.Append(user, message, answer)
	utils.RespondJSON(w, http.StatusCreated, exchange)
}

// authorize resolves the bearer token to a user id, writing the error
// response itself when the token is missing or rejected.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, ok := serverauth.BearerToken(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}

	user, err := h.accounts.UserForToken(token)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "invalid token")
		return "", false
	}
	return user.ID, true
}
