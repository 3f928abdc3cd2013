package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/gameshelf/gameshelf-services/internal/feedsvc/models"
	"github.com/gameshelf/gameshelf-services/internal/feedsvc/service"
	log "github.com/sirupsen/logrus"
)

// UserGetter resolves the authenticated caller from the token claims.
type UserGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

type Handler struct {
	tokenAuth *jwtauth.JWTAuth
	feed      *service.FeedService
	users     UserGetter
}

func NewHandler(feed *service.FeedService, users UserGetter) *Handler {
	return &Handler{feed: feed, users: users}
}

// Response is the message envelope for confirmations and errors.
type Response struct {
	Message string `json:"message"`
}

type ctxKey int

const userCtxKey ctxKey = 0

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeMessage(w http.ResponseWriter, code int, msg string) {
	h.writeJSON(w, code, Response{Message: msg})
}

// writeError maps the service error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an opaque 500; the detail goes to the log only.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		h.writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		h.writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotFound):
		h.writeMessage(w, http.StatusNotFound, err.Error())
	default:
		log.Errorf("Error handling request %v", err)
		h.writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}

// RequireUser loads the caller's account from the user_id token claim and
// stores it on the request context. Runs after jwtauth has verified the
// token itself.
func (h *Handler) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			h.writeMessage(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		raw, _ := claims["user_id"].(string)
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.writeMessage(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		user, err := h.users.GetByID(r.Context(), id)
		if err != nil {
			log.Errorf("Error resolving user %s %v", raw, err)
			h.writeMessage(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		if user == nil {
			h.writeMessage(w, http.StatusUnauthorized, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), userCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userCtxKey).(*models.User)
	return user
}

func (h *Handler) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	in := service.CreateGameInput{}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	game, err := h.feed.CreateGame(r.Context(), user.ID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, game)
}

func (h *Handler) ListGamesHandler(w http.ResponseWriter, r *http.Request) {
	page := parseIntOrZero(r.URL.Query().Get("page"))
	limit := parseIntOrZero(r.URL.Query().Get("limit"))

	feedPage, err := h.feed.ListFeed(r.Context(), page, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, feedPage)
}

func (h *Handler) ListUserGamesHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	games, err := h.feed.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, games)
}

func (h *Handler) DeleteGameHandler(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	gameID := chi.URLParam(r, "id")

	if err := h.feed.DeleteGame(r.Context(), user.ID, gameID); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeMessage(w, http.StatusOK, "Game deleted successfully")
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.writeMessage(w, http.StatusOK, "feed service is running at port "+os.Getenv("FEED_SERVICE_PORT"))
}

// parseIntOrZero returns zero for absent or non-numeric values; the
// service substitutes its defaults for anything below one.
func parseIntOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
