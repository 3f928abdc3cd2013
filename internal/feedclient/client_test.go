package feedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFeed serves the feed API over a mutable newest-first slice so tests
// can inject concurrent creates between page fetches.
type fakeFeed struct {
	games    []FeedGame
	requests int
	denyID   string
}

func entry(id, title string) FeedGame {
	return FeedGame{
		ID:      id,
		Title:   title,
		Caption: "worth playing",
		Rating:  4,
		Image:   "https://res.cloudinary.com/demo/image/upload/v1/" + id + ".png",
		User: Owner{
			ID:           "owner1",
			Username:     "alice",
			ProfileImage: "https://avatars.test/alice.png",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func (f *fakeFeed) handler(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.requests++

		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Token is not valid"})
			return
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/games/user":
			owned := []Game{}
			for _, g := range f.games {
				owned = append(owned, Game{
					ID:      g.ID,
					Title:   g.Title,
					Caption: g.Caption,
					Rating:  g.Rating,
					Image:   g.Image,
					User:    g.User.ID,
				})
			}
			json.NewEncoder(w).Encode(owned)

		case r.Method == http.MethodGet && r.URL.Path == "/games":
			page, err := strconv.Atoi(r.URL.Query().Get("page"))
			if err != nil || page < 1 {
				page = 1
			}
			limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
			if err != nil || limit < 1 {
				limit = 2
			}

			total := len(f.games)
			start := (page - 1) * limit
			if start > total {
				start = total
			}
			end := start + limit
			if end > total {
				end = total
			}

			json.NewEncoder(w).Encode(FeedPage{
				Games:       f.games[start:end],
				CurrentPage: page,
				TotalGames:  int64(total),
				TotalPages:  (total + limit - 1) / limit,
			})

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/games/"):
			id := strings.TrimPrefix(r.URL.Path, "/games/")
			if id == f.denyID {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"message": "not the owner of this game"})
				return
			}
			for i, g := range f.games {
				if g.ID == id {
					f.games = append(f.games[:i], f.games[i+1:]...)
					json.NewEncoder(w).Encode(map[string]string{"message": "Game deleted successfully"})
					return
				}
			}
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "game not found"})

		case r.Method == http.MethodPost && r.URL.Path == "/games":
			in := CreateGameInput{}
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"message": "invalid request body"})
				return
			}
			created := entry(fmt.Sprintf("g%d", len(f.games)+1), in.Title)
			f.games = append([]FeedGame{created}, f.games...)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(Game{
				ID:      created.ID,
				Title:   created.Title,
				Caption: created.Caption,
				Rating:  created.Rating,
				Image:   created.Image,
				User:    created.User.ID,
			})

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "no route"})
		}
	})
}

func newTestClient(t *testing.T, feed *fakeFeed) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(feed.handler(t))
	t.Cleanup(server.Close)

	client := NewClient(Session{BaseURL: server.URL, Token: "test-token"})
	return client, server
}

func TestListGames(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g3", "Game 3"), entry("g2", "Game 2"), entry("g1", "Game 1")}}
	client, _ := newTestClient(t, feed)

	page, err := client.ListGames(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, int64(3), page.TotalGames)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Games, 2)
	assert.Equal(t, "Game 3", page.Games[0].Title)
	assert.Equal(t, "alice", page.Games[0].User.Username)
}

func TestMissingTokenIsAPIError(t *testing.T) {
	feed := &fakeFeed{}
	server := httptest.NewServer(feed.handler(t))
	t.Cleanup(server.Close)

	client := NewClient(Session{BaseURL: server.URL})
	_, err := client.ListGames(context.Background(), 1, 2)

	apiErr := &APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Token is not valid", apiErr.Message)
}

func TestCreateGame(t *testing.T) {
	feed := &fakeFeed{}
	client, _ := newTestClient(t, feed)

	game, err := client.CreateGame(context.Background(), CreateGameInput{
		Title:   "Celeste",
		Caption: "worth playing",
		Rating:  5,
		Image:   "data:image/png;base64,aGVsbG8=",
	})
	require.NoError(t, err)
	assert.Equal(t, "Celeste", game.Title)
	assert.NotEmpty(t, game.ID)
}

func TestListUserGames(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g2", "Game 2"), entry("g1", "Game 1")}}
	client, _ := newTestClient(t, feed)

	games, err := client.ListUserGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "owner1", games[0].User)
}

func TestDeleteGameNotFound(t *testing.T) {
	feed := &fakeFeed{}
	client, _ := newTestClient(t, feed)

	err := client.DeleteGame(context.Background(), "missing")

	apiErr := &APIError{}
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
