package feedclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Session carries the base API URL and the caller's bearer token. It is
// injected into the client so no token ever lives in package state.
type Session struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// Client is a typed consumer of the feed service API.
type Client struct {
	session Session
	http    *http.Client
}

func NewClient(session Session) *Client {
	httpClient := session.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{session: session, http: httpClient}
}

// Game is a recommendation as returned by the per-owner listing, where
// the user field is the owner's id.
type Game struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Rating    int       `json:"rating"`
	Image     string    `json:"image"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// Owner is the joined user detail on feed entries.
type Owner struct {
	ID           string `json:"_id"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage"`
}

// FeedGame is a feed entry with its owner populated.
type FeedGame struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Caption   string    `json:"caption"`
	Rating    int       `json:"rating"`
	Image     string    `json:"image"`
	User      Owner     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedPage is one page of the global feed plus pagination metadata.
type FeedPage struct {
	Games       []FeedGame `json:"games"`
	CurrentPage int        `json:"currentPage"`
	TotalGames  int64      `json:"totalGames"`
	TotalPages  int        `json:"totalPages"`
}

type CreateGameInput struct {
	Title   string `json:"title"`
	Caption string `json:"caption"`
	Rating  int    `json:"rating"`
	Image   string `json:"image"`
}

// APIError carries the server's status code and message for non-2xx
// responses.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		buf = bytes.NewBuffer(data)
	} else {
		buf = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.session.BaseURL+path, buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do runs the request and decodes the response into out. Non-2xx bodies
// are decoded for their message and returned as *APIError.
func (c *Client) do(req *http.Request, out interface{}) error {
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode, Message: "request failed"}
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Message != "" {
			apiErr.Message = body.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

// CreateGame submits a new recommendation. The image is the base64 data
// URI of the picked picture.
func (c *Client) CreateGame(ctx context.Context, in CreateGameInput) (*Game, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/games", in)
	if err != nil {
		return nil, err
	}

	game := &Game{}
	if err := c.do(req, game); err != nil {
		return nil, err
	}
	return game, nil
}

// ListGames fetches one feed page.
func (c *Client) ListGames(ctx context.Context, page, limit int) (*FeedPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	req, err := c.newRequest(ctx, http.MethodGet, "/games?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	fp := &FeedPage{}
	if err := c.do(req, fp); err != nil {
		return nil, err
	}
	return fp, nil
}

// ListUserGames fetches every game the session's user created.
func (c *Client) ListUserGames(ctx context.Context) ([]Game, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/games/user", nil)
	if err != nil {
		return nil, err
	}

	games := []Game{}
	if err := c.do(req, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// DeleteGame deletes a game owned by the session's user.
func (c *Client) DeleteGame(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/games/"+id, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}
