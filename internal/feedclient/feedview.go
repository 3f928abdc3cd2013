package feedclient

import "context"

// FeedView holds the client-side state of the infinite feed: the merged
// entries, the page cursor and the in-flight guards. It is meant to be
// driven from a single goroutine (the UI loop); the boolean guards
// serialize refresh against load-more, they are not mutex substitutes.
type FeedView struct {
	client   *Client
	pageSize int

	games      []FeedGame
	page       int
	totalPages int
	loading    bool
	refreshing bool
}

func NewFeedView(client *Client, pageSize int) *FeedView {
	return &FeedView{client: client, pageSize: pageSize}
}

// Games returns the currently merged entries, newest first.
func (v *FeedView) Games() []FeedGame {
	return v.games
}

// HasMore reports whether another page exists beyond the last fetch.
func (v *FeedView) HasMore() bool {
	return v.page < v.totalPages
}

// Refreshing reports whether a pull-to-refresh is in flight.
func (v *FeedView) Refreshing() bool {
	return v.refreshing
}

// Loading reports whether a load-more fetch is in flight.
func (v *FeedView) Loading() bool {
	return v.loading
}

// Refresh replaces the whole result set from page one. A refresh while
// any fetch is in flight is a no-op.
func (v *FeedView) Refresh(ctx context.Context) error {
	if v.refreshing || v.loading {
		return nil
	}
	v.refreshing = true
	defer func() { v.refreshing = false }()

	fp, err := v.client.ListGames(ctx, 1, v.pageSize)
	if err != nil {
		return err
	}

	v.games = fp.Games
	v.page = fp.CurrentPage
	v.totalPages = fp.TotalPages
	return nil
}

// LoadMore fetches the next page and appends it, dropping entries whose
// id is already present. Concurrent creates can shift a game across page
// boundaries between fetches; the dedup keeps it from appearing twice.
func (v *FeedView) LoadMore(ctx context.Context) error {
	if !v.HasMore() || v.refreshing || v.loading {
		return nil
	}
	v.loading = true
	defer func() { v.loading = false }()

	fp, err := v.client.ListGames(ctx, v.page+1, v.pageSize)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(v.games))
	for _, g := range v.games {
		seen[g.ID] = true
	}
	for _, g := range fp.Games {
		if !seen[g.ID] {
			seen[g.ID] = true
			v.games = append(v.games, g)
		}
	}

	v.page = fp.CurrentPage
	v.totalPages = fp.TotalPages
	return nil
}

// Delete removes a game on the server, then drops it from the local
// state only after the server confirmed. A failed delete leaves the view
// untouched so the UI never shows a false success.
func (v *FeedView) Delete(ctx context.Context, id string) error {
	if err := v.client.DeleteGame(ctx, id); err != nil {
		return err
	}

	kept := v.games[:0]
	for _, g := range v.games {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	v.games = kept
	return nil
}
