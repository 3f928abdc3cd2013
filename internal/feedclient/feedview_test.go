package feedclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedViewRefreshAndLoadMore(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g3", "Game 3"), entry("g2", "Game 2"), entry("g1", "Game 1")}}
	client, _ := newTestClient(t, feed)
	view := NewFeedView(client, 2)

	require.NoError(t, view.Refresh(context.Background()))
	assert.Len(t, view.Games(), 2)
	assert.True(t, view.HasMore())
	assert.Equal(t, "Game 3", view.Games()[0].Title)

	require.NoError(t, view.LoadMore(context.Background()))
	assert.Len(t, view.Games(), 3)
	assert.False(t, view.HasMore())
	assert.Equal(t, "Game 1", view.Games()[2].Title)

	// nothing left; a further load-more never hits the server
	before := feed.requests
	require.NoError(t, view.LoadMore(context.Background()))
	assert.Equal(t, before, feed.requests)
}

func TestFeedViewDedupAcrossPages(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g3", "Game 3"), entry("g2", "Game 2"), entry("g1", "Game 1")}}
	client, _ := newTestClient(t, feed)
	view := NewFeedView(client, 2)

	require.NoError(t, view.Refresh(context.Background()))

	// a concurrent create shifts g2 onto page two between fetches
	feed.games = append([]FeedGame{entry("g4", "Game 4")}, feed.games...)

	require.NoError(t, view.LoadMore(context.Background()))

	ids := map[string]int{}
	for _, g := range view.Games() {
		ids[g.ID]++
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "id %s duplicated", id)
	}
	assert.Contains(t, ids, "g1")
}

func TestFeedViewRefreshReplaces(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g2", "Game 2"), entry("g1", "Game 1")}}
	client, _ := newTestClient(t, feed)
	view := NewFeedView(client, 2)

	require.NoError(t, view.Refresh(context.Background()))
	require.NoError(t, view.LoadMore(context.Background()))

	feed.games = []FeedGame{entry("g9", "Game 9")}

	require.NoError(t, view.Refresh(context.Background()))
	require.Len(t, view.Games(), 1)
	assert.Equal(t, "g9", view.Games()[0].ID)
	assert.False(t, view.HasMore())
}

func TestFeedViewGuardsBlockOverlappingFetches(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g1", "Game 1")}}
	client, _ := newTestClient(t, feed)
	view := NewFeedView(client, 2)

	require.NoError(t, view.Refresh(context.Background()))
	before := feed.requests

	view.loading = true
	assert.NoError(t, view.Refresh(context.Background()))
	assert.NoError(t, view.LoadMore(context.Background()))
	view.loading = false

	view.refreshing = true
	assert.NoError(t, view.Refresh(context.Background()))
	assert.NoError(t, view.LoadMore(context.Background()))
	view.refreshing = false

	assert.Equal(t, before, feed.requests)
}

func TestFeedViewDeleteConfirmedOnly(t *testing.T) {
	feed := &fakeFeed{games: []FeedGame{entry("g2", "Game 2"), entry("g1", "Game 1")}}
	feed.denyID = "g2"
	client, _ := newTestClient(t, feed)
	view := NewFeedView(client, 10)

	require.NoError(t, view.Refresh(context.Background()))
	require.Len(t, view.Games(), 2)

	// denied delete leaves the view untouched
	err := view.Delete(context.Background(), "g2")
	require.Error(t, err)
	assert.Len(t, view.Games(), 2)

	// confirmed delete removes locally
	require.NoError(t, view.Delete(context.Background(), "g1"))
	require.Len(t, view.Games(), 1)
	assert.Equal(t, "g2", view.Games()[0].ID)
}
