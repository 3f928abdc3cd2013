package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gameshelf/gameshelf-services/internal/feedsvc/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	log "github.com/sirupsen/logrus"
)

const DefaultPageLimit = 2

// GameStore is the persistence surface FeedService needs for games.
type GameStore interface {
	Insert(ctx context.Context, game *models.Game) (*models.Game, error)
	FindPage(ctx context.Context, skip, limit int64) ([]models.Game, error)
	Count(ctx context.Context) (int64, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Game, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Game, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// UserStore resolves owners for feed enrichment.
type UserStore interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// MediaStore is the external media host. Upload takes the raw client
// payload (a base64 data URI) and returns the persistent delivery URL.
type MediaStore interface {
	Upload(ctx context.Context, payload string) (string, error)
	Destroy(ctx context.Context, publicID string) error
	Managed(url string) bool
	PublicID(url string) string
}

// EventPublisher receives game lifecycle notifications. Publishing is
// best-effort; implementations must not block the request path.
type EventPublisher interface {
	GameCreated(game models.Game)
	GameDeleted(game models.Game)
}

type FeedService struct {
	gameStore GameStore
	userStore UserStore
	media     MediaStore
	events    EventPublisher
	maxLimit  int
}

// NewFeedService wires the feed operations. events may be nil when no
// broker is configured. maxLimit of zero leaves the page size uncapped.
func NewFeedService(gameStore GameStore, userStore UserStore, media MediaStore, events EventPublisher, maxLimit int) *FeedService {
	return &FeedService{
		gameStore: gameStore,
		userStore: userStore,
		media:     media,
		events:    events,
		maxLimit:  maxLimit,
	}
}

type CreateGameInput struct {
	Title   string `json:"title"`
	Caption string `json:"caption"`
	Rating  int    `json:"rating"`
	Image   string `json:"image"`
}

// CreateGame validates the submission, uploads the image and persists a
// new game owned by ownerID. The upload is not retried; a rejected
// payload surfaces as ErrUpload.
func (s *FeedService) CreateGame(ctx context.Context, ownerID primitive.ObjectID, in CreateGameInput) (*models.Game, error) {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Caption) == "" ||
		strings.TrimSpace(in.Image) == "" ||
		in.Rating == 0 {
		return nil, fmt.Errorf("%w: please provide all fields", ErrValidation)
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	imageURL, err := s.media.Upload(ctx, in.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	game := &models.Game{
		Title:   in.Title,
		Caption: in.Caption,
		Rating:  in.Rating,
		Image:   imageURL,
		User:    ownerID,
	}

	game, err = s.gameStore.Insert(ctx, game)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		s.events.GameCreated(*game)
	}

	return game, nil
}

// ListFeed returns one page of the global feed, newest first, each entry
// enriched with its owner's username and profile image. The count runs
// separately from the page fetch, so totals can lag a concurrent insert
// by one; that is accepted.
func (s *FeedService) ListFeed(ctx context.Context, page, limit int) (*models.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	skip := int64(page-1) * int64(limit)

	games, err := s.gameStore.FindPage(ctx, skip, int64(limit))
	if err != nil {
		return nil, err
	}

	totalGames, err := s.gameStore.Count(ctx)
	if err != nil {
		return nil, err
	}

	ownerIDs := make([]primitive.ObjectID, 0, len(games))
	seen := map[primitive.ObjectID]bool{}
	for _, g := range games {
		if !seen[g.User] {
			seen[g.User] = true
			ownerIDs = append(ownerIDs, g.User)
		}
	}

	owners, err := s.userStore.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]models.FeedGame, 0, len(games))
	for _, g := range games {
		owner := models.Owner{ID: g.User}
		if u, ok := owners[g.User]; ok {
			owner.Username = u.Username
			owner.ProfileImage = u.ProfileImage
		}
		entries = append(entries, models.FeedGame{Game: g, User: owner})
	}

	totalPages := int((totalGames + int64(limit) - 1) / int64(limit))

	return &models.FeedPage{
		Games:       entries,
		CurrentPage: page,
		TotalGames:  totalGames,
		TotalPages:  totalPages,
	}, nil
}

// ListByOwner returns every game the caller created, newest first.
func (s *FeedService) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Game, error) {
	return s.gameStore.FindByUser(ctx, ownerID)
}

// DeleteGame removes a game after an ownership check. When the image
// lives on the managed media host its remote copy is destroyed first;
// that cleanup is best-effort and a failure there never blocks the
// record deletion.
func (s *FeedService) DeleteGame(ctx context.Context, callerID primitive.ObjectID, gameID string) error {
	id, err := primitive.ObjectIDFromHex(gameID)
	if err != nil {
		return fmt.Errorf("%w: game not found", ErrNotFound)
	}

	game, err := s.gameStore.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if game == nil {
		return fmt.Errorf("%w: game not found", ErrNotFound)
	}

	if game.User != callerID {
		return fmt.Errorf("%w: not the owner of this game", ErrUnauthorized)
	}

	if game.Image != "" && s.media.Managed(game.Image) {
		publicID := s.media.PublicID(game.Image)
		if err := s.media.Destroy(ctx, publicID); err != nil {
			log.Warnf("failed to delete media %s for game %s: %v", publicID, game.ID.Hex(), err)
		}
	}

	deleted, err := s.gameStore.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		// lost the race against a concurrent delete
		return fmt.Errorf("%w: game not found", ErrNotFound)
	}

	if s.events != nil {
		s.events.GameDeleted(*game)
	}

	return nil
}
