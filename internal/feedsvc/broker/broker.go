package broker

import (
	"encoding/json"
	"time"

	"github.com/gameshelf/gameshelf-services/internal/feedsvc/models"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

const (
	TopicGameCreated = "feed.game.created"
	TopicGameDeleted = "feed.game.deleted"
)

// Broker publishes game lifecycle events for downstream services.
// Publishing is fire-and-forget: a failed publish is logged and the
// request that triggered it is never affected.
type Broker struct {
	Conn *nats.Conn
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

type GameEvent struct {
	Type      string      `json:"type"`
	Game      models.Game `json:"game"`
	Timestamp time.Time   `json:"timestamp"`
}

func (b *Broker) GameCreated(game models.Game) {
	b.publish(TopicGameCreated, game)
}

func (b *Broker) GameDeleted(game models.Game) {
	b.publish(TopicGameDeleted, game)
}

func (b *Broker) publish(topic string, game models.Game) {
	if b == nil || b.Conn == nil {
		return
	}

	event := GameEvent{
		Type:      topic,
		Game:      game,
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Errorf("Error marshaling game event %s", err)
		return
	}

	if err := b.Conn.Publish(topic, data); err != nil {
		log.Warnf("failed to publish %s for game %s: %v", topic, game.ID.Hex(), err)
	}
}
