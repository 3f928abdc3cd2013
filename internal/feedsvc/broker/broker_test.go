package broker

import (
	"testing"

	"github.com/gameshelf/gameshelf-services/internal/feedsvc/models"
	"github.com/stretchr/testify/assert"
)

func TestPublishWithoutConnection(t *testing.T) {
	// events are best-effort: with no broker connection publishing is a
	// silent no-op, never a panic
	b := NewBroker(nil)

	assert.NotPanics(t, func() {
		b.GameCreated(models.Game{Title: "Celeste"})
		b.GameDeleted(models.Game{Title: "Celeste"})
	})

	var nilBroker *Broker
	assert.NotPanics(t, func() {
		nilBroker.GameCreated(models.Game{})
	})
}
