package publisher

import (
	"github.com/dola-guide/dola-events/internal/event"
)

// Publisher defines the interface for writing a batch of events to the site
type Publisher interface {
	// Publish appends the given events. On error nothing was written.
	Publish(events []*event.Event) error
}
