package publisher

import (
	"fmt"
	"io"
	"os"

	"github.com/dola-guide/dola-events/internal/event"
)

// DryRunPublisher prints what would be appended without touching the page
type DryRunPublisher struct {
	out io.Writer
}

// NewDryRunPublisher creates a dry-run publisher writing to out (stdout if nil)
func NewDryRunPublisher(out io.Writer) *DryRunPublisher {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunPublisher{out: out}
}

// Publish prints the literals that would be spliced
func (p *DryRunPublisher) Publish(events []*event.Event) error {
	for i, evt := range events {
		if _, err := fmt.Fprintf(p.out, "--- Event %d/%d ---%s\n\n", i+1, len(events), RenderLiteral(evt)); err != nil {
			return fmt.Errorf("writing dry-run output: %w", err)
		}
	}
	return nil
}
