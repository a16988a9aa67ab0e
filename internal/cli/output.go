package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dola-guide/dola-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// SourceCount is how many raw listings one collector produced
type SourceCount struct {
	Name  string `json:"name"`
	Items int    `json:"items"`
}

// RunResult summarizes one run
type RunResult struct {
	RunID     string         `json:"run_id"`
	CheckedAt time.Time      `json:"checked_at"`
	Target    string         `json:"target"`
	DryRun    bool           `json:"dry_run,omitempty"`
	Sources   []SourceCount  `json:"sources"`
	Collected int            `json:"collected"`
	Unique    int            `json:"unique"`
	Added     int            `json:"added"`     // new to the archive this run
	Published int            `json:"published"` // written to the target
	Pending   int            `json:"pending"`   // still waiting after this run
	Events    []*event.Event `json:"events"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *RunResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *RunResult) error {
	if result.Events == nil {
		result.Events = []*event.Event{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *RunResult, verbose bool) error {
	if verbose {
		for _, s := range result.Sources {
			fmt.Fprintf(w, "%s: %d collected\n", s.Name, s.Items)
		}
		fmt.Fprintf(w, "Unique: %d, new to archive: %d\n\n", result.Unique, result.Added)
	}

	if len(result.Events) == 0 {
		fmt.Fprintln(w, "No new events to add")
		return nil
	}

	prefix := "NEW"
	if result.DryRun {
		prefix = "WOULD ADD"
	}

	for _, evt := range result.Events {
		fmt.Fprintf(w, "%s (%s): %s [%s]\n", prefix, evt.Category, evt.Title, evt.Date)
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", evt.ID)
			fmt.Fprintf(w, "     Source: %s\n", evt.Source)
			fmt.Fprintf(w, "     Location: %s\n", evt.Location)
			if evt.URL != "" {
				fmt.Fprintf(w, "     URL: %s\n", evt.URL)
			}
		}
	}

	if result.DryRun {
		fmt.Fprintf(w, "\nTotal: %d events would be added to %s (dry run)\n", len(result.Events), result.Target)
	} else {
		fmt.Fprintf(w, "\nTotal: %d events added to %s\n", result.Published, result.Target)
	}

	return nil
}
