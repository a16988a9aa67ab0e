package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/dola-guide/dola-events/internal/event"
)

func sampleResult() *RunResult {
	return &RunResult{
		RunID:     "run-1",
		CheckedAt: time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC),
		Target:    "index.html",
		Sources:   []SourceCount{{Name: "listings", Items: 3}, {Name: "feeds", Items: 0}},
		Collected: 3,
		Unique:    2,
		Added:     2,
		Published: 2,
		Events: []*event.Event{
			{ID: "abc", Title: "Jazz Night", Date: "November 15", Category: "concert", Source: "Eventbrite", Location: "Prishtina, Kosovo", URL: "https://example.com/jazz"},
			{ID: "def", Title: "Rugova Hike", Date: event.DateUnscheduled, Category: "outdoor", Source: "Twitter", Location: "Kosovo"},
		},
	}
}

func TestWriteOutput_Text(t *testing.T) {
	tests := []struct {
		name     string
		result   *RunResult
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:   "published events",
			result: sampleResult(),
			contains: []string{
				"NEW (concert): Jazz Night [November 15]",
				"NEW (outdoor): Rugova Hike [Coming Soon]",
				"Total: 2 events added to index.html",
			},
			excludes: []string{"ID: abc", "listings:"},
		},
		{
			name:    "verbose details",
			result:  sampleResult(),
			verbose: true,
			contains: []string{
				"listings: 3 collected",
				"Unique: 2, new to archive: 2",
				"ID: abc",
				"URL: https://example.com/jazz",
			},
		},
		{
			name:     "nothing new",
			result:   &RunResult{Target: "index.html"},
			contains: []string{"No new events to add"},
			excludes: []string{"Total:"},
		},
		{
			name: "dry run",
			result: func() *RunResult {
				r := sampleResult()
				r.DryRun, r.Published, r.Pending = true, 0, 2
				return r
			}(),
			contains: []string{"WOULD ADD (concert): Jazz Night", "2 events would be added to index.html (dry run)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteOutput(&buf, tt.result, FormatText, tt.verbose); err != nil {
				t.Fatalf("WriteOutput() error = %v", err)
			}
			out := buf.String()
			for _, s := range tt.contains {
				if !strings.Contains(out, s) {
					t.Errorf("output missing %q:\n%s", s, out)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(out, s) {
					t.Errorf("output should not contain %q:\n%s", s, out)
				}
			}
		})
	}
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOutput(&buf, &RunResult{RunID: "run-2"}, FormatJSON, false); err != nil {
		t.Fatalf("WriteOutput() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	events, ok := decoded["events"].([]any)
	if !ok || len(events) != 0 {
		t.Errorf("events = %v, want empty array", decoded["events"])
	}
	if decoded["run_id"] != "run-2" {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
}

func TestWriteOutput_UnknownFormat(t *testing.T) {
	if err := WriteOutput(&bytes.Buffer{}, sampleResult(), OutputFormat("xml"), false); err == nil {
		t.Error("WriteOutput() expected error for unknown format")
	}
}
