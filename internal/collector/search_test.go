package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/dola-guide/dola-events/internal/config"
)

func TestSearchCollector_Collect(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("cx") != "cx" {
			t.Errorf("missing credentials in query: %s", r.URL.RawQuery)
		}
		queries = append(queries, q.Get("q")+"@"+q.Get("start"))

		start, _ := strconv.Atoi(q.Get("start"))
		items := make([]map[string]any, 0)
		if q.Get("q") == "events in Prishtina Kosovo" && start == 1 {
			for i := 0; i < searchPageSize; i++ {
				items = append(items, map[string]any{
					"title":   fmt.Sprintf("Result %d", i),
					"snippet": "short",
					"link":    fmt.Sprintf("https://example.com/%d", i),
				})
			}
		}
		if q.Get("q") == "events in Prishtina Kosovo" && start == 11 {
			items = append(items, map[string]any{
				"title":   "Rock Concert at Zone Club",
				"snippet": "Live band",
				"link":    "https://example.com/rock",
				"pagemap": map[string]any{
					"cse_image": []map[string]string{{"src": "https://img.example.com/rock.jpg"}},
					"metatags":  []map[string]string{{"og:description": "Live band playing all night on Nov 20, 2026"}},
				},
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"items": items}) // nolint:errcheck
	}))
	defer server.Close()

	cfg := config.Search{APIKey: "k", EngineID: "cx", BaseURL: server.URL, Pages: 3}
	c := NewSearchCollector(cfg, []string{"Prishtina", "Peja"}, "Kosovo", testDeps(nil))
	raws := c.Collect(context.Background())

	want := []string{
		"events in Prishtina Kosovo@1",
		"events in Prishtina Kosovo@11",
		"events in Peja Kosovo@1",
	}
	if fmt.Sprint(queries) != fmt.Sprint(want) {
		t.Errorf("queries = %v, want %v", queries, want)
	}

	if len(raws) != searchPageSize+1 {
		t.Fatalf("Collect() returned %d items, want %d", len(raws), searchPageSize+1)
	}

	rock := raws[len(raws)-1]
	if rock.Description != "Live band playing all night on Nov 20, 2026" {
		t.Errorf("Description = %q, want the longer og:description", rock.Description)
	}
	if rock.Image != "https://img.example.com/rock.jpg" {
		t.Errorf("Image = %q", rock.Image)
	}
	if rock.Source != "Web Search (Prishtina)" || rock.Location != "Prishtina, Kosovo" {
		t.Errorf("Source/Location = %q/%q", rock.Source, rock.Location)
	}
}

func TestSearchCollector_NoCredentials(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	c := NewSearchCollector(config.Search{BaseURL: server.URL}, []string{"Prishtina"}, "Kosovo", testDeps(nil))
	if raws := c.Collect(context.Background()); raws != nil {
		t.Errorf("Collect() = %v, want nil without credentials", raws)
	}
	if requests != 0 {
		t.Errorf("made %d requests without credentials", requests)
	}
}

func TestSearchCollector_BadResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json")) // nolint:errcheck
	}))
	defer server.Close()

	cfg := config.Search{APIKey: "k", EngineID: "cx", BaseURL: server.URL, Pages: 1}
	c := NewSearchCollector(cfg, []string{"Prishtina"}, "Kosovo", testDeps(nil))
	if raws := c.Collect(context.Background()); len(raws) != 0 {
		t.Errorf("Collect() returned %d items from an unparseable response", len(raws))
	}
}
