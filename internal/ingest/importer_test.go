package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/catalog"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/database"
)

type mockExtractor struct {
	response string
	prompt   string
}

func (m *mockExtractor) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.prompt = prompt
	return m.response, nil
}

const menuPage = `<html><head><style>.x{}</style></head><body>
<script>trackVisitors();</script>
<h1>Thai Garden</h1>
<ul><li>Pad Thai - $12.50</li><li>Green Curry - $11.00</li></ul>
<footer>All rights reserved</footer>
</body></html>`

func TestImportMenuPage(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	repo := catalog.NewRepository(db.SQL)

	rtrID, err := repo.AddRestaurant(ctx, catalog.Restaurant{Name: "Thai Garden", Hours: `{"Mon": [1000, 2200]}`})
	if err != nil {
		t.Fatalf("AddRestaurant failed: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(menuPage))
	}))
	defer server.Close()

	backend := &mockExtractor{response: "Here you go:\n" + `{"items": [
		{"name": "Pad Thai", "description": "Rice noodles", "price": 12.5, "calories": 650, "allergens": "Peanuts"},
		{"name": "Green Curry", "price": 11, "calories": 0, "allergens": ""},
		{"name": "  "}
	]}`}

	importer := NewImporter(repo, backend)
	count, err := importer.ImportMenuPage(ctx, rtrID, server.URL)
	if err != nil {
		t.Fatalf("ImportMenuPage failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 imported items, got %d", count)
	}

	// Noise must be stripped before prompting
	if strings.Contains(backend.prompt, "trackVisitors") {
		t.Error("Expected script content removed from the prompt")
	}
	if strings.Contains(backend.prompt, "All rights reserved") {
		t.Error("Expected footer content removed from the prompt")
	}
	if !strings.Contains(backend.prompt, "Pad Thai") {
		t.Error("Expected page text in the prompt")
	}

	snap, err := catalog.LoadSnapshot(ctx, db.SQL)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	items := snap.Eligible("Mon", 1200, "peanuts")
	if len(items) != 1 || items[0].Name != "Green Curry" {
		t.Fatalf("Expected only Green Curry to survive the peanut filter, got %v", items)
	}
}

func TestImportMenuPageErrors(t *testing.T) {
	ctx := context.Background()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	repo := catalog.NewRepository(db.SQL)

	t.Run("UnknownRestaurant", func(t *testing.T) {
		importer := NewImporter(repo, &mockExtractor{response: "{}"})
		if _, err := importer.ImportMenuPage(ctx, 999, "http://unused"); err == nil {
			t.Fatal("Expected an error for an unknown restaurant")
		}
	})

	t.Run("NonJSONResponse", func(t *testing.T) {
		rtrID, err := repo.AddRestaurant(ctx, catalog.Restaurant{Name: "X"})
		if err != nil {
			t.Fatalf("AddRestaurant failed: %v", err)
		}
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html><body>menu</body></html>"))
		}))
		defer server.Close()

		importer := NewImporter(repo, &mockExtractor{response: "sorry, I cannot help with that"})
		if _, err := importer.ImportMenuPage(ctx, rtrID, server.URL); err == nil {
			t.Fatal("Expected an error for a non-JSON model response")
		}
	})
}
