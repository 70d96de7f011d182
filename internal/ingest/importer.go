package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/catalog"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/llm"

	"github.com/PuerkitoBio/goquery"
)

// Importer fetches a restaurant's public menu page and turns it into
// catalog items with the help of the text-generation backend.
type Importer struct {
	repo       *catalog.Repository
	textGen    llm.TextGenerator
	httpClient *http.Client
}

// ExtractedItem is one menu row as structured by the model.
type ExtractedItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Calories    int64   `json:"calories"`
	Allergens   string  `json:"allergens"`
}

type extractedMenu struct {
	Items []ExtractedItem `json:"items"`
}

const extractSystem = "You are a menu digitization expert. Extract menu items from the provided page text."

// NewImporter creates a new Importer.
func NewImporter(repo *catalog.Repository, textGen llm.TextGenerator) *Importer {
	return &Importer{
		repo:    repo,
		textGen: textGen,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ImportMenuPage fetches the URL, extracts menu items using the model, and
// saves them as in-stock items of the given restaurant. Returns the number
// of items imported.
func (im *Importer) ImportMenuPage(ctx context.Context, restaurantID int64, url string) (int, error) {
	rtr, err := im.repo.GetRestaurant(ctx, restaurantID)
	if err != nil {
		return 0, err
	}
	if rtr == nil {
		return 0, fmt.Errorf("restaurant %d not found", restaurantID)
	}

	content, err := im.fetchAndCleanHTML(url)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`Extract every menu item from the following page text.
Return the result strictly as a JSON object with this structure:
{
  "items": [
    {"name": "Item name", "description": "Short description", "price": 9.99, "calories": 540, "allergens": "comma,separated,tags"},
    ...
  ]
}
Use 0 for unknown prices or calories and "" for unknown fields.
Do not include any other text or formatting in your response.

Page Text:
%s`, content)

	response, err := im.textGen.Generate(ctx, extractSystem, prompt)
	if err != nil {
		return 0, fmt.Errorf("ai extraction failed: %w", err)
	}

	jsonText := extractJSON(response)
	if jsonText == "" {
		return 0, fmt.Errorf("model did not return valid JSON. Response: %s", response)
	}

	var menu extractedMenu
	if err := json.Unmarshal([]byte(jsonText), &menu); err != nil {
		return 0, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, response)
	}

	imported := 0
	for _, item := range menu.Items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		_, err := im.repo.AddMenuItem(ctx, catalog.MenuItem{
			RestaurantID: restaurantID,
			Name:         item.Name,
			Description:  item.Description,
			Price:        item.Price,
			Calories:     item.Calories,
			Allergens:    item.Allergens,
			InStock:      true,
		})
		if err != nil {
			return imported, fmt.Errorf("failed to save item %q: %w", item.Name, err)
		}
		imported++
	}
	return imported, nil
}

func (im *Importer) fetchAndCleanHTML(url string) (string, error) {
	resp, err := im.httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

// extractJSON trims everything around the outermost JSON object. Models
// occasionally wrap their output in code fences or prose.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")

	if start == -1 || end == -1 || end <= start {
		return ""
	}

	return text[start : end+1]
}
