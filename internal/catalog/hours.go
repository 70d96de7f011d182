package catalog

import (
	"encoding/json"
	"strings"
)

// openAt reports whether a restaurant with the given hours specification is
// open on weekday at time-of-day t (HHMM integer).
//
// A restaurant with no hours on record at all is assumed open; one whose
// hours parse but list nothing for the weekday is closed that day. An
// odd-length list cannot be paired up and is treated as closed for the day.
// Both interval endpoints are inclusive: open <= t <= close counts as open,
// including the exact closing minute.
func openAt(hoursJSON, weekday string, t int) bool {
	trimmed := strings.TrimSpace(hoursJSON)
	if trimmed == "" || !strings.HasPrefix(trimmed, "{") {
		return true
	}

	var hours map[string][]int
	if err := json.Unmarshal([]byte(trimmed), &hours); err != nil {
		// Unparseable hours are a data-quality defect in the catalog, not
		// a reason to fail plan generation.
		return true
	}

	spans := hours[weekday]
	if len(spans) == 0 || len(spans)%2 == 1 {
		return false
	}

	for i := 0; i+1 < len(spans); i += 2 {
		if spans[i] <= t && spans[i+1] >= t {
			return true
		}
	}
	return false
}

// hasAllergen reports whether any of the comma-separated user allergens
// appears in the item's comma-separated allergen tag list. Matching is per
// whole tag, trimmed and case-insensitive; an empty user list never matches.
func hasAllergen(itemAllergens, userAllergens string) bool {
	if strings.TrimSpace(userAllergens) == "" || itemAllergens == "" {
		return false
	}

	itemTags := make(map[string]struct{})
	for _, tag := range strings.Split(itemAllergens, ",") {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			itemTags[tag] = struct{}{}
		}
	}

	for _, allergen := range strings.Split(userAllergens, ",") {
		allergen = strings.ToLower(strings.TrimSpace(allergen))
		if allergen == "" {
			continue
		}
		if _, found := itemTags[allergen]; found {
			return true
		}
	}
	return false
}
