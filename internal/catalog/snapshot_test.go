package catalog

import "testing"

func TestOpenAt(t *testing.T) {
	t.Run("WithinSinglePair", func(t *testing.T) {
		if !openAt(`{"Mon": [1000, 2000]}`, "Mon", 1200) {
			t.Error("Expected restaurant to be open Mon at 1200")
		}
	})

	t.Run("OutsideSinglePair", func(t *testing.T) {
		if openAt(`{"Mon": [1000, 2000]}`, "Mon", 2200) {
			t.Error("Expected restaurant to be closed Mon at 2200")
		}
	})

	t.Run("InclusiveBounds", func(t *testing.T) {
		if !openAt(`{"Mon": [1000, 2000]}`, "Mon", 1000) {
			t.Error("Expected open exactly at opening time")
		}
		if !openAt(`{"Mon": [1000, 2000]}`, "Mon", 2000) {
			t.Error("Expected open exactly at closing time")
		}
	})

	t.Run("SecondPair", func(t *testing.T) {
		hours := `{"Tue": [1000, 1400, 1700, 2100]}`
		if !openAt(hours, "Tue", 1800) {
			t.Error("Expected open during evening pair")
		}
		if openAt(hours, "Tue", 1500) {
			t.Error("Expected closed between pairs")
		}
	})

	t.Run("MissingWeekday", func(t *testing.T) {
		if openAt(`{"Mon": [1000, 2000]}`, "Sun", 1200) {
			t.Error("Expected closed on a day with no hours listed")
		}
	})

	t.Run("EmptyListForWeekday", func(t *testing.T) {
		if openAt(`{"Mon": []}`, "Mon", 1200) {
			t.Error("Expected closed on a day with an empty hours list")
		}
	})

	t.Run("OddLengthList", func(t *testing.T) {
		if openAt(`{"Mon": [1000, 1400, 2000]}`, "Mon", 1200) {
			t.Error("Expected odd-length hours list to count as closed")
		}
	})

	t.Run("NoHoursOnRecord", func(t *testing.T) {
		if !openAt("", "Mon", 1200) {
			t.Error("Expected restaurant without hours to be assumed open")
		}
		if !openAt("always open", "Mon", 1200) {
			t.Error("Expected non-JSON hours to be assumed open")
		}
	})
}

func TestHasAllergen(t *testing.T) {
	t.Run("ExactTagMatch", func(t *testing.T) {
		if !hasAllergen("Peanuts, Soy", "peanuts") {
			t.Error("Expected case-insensitive match on peanuts")
		}
	})

	t.Run("NoSubstringMatch", func(t *testing.T) {
		if hasAllergen("Peanut Butter", "peanut") {
			t.Error("Expected whole-tag matching, not substring")
		}
	})

	t.Run("EmptyUserList", func(t *testing.T) {
		if hasAllergen("Peanuts, Soy", "") {
			t.Error("Expected empty allergen list to match nothing")
		}
	})

	t.Run("WhitespaceTrimming", func(t *testing.T) {
		if !hasAllergen("peanuts ,  soy", "  Soy  ") {
			t.Error("Expected trimmed tags to match")
		}
	})
}

func TestEligible(t *testing.T) {
	items := []MenuItem{
		{ID: 1, RestaurantID: 10, Name: "Pad Thai", Allergens: "Peanuts, Soy"},
		{ID: 2, RestaurantID: 10, Name: "Green Curry"},
		{ID: 3, RestaurantID: 20, Name: "Burger", Allergens: "Gluten"},
		{ID: 4, RestaurantID: 30, Name: "Orphan Special"},
	}
	hours := map[int64]string{
		10: `{"Mon": [1000, 2000]}`,
		20: `{"Mon": [1700, 2300]}`,
		// restaurant 30 is not in the visible set
	}
	snap := NewSnapshot(items, hours)

	t.Run("AllergenFiltering", func(t *testing.T) {
		got := snap.Eligible("Mon", 1200, "peanuts")
		if len(got) != 1 || got[0].ID != 2 {
			t.Fatalf("Expected only item 2 to survive peanut filter, got %v", got)
		}
	})

	t.Run("HoursFiltering", func(t *testing.T) {
		got := snap.Eligible("Mon", 1200, "")
		if len(got) != 2 {
			t.Fatalf("Expected 2 items open Mon at 1200, got %d", len(got))
		}
		for _, item := range got {
			if item.RestaurantID != 10 {
				t.Errorf("Unexpected item from closed restaurant: %+v", item)
			}
		}
	})

	t.Run("EveningIncludesBothRestaurants", func(t *testing.T) {
		got := snap.Eligible("Mon", 1800, "")
		if len(got) != 3 {
			t.Fatalf("Expected 3 items open Mon at 1800, got %d", len(got))
		}
	})

	t.Run("InvisibleRestaurantExcluded", func(t *testing.T) {
		for _, item := range snap.Eligible("Mon", 1800, "") {
			if item.ID == 4 {
				t.Error("Item of a non-visible restaurant must never be eligible")
			}
		}
	})

	t.Run("ClosedDay", func(t *testing.T) {
		if got := snap.Eligible("Sun", 1200, ""); len(got) != 0 {
			t.Fatalf("Expected no items on a day with no hours, got %d", len(got))
		}
	})
}
