package catalog

// MenuItem is a single orderable item belonging to a restaurant.
// Allergens is a comma-separated free-text tag list, matched
// case-insensitively per tag.
type MenuItem struct {
	ID           int64
	RestaurantID int64
	Name         string
	Description  string
	Price        float64
	Calories     int64
	Allergens    string
	InStock      bool
}

// Restaurant holds the metadata the generator cares about. Hours is a JSON
// object keyed by weekday abbreviation ("Mon".."Sun") whose values are flat
// lists of HHMM integers interpreted as alternating open/close pairs,
// e.g. {"Mon": [1000, 1400, 1700, 2100]}.
type Restaurant struct {
	ID      int64
	Name    string
	Address string
	Phone   string
	Hours   string
	Status  string
}
