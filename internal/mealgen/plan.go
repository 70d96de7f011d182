package mealgen

import (
	"fmt"
	"regexp"
	"strconv"
)

// Slot identifies one of the three daily meals.
type Slot int

const (
	SlotBreakfast Slot = 1
	SlotLunch     Slot = 2
	SlotDinner    Slot = 3
)

// Representative order times used purely to test restaurant open-hours
// overlap. In the future, times will be user-provided.
const (
	breakfastTime = 1000
	lunchTime     = 1400
	dinnerTime    = 2000
)

// Name returns the meal name used in prompts, or an error for an unknown slot.
func (s Slot) Name() (string, error) {
	switch s {
	case SlotBreakfast:
		return "breakfast", nil
	case SlotLunch:
		return "lunch", nil
	case SlotDinner:
		return "dinner", nil
	default:
		return "", fmt.Errorf("the meal number must be 1, 2, or 3, got %d", int(s))
	}
}

// OrderTime returns the representative HHMM time for the slot.
func (s Slot) OrderTime() (int, error) {
	switch s {
	case SlotBreakfast:
		return breakfastTime, nil
	case SlotLunch:
		return lunchTime, nil
	case SlotDinner:
		return dinnerTime, nil
	default:
		return -1, fmt.Errorf("the meal number must be 1, 2, or 3, got %d", int(s))
	}
}

// PlanEntry is one (date, item, slot) assignment. Entries are immutable
// once created; the generator only ever appends new ones.
type PlanEntry struct {
	Date   string // YYYY-MM-DD
	ItemID int64
	Slot   Slot
}

// String renders the entry in its wire form.
func (e PlanEntry) String() string {
	return fmt.Sprintf("[%s,%d,%d]", e.Date, e.ItemID, int(e.Slot))
}

// Plan is an ordered list of entries parsed from (and re-emitted to) the
// serialized form "[YYYY-MM-DD,item_id,slot]" comma-joined.
type Plan []PlanEntry

// Entries may carry stray whitespace, and legacy entries omit the slot
// number. Anything not matching this shape is ignored on parse.
var planEntryPattern = regexp.MustCompile(`\[\s*(\d{4}-\d{2}-\d{2})\s*,\s*([0-9]+)\s*(?:,\s*([123])\s*)?\]`)

// ParsePlan reads a serialized plan string. Malformed fragments are skipped
// silently; a legacy entry without a slot number defaults to dinner.
func ParsePlan(s string) Plan {
	if s == "" {
		return nil
	}

	var plan Plan
	for _, m := range planEntryPattern.FindAllStringSubmatch(s, -1) {
		itemID, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		slot := SlotDinner // legacy entries lacking a slot are dinner by convention
		if m[3] != "" {
			n, err := strconv.Atoi(m[3])
			if err != nil {
				continue
			}
			slot = Slot(n)
		}
		plan = append(plan, PlanEntry{Date: m[1], ItemID: itemID, Slot: slot})
	}
	return plan
}

// String re-emits the plan in wire form.
func (p Plan) String() string {
	out := ""
	for i, e := range p {
		if i > 0 {
			out += ","
		}
		out += e.String()
	}
	return out
}

// Has reports whether the plan already holds an entry for the exact
// (date, slot) pair.
func (p Plan) Has(date string, slot Slot) bool {
	for _, e := range p {
		if e.Date == date && e.Slot == slot {
			return true
		}
	}
	return false
}

// ByDate groups entries by calendar date, preserving their order within
// each date. Used by the calendar views.
func (p Plan) ByDate() map[string][]PlanEntry {
	if len(p) == 0 {
		return nil
	}
	out := make(map[string][]PlanEntry)
	for _, e := range p {
		out[e.Date] = append(out[e.Date], e)
	}
	return out
}
