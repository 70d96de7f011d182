package mealgen

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/catalog"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/llm"
)

//go:embed select_prompt.md
var selectPrompt string

const systemInstruction = "You are a health and nutrition expert planning meals for a customer based on their preferences. Use only the menu items provided under CSV CONTEXT."

const (
	// maxTries bounds how often a slot is retried after an invalid selection.
	maxTries = 3
	// itemChoices is the base candidate pool size offered to the model.
	// Each failed attempt widens the pool by one increment, up to the cap,
	// so a too-narrow context does not recur identically.
	itemChoices    = 10
	maxItemChoices = itemChoices * maxTries
)

// noValidID is the sentinel returned when no item id can be parsed from the
// model output. Real ids are always positive.
const noValidID = -1

var digitRun = regexp.MustCompile(`\d+`)

// parseItemID extracts an item id from free-form model output: every
// maximal run of decimal digits is collected and the last one wins. Plain
// replies are usually just "22", but chatty ones like "I chose 22" put the
// id at the end.
func parseItemID(output string) int64 {
	matches := digitRun.FindAllString(output, -1)
	if len(matches) == 0 {
		return noValidID
	}
	id, err := strconv.ParseInt(matches[len(matches)-1], 10, 64)
	if err != nil {
		return noValidID
	}
	return id
}

// sampleItems caps the candidate set at k items. Small sets pass through
// as-is; larger ones are downsampled uniformly without replacement.
func sampleItems(items []catalog.MenuItem, k int) []catalog.MenuItem {
	if len(items) <= k {
		return items
	}
	sampled := make([]catalog.MenuItem, 0, k)
	for _, i := range rand.Perm(len(items))[:k] {
		sampled = append(sampled, items[i])
	}
	return sampled
}

// RetryExhaustedError is returned when the model failed to produce a valid
// selection within the attempt budget. It keeps the last raw output for
// diagnostics.
type RetryExhaustedError struct {
	Tries      int
	LastOutput string
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("model failed %d times to pick a menu item, last output: %s", e.Tries, e.LastOutput)
}

// Generator fills meal plans by offering catalog candidates to a
// text-generation backend and validating its picks. The catalog snapshot is
// loaded once at construction and never refreshed; a Generator must not be
// shared across concurrent plan runs that expect different catalogs.
type Generator struct {
	snapshot *catalog.Snapshot
	textGen  llm.TextGenerator
	tmpl     *template.Template
}

// NewGenerator loads the catalog working set from the database and returns a
// ready generator. An unreachable database is fatal; no empty-catalog
// fallback is attempted.
func NewGenerator(ctx context.Context, db *sql.DB, textGen llm.TextGenerator) (*Generator, error) {
	snapshot, err := catalog.LoadSnapshot(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return NewGeneratorFromSnapshot(snapshot, textGen), nil
}

// NewGeneratorFromSnapshot builds a generator over an already-loaded
// catalog snapshot.
func NewGeneratorFromSnapshot(snapshot *catalog.Snapshot, textGen llm.TextGenerator) *Generator {
	return &Generator{
		snapshot: snapshot,
		textGen:  textGen,
		tmpl:     template.Must(template.New("select").Parse(selectPrompt)),
	}
}

// buildContext renders the CSV context block for one attempt and returns it
// along with the ids actually offered, which bound what counts as a valid
// selection.
func (g *Generator) buildContext(weekday string, orderTime int, allergens string, numChoices int) (string, []int64) {
	eligible := g.snapshot.Eligible(weekday, orderTime, allergens)
	chosen := sampleItems(eligible, numChoices)

	var sb strings.Builder
	sb.WriteString("item_id,name,description,price,calories\n")

	itemIDs := make([]int64, 0, len(chosen))
	for _, item := range chosen {
		fmt.Fprintf(&sb, "%d,%s,%s,%s,%d\n",
			item.ID, item.Name, item.Description,
			strconv.FormatFloat(item.Price, 'f', -1, 64), item.Calories)
		itemIDs = append(itemIDs, item.ID)
	}
	return sb.String(), itemIDs
}

func (g *Generator) renderPrompt(preferences, meal, context string) (string, error) {
	var buf bytes.Buffer
	err := g.tmpl.Execute(&buf, struct {
		Preferences string
		Meal        string
		Context     string
	}{preferences, meal, context})
	if err != nil {
		return "", fmt.Errorf("failed to render selection prompt: %w", err)
	}
	return buf.String(), nil
}

// pickMenuItem chooses one item for a (weekday, slot) pair. Each failed
// attempt widens the candidate pool before retrying; transport errors from
// the backend are fatal (failover already happened inside the backend).
func (g *Generator) pickMenuItem(ctx context.Context, preferences, allergens, weekday string, slot Slot) (int64, error) {
	meal, err := slot.Name()
	if err != nil {
		return 0, err
	}
	orderTime, err := slot.OrderTime()
	if err != nil {
		return 0, err
	}

	numChoices := itemChoices
	lastOutput := ""

	for try := 0; try < maxTries; try++ {
		csvContext, itemIDs := g.buildContext(weekday, orderTime, allergens, numChoices)

		prompt, err := g.renderPrompt(preferences, meal, csvContext)
		if err != nil {
			return 0, err
		}

		output, err := g.textGen.Generate(ctx, systemInstruction, prompt)
		if err != nil {
			return 0, fmt.Errorf("text generation failed: %w", err)
		}
		lastOutput = output

		// The pick must be a positive id AND one of the ids offered in
		// this attempt's context; anything else is a hallucination.
		id := parseItemID(output)
		if id > 0 && offered(itemIDs, id) {
			return id, nil
		}

		if numChoices < maxItemChoices {
			numChoices += itemChoices
		}
		log.Printf("Invalid selection, retrying (%d/%d). Output was: %s", try+1, maxTries, output)
	}

	return 0, &RetryExhaustedError{Tries: maxTries, LastOutput: lastOutput}
}

func offered(ids []int64, id int64) bool {
	for _, offered := range ids {
		if offered == id {
			return true
		}
	}
	return false
}

// PlanRequest describes one plan-generation run.
type PlanRequest struct {
	Plan        string // existing serialized plan, possibly empty
	Preferences string
	Allergens   string
	Goal        string // optional, prepended to preferences
	StartDate   string // YYYY-MM-DD
	Slots       []Slot // slots to fill per day, in order
	Days        int
}

// UpdatePlan fills every missing (date, slot) pair over the requested
// horizon and returns the updated serialized plan. Pairs already present in
// the existing plan are skipped without consulting the backend, so re-runs
// over a covered range are no-ops. Existing plan text is never rewritten;
// new entries are appended in day-then-slot order. A slot that exhausts its
// retry budget aborts the whole run; the plan as appended so far is returned
// alongside the error so callers can decide whether to keep it. The expected
// caller behavior is to report the failure and leave the stored plan alone.
func (g *Generator) UpdatePlan(ctx context.Context, req PlanRequest) (string, error) {
	preferences := req.Preferences
	if req.Goal != "" {
		preferences = fmt.Sprintf("GOAL: %s. %s", req.Goal, preferences)
	}

	current, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return "", fmt.Errorf("unable to parse date string %q, ensure it is formatted as YYYY-MM-DD: %w", req.StartDate, err)
	}

	plan := ParsePlan(req.Plan)
	serialized := req.Plan

	for day := 0; day < req.Days; day++ {
		date := current.Format("2006-01-02")
		weekday := current.Format("Mon")

		for _, slot := range req.Slots {
			if plan.Has(date, slot) {
				continue
			}

			itemID, err := g.pickMenuItem(ctx, preferences, req.Allergens, weekday, slot)
			if err != nil {
				// No rollback of entries appended before the failing slot.
				return serialized, fmt.Errorf("failed to fill %s slot %d: %w", date, int(slot), err)
			}

			entry := PlanEntry{Date: date, ItemID: itemID, Slot: slot}
			if serialized == "" {
				serialized = entry.String()
			} else {
				serialized = serialized + "," + entry.String()
			}
			plan = append(plan, entry)
		}

		current = current.AddDate(0, 0, 1)
	}

	return serialized, nil
}
