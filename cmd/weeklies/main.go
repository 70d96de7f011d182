package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/catalog"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/config"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/database"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/ingest"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/llm"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/mealgen"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/planstore"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env file, same variables as the environment
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	catalogRepo := catalog.NewRepository(db.SQL)
	planRepo := planstore.NewRepository(db.SQL)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		generateCmd := flag.NewFlagSet("generate", flag.ExitOnError)
		user := generateCmd.String("user", "default", "User id owning the plan")
		prefs := generateCmd.String("prefs", "", "Free-text meal preferences")
		allergens := generateCmd.String("allergens", "", "Comma-separated allergens to avoid")
		goal := generateCmd.String("goal", "", "Optional dietary goal")
		start := generateCmd.String("start", time.Now().AddDate(0, 0, 1).Format("2006-01-02"), "Start date (YYYY-MM-DD)")
		days := generateCmd.Int("days", 7, "Number of days to fill")
		slots := generateCmd.String("slots", "1,2,3", "Meal slots to fill per day (1=breakfast, 2=lunch, 3=dinner)")
		generateCmd.Parse(os.Args[2:])

		slotList, err := parseSlots(*slots)
		if err != nil {
			log.Fatalf("Invalid -slots value: %v", err)
		}

		textGen, cleanup, err := llm.NewFromConfig(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize text-generation backend: %v", err)
		}
		defer cleanup()

		generator, err := mealgen.NewGenerator(ctx, db.SQL, textGen)
		if err != nil {
			log.Fatalf("Failed to initialize generator: %v", err)
		}

		existing, err := planRepo.Get(ctx, *user)
		if err != nil {
			log.Fatalf("Failed to load existing plan: %v", err)
		}

		updated, err := generator.UpdatePlan(ctx, mealgen.PlanRequest{
			Plan:        existing,
			Preferences: *prefs,
			Allergens:   *allergens,
			Goal:        *goal,
			StartDate:   *start,
			Slots:       slotList,
			Days:        *days,
		})
		if err != nil {
			log.Fatalf("Plan generation failed: %v", err)
		}

		if err := planRepo.Save(ctx, *user, updated); err != nil {
			log.Fatalf("Failed to save plan: %v", err)
		}

		fmt.Printf("Plan for %s updated.\n\n", *user)
		printPlan(ctx, catalogRepo, updated)

	case "show":
		showCmd := flag.NewFlagSet("show", flag.ExitOnError)
		user := showCmd.String("user", "default", "User id owning the plan")
		showCmd.Parse(os.Args[2:])

		stored, err := planRepo.Get(ctx, *user)
		if err != nil {
			log.Fatalf("Failed to load plan: %v", err)
		}
		if stored == "" {
			fmt.Printf("No plan stored for %s.\n", *user)
			return
		}
		printPlan(ctx, catalogRepo, stored)

	case "add-restaurant":
		addCmd := flag.NewFlagSet("add-restaurant", flag.ExitOnError)
		name := addCmd.String("name", "", "Restaurant name")
		hours := addCmd.String("hours", "", `Weekly hours JSON, e.g. {"Mon": [1000, 2200]}`)
		address := addCmd.String("address", "", "Street address")
		phone := addCmd.String("phone", "", "Phone number")
		addCmd.Parse(os.Args[2:])

		if *name == "" {
			log.Fatal("-name is required")
		}
		id, err := catalogRepo.AddRestaurant(ctx, catalog.Restaurant{
			Name:    *name,
			Address: *address,
			Phone:   *phone,
			Hours:   *hours,
		})
		if err != nil {
			log.Fatalf("Failed to add restaurant: %v", err)
		}
		fmt.Printf("Restaurant %d added.\n", id)

	case "ingest":
		ingestCmd := flag.NewFlagSet("ingest", flag.ExitOnError)
		restaurant := ingestCmd.Int64("restaurant", 0, "Restaurant id the menu belongs to")
		url := ingestCmd.String("url", "", "Menu page URL")
		ingestCmd.Parse(os.Args[2:])

		if *restaurant == 0 || *url == "" {
			log.Fatal("-restaurant and -url are required")
		}

		textGen, cleanup, err := llm.NewFromConfig(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize text-generation backend: %v", err)
		}
		defer cleanup()

		importer := ingest.NewImporter(catalogRepo, textGen)
		count, err := importer.ImportMenuPage(ctx, *restaurant, *url)
		if err != nil {
			log.Fatalf("Menu import failed: %v", err)
		}
		fmt.Printf("Imported %d menu items.\n", count)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func parseSlots(s string) ([]mealgen.Slot, error) {
	var slots []mealgen.Slot
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("slot %q is not a number", part)
		}
		slot := mealgen.Slot(n)
		if _, err := slot.Name(); err != nil {
			return nil, err
		}
		slots = append(slots, slot)
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("no slots given")
	}
	return slots, nil
}

func printPlan(ctx context.Context, repo *catalog.Repository, serialized string) {
	plan := mealgen.ParsePlan(serialized)
	if len(plan) == 0 {
		fmt.Println("The plan is empty.")
		return
	}

	ids := make([]int64, 0, len(plan))
	for _, e := range plan {
		ids = append(ids, e.ItemID)
	}
	items, err := repo.ItemsByIDs(ctx, ids)
	if err != nil {
		log.Printf("Warning: failed to resolve item names: %v", err)
		items = map[int64]catalog.MenuItem{}
	}

	byDate := plan.ByDate()
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		fmt.Println(d)
		for _, e := range byDate[d] {
			meal, _ := e.Slot.Name()
			name := fmt.Sprintf("item %d", e.ItemID)
			if item, ok := items[e.ItemID]; ok {
				name = item.Name
			}
			fmt.Printf("  %-10s %s\n", meal+":", name)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: weeklies <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  generate          Fill missing meal slots over the coming days")
	fmt.Println("  show              Print the stored plan for a user")
	fmt.Println("  add-restaurant    Register a restaurant with weekly hours")
	fmt.Println("  ingest            Import menu items from a restaurant's menu page")
}
