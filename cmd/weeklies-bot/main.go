package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/catalog"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/config"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/database"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/llm"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/mealgen"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/planstore"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/telegram"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireTelegram(); err != nil {
		log.Fatalf("Telegram configuration error: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	textGen, cleanup, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize text-generation backend: %v", err)
	}
	defer cleanup()

	generator, err := mealgen.NewGenerator(ctx, db.SQL, textGen)
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}

	planRepo := planstore.NewRepository(db.SQL)
	catalogRepo := catalog.NewRepository(db.SQL)

	bot, err := telegram.NewBot(cfg, generator, planRepo, catalogRepo)
	if err != nil {
		log.Fatalf("Failed to initialize telegram bot: %v", err)
	}
	bot.RegisterHandlers()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("Bot server listening on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
