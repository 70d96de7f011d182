package telegram

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/catalog"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/config"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/mealgen"
	"github.com/Aum3010/ncsu-csc510-2025-s1-g3-weeklies/internal/planstore"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// planDays is the horizon the bot fills on /plan: the next seven days
// starting tomorrow, all three meals.
const planDays = 7

// Bot wraps the Telegram API around the menu generator and plan store.
type Bot struct {
	api         *tgbotapi.BotAPI
	generator   *mealgen.Generator
	plans       *planstore.Repository
	catalogRepo *catalog.Repository
	cfg         *config.Config
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(
	cfg *config.Config,
	generator *mealgen.Generator,
	plans *planstore.Repository,
	catalogRepo *catalog.Repository,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:         bot,
		generator:   generator,
		plans:       plans,
		catalogRepo: catalogRepo,
		cfg:         cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	isAllowed := false
	for _, id := range b.cfg.TelegramAllowedUserIDs {
		if update.Message.From.ID == id {
			isAllowed = true
			break
		}
	}

	if !isAllowed {
		log.Printf("Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	switch {
	case strings.HasPrefix(text, "/plan"):
		b.handlePlanRequest(msg, strings.TrimSpace(strings.TrimPrefix(text, "/plan")))
	case text == "/menu":
		b.handleMenuRequest(msg)
	default:
		reply := tgbotapi.NewMessage(msg.Chat.ID,
			"Commands:\n/plan <preferences> ; <allergens> - fill the next 7 days\n/menu - show your current plan")
		b.api.Send(reply)
	}
}

func (b *Bot) handlePlanRequest(msg *tgbotapi.Message, args string) {
	statusText := "Planning your week... (picking meals for every slot)"
	sentMsg, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, statusText))
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	preferences, allergens := args, ""
	if idx := strings.Index(args, ";"); idx >= 0 {
		preferences = strings.TrimSpace(args[:idx])
		allergens = strings.TrimSpace(args[idx+1:])
	}

	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	existing, err := b.plans.Get(ctx, userID)
	if err != nil {
		b.editMessage(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("Error loading your plan: %v", err))
		return
	}

	startDate := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	updated, err := b.generator.UpdatePlan(ctx, mealgen.PlanRequest{
		Plan:        existing,
		Preferences: preferences,
		Allergens:   allergens,
		StartDate:   startDate,
		Slots:       []mealgen.Slot{mealgen.SlotBreakfast, mealgen.SlotLunch, mealgen.SlotDinner},
		Days:        planDays,
	})
	if err != nil {
		log.Printf("Plan generation failed for user %s: %v", userID, err)
		b.editMessage(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("Plan generation failed: %v", err))
		return
	}

	if err := b.plans.Save(ctx, userID, updated); err != nil {
		b.editMessage(msg.Chat.ID, sentMsg.MessageID, fmt.Sprintf("Error saving your plan: %v", err))
		return
	}

	rendered, err := b.renderPlan(ctx, updated)
	if err != nil {
		rendered = fmt.Sprintf("Plan saved, but rendering failed: %v", err)
	}
	b.editMessage(msg.Chat.ID, sentMsg.MessageID, rendered)
}

func (b *Bot) handleMenuRequest(msg *tgbotapi.Message) {
	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	stored, err := b.plans.Get(ctx, userID)
	if err != nil {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, fmt.Sprintf("Error loading your plan: %v", err)))
		return
	}
	if stored == "" {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "No plan yet. Use /plan to generate one."))
		return
	}

	rendered, err := b.renderPlan(ctx, stored)
	if err != nil {
		rendered = fmt.Sprintf("Failed to render your plan: %v", err)
	}
	b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, rendered))
}

func (b *Bot) renderPlan(ctx context.Context, serialized string) (string, error) {
	plan := mealgen.ParsePlan(serialized)
	if len(plan) == 0 {
		return "Your plan is empty.", nil
	}

	ids := make([]int64, 0, len(plan))
	for _, e := range plan {
		ids = append(ids, e.ItemID)
	}
	items, err := b.catalogRepo.ItemsByIDs(ctx, ids)
	if err != nil {
		return "", err
	}

	byDate := plan.ByDate()
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var sb strings.Builder
	sb.WriteString("Your meal plan:\n")
	for _, d := range dates {
		fmt.Fprintf(&sb, "\n%s\n", d)
		for _, e := range byDate[d] {
			meal, _ := e.Slot.Name()
			name := fmt.Sprintf("item %d", e.ItemID)
			if item, ok := items[e.ItemID]; ok {
				name = item.Name
			}
			fmt.Fprintf(&sb, "  %-9s %s\n", meal+":", name)
		}
	}
	return sb.String(), nil
}

func (b *Bot) editMessage(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}
