package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/example/studybot/internal/ai"
	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/internal/milestones"
	"github.com/example/studybot/internal/recommendations"
	"github.com/example/studybot/internal/scheduler"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Deps bundles everything the bot talks to
type Deps struct {
	Engine    *milestones.Engine
	Manager   *recommendations.Manager
	Sessions  *database.SessionRepository
	Files     *database.FileRepository
	Topics    *database.TopicRepository
	Notes     *database.NoteRepository
	Bookmarks *database.BookmarkRepository
}

// Bot is the Telegram surface of the study tracker
type Bot struct {
	api       *tgbotapi.BotAPI
	token     string
	config    *BotConfig
	deps      Deps
	coach     *ai.Coach
	scheduler *scheduler.Scheduler
}

// New creates a new bot instance
func New(config *BotConfig, deps Deps) (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	var coach *ai.Coach
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c, err := ai.New(key)
		if err != nil {
			log.Printf("Warning: unable to initialize AI coach: %v", err)
		} else {
			coach = c
		}
	}

	return &Bot{
		token:  token,
		config: config,
		deps:   deps,
		coach:  coach,
	}, nil
}

// Start connects to Telegram and handles updates until ctx is cancelled
func (b *Bot) Start(ctx context.Context) error {
	api, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %v", err)
	}
	b.api = api
	log.Printf("Authorized on account %s", api.Self.UserName)

	if b.config.SchedulerEnabled {
		b.scheduler = scheduler.New(b.deps.Manager, b)
		b.scheduler.Start()
		log.Println("Recommendation scheduler started")
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	log.Println("Bot stopped")
}

// isOwner reports whether a chat belongs to the configured owner
func (b *Bot) isOwner(chatID int64) bool {
	return chatID == b.config.OwnerChatID
}

// send delivers a message and logs failures
func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// SendDailyPlan implements the scheduler.Notifier interface
func (b *Bot) SendDailyPlan(count int) error {
	text := fmt.Sprintf("🌅 Good morning! You have %d study suggestion(s) for today. Use /today to see them.", count)
	_, err := b.api.Send(tgbotapi.NewMessage(b.config.OwnerChatID, text))
	return err
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder(remaining int) error {
	text := fmt.Sprintf("⏰ Still %d open suggestion(s) on today's plan. A short session counts too!", remaining)
	_, err := b.api.Send(tgbotapi.NewMessage(b.config.OwnerChatID, text))
	return err
}

// MainMenuButtons returns the buttons for the main menu
func (b *Bot) MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "📋 Today's Plan", CallbackData: "show_today"},
			{Text: "📊 Statistics", CallbackData: "show_stats"},
		},
		{
			{Text: "🏆 Milestones", CallbackData: "show_milestones"},
			{Text: "📚 Files", CallbackData: "show_files"},
		},
	}
}
