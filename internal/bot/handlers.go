package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/example/studybot/internal/database"
	"github.com/example/studybot/internal/excel"
	"github.com/example/studybot/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes
const (
	callbackCompletePrefix = "complete_"
)

// handleUpdate routes incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message != nil {
		if !b.isOwner(update.Message.Chat.ID) {
			return
		}
		if update.Message.IsCommand() {
			b.handleCommand(ctx, update.Message)
		} else {
			msg := tgbotapi.NewMessage(update.Message.Chat.ID, "I don't understand. Use /menu to show the main menu.")
			msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
			b.send(msg)
		}
	} else if update.CallbackQuery != nil {
		if !b.isOwner(update.CallbackQuery.Message.Chat.ID) {
			return
		}
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case "menu":
		b.showMainMenu(chatID)
	case "log":
		b.handleLog(ctx, chatID, message.CommandArguments())
	case "today":
		b.showToday(ctx, chatID)
	case "generate":
		b.handleGenerate(ctx, chatID, message.CommandArguments())
	case "stats":
		b.showStats(ctx, chatID)
	case "milestones":
		b.showMilestones(ctx, chatID)
	case "files":
		b.showFiles(ctx, chatID)
	case "note":
		b.handleNote(ctx, chatID, message.CommandArguments())
	case "notes":
		b.showNotes(ctx, chatID, message.CommandArguments())
	case "bookmark":
		b.handleBookmark(ctx, chatID, message.CommandArguments())
	case "import":
		b.handleImport(ctx, chatID, message.CommandArguments())
	default:
		msg := tgbotapi.NewMessage(chatID, "Unknown command. Use /menu to show the main menu.")
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.send(msg)
	}
}

// handleStart handles the /start command
func (b *Bot) handleStart(chatID int64) {
	welcomeText := `Welcome to Study Tracker! 🎓

Available commands:
/log <pages> <minutes> [file_id] - Record a study session
/today - Show today's study plan
/stats - Show your progress
/milestones - Show your achievements
/menu - Show main menu
/help - Full command list`

	msg := tgbotapi.NewMessage(chatID, welcomeText)
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.send(msg)
}

// handleHelp handles the /help command
func (b *Bot) handleHelp(chatID int64) {
	helpText := `📖 *Commands*

/log <pages> <minutes> [file_id] - Record a study session
/today - Today's study plan
/generate [YYYY-MM-DD] - Build the plan for a date
/stats - Progress overview
/milestones - Achievement catalog
/files - Your study files
/note <file_id> <text> - Attach a note to a file
/notes <file_id> - Show a file's notes and bookmarks
/bookmark <file_id> <page> [label] - Bookmark a page
/import <path> - Import materials from an Excel/CSV file`

	msg := tgbotapi.NewMessage(chatID, helpText)
	msg.ParseMode = "Markdown"
	b.send(msg)
}

// showMainMenu shows the main menu
func (b *Bot) showMainMenu(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "Main Menu - choose an option:")
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.send(msg)
}

// handleLog records a study session, then re-checks milestones and
// celebrates anything that fired.
func (b *Bot) handleLog(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /log <pages> <minutes> [file_id]"))
		return
	}

	pages, err1 := strconv.Atoi(fields[0])
	minutes, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || pages < 0 || minutes <= 0 {
		b.send(tgbotapi.NewMessage(chatID, "Pages and minutes must be numbers (minutes > 0)."))
		return
	}

	session := &models.StudySession{
		Pages:       pages,
		Minutes:     minutes,
		SessionDate: b.deps.Manager.Today(),
	}
	if len(fields) >= 3 {
		fileID, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			b.send(tgbotapi.NewMessage(chatID, "file_id must be a number."))
			return
		}
		file, err := b.deps.Files.GetByID(ctx, fileID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("File %d doesn't exist. Use /files to list them.", fileID)))
				return
			}
			log.Printf("Error looking up file %d: %v", fileID, err)
			b.send(tgbotapi.NewMessage(chatID, "❌ Error recording the session. Please try again."))
			return
		}
		session.FileID = sql.NullInt64{Int64: file.ID, Valid: true}
		session.TopicID = sql.NullInt64{Int64: file.TopicID, Valid: true}
	}

	if err := b.deps.Sessions.Create(ctx, session); err != nil {
		log.Printf("Error creating study session: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Error recording the session. Please try again."))
		return
	}

	snapshot, err := b.deps.Sessions.GetSnapshot(ctx, session.SessionDate)
	if err != nil {
		log.Printf("Error computing snapshot: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "✅ Session recorded."))
		return
	}

	text := fmt.Sprintf("✅ Session recorded: %d pages, %d minutes.\nTotals: %.1f h, %d pages, %d-day streak.",
		pages, minutes, snapshot.TotalHours, snapshot.TotalPages, snapshot.CurrentStreak)
	b.send(tgbotapi.NewMessage(chatID, text))

	fired, err := b.deps.Engine.CheckMilestones(ctx, snapshot)
	if err != nil {
		log.Printf("Error checking milestones: %v", err)
	}
	for _, m := range fired {
		b.celebrate(chatID, m, snapshot)
	}
}

// celebrate announces a fired milestone
func (b *Bot) celebrate(chatID int64, m models.Milestone, snapshot models.ProgressSnapshot) {
	line := m.CelebrationMessage
	if b.coach != nil {
		if generated, err := b.coach.CelebrationLine(m, snapshot); err == nil && generated != "" {
			line = generated
		} else if err != nil {
			log.Printf("Error generating celebration line: %v", err)
		}
	}

	text := fmt.Sprintf("%s *Milestone unlocked: %s*\n%s\n\n_%s_\n+%d XP",
		m.Icon, m.Title, m.Description, line, m.XPBonus)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	b.send(msg)
}

// showToday lists today's recommendations with completion buttons
func (b *Bot) showToday(ctx context.Context, chatID int64) {
	recs, date, err := b.deps.Manager.ListForToday(ctx)
	if err != nil {
		log.Printf("Error listing today's recommendations: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't load today's plan. Please try again."))
		return
	}
	if len(recs) == 0 {
		msg := tgbotapi.NewMessage(chatID, fmt.Sprintf("No study plan for %s yet. Use /generate to build one.", date))
		msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
		b.send(msg)
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📋 *Study plan for %s*\n\n", date))

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, rec := range recs {
		status := "⬜"
		if rec.IsCompleted {
			status = "✅"
		}
		text.WriteString(fmt.Sprintf("%s *%d.* %s (priority %d)\n", status, i+1, describeRecommendation(rec), rec.Priority))

		if !rec.IsCompleted {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("Done: %d", i+1),
					fmt.Sprintf("%s%d", callbackCompletePrefix, rec.ID),
				),
			))
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back to Menu", "main_menu"),
	))

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(msg)
}

// describeRecommendation renders a recommendation's display line
func describeRecommendation(rec models.TodayRecommendation) string {
	var parts []string
	if rec.FileName.Valid {
		parts = append(parts, rec.FileName.String)
	}
	if rec.TopicName.Valid {
		label := rec.TopicName.String
		if rec.TopicIcon.Valid && rec.TopicIcon.String != "" {
			label = rec.TopicIcon.String + " " + label
		}
		parts = append(parts, label)
	}
	if len(parts) == 0 {
		return "Study suggestion"
	}
	return strings.Join(parts, " — ")
}

// handleGenerate builds the recommendation plan for a date (today when omitted)
func (b *Bot) handleGenerate(ctx context.Context, chatID int64, args string) {
	date, err := b.deps.Manager.GenerateForDate(ctx, strings.TrimSpace(args))
	if err != nil {
		log.Printf("Error generating recommendations: %v", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ %v", err)))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("✅ Plan generated for %s. Use /today to see it.", date)))
	if date == b.deps.Manager.Today() {
		b.showToday(ctx, chatID)
	}
}

// showStats shows the progress overview
func (b *Bot) showStats(ctx context.Context, chatID int64) {
	snapshot, err := b.deps.Sessions.GetSnapshot(ctx, b.deps.Manager.Today())
	if err != nil {
		log.Printf("Error computing snapshot: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "Statistics aren't available yet. Log a session to get started!"))
		return
	}

	statsText := "📊 *Your progress*\n\n" +
		fmt.Sprintf("Total study time: %.1f hours\n", snapshot.TotalHours) +
		fmt.Sprintf("Total pages read: %d\n", snapshot.TotalPages) +
		fmt.Sprintf("Current streak: %d day(s)\n", snapshot.CurrentStreak)

	msg := tgbotapi.NewMessage(chatID, statsText)
	msg.ParseMode = "Markdown"
	msg.ReplyMarkup = createKeyboard(b.MainMenuButtons())
	b.send(msg)
}

// showMilestones lists the achievement catalog with fire history
func (b *Bot) showMilestones(ctx context.Context, chatID int64) {
	catalog, err := b.deps.Engine.Catalog(ctx)
	if err != nil {
		log.Printf("Error loading milestones: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't load milestones. Please try again."))
		return
	}

	var text strings.Builder
	text.WriteString("🏆 *Milestones*\n\n")
	for _, m := range catalog {
		check := "▫️"
		if m.TimesTriggered > 0 {
			check = "✔️"
		}
		text.WriteString(fmt.Sprintf("%s %s *%s* — %s (+%d XP", check, m.Icon, m.Title, m.Description, m.XPBonus))
		if m.TimesTriggered > 1 {
			text.WriteString(fmt.Sprintf(", earned %d times", m.TimesTriggered))
		}
		text.WriteString(")\n")
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = "Markdown"
	b.send(msg)
}

// showFiles lists the study files with their ids
func (b *Bot) showFiles(ctx context.Context, chatID int64) {
	files, err := b.deps.Files.GetAll(ctx)
	if err != nil {
		log.Printf("Error loading files: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't load files. Please try again."))
		return
	}
	if len(files) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No study files yet. Use /import to load materials."))
		return
	}

	var text strings.Builder
	text.WriteString("📚 *Study files*\n\n")
	for _, f := range files {
		text.WriteString(fmt.Sprintf("*%d.* %s", f.ID, f.Name))
		if f.TotalPages > 0 {
			text.WriteString(fmt.Sprintf(" (%d pages)", f.TotalPages))
		}
		text.WriteString("\n")
	}
	text.WriteString("\nLog against a file with /log <pages> <minutes> <file_id>")

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = "Markdown"
	b.send(msg)
}

// handleNote attaches a note to a file
func (b *Bot) handleNote(ctx context.Context, chatID int64, args string) {
	fields := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(fields) < 2 {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /note <file_id> <text>"))
		return
	}
	fileID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "file_id must be a number."))
		return
	}
	if _, err := b.deps.Files.GetByID(ctx, fileID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("File %d doesn't exist.", fileID)))
			return
		}
		log.Printf("Error looking up file %d: %v", fileID, err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Error saving the note. Please try again."))
		return
	}

	note := &models.Note{FileID: fileID, Content: fields[1]}
	if err := b.deps.Notes.Create(ctx, note); err != nil {
		log.Printf("Error creating note: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Error saving the note. Please try again."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, "📝 Note saved."))
}

// showNotes lists a file's notes and bookmarks
func (b *Bot) showNotes(ctx context.Context, chatID int64, args string) {
	fileID, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /notes <file_id>"))
		return
	}
	file, err := b.deps.Files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("File %d doesn't exist.", fileID)))
			return
		}
		log.Printf("Error looking up file %d: %v", fileID, err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't load notes. Please try again."))
		return
	}

	notes, err := b.deps.Notes.GetByFile(ctx, fileID)
	if err != nil {
		log.Printf("Error loading notes for file %d: %v", fileID, err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't load notes. Please try again."))
		return
	}
	bookmarks, err := b.deps.Bookmarks.GetByFile(ctx, fileID)
	if err != nil {
		log.Printf("Error loading bookmarks for file %d: %v", fileID, err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't load notes. Please try again."))
		return
	}
	if len(notes) == 0 && len(bookmarks) == 0 {
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("No notes or bookmarks for %s yet.", file.Name)))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📚 *%s*\n", file.Name))
	if len(notes) > 0 {
		text.WriteString("\n📝 Notes:\n")
		for _, n := range notes {
			text.WriteString(fmt.Sprintf("- %s\n", n.Content))
		}
	}
	if len(bookmarks) > 0 {
		text.WriteString("\n🔖 Bookmarks:\n")
		for _, bm := range bookmarks {
			line := fmt.Sprintf("- page %d", bm.Page)
			if bm.Label != "" {
				line += ": " + bm.Label
			}
			text.WriteString(line + "\n")
		}
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = "Markdown"
	b.send(msg)
}

// handleBookmark marks a page in a file
func (b *Bot) handleBookmark(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /bookmark <file_id> <page> [label]"))
		return
	}
	fileID, err1 := strconv.ParseInt(fields[0], 10, 64)
	page, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || page < 0 {
		b.send(tgbotapi.NewMessage(chatID, "file_id and page must be numbers."))
		return
	}
	if _, err := b.deps.Files.GetByID(ctx, fileID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("File %d doesn't exist.", fileID)))
			return
		}
		log.Printf("Error looking up file %d: %v", fileID, err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Error saving the bookmark. Please try again."))
		return
	}

	bookmark := &models.Bookmark{FileID: fileID, Page: page}
	if len(fields) > 2 {
		bookmark.Label = strings.Join(fields[2:], " ")
	}
	if err := b.deps.Bookmarks.Create(ctx, bookmark); err != nil {
		log.Printf("Error creating bookmark: %v", err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Error saving the bookmark. Please try again."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🔖 Bookmarked page %d.", page)))
}

// handleImport loads study materials from a server-local spreadsheet
func (b *Bot) handleImport(ctx context.Context, chatID int64, args string) {
	path := strings.TrimSpace(args)
	if path == "" {
		b.send(tgbotapi.NewMessage(chatID, "Usage: /import <path to .xlsx or .csv on the server>"))
		return
	}

	importer := excel.NewImporter(b.deps.Topics, b.deps.Files)
	result, err := importer.ImportMaterials(ctx, excel.DefaultImportConfig(path))
	if err != nil {
		log.Printf("Error importing materials: %v", err)
		b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("❌ Import failed: %v", err)))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("✅ Import finished:\n- Files added: %d\n- Files updated: %d\n- Topics created: %d\n",
		result.Created, result.Updated, result.TopicsCreated))
	if len(result.Errors) > 0 {
		text.WriteString(fmt.Sprintf("\n❌ Errors (%d):\n", len(result.Errors)))
		for _, errMsg := range result.Errors {
			text.WriteString("- " + errMsg + "\n")
		}
	}
	b.send(tgbotapi.NewMessage(chatID, text.String()))
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error acknowledging callback: %v", err)
	}

	switch {
	case callback.Data == "main_menu":
		b.showMainMenu(chatID)
	case callback.Data == "show_today":
		b.showToday(ctx, chatID)
	case callback.Data == "show_stats":
		b.showStats(ctx, chatID)
	case callback.Data == "show_milestones":
		b.showMilestones(ctx, chatID)
	case callback.Data == "show_files":
		b.showFiles(ctx, chatID)
	case strings.HasPrefix(callback.Data, callbackCompletePrefix):
		idStr := strings.TrimPrefix(callback.Data, callbackCompletePrefix)
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			log.Printf("Error parsing recommendation id %q: %v", idStr, err)
			return
		}
		b.completeRecommendation(ctx, chatID, id)
	}
}

// completeRecommendation marks a plan item done and redraws the list
func (b *Bot) completeRecommendation(ctx context.Context, chatID int64, id int64) {
	rec, err := b.deps.Manager.Complete(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			b.send(tgbotapi.NewMessage(chatID, "That suggestion no longer exists."))
			return
		}
		log.Printf("Error completing recommendation %d: %v", id, err)
		b.send(tgbotapi.NewMessage(chatID, "❌ Couldn't mark it done. Please try again."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("🎉 Done: %s", describeRecommendation(*rec))))
	b.showToday(ctx, chatID)
}
