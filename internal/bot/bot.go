package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"pomovity/internal/api"
	"pomovity/internal/model"
	"pomovity/internal/service"
	"pomovity/internal/store"
	"pomovity/internal/timer"
)

const (
	cbCompletePrefix = "complete:"
	cbDeletePrefix   = "delete:"

	maxTaskButtons = 10
)

const helpText = `Pomovity commands:
/tasks - list tasks
/add <title> - add a task
/done <id> - toggle a task's completion
/delete <id> - delete a task
/focus [id] - start a focus session, optionally for a task
/pause, /resume, /stop, /reset - control the timer
/status - show the timer
/stats - today's pomodoros
/report - daily report`

// Connect authorizes against the Telegram Bot API.
func Connect(token string) (*tgbotapi.BotAPI, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	log.Printf("[info] bot authorized on account %s", botAPI.Self.UserName)
	return botAPI, nil
}

// Bot is a chat front end for a single owner chat.
type Bot struct {
	api      *tgbotapi.BotAPI
	chatID   int64
	tasks    *service.TaskService
	reminder *service.ReminderService
	timer    *timer.Timer
}

func New(botAPI *tgbotapi.BotAPI, chatID int64, tasks *service.TaskService, reminder *service.ReminderService, tm *timer.Timer) *Bot {
	return &Bot{
		api:      botAPI,
		chatID:   chatID,
		tasks:    tasks,
		reminder: reminder,
		timer:    tm,
	}
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		var r reply
		switch {
		case update.CallbackQuery != nil:
			cb := update.CallbackQuery
			if cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.ID != b.chatID {
				continue
			}
			r = b.handleCallback(ctx, cb.Data)
			if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
				log.Printf("answer callback: %v", err)
			}
		case update.Message != nil:
			msg := update.Message
			if msg.Chat == nil || msg.Chat.ID != b.chatID || !msg.IsCommand() {
				continue
			}
			log.Printf("[info] command /%s %s", msg.Command(), msg.CommandArguments())
			r = b.handleCommand(ctx, msg.Command(), strings.TrimSpace(msg.CommandArguments()))
		default:
			continue
		}
		if err := b.sendReply(r); err != nil {
			log.Printf("send reply: %v", err)
		}
	}

	return ctx.Err()
}

// SendDailyReport pushes the daily summary to the owner chat.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	report, err := b.reminder.DailySummary(ctx, time.Now())
	if err != nil {
		return err
	}
	return b.sendReply(reply{text: report})
}

// reply is a message for the owner chat with optional inline buttons.
type reply struct {
	text     string
	keyboard *tgbotapi.InlineKeyboardMarkup
}

func textReply(text string) reply {
	return reply{text: text}
}

func (b *Bot) handleCommand(ctx context.Context, command, args string) reply {
	switch command {
	case "start", "help":
		return textReply(helpText)
	case "tasks":
		return b.listTasks(ctx)
	case "add":
		return textReply(b.addTask(ctx, args))
	case "done":
		return textReply(b.withTaskID(args, func(id int64) string {
			return b.toggle(ctx, id)
		}))
	case "delete":
		return textReply(b.withTaskID(args, func(id int64) string {
			return b.remove(ctx, id)
		}))
	case "stats":
		stats, err := b.tasks.PomodoroStats(ctx)
		if err != nil {
			return textReply(errorText(err))
		}
		return textReply(fmt.Sprintf("🍅 Today: %d pomodoros · %d min", stats.Today.Count, stats.Today.FocusTime))
	case "report":
		report, err := b.reminder.DailySummary(ctx, time.Now())
		if err != nil {
			return textReply(errorText(err))
		}
		return textReply(report)
	default:
		return textReply(b.handleTimerCommand(ctx, command, args))
	}
}

// handleCallback serves the inline buttons attached to the task list.
func (b *Bot) handleCallback(ctx context.Context, data string) reply {
	switch {
	case strings.HasPrefix(data, cbCompletePrefix):
		return textReply(b.withTaskID(strings.TrimPrefix(data, cbCompletePrefix), func(id int64) string {
			return b.toggle(ctx, id)
		}))
	case strings.HasPrefix(data, cbDeletePrefix):
		return textReply(b.withTaskID(strings.TrimPrefix(data, cbDeletePrefix), func(id int64) string {
			return b.remove(ctx, id)
		}))
	default:
		log.Printf("[warn] unknown callback %q", data)
		return textReply("Unknown action.")
	}
}

func (b *Bot) toggle(ctx context.Context, id int64) string {
	task, err := b.tasks.ToggleTask(ctx, id)
	if err != nil {
		return errorText(err)
	}
	if task.Completed {
		return fmt.Sprintf("✅ #%d %s done", task.ID, task.Title)
	}
	return fmt.Sprintf("↩️ #%d %s reopened", task.ID, task.Title)
}

func (b *Bot) remove(ctx context.Context, id int64) string {
	if err := b.tasks.DeleteTask(ctx, id); err != nil {
		return errorText(err)
	}
	return fmt.Sprintf("🗑 #%d deleted", id)
}

func (b *Bot) handleTimerCommand(ctx context.Context, command, args string) string {
	switch command {
	case "focus":
		return b.focus(ctx, args)
	case "pause":
		return b.timerAction(b.timer.Pause)
	case "resume":
		return b.timerAction(b.timer.Resume)
	case "stop":
		return b.timerAction(b.timer.Stop)
	case "reset":
		b.timer.Reset()
		return "⏱ " + b.timer.Snapshot().String()
	case "status":
		return "⏱ " + b.timer.Snapshot().String()
	default:
		return "Unknown command. Send /help for the list."
	}
}

func (b *Bot) listTasks(ctx context.Context) reply {
	tasks, err := b.tasks.ListTasks(ctx)
	if err != nil {
		return textReply(errorText(err))
	}
	if len(tasks) == 0 {
		return textReply("No tasks yet. Add one with /add <title>.")
	}
	now := time.Now()
	service.SortTasks(tasks, now.Location())
	var sb strings.Builder
	for _, task := range tasks {
		sb.WriteString(service.FormatTask(task, now))
	}
	return reply{text: strings.TrimSpace(sb.String()), keyboard: taskKeyboard(tasks)}
}

// taskKeyboard offers complete/delete buttons for the first open tasks.
func taskKeyboard(tasks []model.Task) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, task := range tasks {
		if task.Completed {
			continue
		}
		if len(rows) == maxTaskButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("✅ #%d · %s", task.ID, shortTitle(task.Title, 20)), fmt.Sprintf("%s%d", cbCompletePrefix, task.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", fmt.Sprintf("%s%d", cbDeletePrefix, task.ID)),
		))
	}
	if len(rows) == 0 {
		return nil
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &markup
}

func shortTitle(title string, maxLen int) string {
	runes := []rune(strings.TrimSpace(title))
	if len(runes) <= maxLen {
		return string(runes)
	}
	return string(runes[:maxLen-1]) + "…"
}

func (b *Bot) addTask(ctx context.Context, title string) string {
	task, err := b.tasks.CreateTask(ctx, model.TaskInput{Title: title})
	if err != nil {
		return errorText(err)
	}
	return fmt.Sprintf("➕ #%d %s (due %s)", task.ID, task.Title, task.DueDate)
}

// focus starts the timer. Without an id the session is not tied to a task.
func (b *Bot) focus(ctx context.Context, args string) string {
	var taskID *int64
	if args != "" {
		id, err := parseTaskID(args)
		if err != nil {
			return err.Error()
		}
		task, err := b.tasks.FindTask(ctx, id)
		if err != nil {
			return errorText(err)
		}
		taskID = &task.ID
	}
	if b.timer.Snapshot().State != timer.StateIdle {
		return errorText(fmt.Errorf("focus: %w", timer.ErrInvalidTransition))
	}
	b.timer.SelectTask(taskID)
	if err := b.timer.Start(); err != nil {
		return errorText(err)
	}
	return "▶️ " + b.timer.Snapshot().String()
}

func (b *Bot) timerAction(action func() error) string {
	if err := action(); err != nil {
		return errorText(err)
	}
	return "⏱ " + b.timer.Snapshot().String()
}

func (b *Bot) withTaskID(args string, fn func(id int64) string) string {
	id, err := parseTaskID(args)
	if err != nil {
		return err.Error()
	}
	return fn(id)
}

func (b *Bot) sendReply(r reply) error {
	msg := tgbotapi.NewMessage(b.chatID, r.text)
	msg.DisableWebPagePreview = true
	if r.keyboard != nil {
		msg.ReplyMarkup = *r.keyboard
	}
	_, err := b.api.Send(msg)
	return err
}

func parseTaskID(raw string) (int64, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	if raw == "" {
		return 0, errors.New("task id required, e.g. /done 3")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a task id", raw)
	}
	return id, nil
}

// errorText turns an error into the message shown to the user.
func errorText(err error) string {
	var verr *service.ValidationError
	var apiErr *api.APIError
	switch {
	case errors.As(err, &verr):
		return "⚠️ " + verr.Message
	case errors.As(err, &apiErr):
		return "⚠️ " + apiErr.Message
	case errors.Is(err, store.ErrNotFound):
		return "⚠️ Task not found"
	case errors.Is(err, timer.ErrInvalidTransition):
		return "⚠️ The timer can't do that right now"
	case errors.Is(err, service.ErrGuestMode):
		return "⚠️ " + err.Error()
	default:
		log.Printf("bot: %v", err)
		return "⚠️ Something went wrong, please try again"
	}
}
