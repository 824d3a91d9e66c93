// Package botloop connects the Telegram long-polling transport to the
// dialogue dispatcher. Updates for one chat are handled strictly in order by
// a per-chat worker; a global semaphore bounds how many chats process at
// once, since each job usually spans an LLM call.
package botloop

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/dialog"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/resources"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/session"
	"github.com/wodinaz-hub/chatgpt-telegram-bot/internal/worker"
)

const pollTimeoutSeconds = 60

var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Main menu"},
	{Command: "help", Description: "What I can do"},
	{Command: "random", Description: "A random interesting fact"},
	{Command: "gpt", Description: "Ask ChatGPT"},
	{Command: "talk", Description: "Talk to a famous personality"},
	{Command: "quiz", Description: "Take a quiz"},
	{Command: "cancel", Description: "End the current conversation"},
}

type job struct {
	ChatID  int64
	Event   dialog.Event
	TraceID string
}

type chatWorker struct {
	Jobs chan job
}

type Bot struct {
	API        *tgbotapi.BotAPI
	Store      *session.Store
	Dispatcher *dialog.Dispatcher
	Resources  *resources.Loader
	Logger     *slog.Logger

	MaxConcurrent int

	mu      sync.Mutex
	workers map[int64]*chatWorker
}

func New(token string, store *session.Store, d *dialog.Dispatcher, res *resources.Loader, maxConcurrent int, logger *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		API:           api,
		Store:         store,
		Dispatcher:    d,
		Resources:     res,
		Logger:        logger,
		MaxConcurrent: maxConcurrent,
		workers:       make(map[int64]*chatWorker),
	}, nil
}

// Run registers the command list and polls for updates until ctx is done. A
// failing session never stops the loop.
func (b *Bot) Run(ctx context.Context) error {
	if _, err := b.API.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		b.Logger.Error("failed to register bot commands", "error", err)
	} else {
		b.Logger.Info("bot commands registered")
	}
	b.Logger.Info("bot started", "username", b.API.Self.UserName)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = pollTimeoutSeconds
	updates := b.API.GetUpdatesChan(updateCfg)

	sem := make(chan struct{}, b.MaxConcurrent)
	workersCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			chatID, ev, ok := eventFromUpdate(update)
			if !ok {
				continue
			}
			b.answerCallback(update)
			j := job{ChatID: chatID, Event: ev, TraceID: uuid.NewString()}
			w := b.workerFor(chatID, workersCtx, sem)
			if err := worker.Enqueue(ctx, workersCtx, w.Jobs, j); err != nil {
				b.Logger.Error("failed to enqueue update", "chat_id", chatID, "error", err)
			}
		}
	}
}

func (b *Bot) workerFor(chatID int64, workersCtx context.Context, sem chan struct{}) *chatWorker {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w, ok := b.workers[chatID]; ok {
		return w
	}
	w := &chatWorker{Jobs: make(chan job, 16)}
	b.workers[chatID] = w
	worker.Start(worker.StartOptions[job]{
		Ctx:    workersCtx,
		Sem:    sem,
		Jobs:   w.Jobs,
		Handle: b.handle,
	})
	return w
}

func (b *Bot) handle(ctx context.Context, j job) {
	logger := b.Logger.With("chat_id", j.ChatID, "trace_id", j.TraceID)
	start := time.Now()

	var replies []dialog.Reply
	b.Store.Do(j.ChatID, func(s *session.Session) {
		replies = b.Dispatcher.Handle(ctx, s, j.Event)
	})

	for _, reply := range replies {
		b.send(j.ChatID, reply, logger)
	}
	logger.Debug("update handled", "replies", len(replies), "duration", time.Since(start))
}

func (b *Bot) answerCallback(update tgbotapi.Update) {
	if update.CallbackQuery == nil {
		return
	}
	if _, err := b.API.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, "")); err != nil {
		b.Logger.Warn("failed to answer callback query", "error", err)
	}
}

// send renders one reply: a photo with caption when the image resource
// exists, otherwise plain text, either with an inline keyboard attached.
func (b *Bot) send(chatID int64, reply dialog.Reply, logger *slog.Logger) {
	markup, hasMenu := menuMarkup(reply.Menu)

	if reply.ImageKey != "" {
		if path, ok := b.Resources.ImagePath(reply.ImageKey); ok {
			photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
			photo.Caption = reply.Text
			if hasMenu {
				photo.ReplyMarkup = markup
			}
			_, err := b.API.Send(photo)
			if err == nil {
				return
			}
			logger.Error("failed to send photo, falling back to text", "image", reply.ImageKey, "error", err)
		} else {
			logger.Warn("image resource missing, sending text only", "image", reply.ImageKey)
		}
	}

	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if hasMenu {
		msg.ReplyMarkup = markup
	}
	if _, err := b.API.Send(msg); err != nil {
		logger.Error("failed to send message", "error", err)
	}
}

// eventFromUpdate maps a Telegram update onto one of the three dispatcher
// event shapes. Updates with no usable payload are dropped.
func eventFromUpdate(update tgbotapi.Update) (int64, dialog.Event, bool) {
	if cb := update.CallbackQuery; cb != nil && cb.Message != nil {
		return cb.Message.Chat.ID, dialog.Event{Kind: dialog.EventButton, Payload: cb.Data}, true
	}
	if msg := update.Message; msg != nil {
		if msg.IsCommand() {
			return msg.Chat.ID, dialog.Event{Kind: dialog.EventCommand, Payload: msg.Command()}, true
		}
		if msg.Text != "" {
			return msg.Chat.ID, dialog.Event{Kind: dialog.EventText, Payload: msg.Text}, true
		}
	}
	return 0, dialog.Event{}, false
}

// menuMarkup renders a MenuSpec as an inline keyboard, one button per row.
func menuMarkup(menu resources.MenuSpec) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(menu) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(menu))
	for _, btn := range menu {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Payload),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...), true
}
