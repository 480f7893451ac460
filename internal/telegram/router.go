package telegram

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Neel-XV/tg-weather-bot/internal/domain"
	"github.com/Neel-XV/tg-weather-bot/internal/registry"
	"github.com/Neel-XV/tg-weather-bot/internal/weather"
)

// Router parses Telegram updates into commands, authorizes them and routes
// them to handlers. It holds no cross-message state beyond its collaborators.
type Router struct {
	bot      BotAPI
	log      *zap.Logger
	access   *domain.AccessList
	registry *registry.Registry
	weather  weather.Client
	timeout  time.Duration // bound on each weather lookup
}

// NewRouter creates a new Telegram router.
func NewRouter(bot BotAPI, log *zap.Logger, access *domain.AccessList, reg *registry.Registry, wc weather.Client, timeout time.Duration) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		access:   access,
		registry: reg,
		weather:  wc,
		timeout:  timeout,
	}
}

// parseCommand splits raw message text into a command token and arguments.
// Non-command text (no leading slash) is not an error; ok is false.
func parseCommand(text string) (cmd string, args []string, ok bool) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") || len(fields[0]) == 1 {
		return "", nil, false
	}
	cmd = strings.ToLower(strings.TrimPrefix(fields[0], "/"))
	// Group chats address commands as /weather@BotName.
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd, fields[1:], true
}

// HandleUpdate routes a single update. Safe to call concurrently; the
// registry serializes its own mutations.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.From == nil {
		return
	}

	cmd, args, ok := parseCommand(msg.Text)
	if !ok {
		return
	}

	r.dispatch(ctx, msg.Chat.ID, msg.From.ID, msg.From.ID, cmd, args, false)
}

// dispatch resolves, authorizes and executes one command. Under
// impersonation it is re-entered once with the target's identity in
// effective while sender and chatID remain the admin's.
func (r *Router) dispatch(ctx context.Context, chatID, sender, effective int64, cmd string, args []string, nested bool) {
	switch cmd {
	case "start", "help":
		r.reply(chatID, helpText)
		return
	case "weather", "add", "remove", "list", "history", "mock":
	default:
		r.log.Info("unknown command", zap.String("command", cmd), zap.Int64("user_id", sender))
		r.reply(chatID, textUnknownCommand)
		return
	}

	if !r.access.IsAuthorized(sender) {
		r.log.Warn("unauthorized command", zap.String("command", cmd), zap.Int64("user_id", sender))
		r.reply(chatID, textUnauthorized)
		return
	}

	switch cmd {
	case "weather":
		r.handleWeather(ctx, chatID, effective, args)
	case "add":
		r.handleAdd(ctx, chatID, effective, args)
	case "remove":
		r.handleRemove(ctx, chatID, effective, args)
	case "list":
		r.handleList(chatID, effective)
	case "history":
		r.handleHistory(ctx, chatID, args)
	case "mock":
		if nested {
			r.reply(chatID, textNoNestedMock)
			return
		}
		r.handleMock(ctx, chatID, sender, args)
	}
}

// handleMock impersonates another user: /mock <command> [args...] <user-id>.
// The impersonated command runs with the target's identity for registry and
// weather lookups while every reply still lands in the admin's chat.
func (r *Router) handleMock(ctx context.Context, chatID, sender int64, args []string) {
	if !r.access.IsAdmin(sender) {
		r.log.Warn("mock denied", zap.Int64("user_id", sender))
		r.reply(chatID, textForbidden)
		return
	}
	if len(args) < 2 {
		r.reply(chatID, usageMock)
		return
	}

	target, err := strconv.ParseInt(args[len(args)-1], 10, 64)
	if err != nil {
		r.reply(chatID, "Target user ID must be numeric.\n"+usageMock)
		return
	}

	inner := strings.ToLower(args[0])
	innerArgs := args[1 : len(args)-1]

	r.log.Info("impersonating user",
		zap.Int64("admin_id", sender),
		zap.Int64("target_id", target),
		zap.String("command", inner),
	)
	r.dispatch(ctx, chatID, sender, target, inner, innerArgs, true)
}

// SendMessage sends a plain text message to the given chat.
// This makes Router satisfy scheduler.Sender.
func (r *Router) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := r.bot.Send(msg)
	return err
}

// reply sends and logs a failed delivery, the best we can do for outbound.
func (r *Router) reply(chatID int64, text string) {
	if err := r.SendMessage(chatID, text); err != nil {
		r.log.Error("send reply failed", zap.Error(err), zap.Int64("chat_id", chatID))
	}
}
