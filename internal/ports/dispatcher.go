package ports

import (
	"context"
	"log/slog"

	"github.com/Amund211/ethwalletbot/internal/adapters/activitylog"
	"github.com/Amund211/ethwalletbot/internal/adapters/conversationstate"
	"github.com/Amund211/ethwalletbot/internal/app"
	"github.com/Amund211/ethwalletbot/internal/ratelimiting"
)

const fallbackName = "fallback"

// Routes each message to the handler of its command, or to the fallback
type Dispatcher struct {
	commands map[string]Handler
	fallback Handler
}

func NewDispatcher(
	replier Replier,
	activityLog activitylog.ActivityLogger,
	states conversationstate.Store,
	setWallet app.SetWallet,
	getTransactions app.GetTransactions,
	getBalance app.GetBalance,
	userRateLimiter ratelimiting.RateLimiter,
	rootLogger *slog.Logger,
) *Dispatcher {
	h := &handlers{
		replier:     replier,
		activityLog: activityLog,
		states:      states,

		setWallet:       setWallet,
		getTransactions: getTransactions,
		getBalance:      getBalance,
	}

	onLimitExceeded := func(ctx context.Context, msg Message) {
		h.reply(ctx, msg.ChatID, rateLimitedReply)
	}

	withMiddleware := func(name string, handler Handler) Handler {
		middleware := ComposeMiddlewares(
			buildMetricsMiddleware(name),
			NewLoggerMiddleware(rootLogger, name),
			NewSentryMiddleware(name),
			NewRateLimitMiddleware(userRateLimiter, onLimitExceeded),
		)
		return middleware(handler)
	}

	commands := map[string]Handler{
		"start":              h.start,
		"help":               h.help,
		"set_wallet":         h.requestWallet,
		"check_transactions": h.checkTransactions,
		"balance":            h.balance,
		"cancel":             h.cancel,
	}

	d := &Dispatcher{
		commands: make(map[string]Handler, len(commands)),
		fallback: withMiddleware(fallbackName, h.fallback),
	}
	for name, handler := range commands {
		d.commands["/"+name] = withMiddleware(name, handler)
	}

	return d
}

func (d *Dispatcher) Handle(ctx context.Context, msg Message) {
	handler, ok := d.commands[parseCommand(msg.Text)]
	if !ok {
		handler = d.fallback
	}

	handler(ctx, msg)
}
