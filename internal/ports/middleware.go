package ports

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/ratelimiting"
	"github.com/Amund211/ethwalletbot/internal/reporting"
	"github.com/google/uuid"
)

func NewRateLimitMiddleware(rateLimiter ratelimiting.RateLimiter, onLimitExceeded Handler) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg Message) {
			if !rateLimiter.Consume(ratelimiting.UserIDKey(msg.UserID)) {
				onLimitExceeded(ctx, msg)
				return
			}

			next(ctx, msg)
		}
	}
}

func NewLoggerMiddleware(logger *slog.Logger, command string) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg Message) {
			messageLogger := logger.With(
				slog.String("correlationID", uuid.NewString()),
				slog.String("userId", msg.UserID.String()),
				slog.String("chatId", strconv.FormatInt(int64(msg.ChatID), 10)),
				slog.String("command", command),
			)

			next(logging.AddToContext(ctx, messageLogger), msg)
		}
	}
}

// Attach a Sentry hub and reporting meta to the context, and report panics from the handler
func NewSentryMiddleware(command string) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg Message) {
			ctx = reporting.AddHubToContext(ctx)
			ctx = reporting.SetStartedAtInContext(ctx, time.Now())
			ctx = reporting.SetUserIDInContext(ctx, msg.UserID.String())
			ctx = reporting.AddTagsToContext(ctx, map[string]string{
				"command": command,
			})
			ctx = reporting.AddExtrasToContext(ctx, map[string]string{
				"chatId": strconv.FormatInt(int64(msg.ChatID), 10),
			})

			defer func() {
				if reporting.RecoverAndReport(ctx, recover()) {
					logging.FromContext(ctx).ErrorContext(ctx, "Recovered from panic in handler")
				}
			}()

			next(ctx, msg)
		}
	}
}

func ComposeMiddlewares(middlewares ...func(Handler) Handler) func(Handler) Handler {
	if len(middlewares) == 1 {
		return middlewares[0]
	}
	first := middlewares[0]
	rest := ComposeMiddlewares(middlewares[1:]...)
	return func(h Handler) Handler {
		return first(rest(h))
	}
}
