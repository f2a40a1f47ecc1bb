package reporting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/Amund211/ethwalletbot/internal/config"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/getsentry/sentry-go"
)

var addressRx = regexp.MustCompile(`0x[0-9a-fA-F]{40}`)
var apiKeyRx = regexp.MustCompile(`apikey=[^&"\s]*`)
var botTokenRx = regexp.MustCompile(`bot\d+:[A-Za-z0-9_-]+`)
var hostRx = regexp.MustCompile(`\[:{0,2}([0-9a-f]{0,4}:?){1,8}\]:\d+`)

func sanitizeError(err string) string {
	err = addressRx.ReplaceAllString(err, "<address>")
	err = apiKeyRx.ReplaceAllString(err, "apikey=<apikey>")
	err = botTokenRx.ReplaceAllString(err, "bot<token>")
	err = hostRx.ReplaceAllString(err, "<host>")
	return err
}

func Report(ctx context.Context, err error, extras ...map[string]string) {
	hub := sentry.GetHubFromContext(ctx)
	logger := logging.FromContext(ctx)

	if err == nil {
		err = errors.New("No error provided")
	}

	if hub == nil {
		logger.WarnContext(ctx, "Failed to get Sentry hub from context", "error", err.Error(), "extras", extras)
		return
	}

	logger.ErrorContext(
		ctx,
		"Reporting error to Sentry",
		slog.String("error", err.Error()),
		slog.Any("extras", extras),
	)

	hub.WithScope(func(scope *sentry.Scope) {
		meta := MetaFromContext(ctx)
		scope.SetTags(meta.tags)
		for key, value := range meta.extras {
			scope.SetExtra(key, value)
		}
		if meta.userID != "" {
			scope.SetUser(sentry.User{
				ID: meta.userID,
			})
		}
		if !meta.startedAt.IsZero() {
			scope.SetExtra("secondsSinceStart", time.Since(meta.startedAt).Seconds())
		}

		for _, extra := range extras {
			for key, value := range extra {
				scope.SetExtra(key, value)
			}
		}

		scope.SetFingerprint([]string{"{{ default }}", sanitizeError(err.Error())})
		hub.CaptureException(err)
	})
}

// Report a value returned by recover(). Returns true if there was a panic.
func RecoverAndReport(ctx context.Context, recovered any) bool {
	if recovered == nil {
		return false
	}

	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("panic: %v", recovered)
	} else {
		err = fmt.Errorf("panic: %w", err)
	}

	Report(ctx, err)
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		hub.Flush(2 * time.Second)
	}
	return true
}

// Attach a dedicated Sentry hub to the context, so scopes don't leak between messages
func AddHubToContext(ctx context.Context) context.Context {
	if sentry.HasHubOnContext(ctx) {
		return ctx
	}
	return sentry.SetHubOnContext(ctx, sentry.CurrentHub().Clone())
}

func InitSentry(sentryDSN string, environment string) (func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              sentryDSN,
		Environment:      environment,
		EnableTracing:    true,
		TracesSampleRate: 1.0 / 100.0,
	})
	if err != nil {
		return nil, err
	}

	flush := func() {
		sentry.Flush(5 * time.Second)
	}

	return flush, nil
}

func NewSentryOrMock(conf config.Config) (func(), error) {
	environment := "development"
	if conf.IsProduction() {
		environment = "production"
	} else if conf.IsStaging() {
		environment = "staging"
	}

	if conf.SentryDSN() != "" {
		return InitSentry(conf.SentryDSN(), environment)
	}

	if conf.IsDevelopment() {
		return func() {}, nil
	}

	return nil, fmt.Errorf("Missing Sentry DSN in non-development environment")
}
