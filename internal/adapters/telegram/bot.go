package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/reporting"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Long polling timeout. Bounds how long shutdown waits for the poll in flight.
const updateTimeoutSeconds = 10

type HttpClient = tgbotapi.HTTPClient

type Handler func(ctx context.Context, chatID domain.ChatID, userID domain.UserID, text string)

type Bot struct {
	api    *tgbotapi.BotAPI
	token  string
	tracer trace.Tracer
}

// Transport errors carry the request url, which contains the token
func redactToken(err error, token string) error {
	if token == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "<token>"))
}

// Connect to the Bot API at endpoint, e.g. tgbotapi.APIEndpoint. Fails if the token is rejected.
func NewBot(token string, endpoint string, httpClient HttpClient) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, httpClient)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to bot api: %w", redactToken(err, token))
	}

	return &Bot{
		api:    api,
		token:  token,
		tracer: otel.Tracer("ethwalletbot/telegram"),
	}, nil
}

func (b *Bot) UserName() string {
	return b.api.Self.UserName
}

func (b *Bot) Reply(ctx context.Context, chatID domain.ChatID, text string) error {
	ctx, span := b.tracer.Start(ctx, "Bot.Reply", trace.WithAttributes(
		attribute.Int64("chat_id", int64(chatID)),
	))
	defer span.End()

	for _, chunk := range splitMessage(text, maxMessageLength) {
		_, err := b.api.Send(tgbotapi.NewMessage(int64(chatID), chunk))
		if err != nil {
			err := fmt.Errorf("failed to send message: %w", redactToken(err, b.token))
			reporting.Report(ctx, err)
			return err
		}
	}
	return nil
}

// Poll for updates and pass text messages to handle until ctx is done.
//
// Messages from the same chat are handled in order. Returns once polling has stopped and every
// handler has finished.
func (b *Bot) Run(ctx context.Context, handle Handler) error {
	logger := logging.FromContext(ctx)

	config := tgbotapi.NewUpdate(0)
	config.Timeout = updateTimeoutSeconds
	config.AllowedUpdates = []string{"message"}
	updates := b.api.GetUpdatesChan(config)

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "Stopping update polling")
			b.api.StopReceivingUpdates()
		case <-stopped:
		}
	}()

	// In-flight handlers finish even when shutdown has started
	handlerCtx := context.WithoutCancel(ctx)
	queue := newChatQueue()

	for update := range updates {
		message := update.Message
		if message == nil || message.Chat == nil || message.From == nil {
			logger.DebugContext(ctx, "Ignoring update without message", "updateID", update.UpdateID)
			continue
		}

		chatID := domain.ChatID(message.Chat.ID)
		userID := domain.UserID(message.From.ID)
		text := message.Text
		queue.Submit(chatID, func() {
			handle(handlerCtx, chatID, userID, text)
		})
	}

	logger.InfoContext(ctx, "Waiting for in-flight handlers", "activeChats", queue.activeChats())
	queue.Wait()

	return nil
}

type slogBotLogger struct {
	logger *slog.Logger
}

func (l slogBotLogger) Println(v ...any) {
	l.logger.Warn(fmt.Sprint(v...), "logger", "tgbotapi")
}

func (l slogBotLogger) Printf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), "logger", "tgbotapi")
}

// Route log output from the bot api library (polling errors, retries) to logger
func SetLogger(logger *slog.Logger) error {
	return tgbotapi.SetLogger(slogBotLogger{logger: logger})
}
