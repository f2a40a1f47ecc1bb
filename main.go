package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Amund211/ethwalletbot/internal/adapters/activitylog"
	"github.com/Amund211/ethwalletbot/internal/adapters/conversationstate"
	"github.com/Amund211/ethwalletbot/internal/adapters/explorer"
	"github.com/Amund211/ethwalletbot/internal/adapters/telegram"
	"github.com/Amund211/ethwalletbot/internal/adapters/walletrepository"
	"github.com/Amund211/ethwalletbot/internal/app"
	"github.com/Amund211/ethwalletbot/internal/config"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/ports"
	"github.com/Amund211/ethwalletbot/internal/ratelimiting"
	"github.com/Amund211/ethwalletbot/internal/reporting"
	"github.com/Amund211/ethwalletbot/internal/telemetry"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/crypto/x509roots/fallback"
)

const pendingCaptureTTL = 10 * time.Minute

func main() {
	instanceID := uuid.New().String()
	logger := slog.New(logging.NewTracingLogHandler(slog.NewJSONHandler(os.Stdout, nil))).With("instanceID", instanceID)

	fail := func(msg string, args ...any) {
		logger.Error(msg, args...)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.AddToContext(ctx, logger)

	err := config.LoadDotEnv()
	if err != nil {
		fail("Failed to load .env", "error", err.Error())
	}

	config, err := config.ConfigFromEnv()
	if err != nil {
		fail("Failed to load config", "error", err.Error())
	}
	logger.Info("Loaded config", "config", config.NonSensitiveString())

	if config.OTelEnabled() {
		shutdownOTel, err := telemetry.SetupOTelSDK(ctx, "ethwalletbot")
		if err != nil {
			fail("Failed to set up OpenTelemetry", "error", err.Error())
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(shutdownCtx); err != nil {
				logger.Error("Failed to shut down OpenTelemetry", "error", err.Error())
			}
		}()
		logger.Info("Initialized OpenTelemetry")
	}

	flush, err := reporting.NewSentryOrMock(config)
	if err != nil {
		fail("Failed to initialize Sentry", "error", err.Error())
	}
	defer flush()
	logger.Info("Initialized Sentry")

	explorerHTTPClient := &http.Client{
		Timeout:   10 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	etherscan, err := explorer.NewEtherscanOrMock(config, explorerHTTPClient)
	if err != nil {
		fail("Failed to initialize explorer", "error", err.Error())
	}
	logger.Info("Initialized explorer")

	activityLog, err := activitylog.NewFile(config.ActivityLogDir())
	if err != nil {
		fail("Failed to initialize activity log", "error", err.Error())
	}

	wallets := walletrepository.NewMemory()

	states, stopStates := conversationstate.NewTTLStore(pendingCaptureTTL)
	defer stopStates()

	userRateLimiter, stopRateLimiter := ratelimiting.NewTokenBucketRateLimiter(
		ratelimiting.RefillPerSecond(1),
		ratelimiting.BurstSize(20),
	)
	defer stopRateLimiter()

	err = telegram.SetLogger(logger.With("component", "telegram"))
	if err != nil {
		fail("Failed to set bot api logger", "error", err.Error())
	}

	botHTTPClient := &http.Client{
		// Long polling holds requests open for a while
		Timeout:   60 * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	bot, err := telegram.NewBot(config.BotToken(), tgbotapi.APIEndpoint, botHTTPClient)
	if err != nil {
		fail("Failed to initialize bot", "error", err.Error())
	}
	logger.Info("Initialized bot", "username", bot.UserName())

	dispatcher := ports.NewDispatcher(
		bot,
		activityLog,
		states,
		app.BuildSetWallet(wallets),
		app.BuildGetTransactions(wallets, etherscan),
		app.BuildGetBalance(wallets, etherscan),
		userRateLimiter,
		logger.With("port", "telegram"),
	)

	logger.Info("Init complete")
	err = bot.Run(ctx, func(ctx context.Context, chatID domain.ChatID, userID domain.UserID, text string) {
		dispatcher.Handle(ctx, ports.Message{ChatID: chatID, UserID: userID, Text: text})
	})
	if err != nil {
		fail("Bot error", "error", err.Error())
	}
	logger.Info("Bot shutdown")
}
