package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/stretchr/testify/require"
)

// Decode the JSON lines written to buf, without the "time" field
func entries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	result := []map[string]any{}
	for line := range strings.Lines(buf.String()) {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		require.Contains(t, entry, "time")
		delete(entry, "time")
		result = append(result, entry)
	}
	buf.Reset()
	return result
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx := logging.AddToContext(t.Context(), logger)

	require.Same(t, logger, logging.FromContext(ctx))
}

func TestFromContextFallback(t *testing.T) {
	t.Parallel()

	logger := logging.FromContext(t.Context())
	require.NotNil(t, logger)
	logger.Info("don't crash when no logger in context")
}

func TestAddMetaToContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	rootLogger := slog.New(slog.NewJSONHandler(buf, nil)).With(slog.String("instanceID", "instance"))
	ctx := logging.AddToContext(t.Context(), rootLogger)

	messageCtx := logging.AddMetaToContext(
		ctx,
		slog.String("userId", "10"),
		slog.String("chatId", "5"),
	)
	commandCtx := logging.AddMetaToContext(messageCtx, slog.String("command", "balance"))

	logging.FromContext(ctx).Info("root")
	logging.FromContext(messageCtx).Info("message")
	logging.FromContext(commandCtx).Warn("command")

	require.Equal(t, []map[string]any{
		{
			"level":      "INFO",
			"msg":        "root",
			"instanceID": "instance",
		},
		{
			"level":      "INFO",
			"msg":        "message",
			"instanceID": "instance",
			"userId":     "10",
			"chatId":     "5",
		},
		{
			"level":      "WARN",
			"msg":        "command",
			"instanceID": "instance",
			"userId":     "10",
			"chatId":     "5",
			"command":    "balance",
		},
	}, entries(t, buf))

	t.Run("later values win", func(t *testing.T) {
		t.Parallel()

		buf := &bytes.Buffer{}
		ctx := logging.AddToContext(t.Context(), slog.New(slog.NewJSONHandler(buf, nil)))
		ctx = logging.AddMetaToContext(ctx, slog.String("command", "start"))
		ctx = logging.AddMetaToContext(ctx, slog.String("command", "help"))

		logging.FromContext(ctx).Info("test")

		require.Equal(t, []map[string]any{
			{
				"level":   "INFO",
				"msg":     "test",
				"command": "help",
			},
		}, entries(t, buf))
	})
}
