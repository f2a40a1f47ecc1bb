package ports

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type portsMetricsCollection struct {
	messageCount    metric.Int64Counter
	messageDuration metric.Float64Histogram
}

var metrics portsMetricsCollection

func init() {
	const name = "ethwalletbot/ports"
	meter := otel.Meter(name)

	messageCount, err := meter.Int64Counter(
		"ports/message_count",
		metric.WithDescription("Total number of messages received"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create message count metric: %w", err))
	}

	messageDuration, err := meter.Float64Histogram(
		"ports/message_duration_seconds",
		metric.WithDescription("Processing time for received messages"),
		metric.WithUnit("s"),
	)
	if err != nil {
		panic(fmt.Errorf("failed to create message duration metric: %w", err))
	}

	metrics = portsMetricsCollection{
		messageCount:    messageCount,
		messageDuration: messageDuration,
	}
}

func buildMetricsMiddleware(command string) func(Handler) Handler {
	return func(next Handler) Handler {
		return func(ctx context.Context, msg Message) {
			start := time.Now()

			next(ctx, msg)

			// NOTE: user ids are left out to keep cardinality bounded
			attributesOption := metric.WithAttributes(
				attribute.String("command", command),
			)

			metrics.messageCount.Add(ctx, 1, attributesOption)
			metrics.messageDuration.Record(ctx, time.Since(start).Seconds(), attributesOption)
		}
	}
}
