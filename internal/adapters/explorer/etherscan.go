package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Amund211/ethwalletbot/internal/constants"
	"github.com/Amund211/ethwalletbot/internal/domain"
	"github.com/Amund211/ethwalletbot/internal/logging"
	"github.com/Amund211/ethwalletbot/internal/ratelimiting"
	"github.com/Amund211/ethwalletbot/internal/reporting"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	transactionPageSize = 10
	maxBlock            = 99999999

	// Free tier allowance
	requestsPerWindow = 5
	requestWindow     = 1 * time.Second

	minOperationTime = 200 * time.Millisecond
)

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type RequestLimiter interface {
	Limit(ctx context.Context, minOperationTime time.Duration, operation func(ctx context.Context)) bool
}

type etherscanMetricsCollection struct {
	requestCount metric.Int64Counter
}

func setupEtherscanMetrics(meter metric.Meter) (etherscanMetricsCollection, error) {
	requestCount, err := meter.Int64Counter(
		"explorer/request_count",
		metric.WithDescription("Requests sent to the explorer API"),
	)
	if err != nil {
		return etherscanMetricsCollection{}, fmt.Errorf("failed to create request count metric: %w", err)
	}

	return etherscanMetricsCollection{
		requestCount: requestCount,
	}, nil
}

type etherscan struct {
	httpClient HttpClient
	limiter    RequestLimiter
	baseURL    string
	chainID    int
	apiKey     string

	metrics etherscanMetricsCollection
	tracer  trace.Tracer
}

func NewEtherscan(
	httpClient HttpClient,
	baseURL string,
	chainID int,
	apiKey string,
	nowFunc func() time.Time,
	afterFunc func(time.Duration) <-chan time.Time,
) (*etherscan, error) {
	const name = "ethwalletbot/explorer/etherscan"

	metrics, err := setupEtherscanMetrics(otel.Meter(name))
	if err != nil {
		return nil, fmt.Errorf("failed to set up metrics: %w", err)
	}

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	return &etherscan{
		httpClient: httpClient,
		limiter:    ratelimiting.NewWindowLimiter(requestsPerWindow, requestWindow, nowFunc, afterFunc),
		baseURL:    baseURL,
		chainID:    chainID,
		apiKey:     apiKey,

		metrics: metrics,
		tracer:  otel.Tracer(name),
	}, nil
}

func (e *etherscan) FetchTransactions(ctx context.Context, address string) (Response, error) {
	ctx, span := e.tracer.Start(ctx, "Etherscan.FetchTransactions")
	defer span.End()

	return e.get(ctx, "txlist", url.Values{
		"address":    {address},
		"startblock": {"0"},
		"endblock":   {strconv.Itoa(maxBlock)},
		"page":       {"1"},
		"offset":     {strconv.Itoa(transactionPageSize)},
		"sort":       {"asc"},
	})
}

func (e *etherscan) FetchBalance(ctx context.Context, address string) (Response, error) {
	ctx, span := e.tracer.Start(ctx, "Etherscan.FetchBalance")
	defer span.End()

	return e.get(ctx, "balance", url.Values{
		"address": {address},
		"tag":     {"latest"},
	})
}

func (e *etherscan) requestURL(action string, params url.Values) string {
	query := url.Values{}
	for key, values := range params {
		query[key] = values
	}
	query.Set("chainid", strconv.Itoa(e.chainID))
	query.Set("module", "account")
	query.Set("action", action)
	query.Set("apikey", e.apiKey)

	return fmt.Sprintf("%s?%s", e.baseURL, query.Encode())
}

func (e *etherscan) get(ctx context.Context, action string, params url.Values) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.requestURL(action, params), nil)
	if err != nil {
		err := fmt.Errorf("failed to create request: %w", err)
		reporting.Report(ctx, err)
		return Response{}, err
	}

	req.Header.Set("User-Agent", constants.USER_AGENT)

	var resp *http.Response
	var data []byte
	start := time.Now()
	ran := e.limiter.Limit(ctx, minOperationTime, func(ctx context.Context) {
		resp, err = e.httpClient.Do(req)
		if err != nil {
			err = fmt.Errorf("failed to send request: %w", redactAPIKey(err, e.apiKey))
			reporting.Report(ctx, err, map[string]string{"action": action})
			return
		}

		defer resp.Body.Close()
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			err = fmt.Errorf("failed to read response body: %w", err)
			reporting.Report(ctx, err, map[string]string{"action": action})
			return
		}
	})
	if !ran {
		logging.FromContext(ctx).WarnContext(ctx, "Did not query explorer due to rate limiting", "action", action, "ctx_error", ctx.Err())
		return Response{}, fmt.Errorf("%w: too many requests to explorer API", domain.ErrTemporarilyUnavailable)
	}
	if err != nil {
		return Response{}, err
	}

	logging.FromContext(ctx).InfoContext(
		ctx,
		"explorer request completed",
		"action", action,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	response, err := responseFromEtherscan(resp.StatusCode, data)

	e.metrics.requestCount.Add(
		ctx,
		1,
		metric.WithAttributes(
			attribute.String("action", action),
			attribute.String("status_code", strconv.Itoa(resp.StatusCode)),
			attribute.String("explorer_status", response.Status),
		),
	)

	if errors.Is(err, domain.ErrTemporarilyUnavailable) {
		// Don't report, the explorer is expected to be unavailable from time to time
		logging.FromContext(ctx).WarnContext(ctx, "Explorer temporarily unavailable", "action", action, "error", err.Error())
		return Response{}, err
	} else if err != nil {
		err := fmt.Errorf("failed to parse explorer response: %w", err)
		reporting.Report(ctx, err, map[string]string{
			"action": action,
			"data":   string(data),
			"status": strconv.Itoa(resp.StatusCode),
		})
		return Response{}, err
	}

	return response, nil
}

// Transport errors carry the request url, which contains the api key
func redactAPIKey(err error, apiKey string) error {
	if apiKey == "" {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), apiKey, "<apikey>"))
}

func responseFromEtherscan(statusCode int, data []byte) (Response, error) {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return Response{}, fmt.Errorf("%w: explorer API returned status code %d", domain.ErrTemporarilyUnavailable, statusCode)
	}

	if statusCode != http.StatusOK {
		return Response{}, fmt.Errorf("explorer API returned status code %d", statusCode)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("failed to decode explorer response: %w", err)
	}

	if response.Status == "" {
		return Response{}, fmt.Errorf("explorer response is missing status")
	}

	return response, nil
}
