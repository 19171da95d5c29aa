package jobqueue

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/resilience"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrTransient marks publish failures worth retrying; only these trip the breaker.
var ErrTransient = errors.New("qstash transient failure")

const (
	internalJobTokenHeader = "X-Internal-Job-Token"
	maxLoggedBody          = 4096
)

type QStashPublisherConfig struct {
	BaseURL          string
	Token            string
	TargetBaseURL    string
	Retries          int
	InternalJobToken string
	Timeout          time.Duration
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// QStashPublisher schedules internal job calls through Upstash QStash. QStash calls
// TargetBaseURL+path after the delay and forwards the internal job token header.
type QStashPublisher struct {
	client           *http.Client
	baseURL          string
	token            string
	targetBaseURL    string
	retries          int
	internalJobToken string
	logger           *logging.Logger
	breaker          *resilience.CircuitBreaker
}

func NewQStashPublisher(cfg QStashPublisherConfig, logger *logging.Logger) *QStashPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &QStashPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:          strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		token:            strings.TrimSpace(cfg.Token),
		targetBaseURL:    strings.TrimRight(strings.TrimSpace(cfg.TargetBaseURL), "/"),
		retries:          cfg.Retries,
		internalJobToken: strings.TrimSpace(cfg.InternalJobToken),
		logger:           logger,
		breaker:          resilience.NewCircuitBreakerFromConfig(cfg.CircuitBreaker),
	}
}

func (p *QStashPublisher) Enqueue(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) error {
	if p.breaker != nil {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "qstash circuit breaker rejected request", "state", p.breaker.State(), "path", path)
			return errors.Wrap(err, "qstash is temporarily unavailable")
		}
	}

	req, preview, err := p.buildRequest(ctx, path, payload, delay, deduplicationID)
	if err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "qstash publish request", "path", path, "curl_preview", preview)

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := errors.Mark(errors.Wrapf(err, "publish qstash job path=%s", path), ErrTransient)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxLoggedBody))
		callErr := errors.Newf("publish qstash job status=%d path=%s body=%s", resp.StatusCode, path, strings.TrimSpace(string(raw)))
		if isRetryableStatus(resp.StatusCode) {
			callErr = errors.Mark(callErr, ErrTransient)
		}
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "qstash job published", "path", path, "delay", normalizeDelay(delay), "deduplication_id", deduplicationID)
	p.recordCircuitResult(nil)
	return nil
}

func (p *QStashPublisher) buildRequest(ctx context.Context, path string, payload any, delay time.Duration, deduplicationID string) (*http.Request, string, error) {
	path = "/" + strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "/" {
		return nil, "", errors.New("job path is required")
	}

	baseURL, err := validateHTTPBaseURL(p.baseURL)
	if err != nil {
		return nil, "", errors.Wrap(err, "invalid QSTASH_BASE_URL")
	}
	targetBaseURL, err := validateHTTPBaseURL(p.targetBaseURL)
	if err != nil {
		return nil, "", errors.Wrap(err, "invalid QSTASH_TARGET_BASE_URL")
	}

	if payload == nil {
		payload = map[string]any{}
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, "", errors.Wrap(err, "marshal job payload")
	}

	targetURL := targetBaseURL + path
	publishURL := baseURL + "/v2/publish/" + targetURL
	headers := p.headers(delay, deduplicationID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, publishURL, bytes.NewReader(body))
	if err != nil {
		return nil, "", errors.Wrap(err, "create qstash request")
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	for _, h := range headers {
		req.Header.Set(h.name, h.value)
	}

	bodyText := truncateForLog(string(body), maxLoggedBody)
	preview := curlPreview(publishURL, path, headers, bodyText)
	if span := trace.SpanFromContext(ctx); span.IsRecording() {
		span.SetAttributes(
			attribute.String("qstash.target_url", targetURL),
			attribute.String("qstash.path", path),
			attribute.String("qstash.deduplication_id", deduplicationID),
			attribute.String("qstash.request_body", bodyText),
		)
	}
	return req, preview, nil
}

type header struct {
	name   string
	value  string
	secret bool
}

func (p *QStashPublisher) headers(delay time.Duration, deduplicationID string) []header {
	out := []header{
		{name: "Content-Type", value: "application/json"},
		{name: "Upstash-Method", value: http.MethodPost},
	}
	if p.retries > 0 {
		out = append(out, header{name: "Upstash-Retries", value: strconv.Itoa(p.retries)})
	}
	if delay > 0 {
		out = append(out, header{name: "Upstash-Delay", value: normalizeDelay(delay)})
	}
	if id := strings.TrimSpace(deduplicationID); id != "" {
		out = append(out, header{name: "Upstash-Deduplication-Id", value: id})
	}
	if p.internalJobToken != "" {
		out = append(out, header{name: "Upstash-Forward-" + internalJobTokenHeader, value: p.internalJobToken, secret: true})
	}
	return out
}

func (p *QStashPublisher) recordCircuitResult(err error) {
	if p.breaker == nil {
		return
	}
	if err != nil && errors.Is(err, ErrTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

func normalizeDelay(delay time.Duration) string {
	if delay <= 0 {
		return "0s"
	}
	return strconv.Itoa(int(delay.Round(time.Second).Seconds())) + "s"
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", errors.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", errors.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", errors.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", errors.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}

// curlPreview renders a replayable request for logs with secrets masked.
func curlPreview(publishURL, path string, headers []header, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl -X POST")
	appendPart(shellQuote(publishURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: Bearer ***"))
	for _, h := range headers {
		value := h.value
		if h.secret {
			value = "***"
		}
		appendPart("-H")
		appendPart(shellQuote(h.name + ": " + value))
	}
	appendPart("-d")
	appendPart(shellQuote(body))
	appendPart("#")
	appendPart(shellQuote("path=" + path))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}
