package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/vadiminshakov/satchart/internal/domain"
	"github.com/vadiminshakov/satchart/pkg/retrier"
)

const (
	defaultTimeout = 30 * time.Second
	historyPath    = "/getbalancehistory"
)

// ErrSessionExpired is returned when the API reports an expired session. It is never retried.
var ErrSessionExpired = errors.New("session expired")

// APIError non-zero result code reported inside the response envelope.
type APIError struct {
	Code   int
	Status string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("balance history API error %d: %s", e.Code, e.Status)
}

// Meta exchange rate details returned alongside a history.
type Meta = domain.HistoryMeta

type historyRequest struct {
	Address string `json:"address"`
}

// HistoryClient fetches balance histories from a remote chart API.
type HistoryClient struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retrier.Retrier
	logger     *zap.Logger
}

// HistoryOption configures a HistoryClient.
type HistoryOption func(*HistoryClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) HistoryOption {
	return func(h *HistoryClient) {
		h.httpClient = c
	}
}

// WithRetrier replaces the default retry policy. The client still refuses to retry API errors.
func WithRetrier(opts ...retrier.Option) HistoryOption {
	return func(h *HistoryClient) {
		h.retrier = h.newRetrier(opts...)
	}
}

// NewHistoryClient creates a client for the API served at baseURL.
func NewHistoryClient(baseURL string, logger *zap.Logger, opts ...HistoryOption) *HistoryClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &HistoryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}
	c.retrier = c.newRetrier()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HistoryClient) newRetrier(opts ...retrier.Option) *retrier.Retrier {
	base := []retrier.Option{
		retrier.WithOnRetry(func(attempt int, err error, wait time.Duration) {
			c.logger.Warn("balance history request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("wait", wait),
				zap.Error(err))
		}),
	}
	return retrier.New(append(base, opts...)...)
}

// FetchHistory returns the balance deltas of address and the rate used for local amounts.
func (c *HistoryClient) FetchHistory(ctx context.Context, address string) ([]domain.BalanceDelta, Meta, error) {
	if address == "" {
		return nil, Meta{}, errors.Wrap(domain.ErrInvalidInput, "address is empty")
	}

	body, err := json.Marshal(historyRequest{Address: address})
	if err != nil {
		return nil, Meta{}, errors.Wrap(err, "failed to marshal request")
	}

	history, err := retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) (domain.BalanceHistory, error) {
		return c.send(ctx, body)
	})
	if err != nil {
		return nil, Meta{}, errors.Wrapf(err, "fetch balance history of %s", address)
	}

	c.logger.Debug("balance history fetched",
		zap.String("address", address),
		zap.Int("deltas", len(history.Items)))
	return history.Items, history.Meta, nil
}

func (c *HistoryClient) send(ctx context.Context, body []byte) (domain.BalanceHistory, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+historyPath, bytes.NewReader(body))
	if err != nil {
		return domain.BalanceHistory{}, retrier.Permanent(errors.Wrap(err, "failed to create HTTP request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.BalanceHistory{}, errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.BalanceHistory{}, errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return domain.BalanceHistory{}, errors.Errorf("balance history API returned status %d", resp.StatusCode)
	}

	var envelope domain.Envelope[domain.BalanceHistory]
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return domain.BalanceHistory{}, retrier.Permanent(errors.Wrapf(err, "failed to unmarshal response with status %d", resp.StatusCode))
	}

	switch envelope.Error.Code {
	case domain.CodeOK:
		return envelope.Data, nil
	case domain.CodeSessionExpired:
		return domain.BalanceHistory{}, retrier.Permanent(ErrSessionExpired)
	default:
		return domain.BalanceHistory{}, retrier.Permanent(&APIError{Code: envelope.Error.Code, Status: envelope.Error.Status})
	}
}
