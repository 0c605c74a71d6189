package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/custodia-labs/creator-bridge/internal/core/ports/driven"
	"github.com/custodia-labs/creator-bridge/internal/logger"
)

// Verify interface compliance
var _ driven.CreatorSource = (*CreatorClient)(nil)

// CreatorClient looks up creators in the Creator Marketplace partner API.
type CreatorClient struct {
	cfg        PartnerConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCreatorClient creates a partner API client.
func NewCreatorClient(cfg PartnerConfig, log *zap.Logger) *CreatorClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &CreatorClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.Named("tiktok_partner"),
	}
}

type creatorResponse struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	Data      map[string]any `json:"data"`
}

// FetchCreator fetches one creator by handle. A non-zero Code in the
// returned payload is a partner-side failure, not a transport error.
func (c *CreatorClient) FetchCreator(ctx context.Context, handle string) (*driven.CreatorPayload, error) {
	if c.cfg.BaseURL == "" {
		return nil, fmt.Errorf("partner api url not configured")
	}

	q := url.Values{
		"account_id":  {c.cfg.AccountID},
		"handle_name": {handle},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Access-Token", c.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var out creatorResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		c.logger.Warn("undecodable partner response",
			zap.String("handle", handle),
			zap.Int("status", resp.StatusCode),
			zap.String("body", logger.Truncate(body, maxLoggedBody)))
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("partner request rejected",
			zap.String("handle", handle),
			zap.Int("status", resp.StatusCode),
			zap.Int("code", out.Code),
			zap.String("request_id", out.RequestID))
		if out.Code == 0 {
			return nil, fmt.Errorf("partner api status %d", resp.StatusCode)
		}
	}

	return &driven.CreatorPayload{
		Code:      out.Code,
		Message:   out.Message,
		RequestID: out.RequestID,
		Data:      out.Data,
	}, nil
}
