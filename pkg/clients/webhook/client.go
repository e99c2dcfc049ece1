package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mbacelar/rebanho/internal/config"
	"github.com/mbacelar/rebanho/internal/domain/models"
)

// Client delivers migration run results to an external callback endpoint.
type Client interface {
	NotifyMigrationResult(ctx context.Context, result models.MigrationResult) error
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client using the provided configuration values.
func NewClient(cfg config.NotifierConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// NotifyMigrationResult posts the run result as JSON to the configured URL.
func (c *APIClient) NotifyMigrationResult(ctx context.Context, result models.MigrationResult) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(result).
		SetError(apiErr).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post migration result: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return fmt.Errorf("webhook error: code=%d, message=%s", code, message)
	}

	return nil
}
