package mpesa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vibeprint/storefront/pkg/logger"
)

// Client initiates M-Pesa payments through the storefront's payment service.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new M-Pesa client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Pay asks the service to push a payment prompt to req.Phone. A 2xx answer
// means the prompt was sent, not that the customer paid.
func (c *Client) Pay(ctx context.Context, req PayRequest) (*PayResponse, error) {
	if req.Phone == "" || req.Amount <= 0 {
		return nil, ErrInvalidRequest
	}

	body, err := c.doRequest(ctx, c.config.PayPath, req)
	if err != nil {
		return nil, err
	}

	resp := &PayResponse{Raw: body}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, resp); err != nil {
			// The prompt went out; an odd body doesn't change that.
			logger.Warn("Unexpected M-Pesa success body", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return resp, nil
}

func (c *Client) doRequest(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	logger.Debug("M-Pesa request", map[string]interface{}{
		"url": url,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetworkError, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		message := UnknownErrorMessage
		if err := json.Unmarshal(body, &errResp); err == nil {
			message = errResp.Message()
		}

		logger.Warn("M-Pesa request rejected", map[string]interface{}{
			"status":  resp.StatusCode,
			"message": message,
		})
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    message,
			Body:       string(body),
		}
	}

	return body, nil
}
