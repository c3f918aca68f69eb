package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"playpoint/backend/services/rental-coordinator/internal/models"
)

// HTTPDoer defines http.Client interface subset.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

const dispatchTimeout = 10 * time.Second

// ConsoleClient issues relay/TV commands against per-console HTTP endpoints.
// Any 2xx response counts as success; no retries are attempted.
type ConsoleClient struct {
	client HTTPDoer
	logger *zap.Logger
}

// NewConsoleClient builds client.
func NewConsoleClient(client HTTPDoer, logger *zap.Logger) *ConsoleClient {
	return &ConsoleClient{client: client, logger: logger}
}

// PowerOn sends the power-on command and waits for the outcome.
func (c *ConsoleClient) PowerOn(ctx context.Context, console models.Console) error {
	return c.command(ctx, console.ID, console.PowerOnURL)
}

// PowerOff sends the power-off command and waits for the outcome.
func (c *ConsoleClient) PowerOff(ctx context.Context, console models.Console) error {
	return c.command(ctx, console.ID, console.PowerOffURL)
}

// DispatchPowerOff sends the power-off command without awaiting the outcome.
// The result is discarded; callers must not depend on it.
func (c *ConsoleClient) DispatchPowerOff(console models.Console) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := c.command(ctx, console.ID, console.PowerOffURL); err != nil {
			c.logger.Debug("best-effort power-off failed",
				zap.String("console_id", console.ID),
				zap.Error(err),
			)
		}
	}()
}

type powerStatusResponse struct {
	Power string `json:"power"`
}

// PowerStatus queries the console's status-check endpoint for the actual
// power state.
func (c *ConsoleClient) PowerStatus(ctx context.Context, console models.Console) (bool, error) {
	resp, err := c.get(ctx, console.StatusURL)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var status powerStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return false, fmt.Errorf("clients: decode power status for %s: %w", console.ID, err)
	}
	return strings.EqualFold(status.Power, "on"), nil
}

func (c *ConsoleClient) command(ctx context.Context, consoleID, url string) error {
	resp, err := c.get(ctx, url)
	if err != nil {
		return fmt.Errorf("clients: command for %s: %w", consoleID, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *ConsoleClient) get(ctx context.Context, url string) (*http.Response, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("no command endpoint configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp, nil
}

// NewDefaultHTTPClient returns *http.Client with timeout.
func NewDefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
