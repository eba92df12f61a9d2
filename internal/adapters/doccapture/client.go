package doccapture

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/firs-iln/gkh-bot/internal/contextkeys"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

// Client реализует DocumentCapturePort поверх внешнего сервиса снятия
// документов. Снятие паспорта дома - долгая операция, отсюда щедрый таймаут
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

type captureRequest struct {
	Kind    string `json:"kind"`
	Link    string `json:"link"`
	Address string `json:"address"`
}

type captureResponse struct {
	Path string `json:"path"`
}

// Capture запрашивает снятие документа и возвращает путь к готовому файлу
func (c *Client) Capture(ctx context.Context, kind, portalLink, address string) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DocCaptureClient",
		"kind":      kind,
	})

	payload, err := json.Marshal(captureRequest{Kind: kind, Link: portalLink, Address: address})
	if err != nil {
		return "", fmt.Errorf("failed to marshal capture request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/capture", c.baseURL)
	logger.Debug("Sending request to doc-capture service", port.Fields{"url": url})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Failed to perform request to doc-capture service", err, nil)
		return "", &domain.UpstreamError{Service: "doc-capture", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		err := fmt.Errorf("doc-capture returned status %d: %s", resp.StatusCode, string(bodyBytes))
		logger.Error("Received error response from doc-capture service", err, port.Fields{"status_code": resp.StatusCode})
		return "", &domain.UpstreamError{Service: "doc-capture", StatusCode: resp.StatusCode, Err: err}
	}

	var result captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		logger.Error("Failed to decode response from doc-capture service", err, nil)
		return "", fmt.Errorf("failed to decode capture response: %w", err)
	}

	logger.Info("Document captured", port.Fields{"path": result.Path})
	return result.Path, nil
}
