package litellm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"llm-chat-bot/internal/domain"

	"github.com/sirupsen/logrus"
)

// Retry configuration constants
const (
	initialDelay      = 1 * time.Second
	maxDelay          = 30 * time.Second
	backoffMultiplier = 2
)

// ChatCompletion sends a non-streaming chat completion request through the gateway.
// Transient failures (network errors, 5xx) are retried with exponential backoff up to
// the configured number of retries; 4xx responses fail immediately with ErrInvalidRequest.
func (a *LiteLLMClientAdapter) ChatCompletion(ctx context.Context, request domain.ChatCompletionRequest) (*domain.ChatCompletionResponse, error) {
	if request.Model == "" {
		return nil, fmt.Errorf("%w: model is required", domain.ErrInvalidRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, a.chatTimeout)
	defer cancel()

	// Build request body
	reqBody := chatCompletionAPIRequest{
		Model:       request.Model,
		Messages:    make([]chatMessageAPI, len(request.Messages)),
		Stream:      false,
		Temperature: request.Temperature,
	}

	for i, msg := range request.Messages {
		reqBody.Messages[i] = chatMessageAPI{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
	}

	// Marshal request body
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/chat/completions", a.baseURL)

	// Execute request with retry
	resp, err := a.retryWithBackoff(ctx, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		a.setHeaders(req)
		return a.httpClient.Do(req)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send chat completion request: %w", err)
	}
	defer resp.Body.Close()

	// Parse response
	var apiResp chatCompletionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: failed to parse chat completion response: %v", domain.ErrMalformedResponse, err)
	}

	// Extract content from choices
	if len(apiResp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in response", domain.ErrMalformedResponse)
	}

	response := &domain.ChatCompletionResponse{
		Content:          apiResp.Choices[0].Message.Content,
		Model:            apiResp.Model,
		PromptTokens:     apiResp.Usage.PromptTokens,
		CompletionTokens: apiResp.Usage.CompletionTokens,
		TotalTokens:      apiResp.Usage.TotalTokens,
	}

	logrus.Infof("Chat completion successful, model: %s, tokens: %d", response.Model, response.TotalTokens)

	return response, nil
}

// retryWithBackoff executes an operation with exponential backoff retry logic
func (a *LiteLLMClientAdapter) retryWithBackoff(ctx context.Context, operation func() (*http.Response, error)) (*http.Response, error) {
	var lastErr error
	delay := a.initialDelay
	maxAttempts := a.maxRetries + 1

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := operation()

		if err != nil {
			if !isTransientError(err, 0) {
				return nil, classifyTransportError(err)
			}
			lastErr = classifyTransportError(err)
			logrus.Warnf("LiteLLM request attempt %d/%d failed with error: %v", attempt, maxAttempts, err)
		} else if resp != nil {
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return resp, nil
			}

			body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
			resp.Body.Close()

			// Don't retry on 4xx client errors
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return nil, fmt.Errorf("%w: status %d - %s", domain.ErrInvalidRequest, resp.StatusCode, strings.TrimSpace(string(body)))
			}

			lastErr = fmt.Errorf("%w: status %d - %s", domain.ErrGatewayUnreachable, resp.StatusCode, strings.TrimSpace(string(body)))
			if !isTransientError(nil, resp.StatusCode) {
				return nil, lastErr
			}
			logrus.Warnf("LiteLLM request attempt %d/%d failed with status %d", attempt, maxAttempts, resp.StatusCode)
		}

		// Check context before sleeping
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return nil, classifyTransportError(ctx.Err())
			case <-time.After(delay):
			}

			delay = delay * backoffMultiplier
			if delay > a.maxDelay {
				delay = a.maxDelay
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", lastErr, maxAttempts)
}

// isTransientError determines if an error or status code is transient and should be retried
func isTransientError(err error, statusCode int) bool {
	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	if err == nil {
		return false
	}

	// The overall deadline is spent; another attempt cannot succeed
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection refused", "connection reset", "no such host", "network is unreachable", "eof"} {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
