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
	"net/url"
	"slices"
	"strings"
	"time"

	"llm-chat-bot/configs"
	"llm-chat-bot/internal/domain"
	"llm-chat-bot/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time checks to ensure LiteLLMClientAdapter implements the gateway ports
var (
	_ output.ModelGateway = (*LiteLLMClientAdapter)(nil)
	_ output.ChatModel    = (*LiteLLMClientAdapter)(nil)
)

// Default connection settings
const (
	defaultBaseURL             = "http://apollo.home:4000"
	defaultReachabilityTimeout = 3 * time.Second
	defaultTimeout             = 10 * time.Second
	defaultChatTimeout         = 120 * time.Second
	defaultMaxRetries          = 2

	// errorBodyLimit caps how much of an error response body ends up in logs
	errorBodyLimit = 512
)

// LiteLLMClientAdapter struct - Output adapter for a LiteLLM model gateway.
// Holds no per-call state: the model list and model info are fetched on every call.
type LiteLLMClientAdapter struct {
	httpClient          *http.Client
	baseURL             string
	apiKey              string
	reachabilityTimeout time.Duration
	timeout             time.Duration
	chatTimeout         time.Duration
	maxRetries          int

	// retry backoff, overridable in tests
	initialDelay time.Duration
	maxDelay     time.Duration
}

// NewLiteLLMClientAdapter func - Creates new LiteLLM client adapter
func NewLiteLLMClientAdapter(config configs.LiteLLM) (*LiteLLMClientAdapter, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// Remove trailing slash if present
	baseURL = strings.TrimRight(baseURL, "/")

	if u, err := url.ParseRequestURI(baseURL); err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid LiteLLM base URL %q", config.BaseURL)
	}

	adapter := &LiteLLMClientAdapter{
		httpClient: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   30 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:             baseURL,
		apiKey:              config.APIKey,
		reachabilityTimeout: secondsOrDefault(config.ReachabilityTimeout, defaultReachabilityTimeout),
		timeout:             secondsOrDefault(config.Timeout, defaultTimeout),
		chatTimeout:         secondsOrDefault(config.ChatTimeout, defaultChatTimeout),
		maxRetries:          config.MaxRetries,
		initialDelay:        initialDelay,
		maxDelay:            maxDelay,
	}
	if config.MaxRetries <= 0 {
		adapter.maxRetries = defaultMaxRetries
	}

	logrus.Infof("LiteLLM client adapter initialized with base URL: %s, timeout: %v", baseURL, adapter.timeout)

	return adapter, nil
}

func secondsOrDefault(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

// BaseURL returns the gateway base URL
func (a *LiteLLMClientAdapter) BaseURL() string {
	return a.baseURL
}

// IsReachable issues GET to the base URL and reports whether the gateway answered HTTP 200.
// A non-positive timeout selects the configured reachability timeout.
func (a *LiteLLMClientAdapter) IsReachable(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = a.reachabilityTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
	if err != nil {
		logrus.Warnf("LiteLLM is not reachable: %v", err)
		return false
	}
	a.setHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		logrus.Warnf("LiteLLM is not reachable: %v", classifyTransportError(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyLimit))

	if resp.StatusCode != http.StatusOK {
		logrus.Warnf("LiteLLM is not reachable: unexpected status code: %d", resp.StatusCode)
		return false
	}

	return true
}

// ListModels queries {base}/models and returns the model ids in response order.
// Any failure is logged and yields an empty list.
func (a *LiteLLMClientAdapter) ListModels(ctx context.Context) []string {
	models, err := a.fetchModels(ctx)
	if err != nil {
		logrus.Errorf("[Model List Error] %v", err)
		return []string{}
	}

	logrus.Debugf("Listed %d models from LiteLLM", len(models))

	return models
}

// IsAvailable reports whether the model is in the live model list
func (a *LiteLLMClientAdapter) IsAvailable(ctx context.Context, name string) bool {
	return slices.Contains(a.ListModels(ctx), name)
}

// GetModelInfo looks the model up in {base}/model/info and returns its metadata.
// Models served by a self-hosted Ollama backend are resolved through the backend itself.
// Any failure, including an unknown model, yields an empty mapping.
func (a *LiteLLMClientAdapter) GetModelInfo(ctx context.Context, name string) domain.ModelInfo {
	info, err := a.fetchModelInfo(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrModelNotFound) {
			logrus.Debugf("No model info for %s: %v", name, err)
		} else {
			logrus.Errorf("[Model Detail Error] %v", err)
		}
		return domain.ModelInfo{}
	}
	return info
}

// GetBackendModelInfo asks the Ollama backend at params["api_base"] for the model's metadata.
// Returns an empty mapping without issuing a request when api_base is missing.
func (a *LiteLLMClientAdapter) GetBackendModelInfo(ctx context.Context, name string, params map[string]interface{}) domain.ModelInfo {
	info, err := a.fetchBackendModelInfo(ctx, name, params)
	if err != nil {
		logrus.Errorf("[Model Detail Error] %v", err)
		return domain.ModelInfo{}
	}
	return info
}

// fetchModels returns the model ids or a classified error
func (a *LiteLLMClientAdapter) fetchModels(ctx context.Context) ([]string, error) {
	var resp modelsResponse
	if err := a.doJSON(ctx, http.MethodGet, a.baseURL+"/models", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	models := make([]string, 0, len(resp.Data))
	for i, m := range resp.Data {
		if m.ID == nil {
			return nil, fmt.Errorf("%w: model entry %d has no id", domain.ErrMalformedResponse, i)
		}
		models = append(models, *m.ID)
	}

	return models, nil
}

// fetchModelInfo returns the model's metadata or a classified error
func (a *LiteLLMClientAdapter) fetchModelInfo(ctx context.Context, name string) (domain.ModelInfo, error) {
	var resp modelInfoResponse
	if err := a.doJSON(ctx, http.MethodGet, a.baseURL+"/model/info", nil, &resp, true); err != nil {
		return nil, fmt.Errorf("failed to get model info: %w", err)
	}

	for i, entry := range resp.Data {
		if entry.ModelName == nil {
			return nil, fmt.Errorf("%w: model info entry %d has no model_name", domain.ErrMalformedResponse, i)
		}
		if *entry.ModelName != name {
			continue
		}

		if domain.IsOllamaModel(name) {
			return a.fetchBackendModelInfo(ctx, name, entry.LiteLLMParams)
		}

		if entry.ModelInfo == nil {
			return domain.ModelInfo{}, nil
		}
		return entry.ModelInfo, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
}

// fetchBackendModelInfo posts the bare model name to {api_base}/api/show
func (a *LiteLLMClientAdapter) fetchBackendModelInfo(ctx context.Context, name string, params map[string]interface{}) (domain.ModelInfo, error) {
	apiBase, _ := params["api_base"].(string)
	if apiBase == "" {
		return domain.ModelInfo{}, nil
	}

	var resp showResponse
	showURL := strings.TrimRight(apiBase, "/") + "/api/show"
	if err := a.doJSON(ctx, http.MethodPost, showURL, showRequest{Model: domain.BareModelName(name)}, &resp, false); err != nil {
		return nil, fmt.Errorf("failed to get backend model info: %w", err)
	}

	if resp.ModelInfo == nil {
		return nil, fmt.Errorf("%w: backend response has no model_info", domain.ErrMalformedResponse)
	}

	return resp.ModelInfo, nil
}

// doJSON performs a single request bounded by the data timeout and decodes a JSON body into out
func (a *LiteLLMClientAdapter) doJSON(ctx context.Context, method, endpoint string, payload, out interface{}, withAuth bool) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		bodyBytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", domain.ErrGatewayUnreachable, err)
	}
	if withAuth {
		a.setHeaders(req)
	} else {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return fmt.Errorf("%w: %s %s returned status %d - %s",
			domain.ErrGatewayUnreachable, method, endpoint, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return classifyTransportError(ctx.Err())
		}
		return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	return nil
}

// setHeaders adds the JSON content type and the bearer credential
func (a *LiteLLMClientAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
}

// classifyTransportError maps a transport failure to a gateway error kind
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrGatewayTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrGatewayTimeout, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrGatewayUnreachable, err)
}
