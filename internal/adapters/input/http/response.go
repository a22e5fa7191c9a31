package http

import (
	"net/http"

	"llm-chat-bot/internal/domain"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// BadRequest response
	BadRequest = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
	// ServiceUnavailable response
	ServiceUnavailable = Status{Code: http.StatusServiceUnavailable, Message: []string{"Sorry, The model gateway is not reachable"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Status struct
type Status struct {
	Code    int      `json:"code,omitempty"`
	Message []string `json:"message,omitempty"`
}

type (
	// ChatResponse struct - HTTP response DTO for a command reply
	ChatResponse struct {
		Level string        `json:"level"`
		Text  string        `json:"text,omitempty"`
		Card  *AdaptiveCard `json:"card,omitempty"`
	}

	// HealthResponse struct - HTTP response DTO for the health check
	HealthResponse struct {
		Gateway          string `json:"gateway"`
		GatewayReachable bool   `json:"gateway_reachable"`
		Database         string `json:"database,omitempty"`
	}

	// ModelsResponse struct - HTTP response DTO for the model list
	ModelsResponse struct {
		Models      []string `json:"models"`
		Model       string   `json:"model"`
		Temperature string   `json:"temperature"`
	}

	// ModelInfoResponse struct - HTTP response DTO for model details
	ModelInfoResponse struct {
		Name string           `json:"name"`
		Info domain.ModelInfo `json:"info"`
	}
)

// newChatResponse converts a command reply, rendering forms as adaptive cards
func newChatResponse(reply *domain.Reply) ChatResponse {
	resp := ChatResponse{
		Level: string(reply.Level),
		Text:  reply.Text,
	}
	if reply.Form != nil {
		resp.Card = NewAdaptiveCard(reply.Form)
	}
	return resp
}
