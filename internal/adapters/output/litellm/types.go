package litellm

// API request/response structures for the LiteLLM gateway and the Ollama backend

// modelsResponse represents the response from the /models endpoint
type modelsResponse struct {
	Data []struct {
		ID      *string `json:"id"`
		Object  string  `json:"object"`
		OwnedBy string  `json:"owned_by"`
	} `json:"data"`
}

// modelInfoResponse represents the response from the /model/info endpoint
type modelInfoResponse struct {
	Data []modelInfoEntry `json:"data"`
}

// modelInfoEntry is one deployment reported by /model/info
type modelInfoEntry struct {
	ModelName     *string                `json:"model_name"`
	LiteLLMParams map[string]interface{} `json:"litellm_params"`
	ModelInfo     map[string]interface{} `json:"model_info"`
}

// showRequest is the body of an Ollama /api/show call
type showRequest struct {
	Model string `json:"model"`
}

// showResponse represents the subset of an Ollama /api/show response used here
type showResponse struct {
	ModelInfo map[string]interface{} `json:"model_info"`
}

// chatMessageAPI represents a message in the API request
type chatMessageAPI struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionAPIRequest represents the request body for chat completions
type chatCompletionAPIRequest struct {
	Model       string           `json:"model"`
	Messages    []chatMessageAPI `json:"messages"`
	Stream      bool             `json:"stream"`
	Temperature *float64         `json:"temperature,omitempty"`
}

// chatCompletionAPIResponse represents the response from non-streaming chat completions
type chatCompletionAPIResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}
