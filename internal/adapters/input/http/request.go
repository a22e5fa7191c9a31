package http

type (
	// ChatRequest struct - HTTP request DTO for a chat prompt.
	// An empty prompt asks for the config form.
	ChatRequest struct {
		Prompt    string `json:"prompt" validate:"max=4000" form:"prompt"`
		SessionID string `json:"session_id" validate:"omitempty,max=255,session_key" form:"session_id"`
	}

	// ConfigRequest struct - HTTP request DTO for a config form submission.
	// Field names follow the adaptive card inputs.
	ConfigRequest struct {
		CallbackKeyword string `json:"callback_keyword" validate:"required,eq=llm_callback" form:"callback_keyword"`
		LLMModel        string `json:"llm_model" validate:"omitempty,max=255" form:"llm_model"`
		Temperature     string `json:"temperature" validate:"omitempty,max=32" form:"temperature"`
	}

	// ModelInfoRequest struct - HTTP query DTO for model details
	ModelInfoRequest struct {
		Name string `json:"name" validate:"required" query:"name"`
	}
)
