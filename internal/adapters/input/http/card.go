package http

import "llm-chat-bot/internal/domain"

const (
	adaptiveCardSchema  = "http://adaptivecards.io/schemas/adaptive-card.json"
	adaptiveCardVersion = "1.3"
)

type (
	// AdaptiveCard struct - Adaptive Card payload for chat clients that render cards
	AdaptiveCard struct {
		Type    string         `json:"type"`
		Schema  string         `json:"$schema"`
		Version string         `json:"version"`
		Body    []interface{}  `json:"body"`
		Actions []ActionSubmit `json:"actions"`
	}

	// TextBlock struct
	TextBlock struct {
		Type     string `json:"type"`
		Text     string `json:"text"`
		Weight   string `json:"weight,omitempty"`
		Size     string `json:"size,omitempty"`
		Wrap     bool   `json:"wrap,omitempty"`
		IsSubtle bool   `json:"isSubtle,omitempty"`
	}

	// ColumnSet struct
	ColumnSet struct {
		Type    string   `json:"type"`
		Columns []Column `json:"columns"`
	}

	// Column struct
	Column struct {
		Type  string        `json:"type"`
		Width int           `json:"width"`
		Items []interface{} `json:"items"`
	}

	// ChoiceSet struct - Input.ChoiceSet element
	ChoiceSet struct {
		Type          string       `json:"type"`
		ID            string       `json:"id"`
		IsMultiSelect bool         `json:"isMultiSelect"`
		Style         string       `json:"style,omitempty"`
		Value         string       `json:"value"`
		Choices       []CardChoice `json:"choices"`
	}

	// CardChoice struct
	CardChoice struct {
		Title string `json:"title"`
		Value string `json:"value"`
	}

	// ActionSubmit struct - Action.Submit element
	ActionSubmit struct {
		Type  string            `json:"type"`
		Title string            `json:"title"`
		Data  map[string]string `json:"data"`
	}
)

// NewAdaptiveCard renders the config form as an adaptive card. Submitting it posts the
// choice set values together with the callback keyword.
func NewAdaptiveCard(form *domain.ConfigForm) *AdaptiveCard {
	header := singleColumn(
		TextBlock{Type: "TextBlock", Text: form.Title, Weight: "Bolder", Size: "Medium"},
		TextBlock{Type: "TextBlock", Text: form.Subtitle, Wrap: true, IsSubtle: true},
	)

	models := singleColumn(
		TextBlock{Type: "TextBlock", Text: "LLM Model:", Wrap: true},
		ChoiceSet{
			Type:    "Input.ChoiceSet",
			ID:      domain.FormFieldModel,
			Value:   form.SelectedModel,
			Choices: cardChoices(form.ModelChoices),
		},
	)

	temperature := singleColumn(
		TextBlock{Type: "TextBlock", Text: "Temperature:", Wrap: true},
		ChoiceSet{
			Type:    "Input.ChoiceSet",
			ID:      domain.FormFieldTemperature,
			Style:   "compact",
			Value:   form.SelectedTemperature,
			Choices: cardChoices(form.TemperatureChoices),
		},
	)

	return &AdaptiveCard{
		Type:    "AdaptiveCard",
		Schema:  adaptiveCardSchema,
		Version: adaptiveCardVersion,
		Body:    []interface{}{header, models, temperature},
		Actions: []ActionSubmit{
			{
				Type:  "Action.Submit",
				Title: "Submit",
				Data:  map[string]string{"callback_keyword": form.CallbackKeyword},
			},
		},
	}
}

func singleColumn(items ...interface{}) ColumnSet {
	return ColumnSet{
		Type:    "ColumnSet",
		Columns: []Column{{Type: "Column", Width: 2, Items: items}},
	}
}

func cardChoices(choices []domain.Choice) []CardChoice {
	out := make([]CardChoice, 0, len(choices))
	for _, c := range choices {
		out = append(out, CardChoice{Title: c.Title, Value: c.Value})
	}
	return out
}
