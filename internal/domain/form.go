package domain

// ConfigCallbackKeyword identifies submissions of the model configuration form
const ConfigCallbackKeyword = "llm_callback"

// PostbackCallbackKey names the postback field carrying the callback keyword
const PostbackCallbackKey = "callback"

// Form field identifiers submitted back to the config callback
const (
	FormFieldModel       = "llm_model"
	FormFieldTemperature = "temperature"
)

// Choice is a single selectable option of a form field
type Choice struct {
	Title string
	Value string
}

// TemperatureChoices are the fixed sampling temperatures offered by the config form
var TemperatureChoices = []Choice{
	{Title: "0.0 (Deterministic)", Value: "0.0"},
	{Title: "0.2", Value: "0.2"},
	{Title: "0.5", Value: "0.5"},
	{Title: "0.7 (Balanced)", Value: "0.7"},
	{Title: "1.0 (Creative)", Value: "1.0"},
}

// ConfigForm is the platform-neutral description of the model configuration form.
// Messaging adapters render it into their own card format.
type ConfigForm struct {
	Title               string
	Subtitle            string
	ModelChoices        []Choice
	SelectedModel       string
	TemperatureChoices  []Choice
	SelectedTemperature string
	CallbackKeyword     string
}

// NewConfigForm builds the config form from the live model list and the current settings.
// The configured model is preselected only when it is still offered by the gateway.
func NewConfigForm(models []string, settings ModelSettings) *ConfigForm {
	form := &ConfigForm{
		Title:               "LLM Chat Config",
		Subtitle:            "Fill out the form and click submit.",
		ModelChoices:        make([]Choice, 0, len(models)),
		TemperatureChoices:  append([]Choice(nil), TemperatureChoices...),
		SelectedTemperature: settings.Temperature,
		CallbackKeyword:     ConfigCallbackKeyword,
	}

	for _, model := range models {
		form.ModelChoices = append(form.ModelChoices, Choice{Title: model, Value: model})
		if model == settings.Model {
			form.SelectedModel = model
		}
	}

	return form
}
